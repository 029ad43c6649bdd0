// Package classifier provides the toxicity classifier backends: the embedded
// lexicon, a remote scoring service, and the Anthropic Messages API
package classifier

import (
	"fmt"
	"strings"
	"time"

	"toxicbot/internal/core/command"
	"toxicbot/internal/core/policy"
	perr "toxicbot/internal/platform/errors"
)

// Backend names accepted by New
const (
	KindLexicon   = "lexicon"
	KindRemote    = "remote"
	KindAnthropic = "anthropic"
)

// Options selects and configures a backend
type Options struct {
	Kind       string
	URL        string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// New returns the backend named by o.Kind; empty means lexicon
func New(o Options) (policy.Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(o.Kind)) {
	case "", KindLexicon:
		l, err := NewLexicon()
		if err != nil {
			return nil, err
		}
		return l, nil
	case KindRemote:
		r, err := NewRemote(RemoteOptions{URL: o.URL, Timeout: o.Timeout, MaxRetries: o.MaxRetries})
		if err != nil {
			return nil, err
		}
		return r, nil
	case KindAnthropic:
		a, err := NewAnthropic(AnthropicOptions{APIKey: o.APIKey, Model: o.Model, BaseURL: o.URL, Timeout: o.Timeout, MaxRetries: o.MaxRetries})
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, perr.WithField(perr.InvalidArgf("unknown classifier %q", o.Kind), "CLASSIFIER")
	}
}

// predictions orders scores by categories and applies the shared match rule.
// A category missing from scores is an error
func predictions(categories []string, scores map[string]float64, threshold float64) ([]command.Prediction, error) {
	out := make([]command.Prediction, 0, len(categories))
	for _, c := range categories {
		s, ok := scores[c]
		if !ok {
			return nil, fmt.Errorf("no score for category %q", c)
		}
		s = clamp(s)
		out = append(out, command.Prediction{Category: c, Score: s, Match: policy.Matches(s, threshold)})
	}
	return out, nil
}

func clamp(s float64) float64 {
	switch {
	case s < 0 || s != s:
		return 0
	case s > 1:
		return 1
	}
	return s
}
