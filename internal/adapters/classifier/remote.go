package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"toxicbot/internal/core/command"
	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/net/httpclient"
)

// RemoteOptions configures NewRemote
type RemoteOptions struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	HTTP       *http.Client
}

// Remote posts texts to a scoring service
//
//	request:  {"texts": [...], "categories": [...], "threshold": 0.8}
//	response: {"results": [[{"category": "insult", "score": 0.93}, ...], ...]}
//
// Matches are recomputed locally so every backend shares one match rule
type Remote struct {
	url  string
	http *http.Client
}

type remoteRequest struct {
	Texts      []string `json:"texts"`
	Categories []string `json:"categories"`
	Threshold  float64  `json:"threshold"`
}

type remoteScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

type remoteResponse struct {
	Results [][]remoteScore `json:"results"`
}

// NewRemote validates the endpoint
func NewRemote(o RemoteOptions) (*Remote, error) {
	u, err := url.Parse(o.URL)
	if o.URL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return nil, perr.WithField(perr.InvalidArgf("remote classifier needs an absolute url, got %q", o.URL), "CLASSIFIER_URL")
	}
	hc := o.HTTP
	if hc == nil {
		hc = httpclient.New(httpclient.Options{Name: "classifier", Timeout: o.Timeout, MaxRetries: o.MaxRetries})
	}
	return &Remote{url: u.String(), http: hc}, nil
}

// Classify scores texts remotely
func (r *Remote) Classify(ctx context.Context, texts, categories []string, threshold float64) ([][]command.Prediction, error) {
	body, err := json.Marshal(remoteRequest{Texts: texts, Categories: categories, Threshold: threshold})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode classifier request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build classifier request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err := httpclient.Check(resp, err, "classifier"); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out remoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeRejected, "classifier sent an unreadable body")
	}
	if len(out.Results) != len(texts) {
		return nil, perr.Rejectedf("classifier returned %d results for %d texts", len(out.Results), len(texts))
	}

	preds := make([][]command.Prediction, len(texts))
	for i, row := range out.Results {
		scores := make(map[string]float64, len(row))
		for _, s := range row {
			scores[s.Category] = s.Score
		}
		p, err := predictions(categories, scores, threshold)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeRejected, "classifier result %d", i)
		}
		preds[i] = p
	}
	return preds, nil
}
