package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"toxicbot/internal/core/command"
	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

const scoringPrompt = `You rate comments posted on GitHub issues and pull requests for a moderation bot.
For the comment you are given, return only a JSON object of the form
{"scores": {"<category>": <probability between 0 and 1>, ...}}
with one entry for every requested category and nothing else.
Technical criticism of code is not toxic. Quoted text and code blocks count less than the author's own words.`

// AnthropicOptions configures NewAnthropic
type AnthropicOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// messenger is the slice of the SDK message service the backend calls
type messenger interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Anthropic asks a Claude model for per-category scores, one request per text
type Anthropic struct {
	msgs  messenger
	model anthropic.Model
	log   *logger.Logger
}

// NewAnthropic builds the SDK client; the API key is required
func NewAnthropic(o AnthropicOptions) (*Anthropic, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, perr.WithField(perr.InvalidArgf("anthropic classifier needs an api key"), "ANTHROPIC_API_KEY")
	}
	if o.Model == "" {
		o.Model = DefaultAnthropicModel
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(o.APIKey),
		option.WithMaxRetries(max(o.MaxRetries, 0)),
		option.WithRequestTimeout(o.Timeout),
	}
	if o.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(o.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return newAnthropic(&client.Messages, anthropic.Model(o.Model)), nil
}

func newAnthropic(m messenger, model anthropic.Model) *Anthropic {
	return &Anthropic{msgs: m, model: model, log: logger.Named("classifier.anthropic")}
}

type scoreReply struct {
	Scores map[string]float64 `json:"scores"`
}

// Classify scores texts one request at a time
func (a *Anthropic) Classify(ctx context.Context, texts, categories []string, threshold float64) ([][]command.Prediction, error) {
	out := make([][]command.Prediction, 0, len(texts))
	for i, text := range texts {
		scores, err := a.score(ctx, text, categories)
		if err != nil {
			return nil, perr.WithOp(err, fmt.Sprintf("anthropic.classify[%d]", i))
		}
		preds, err := predictions(categories, scores, threshold)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeRejected, "model reply")
		}
		out = append(out, preds)
	}
	return out, nil
}

func (a *Anthropic) score(ctx context.Context, text string, categories []string) (map[string]float64, error) {
	prompt := fmt.Sprintf("Categories: %s\n\nComment:\n<comment>\n%s\n</comment>", strings.Join(categories, ", "), text)
	msg, err := a.msgs.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   256,
		Temperature: anthropic.Float(0),
		System:      []anthropic.TextBlockParam{{Text: scoringPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	raw := extractObject(reply.String())
	if raw == "" {
		a.log.Warn().Str("model", string(a.model)).Msg("model reply carried no json object")
		return nil, perr.Rejectedf("model reply carried no json object")
	}
	var sr scoreReply
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeRejected, "model reply is not valid json")
	}
	return sr.Scores, nil
}

// extractObject returns the outermost {...} in s, tolerating prose or fences around it
func extractObject(s string) string {
	i := strings.IndexByte(s, '{')
	j := strings.LastIndexByte(s, '}')
	if i < 0 || j < i {
		return ""
	}
	return s[i : j+1]
}

func classifyAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return perr.Wrap(err, perr.ErrorCodeTooManyRequests, "anthropic rate limited")
		case apiErr.StatusCode >= 500:
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "anthropic unavailable")
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return perr.Wrap(err, perr.ErrorCodeUnauthorized, "anthropic refused credentials")
		default:
			return perr.Wrap(err, perr.ErrorCodeRejected, "anthropic rejected request")
		}
	}
	return perr.Wrap(err, perr.ErrorCodeUnavailable, "anthropic unreachable")
}
