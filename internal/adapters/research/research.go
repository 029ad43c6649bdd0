// Package research talks to the research study API: the command log sink and
// the toxicity survey service
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"toxicbot/internal/core/command"
	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
	"toxicbot/internal/platform/net/httpclient"
)

// DefaultBaseURL is the hosted research API
const DefaultBaseURL = "https://toxic.research.cassee.dev"

// Options configures the Client
type Options struct {
	BaseURL    string
	Key        string
	Timeout    time.Duration
	MaxRetries int
	// HTTP overrides the retrying client, mostly for tests
	HTTP *http.Client
}

// Client is the research API client. It implements the policy Surveys
// capability and the orchestrator's log sink
type Client struct {
	base *url.URL
	key  string
	http *http.Client
	log  *logger.Logger
}

// New validates o and returns a Client. The key is required: the API
// rejects every call without one
func New(o Options) (*Client, error) {
	if strings.TrimSpace(o.Key) == "" {
		return nil, perr.WithField(perr.InvalidArgf("research api key is required"), "LOG_KEY")
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(o.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, perr.WithField(perr.InvalidArgf("research base url %q is not absolute", o.BaseURL), "RESEARCH_URL")
	}
	hc := o.HTTP
	if hc == nil {
		hc = httpclient.New(httpclient.Options{Name: "research", Timeout: o.Timeout, MaxRetries: o.MaxRetries})
	}
	return &Client{base: u, key: o.Key, http: hc, log: logger.Named("research")}, nil
}

// LogCommand persists cmd for the repository slug
func (c *Client) LogCommand(ctx context.Context, slug string, cmd command.Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return perr.WithOp(perr.Wrap(err, perr.ErrorCodeJSON, "encode command"), "research.log")
	}
	resp, err := c.put(ctx, "/log", url.Values{"slug": {slug}}, body)
	if err := httpclient.Check(resp, err, "log api"); err != nil {
		return perr.WithOp(err, "research.log")
	}
	drain(resp.Body)
	c.log.Debug().Str("command_id", cmd.ID.String()).Str("repo", slug).Msg("logged processed command")
	return nil
}

type surveyResponse struct {
	URL string `json:"url"`
}

// SurveyURL creates (or fetches) the toxicity survey for a thread and returns its link
func (c *Client) SurveyURL(ctx context.Context, slug string, number int) (string, error) {
	q := url.Values{"slug": {slug}, "issue_number": {strconv.Itoa(number)}}
	resp, err := c.put(ctx, "/surveys/toxicity", q, []byte("{}"))
	if err := httpclient.Check(resp, err, "survey api"); err != nil {
		return "", perr.WithOp(err, "research.survey")
	}
	defer drain(resp.Body)

	var out surveyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return "", perr.WithOp(perr.Wrap(err, perr.ErrorCodeRejected, "survey api sent an unreadable body"), "research.survey")
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", perr.WithOp(perr.Rejectedf("survey api returned no url"), "research.survey")
	}
	return out.URL, nil
}

func (c *Client) put(ctx context.Context, path string, q url.Values, body []byte) (*http.Response, error) {
	u := *c.base
	u.Path += path
	q.Set("key", c.key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	_ = rc.Close()
}
