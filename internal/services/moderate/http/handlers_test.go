package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"toxicbot/internal/core/event"
	perr "toxicbot/internal/platform/errors"
	phttp "toxicbot/internal/platform/net/http"
	"toxicbot/internal/platform/net/middleware"
	"toxicbot/internal/services/moderate/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSvc struct {
	got     []event.Descriptor
	checked []string
	err     error
}

func (f *fakeSvc) Process(_ context.Context, d event.Descriptor) (domain.Outcome, error) {
	f.got = append(f.got, d)
	if f.err != nil {
		return domain.Outcome{}, f.err
	}
	return domain.Outcome{Kind: "ToxicityCheck", Location: "Comment", Trigger: "Create", Logged: true}, nil
}

func (f *fakeSvc) Check(_ context.Context, text string) (domain.CheckResult, error) {
	f.checked = append(f.checked, text)
	return domain.CheckResult{IsToxic: true, Threshold: 0.8}, nil
}

func newServer(svc domain.ServicePort) stdhttp.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Delivery)
	r := phttp.AdaptChi(mux)
	Register(r, svc)
	return mux
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var env phttp.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

const commentPayload = `{
	"action": "created",
	"repository": {"full_name": "octocat/Hello-World"},
	"issue": {"number": 7, "body": "issue body"},
	"comment": {"id": 99, "body": "nice work"}
}`

func TestEvents_NormalizesAndProcesses(t *testing.T) {
	svc := &fakeSvc{}
	rr, env := do(t, newServer(svc), stdhttp.MethodPost, "/events", commentPayload, map[string]string{
		EventHeader:         "issue_comment",
		"X-GitHub-Delivery": "d-42",
	})

	assert.Equal(t, stdhttp.StatusOK, rr.Code)
	assert.Equal(t, "d-42", env.DeliveryID)
	require.Len(t, svc.got, 1)

	d := svc.got[0]
	assert.Equal(t, "issue_comment", d.EventName)
	assert.Equal(t, "created", d.Action)
	assert.Equal(t, "octocat/Hello-World", d.Repo)
	assert.Equal(t, 7, d.Number)
	assert.Equal(t, "nice work", d.Body.OrEmpty())
	assert.Equal(t, int64(99), d.CommentID.OrEmpty())
	assert.Equal(t, "d-42", d.DeliveryID)
}

func TestEvents_UnwrapsRepositoryDispatch(t *testing.T) {
	svc := &fakeSvc{}
	body := `{
		"action": "toxicity",
		"repository": {"full_name": "octocat/Hello-World"},
		"client_payload": {
			"event_name": "issues",
			"action": "opened",
			"issue": {"number": 3, "body": "hello"}
		}
	}`
	rr, _ := do(t, newServer(svc), stdhttp.MethodPost, "/events", body, map[string]string{EventHeader: "repository_dispatch"})

	assert.Equal(t, stdhttp.StatusOK, rr.Code)
	require.Len(t, svc.got, 1)
	assert.Equal(t, "issues", svc.got[0].EventName)
	assert.Equal(t, "opened", svc.got[0].Action)
	assert.Equal(t, "octocat/Hello-World", svc.got[0].Repo)
	assert.Equal(t, 3, svc.got[0].Number)
}

func TestEvents_MissingHeader(t *testing.T) {
	svc := &fakeSvc{}
	rr, env := do(t, newServer(svc), stdhttp.MethodPost, "/events", commentPayload, nil)

	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, env.Code)
	assert.Equal(t, EventHeader, env.Field)
	assert.Empty(t, svc.got)
}

func TestEvents_BadPayload(t *testing.T) {
	rr, env := do(t, newServer(&fakeSvc{}), stdhttp.MethodPost, "/events", `{"action":`, map[string]string{EventHeader: "issues"})
	assert.Equal(t, stdhttp.StatusBadRequest, rr.Code)
	assert.Equal(t, perr.ErrorCodeJSON, env.Code)
}

func TestEvents_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.Newf(perr.ErrorCodeUnrecognized, "unrecognized event star/created"), stdhttp.StatusUnprocessableEntity},
		{perr.Newf(perr.ErrorCodeValidation, "repo must be an owner/name repository slug"), stdhttp.StatusBadRequest},
		{perr.New(perr.ErrorCodeUnavailable, "survey unreachable"), stdhttp.StatusServiceUnavailable},
		{perr.Rejectedf("survey rejected"), stdhttp.StatusBadGateway},
	}
	for _, c := range cases {
		t.Run(perr.CodeOf(c.err).String(), func(t *testing.T) {
			rr, env := do(t, newServer(&fakeSvc{err: c.err}), stdhttp.MethodPost, "/events", commentPayload,
				map[string]string{EventHeader: "issue_comment"})
			assert.Equal(t, c.want, rr.Code)
			assert.Equal(t, perr.CodeOf(c.err), env.Code)
		})
	}
}

func TestCheck(t *testing.T) {
	svc := &fakeSvc{}
	rr, env := do(t, newServer(svc), stdhttp.MethodPost, "/check", `{"text":"you idiot"}`, nil)
	assert.Equal(t, stdhttp.StatusOK, rr.Code)
	assert.Equal(t, []string{"you idiot"}, svc.checked)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["is_toxic"])
}

func TestCheck_Validation(t *testing.T) {
	svc := &fakeSvc{}
	rr, env := do(t, newServer(svc), stdhttp.MethodPost, "/check", `{"text":""}`, nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rr.Code)
	assert.Equal(t, "text", env.Field)

	big := `{"text":"` + strings.Repeat("a", 65537) + `"}`
	rr, _ = do(t, newServer(svc), stdhttp.MethodPost, "/check", big, nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.checked)
}

func TestVersion(t *testing.T) {
	rr, env := do(t, newServer(&fakeSvc{}), stdhttp.MethodGet, "/version", "", nil)
	assert.Equal(t, stdhttp.StatusOK, rr.Code)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "toxicbot", data["service"])
}
