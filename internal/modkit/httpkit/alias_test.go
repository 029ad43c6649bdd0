package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "toxicbot/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkIn struct {
	Text string `json:"text" validate:"required"`
}

// serve runs h once and decodes the envelope when there is a body
func serve(t *testing.T, h Handler, method, body string) (int, Envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/moderation/check", nil)
	} else {
		req = httptest.NewRequest(method, "/moderation/check", strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h(rr, req)

	var env Envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr.Code, env
}

func TestCall_ErrorCodesPickStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unrecognized", perr.Newf(perr.ErrorCodeUnrecognized, "issues/pinned"), http.StatusUnprocessableEntity},
		{"survey down", perr.New(perr.ErrorCodeUnavailable, "survey unreachable"), http.StatusServiceUnavailable},
		{"foreign error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.err
			code, env := serve(t, Call(func(*http.Request) (any, error) { return nil, err }), http.MethodGet, "")
			assert.Equal(t, c.want, code)
			assert.Equal(t, c.want, env.StatusCode)
			assert.Equal(t, http.StatusText(c.want), env.Status)
		})
	}
}

func TestCall_WrapsValuesAndPassesResponses(t *testing.T) {
	code, env := serve(t, Call(func(*http.Request) (any, error) {
		return map[string]string{"version": "dev"}, nil
	}), http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"version": "dev"}, env.Data)

	code, env = serve(t, Call(func(*http.Request) (any, error) {
		return Response{Status: http.StatusAccepted, Body: "logged"}, nil
	}), http.MethodGet, "")
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "logged", env.Data)

	code, env = serve(t, Call(func(*http.Request) (any, error) {
		return nil, perr.Rejectedf("github said no")
	}), http.MethodGet, "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, perr.ErrorCodeRejected, env.Code)
	assert.Equal(t, "github said no", env.Error)
}

func TestJSON_BindsBeforeHandler(t *testing.T) {
	var seen string
	h := JSON(func(_ *http.Request, in checkIn) (any, error) {
		seen = in.Text
		return map[string]bool{"is_toxic": strings.Contains(in.Text, "idiot")}, nil
	})

	code, env := serve(t, h, http.MethodPost, `{"text":"you idiot"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "you idiot", seen)
	assert.Equal(t, map[string]any{"is_toxic": true}, env.Data)
}

func TestJSON_BindFailuresSkipHandler(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		want  int
		code  perr.ErrorCode
		field string
	}{
		{"malformed", `{`, http.StatusBadRequest, perr.ErrorCodeJSON, ""},
		{"unknown field", `{"text":"hi","extra":1}`, http.StatusBadRequest, perr.ErrorCodeJSON, ""},
		{"empty text", `{"text":""}`, http.StatusBadRequest, perr.ErrorCodeValidation, "text"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := JSON(func(*http.Request, checkIn) (any, error) {
				t.Fatal("handler must not run")
				return nil, nil
			})
			code, env := serve(t, h, http.MethodPost, c.body)
			assert.Equal(t, c.want, code)
			assert.Equal(t, c.code, env.Code)
			assert.Equal(t, c.field, env.Field)
		})
	}
}
