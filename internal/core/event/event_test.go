package event

import (
	"testing"

	perr "toxicbot/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_IssueComment(t *testing.T) {
	d, err := Normalize(IssueComment, []byte(`{
		"action": "created",
		"issue": {"number": 12, "body": "issue text"},
		"comment": {"id": 555, "body": "comment text"},
		"repository": {"full_name": "octocat/Hello-World"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "created", d.Action)
	assert.Equal(t, "octocat/Hello-World", d.Repo)
	assert.Equal(t, 12, d.Number)
	assert.Equal(t, "comment text", d.Body.MustGet())
	assert.Equal(t, int64(555), d.CommentID.MustGet())
	assert.NotEmpty(t, d.Raw)
}

func TestNormalize_ReviewCommentNumberResolution(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"pull request", `{"pull_request":{"number":7},"issue":{"number":8},"number":9,"comment":{"id":1,"body":"x"}}`, 7},
		{"issue fallback", `{"issue":{"number":8},"number":9,"comment":{"id":1,"body":"x"}}`, 8},
		{"top level fallback", `{"number":9,"comment":{"id":1,"body":"x"}}`, 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := Normalize(PullRequestReviewComment, []byte(c.raw))
			require.NoError(t, err)
			assert.Equal(t, c.want, d.Number)
		})
	}
}

func TestNormalize_ReviewNullBodyAndChanges(t *testing.T) {
	d, err := Normalize(PullRequestReview, []byte(`{
		"action": "submitted",
		"review": {"id": 3, "body": null},
		"pull_request": {"number": 4},
		"repository": {"full_name": "a/b"}
	}`))
	require.NoError(t, err)
	assert.True(t, d.Body.IsAbsent())
	assert.Equal(t, int64(3), d.CommentID.MustGet())
	assert.Empty(t, d.ChangedFields)

	d, err = Normalize(PullRequestReview, []byte(`{
		"action": "edited",
		"changes": {"body": {"from": "old"}},
		"review": {"id": 3, "body": "new"},
		"pull_request": {"number": 4},
		"repository": {"full_name": "a/b"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"body"}, d.ChangedFields)
	assert.Equal(t, "new", d.Body.MustGet())
}

func TestNormalize_NullIssueAndPRBodiesBecomeEmpty(t *testing.T) {
	d, err := Normalize(Issues, []byte(`{"action":"opened","issue":{"number":1,"body":null},"repository":{"full_name":"a/b"}}`))
	require.NoError(t, err)
	assert.Equal(t, "", d.Body.MustGet())

	d, err = Normalize(PullRequest, []byte(`{"action":"edited","number":2,"pull_request":{"number":2},"repository":{"full_name":"a/b"}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Number)
	assert.True(t, d.Body.IsPresent())
	assert.Equal(t, "", d.Body.OrEmpty())
}

func TestNormalize_UnknownEventKeepsNumber(t *testing.T) {
	d, err := Normalize("star", []byte(`{"action":"created","repository":{"full_name":"a/b"}}`))
	require.NoError(t, err)
	assert.Equal(t, "star", d.EventName)
	assert.True(t, d.Body.IsAbsent())
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize(Issues, []byte(`{nope`))
	assert.Equal(t, perr.ErrorCodeJSON, perr.CodeOf(err))
}

func TestFromDispatch(t *testing.T) {
	raw := []byte(`{
		"action": "toxicity",
		"repository": {"full_name": "outer/repo"},
		"client_payload": {
			"event_name": "issue_comment",
			"action": "edited",
			"issue": {"number": 42},
			"comment": {"id": 9, "body": "forwarded"},
			"repository": {"full_name": "octocat/Hello-World"}
		}
	}`)
	d, err := Normalize(RepositoryDispatch, raw)
	require.NoError(t, err)
	assert.Equal(t, IssueComment, d.EventName)
	assert.Equal(t, "edited", d.Action)
	assert.Equal(t, "octocat/Hello-World", d.Repo)
	assert.Equal(t, 42, d.Number)
	assert.Equal(t, "forwarded", d.Body.MustGet())
	assert.Contains(t, string(d.Raw), `"event_name"`)
}

func TestFromDispatch_OuterRepoFallbackAndErrors(t *testing.T) {
	d, err := FromDispatch([]byte(`{"repository":{"full_name":"outer/repo"},"client_payload":{"event_name":"issues","action":"closed","issue":{"number":3}}}`))
	require.NoError(t, err)
	assert.Equal(t, "outer/repo", d.Repo)

	_, err = FromDispatch([]byte(`{"repository":{"full_name":"outer/repo"}}`))
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))

	_, err = FromDispatch([]byte(`{"client_payload": 5}`))
	assert.Equal(t, perr.ErrorCodeJSON, perr.CodeOf(err))
}

func TestKnown(t *testing.T) {
	for _, name := range []string{IssueComment, PullRequestReviewComment, PullRequestReview, Issues, PullRequest, RepositoryDispatch} {
		if !Known(name) {
			t.Fatalf("%s should be known", name)
		}
	}
	for _, name := range []string{"", "star", "organization", "Issues"} {
		if Known(name) {
			t.Fatalf("%q should not be known", name)
		}
	}
}
