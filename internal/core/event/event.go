// Package event normalizes raw webhook payloads into one Descriptor shape
//
// The classifier only ever sees a Descriptor, so each payload shape is read
// here exactly once and nowhere else.
package event

import (
	"encoding/json"
	"sort"

	perr "toxicbot/internal/platform/errors"
	str "toxicbot/internal/platform/strings"

	"github.com/samber/mo"
)

// Event names understood by Normalize
const (
	IssueComment             = "issue_comment"
	PullRequestReviewComment = "pull_request_review_comment"
	PullRequestReview        = "pull_request_review"
	Issues                   = "issues"
	PullRequest              = "pull_request"
	RepositoryDispatch       = "repository_dispatch"
)

// Known reports whether name is one of the event names above
func Known(name string) bool {
	switch name {
	case IssueComment, PullRequestReviewComment, PullRequestReview, Issues, PullRequest, RepositoryDispatch:
		return true
	}
	return false
}

// Descriptor is the normalized view of one webhook delivery
type Descriptor struct {
	EventName string `json:"event_name" validate:"required"`
	Action    string `json:"action"`
	Repo      string `json:"repo" validate:"slug"`
	Number    int    `json:"number" validate:"gte=0"`

	// Body is the text the event carries; absent when the payload had null
	Body mo.Option[string] `json:"-"`
	// CommentID is the comment or review comment id, when there is one
	CommentID mo.Option[int64] `json:"-"`
	// ChangedFields are the keys of the payload's "changes" object
	ChangedFields []string `json:"changed_fields,omitempty"`

	DeliveryID string          `json:"delivery_id,omitempty"`
	Raw        json.RawMessage `json:"-"`
}

type numbered struct {
	Number int `json:"number"`
}

type bodied struct {
	ID   int64   `json:"id"`
	Body *string `json:"body"`
}

// payload lists every field Normalize reads across event shapes
type payload struct {
	Action     string `json:"action"`
	Number     int    `json:"number"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	Issue *struct {
		numbered
		Body *string `json:"body"`
	} `json:"issue"`
	PullRequest *struct {
		numbered
		Body *string `json:"body"`
	} `json:"pull_request"`
	Comment *bodied                    `json:"comment"`
	Review  *bodied                    `json:"review"`
	Changes map[string]json.RawMessage `json:"changes"`
}

// Normalize maps a webhook payload for eventName into a Descriptor
// repository_dispatch deliveries are unwrapped through FromDispatch
func Normalize(eventName string, raw []byte) (Descriptor, error) {
	if eventName == RepositoryDispatch {
		return FromDispatch(raw)
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Descriptor{}, perr.JSONErrf("event %s: invalid payload: %v", eventName, err)
	}
	return describe(eventName, p, raw), nil
}

// FromDispatch unwraps a repository_dispatch delivery whose client_payload
// forwards the original event with its event_name
func FromDispatch(raw []byte) (Descriptor, error) {
	var env struct {
		ClientPayload json.RawMessage `json:"client_payload"`
		Repository    struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Descriptor{}, perr.JSONErrf("repository_dispatch: invalid payload: %v", err)
	}
	if len(env.ClientPayload) == 0 || string(env.ClientPayload) == "null" {
		return Descriptor{}, perr.WithField(perr.InvalidArgf("repository_dispatch: missing client_payload"), "client_payload")
	}

	var inner struct {
		payload
		EventName string `json:"event_name"`
	}
	if err := json.Unmarshal(env.ClientPayload, &inner); err != nil {
		return Descriptor{}, perr.JSONErrf("repository_dispatch: invalid client_payload: %v", err)
	}
	if inner.Repository.FullName == "" {
		inner.Repository.FullName = env.Repository.FullName
	}
	return describe(inner.EventName, inner.payload, env.ClientPayload), nil
}

func describe(eventName string, p payload, raw []byte) Descriptor {
	d := Descriptor{
		EventName:     eventName,
		Action:        p.Action,
		Repo:          p.Repository.FullName,
		ChangedFields: keys(p.Changes),
		Raw:           raw,
	}

	switch eventName {
	case IssueComment:
		d.Number = issueNumber(p)
		d.Body, d.CommentID = fromBodied(p.Comment)

	case PullRequestReviewComment:
		d.Number = prNumber(p)
		d.Body, d.CommentID = fromBodied(p.Comment)

	case PullRequestReview:
		d.Number = prNumber(p)
		d.Body, d.CommentID = fromBodied(p.Review)

	case Issues:
		d.Number = issueNumber(p)
		if p.Issue != nil {
			d.Body = mo.Some(str.Deref(p.Issue.Body))
		}

	case PullRequest:
		d.Number = prNumber(p)
		if p.PullRequest != nil {
			d.Body = mo.Some(str.Deref(p.PullRequest.Body))
		}

	default:
		d.Number = firstNonZero(prNumber(p), issueNumber(p))
	}
	return d
}

func fromBodied(b *bodied) (mo.Option[string], mo.Option[int64]) {
	if b == nil {
		return mo.None[string](), mo.None[int64]()
	}
	id := mo.None[int64]()
	if b.ID != 0 {
		id = mo.Some(b.ID)
	}
	if b.Body == nil {
		return mo.None[string](), id
	}
	return mo.Some(*b.Body), id
}

func issueNumber(p payload) int {
	if p.Issue != nil && p.Issue.Number != 0 {
		return p.Issue.Number
	}
	return p.Number
}

// prNumber prefers the owning pull request, then the issue, then the top-level number
func prNumber(p payload) int {
	if p.PullRequest != nil && p.PullRequest.Number != 0 {
		return p.PullRequest.Number
	}
	return issueNumber(p)
}

func firstNonZero(xs ...int) int {
	for _, x := range xs {
		if x != 0 {
			return x
		}
	}
	return 0
}

func keys(m map[string]json.RawMessage) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
