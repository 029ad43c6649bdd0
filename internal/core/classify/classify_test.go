package classify

import (
	"testing"

	"toxicbot/internal/core/command"
	"toxicbot/internal/core/event"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(name, action string) event.Descriptor {
	return event.Descriptor{
		EventName: name,
		Action:    action,
		Repo:      "octocat/Hello-World",
		Number:    42,
		Body:      mo.Some("some text"),
		CommentID: mo.Some[int64](1001),
	}
}

func TestClassify_Table(t *testing.T) {
	type want struct {
		kind command.Kind
		loc  command.Location
		trig command.Trigger
	}
	tox := func(l command.Location, tr command.Trigger) *want { return &want{command.KindToxicity, l, tr} }
	lg := func(l command.Location, tr command.Trigger) *want { return &want{command.KindLogging, l, tr} }

	cases := []struct {
		event, action string
		want          *want
	}{
		{event.IssueComment, "created", tox(command.LocationComment, command.TriggerCreate)},
		{event.IssueComment, "edited", tox(command.LocationComment, command.TriggerEdit)},
		{event.IssueComment, "deleted", lg(command.LocationComment, command.TriggerDelete)},
		{event.IssueComment, "pinned", nil},

		{event.PullRequestReviewComment, "created", tox(command.LocationReviewComment, command.TriggerCreate)},
		{event.PullRequestReviewComment, "edited", tox(command.LocationReviewComment, command.TriggerEdit)},
		{event.PullRequestReviewComment, "deleted", lg(command.LocationReviewComment, command.TriggerDelete)},
		{event.PullRequestReviewComment, "resolved", nil},

		{event.PullRequestReview, "submitted", tox(command.LocationReview, command.TriggerCreate)},
		{event.PullRequestReview, "dismissed", lg(command.LocationReview, command.TriggerDelete)},
		{event.PullRequestReview, "requested", nil},

		{event.Issues, "opened", tox(command.LocationIssue, command.TriggerCreate)},
		{event.Issues, "edited", tox(command.LocationIssue, command.TriggerEdit)},
		{event.Issues, "closed", lg(command.LocationIssue, command.TriggerOther)},
		{event.Issues, "labeled", lg(command.LocationIssue, command.TriggerOther)},

		{event.PullRequest, "opened", tox(command.LocationPullRequest, command.TriggerCreate)},
		{event.PullRequest, "edited", tox(command.LocationPullRequest, command.TriggerOther)},
		{event.PullRequest, "synchronize", lg(command.LocationPullRequest, command.TriggerOther)},

		{"push", "", nil},
		{"star", "created", nil},
		{"", "", nil},
	}

	for _, c := range cases {
		t.Run(c.event+"/"+c.action, func(t *testing.T) {
			got := Classify(desc(c.event, c.action))
			if c.want == nil {
				assert.True(t, got.IsAbsent(), "expected no command")
				return
			}
			cmd, ok := got.Get()
			require.True(t, ok)
			assert.Equal(t, c.want.kind, cmd.Kind)
			assert.Equal(t, c.want.loc, cmd.Location)
			assert.Equal(t, c.want.trig, cmd.Trigger)
			assert.Equal(t, c.event, cmd.Source.EventName)
			if cmd.Kind == command.KindToxicity {
				assert.Equal(t, "some text", cmd.Toxicity.Text)
				assert.Equal(t, "octocat/Hello-World", cmd.Toxicity.Slug)
				assert.Equal(t, 42, cmd.Toxicity.Number)
			} else {
				assert.Nil(t, cmd.Toxicity)
			}
		})
	}
}

func TestClassify_ReviewEdited(t *testing.T) {
	d := desc(event.PullRequestReview, "edited")
	assert.True(t, Classify(d).IsAbsent(), "edit without changed fields must not duplicate submitted")

	d.ChangedFields = []string{"body"}
	cmd, ok := Classify(d).Get()
	require.True(t, ok)
	assert.Equal(t, command.TriggerEdit, cmd.Trigger)
	assert.Equal(t, command.LocationReview, cmd.Location)
}

func TestClassify_ReviewSubmittedWithoutBody(t *testing.T) {
	d := desc(event.PullRequestReview, "submitted")
	d.Body = mo.None[string]()
	assert.True(t, Classify(d).IsAbsent())

	d.Body = mo.Some("")
	assert.True(t, Classify(d).IsPresent(), "empty but non-null body is still screened")
}

func TestClassify_PullRequestEditedIsOther(t *testing.T) {
	cmd := Classify(desc(event.PullRequest, "edited")).MustGet()
	assert.Equal(t, command.TriggerOther, cmd.Trigger)
	assert.NotEqual(t, command.TriggerEdit, cmd.Trigger)
}

func TestClassify_CarriesSourceContext(t *testing.T) {
	d := desc(event.PullRequestReviewComment, "created")
	d.DeliveryID = "d-1"
	cmd := Classify(d).MustGet()
	assert.Equal(t, "d-1", cmd.Source.DeliveryID)
	assert.Equal(t, int64(1001), cmd.Source.CommentID.MustGet())
}
