// Package classify maps a normalized event to at most one Command
//
// Classify is a pure table over (event name, action). It does no I/O and
// draws no randomness. None means the event is unrecognized; callers must
// treat that as a failure to log, not as a silent skip.
package classify

import (
	"toxicbot/internal/core/command"
	"toxicbot/internal/core/event"

	"github.com/samber/mo"
)

// Classify returns the command for d, or None when the pair is not in the table
func Classify(d event.Descriptor) mo.Option[command.Command] {
	src := command.Source{
		EventName:  d.EventName,
		Action:     d.Action,
		DeliveryID: d.DeliveryID,
		CommentID:  d.CommentID,
		Raw:        d.Raw,
	}
	text := d.Body.OrEmpty()

	tox := func(loc command.Location, trig command.Trigger) mo.Option[command.Command] {
		return mo.Some(command.NewToxicity(src, loc, trig, d.Repo, d.Number, text))
	}
	logOnly := func(loc command.Location, trig command.Trigger) mo.Option[command.Command] {
		return mo.Some(command.NewLogging(src, loc, trig))
	}
	none := mo.None[command.Command]()

	switch d.EventName {
	case event.IssueComment, event.PullRequestReviewComment:
		loc := command.LocationComment
		if d.EventName == event.PullRequestReviewComment {
			loc = command.LocationReviewComment
		}
		switch d.Action {
		case "created":
			return tox(loc, command.TriggerCreate)
		case "edited":
			return tox(loc, command.TriggerEdit)
		case "deleted":
			return logOnly(loc, command.TriggerDelete)
		}
		return none

	case event.PullRequestReview:
		switch d.Action {
		case "submitted":
			if d.Body.IsPresent() {
				return tox(command.LocationReview, command.TriggerCreate)
			}
		case "edited":
			// an edit with no changed fields is the platform echoing "submitted"
			if len(d.ChangedFields) > 0 {
				return tox(command.LocationReview, command.TriggerEdit)
			}
		case "dismissed":
			return logOnly(command.LocationReview, command.TriggerDelete)
		}
		return none

	case event.Issues:
		switch d.Action {
		case "opened":
			return tox(command.LocationIssue, command.TriggerCreate)
		case "edited":
			return tox(command.LocationIssue, command.TriggerEdit)
		}
		return logOnly(command.LocationIssue, command.TriggerOther)

	case event.PullRequest:
		switch d.Action {
		case "opened":
			return tox(command.LocationPullRequest, command.TriggerCreate)
		case "edited":
			// TODO: edits are tagged Other where issues use Edit; switch to TriggerEdit
			// once the research log consumers accept it for pull requests
			return tox(command.LocationPullRequest, command.TriggerOther)
		}
		return logOnly(command.LocationPullRequest, command.TriggerOther)
	}
	return none
}
