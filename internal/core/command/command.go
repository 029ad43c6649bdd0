// Package command is the typed model for "a moderation-relevant action occurred"
//
// A Command is a tagged union over two kinds. Toxicity commands carry text to
// screen and the thread to answer in. Logging commands are pure audit records.
// Commands are built once per event by the classify package and mutated only
// by the policy engine.
package command

import (
	"encoding/json"

	str "toxicbot/internal/platform/strings"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Kind tags the variant of a Command
type Kind string

const (
	// KindToxicity asks for the text to be screened
	KindToxicity Kind = "ToxicityCheck"
	// KindLogging only records that something happened
	KindLogging Kind = "Logging"
)

// Location is where the text lives, which decides how a reply is posted
type Location string

const (
	LocationComment       Location = "Comment"
	LocationIssue         Location = "Issue"
	LocationReview        Location = "Review"
	LocationReviewComment Location = "Review Comment"
	LocationPullRequest   Location = "Pull Request"
)

// Trigger is why the command was raised
type Trigger string

const (
	TriggerCreate Trigger = "Create"
	TriggerEdit   Trigger = "Edit"
	TriggerDelete Trigger = "Delete"
	// TriggerOther is the catch-all for issue and pull request activity
	TriggerOther Trigger = "Other"
)

// Source is the opaque event context a command was built from
type Source struct {
	EventName  string
	Action     string
	DeliveryID string
	// CommentID is the inline comment a review-comment reply threads under
	CommentID mo.Option[int64]
	Raw       json.RawMessage
}

// Prediction is one category verdict from the classifier
type Prediction struct {
	Category string  `json:"category"`
	Match    bool    `json:"match"`
	Score    float64 `json:"score"`
}

// Toxicity holds the fields only toxicity commands carry
// the decision fields are meaningful only after policy evaluation
type Toxicity struct {
	Text   string
	Slug   string
	Number int

	Evaluated       bool
	Predictions     []Prediction
	IsToxic         bool
	ShouldIntervene bool
	SurveyURL       mo.Option[string]
}

// Owner is the part of the slug before "/"
func (t *Toxicity) Owner() string {
	owner, _, _ := str.SplitSlug(t.Slug)
	return owner
}

// Name is the part of the slug after "/"
func (t *Toxicity) Name() string {
	_, name, _ := str.SplitSlug(t.Slug)
	return name
}

// Command is the unit handed from the classifier to policy, logging and telemetry
type Command struct {
	ID       uuid.UUID
	Kind     Kind
	Location Location
	Trigger  Trigger
	Source   Source

	// Toxicity is set iff Kind == KindToxicity
	Toxicity *Toxicity
}

// NewToxicity builds a toxicity command
func NewToxicity(src Source, loc Location, trig Trigger, slug string, number int, text string) Command {
	return Command{
		ID:       uuid.New(),
		Kind:     KindToxicity,
		Location: loc,
		Trigger:  trig,
		Source:   src,
		Toxicity: &Toxicity{Text: text, Slug: slug, Number: number},
	}
}

// NewLogging builds a logging command
func NewLogging(src Source, loc Location, trig Trigger) Command {
	return Command{
		ID:       uuid.New(),
		Kind:     KindLogging,
		Location: loc,
		Trigger:  trig,
		Source:   src,
	}
}

// IsToxicity reports whether c is the toxicity variant
func (c Command) IsToxicity() bool { return c.Kind == KindToxicity && c.Toxicity != nil }

// TelemetryName is "<kind> <location>" for toxicity commands and "<kind> <trigger>" otherwise
func (c Command) TelemetryName() string {
	if c.IsToxicity() {
		return string(c.Kind) + " " + string(c.Location)
	}
	return string(c.Kind) + " " + string(c.Trigger)
}
