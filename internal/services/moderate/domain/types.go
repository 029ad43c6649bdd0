// Package domain defines the types and ports of the moderation service
package domain

import (
	"time"

	"toxicbot/internal/core/command"

	"github.com/google/uuid"
)

// Outcome is what Process reports for one event
// PostError and LogError are recoverable failures; the command still counts as handled
type Outcome struct {
	CommandID string `json:"command_id"`
	Kind      string `json:"kind"`
	Location  string `json:"location"`
	Trigger   string `json:"trigger"`
	Telemetry string `json:"telemetry"`

	IsToxic         bool                 `json:"is_toxic"`
	ShouldIntervene bool                 `json:"should_intervene"`
	SurveyURL       string               `json:"survey_url,omitempty"`
	Predictions     []command.Prediction `json:"predictions,omitempty"`

	Posted    bool   `json:"posted"`
	PostError string `json:"post_error,omitempty"`
	Logged    bool   `json:"logged"`
	LogError  string `json:"log_error,omitempty"`

	DurationMS int64 `json:"duration_ms"`
}

// Succeeded reports whether every step, including the recoverable ones, went through
func (o Outcome) Succeeded() bool { return o.PostError == "" && o.LogError == "" }

// CheckInput is the body of an ad hoc text check
type CheckInput struct {
	Text string `json:"text" validate:"required,max=65536"`
}

// CheckResult is the classifier verdict for one text at the configured threshold
type CheckResult struct {
	IsToxic     bool                 `json:"is_toxic"`
	Threshold   float64              `json:"threshold"`
	Predictions []command.Prediction `json:"predictions"`
}

// Record is one telemetry row
type Record struct {
	ID         uuid.UUID
	At         time.Time
	Name       string
	Repo       string
	Number     int
	EventName  string
	Action     string
	DeliveryID string
	Duration   time.Duration
	Success    bool

	IsToxic         bool
	ShouldIntervene bool
	Posted          bool
}
