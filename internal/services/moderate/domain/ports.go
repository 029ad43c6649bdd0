package domain

import (
	"context"

	"toxicbot/internal/core/command"
	"toxicbot/internal/core/event"
	"toxicbot/internal/core/policy"
)

// ServicePort is the moderation surface used by the HTTP intake and the action runner
type ServicePort interface {
	Process(ctx context.Context, d event.Descriptor) (Outcome, error)
	Check(ctx context.Context, text string) (CheckResult, error)
}

// EvaluatorPort decides toxicity commands
type EvaluatorPort interface {
	Evaluate(ctx context.Context, cmd *command.Command) (policy.Decision, error)
}

// LogSinkPort receives every command once it is settled
type LogSinkPort interface {
	LogCommand(ctx context.Context, slug string, cmd command.Command) error
}

// TelemetryPort stores telemetry rows
type TelemetryPort interface {
	Record(ctx context.Context, rec Record) error
}
