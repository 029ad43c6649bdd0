// Package service implements the moderation orchestrator
//
// Process runs one event end to end: classify, evaluate, log, record.
// Classification, classifier and survey failures abort the event. Posting and
// log sink failures are recorded on the Outcome and the event still succeeds.
package service

import (
	"context"
	"strconv"
	"time"

	"toxicbot/internal/core/classify"
	"toxicbot/internal/core/command"
	"toxicbot/internal/core/event"
	"toxicbot/internal/core/policy"
	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
	"toxicbot/internal/platform/net/http/bind"
	"toxicbot/internal/services/moderate/domain"
)

// Config for the moderation service
type Config struct {
	// Threshold is used by Check; Evaluate uses the engine's own copy
	Threshold float64
}

// Service implements domain.ServicePort
type Service struct {
	Engine    domain.EvaluatorPort
	Cls       policy.Classifier
	Sink      domain.LogSinkPort
	Telemetry domain.TelemetryPort // nil disables the store, metrics are always on
	Cfg       Config

	now func() time.Time
}

var _ domain.ServicePort = (*Service)(nil)

// New constructs the service
func New(engine domain.EvaluatorPort, cls policy.Classifier, sink domain.LogSinkPort, tel domain.TelemetryPort, cfg Config) *Service {
	if cfg.Threshold <= 0 {
		cfg.Threshold = policy.DefaultThreshold
	}
	return &Service{
		Engine:    engine,
		Cls:       cls,
		Sink:      sink,
		Telemetry: tel,
		Cfg:       cfg,
		now:       time.Now,
	}
}

// Process handles one normalized event
func (s *Service) Process(ctx context.Context, d event.Descriptor) (domain.Outcome, error) {
	start := s.now()
	ctx = logger.WithRequest(ctx, d.DeliveryID, d.Repo)
	log := logger.C(ctx)

	// classify first: org level hooks send events with no repository
	cmd, ok := classify.Classify(d).Get()
	if !ok {
		unrecognizedEvents.WithLabelValues(eventLabel(d.EventName)).Inc()
		log.Error().
			Str("event_name", d.EventName).
			Str("action", d.Action).
			Msg("unrecognized event")
		err := perr.Newf(perr.ErrorCodeUnrecognized, "unrecognized event %s/%s", d.EventName, d.Action)
		return domain.Outcome{}, perr.WithOp(perr.WithField(err, "event_name"), "moderate.classify")
	}
	if err := bind.Struct(d); err != nil {
		return domain.Outcome{}, perr.WithOp(err, "moderate.validate")
	}

	out := domain.Outcome{
		CommandID: cmd.ID.String(),
		Kind:      string(cmd.Kind),
		Location:  string(cmd.Location),
		Trigger:   string(cmd.Trigger),
		Telemetry: cmd.TelemetryName(),
	}

	if cmd.IsToxicity() {
		dec, err := s.Engine.Evaluate(ctx, &cmd)
		if err != nil {
			out.DurationMS = s.since(start).Milliseconds()
			s.record(ctx, d, cmd, out, start, false)
			log.Error().Err(err).
				Str("command_id", out.CommandID).
				Str("telemetry", out.Telemetry).
				Msg("evaluation failed")
			return out, err
		}
		out.IsToxic = dec.IsToxic
		out.ShouldIntervene = dec.ShouldIntervene
		out.SurveyURL = dec.SurveyURL.OrEmpty()
		out.Predictions = cmd.Toxicity.Predictions
		out.Posted = dec.Posted
		if dec.PostErr != nil {
			out.PostError = dec.PostErr.Error()
			log.Warn().Err(dec.PostErr).
				Str("command_id", out.CommandID).
				Str("failure", failureClass(dec.PostErr)).
				Bool("retryable", perr.Retryable(dec.PostErr)).
				Msg("intervention post failed")
		}
		if dec.ShouldIntervene {
			interventions.WithLabelValues(out.Location, strconv.FormatBool(dec.Posted)).Inc()
		}
	}

	if err := s.Sink.LogCommand(ctx, d.Repo, cmd); err != nil {
		out.LogError = err.Error()
		log.Warn().Err(err).
			Str("command_id", out.CommandID).
			Str("failure", failureClass(err)).
			Bool("retryable", perr.Retryable(err)).
			Msg("log sink failed")
	} else {
		out.Logged = true
	}

	out.DurationMS = s.since(start).Milliseconds()
	s.record(ctx, d, cmd, out, start, out.Succeeded())

	log.Info().
		Str("command_id", out.CommandID).
		Str("kind", out.Kind).
		Str("location", out.Location).
		Str("trigger", out.Trigger).
		Bool("toxic", out.IsToxic).
		Bool("intervene", out.ShouldIntervene).
		Bool("posted", out.Posted).
		Bool("logged", out.Logged).
		Int64("duration_ms", out.DurationMS).
		Msg("event processed")
	return out, nil
}

// Check classifies text at the configured threshold without surveys, posting, or logging
func (s *Service) Check(ctx context.Context, text string) (domain.CheckResult, error) {
	preds, err := s.Cls.Classify(ctx, []string{text}, policy.Categories, s.Cfg.Threshold)
	if err != nil {
		return domain.CheckResult{}, perr.WithOp(perr.Wrap(err, perr.ErrorCodeClassifier, "classify text"), "moderate.check")
	}
	if len(preds) != 1 {
		return domain.CheckResult{}, perr.Newf(perr.ErrorCodeClassifier, "classifier returned %d results for 1 text", len(preds))
	}
	res := domain.CheckResult{Threshold: s.Cfg.Threshold, Predictions: preds[0]}
	for _, p := range preds[0] {
		if p.Match {
			res.IsToxic = true
		}
	}
	return res, nil
}

// failureClass names a collaborator failure for logs
func failureClass(err error) string {
	switch {
	case perr.Unreachable(err):
		return "unreachable"
	case perr.Rejected(err):
		return "rejected"
	}
	return "internal"
}

// eventLabel bounds the metric label set; the event header is caller supplied
func eventLabel(name string) string {
	if event.Known(name) {
		return name
	}
	return "other"
}

func (s *Service) since(start time.Time) time.Duration { return s.now().Sub(start) }

// record feeds prometheus and, when configured, the telemetry store
// store failures are logged and counted, never returned
func (s *Service) record(ctx context.Context, d event.Descriptor, cmd command.Command, out domain.Outcome, start time.Time, success bool) {
	name := cmd.TelemetryName()
	dur := s.since(start)
	commandsProcessed.WithLabelValues(name, strconv.FormatBool(success)).Inc()
	commandDuration.WithLabelValues(name).Observe(dur.Seconds())

	if s.Telemetry == nil {
		return
	}
	rec := domain.Record{
		ID:              cmd.ID,
		At:              start.UTC(),
		Name:            name,
		Repo:            d.Repo,
		Number:          d.Number,
		EventName:       d.EventName,
		Action:          d.Action,
		DeliveryID:      d.DeliveryID,
		Duration:        dur,
		Success:         success,
		IsToxic:         out.IsToxic,
		ShouldIntervene: out.ShouldIntervene,
		Posted:          out.Posted,
	}
	if err := s.Telemetry.Record(ctx, rec); err != nil {
		telemetryFailures.Inc()
		logger.C(ctx).Warn().Err(err).Str("telemetry", name).Msg("telemetry write failed")
	}
}
