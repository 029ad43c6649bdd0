// Package policy turns classifier verdicts into intervention decisions
//
// A command is toxic when any category matches. Toxic threads always get a
// survey link; whether the bot also comments is a coin flip drawn from a
// stream seeded by the thread, so retries of the same event agree.
package policy

import (
	"context"
	"errors"

	"toxicbot/internal/core/command"
	"toxicbot/internal/core/prng"
	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"

	"github.com/samber/mo"
)

// Categories is the fixed category set sent to every classifier
var Categories = []string{"identity_attack", "insult", "severe_toxicity", "threat", "toxicity"}

const (
	// DefaultThreshold is the per-category match cutoff when none is configured
	DefaultThreshold = 0.8
	// DefaultMessage prefixes interventions when no message is configured
	DefaultMessage = "Do not be toxic!"

	surveyFooter = "\n\n-----------------------------\n\n" +
		"This bot is a part of a research study, please help us out by responding to the survey here: "
)

// ErrMissingReplyTarget means a review comment reply was needed but the event had no comment id
var ErrMissingReplyTarget = errors.New("policy: review comment reply without a comment id")

// Classifier scores texts against categories, one prediction per category per text
type Classifier interface {
	Classify(ctx context.Context, texts, categories []string, threshold float64) ([][]command.Prediction, error)
}

// Surveys hands out the survey link attached to toxic threads
type Surveys interface {
	SurveyURL(ctx context.Context, slug string, number int) (string, error)
}

// Poster posts intervention comments
type Poster interface {
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error
	CreateReviewCommentReply(ctx context.Context, owner, repo string, number int, commentID int64, body string) error
}

// Config is the (threshold, silent, message) triple
type Config struct {
	Threshold float64 `validate:"gt=0,lte=1"`
	Silent    bool
	Message   string
}

// Decision is what Evaluate concluded for one command
type Decision struct {
	IsToxic         bool
	ShouldIntervene bool
	SurveyURL       mo.Option[string]
	Message         string

	Posted  bool
	PostErr error
}

// Engine evaluates toxicity commands
type Engine struct {
	cls     Classifier
	surveys Surveys
	poster  Poster
	seeder  prng.Seeder
	cfg     Config
}

// New builds an Engine; a nil seeder uses prng.SFC32 and a zero threshold uses DefaultThreshold
func New(cls Classifier, surveys Surveys, poster Poster, seeder prng.Seeder, cfg Config) *Engine {
	if seeder == nil {
		seeder = prng.SFC32
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &Engine{cls: cls, surveys: surveys, poster: poster, seeder: seeder, cfg: cfg}
}

// Config returns the effective configuration
func (e *Engine) Config() Config { return e.cfg }

// Matches is the shared match rule: a score at the threshold matches
func Matches(score, threshold float64) bool { return score >= threshold }

// ComposeMessage builds the intervention body; an empty prefix uses DefaultMessage
func ComposeMessage(prefix, surveyURL string) string {
	if prefix == "" {
		prefix = DefaultMessage
	}
	return prefix + surveyFooter + surveyURL
}

// Evaluate classifies cmd and, when toxic, fetches the survey link and may post an intervention
// classifier and survey failures abort; a posting failure is returned on the Decision
func (e *Engine) Evaluate(ctx context.Context, cmd *command.Command) (Decision, error) {
	if cmd == nil || !cmd.IsToxicity() {
		return Decision{}, perr.InvalidArgf("policy: not a toxicity command")
	}
	t := cmd.Toxicity
	log := logger.C(ctx).With().Str("command_id", cmd.ID.String()).Logger()

	preds, err := e.cls.Classify(ctx, []string{t.Text}, Categories, e.cfg.Threshold)
	if err != nil {
		return Decision{}, perr.Wrap(err, perr.ErrorCodeClassifier, "classify text")
	}
	if len(preds) != 1 {
		return Decision{}, perr.Newf(perr.ErrorCodeClassifier, "classifier returned %d results for 1 text", len(preds))
	}

	var d Decision
	for _, p := range preds[0] {
		if p.Match {
			d.IsToxic = true
		}
	}
	t.Evaluated = true
	t.Predictions = preds[0]
	t.IsToxic = d.IsToxic
	if !d.IsToxic {
		log.Debug().Msg("not toxic")
		return d, nil
	}

	stream := e.seeder.Seed(prng.ThreadSeed(t.Slug, t.Number))

	url, err := e.surveys.SurveyURL(ctx, t.Slug, t.Number)
	if err != nil {
		if _, ours := perr.As(err); !ours {
			err = perr.Wrap(err, perr.ErrorCodeUnavailable, "survey")
		}
		return d, perr.WithOp(err, "survey")
	}
	d.SurveyURL = mo.Some(url)
	t.SurveyURL = d.SurveyURL

	if e.cfg.Silent || stream.Next() <= 0.5 {
		log.Info().Bool("silent", e.cfg.Silent).Msg("toxic, no intervention")
		return d, nil
	}

	d.ShouldIntervene = true
	t.ShouldIntervene = true
	d.Message = ComposeMessage(e.cfg.Message, url)

	if err := e.post(ctx, cmd, d.Message); err != nil {
		d.PostErr = err
		log.Warn().Err(err).Str("location", string(cmd.Location)).Msg("intervention not posted")
		return d, nil
	}
	d.Posted = true
	log.Info().Str("location", string(cmd.Location)).Msg("intervention posted")
	return d, nil
}

// post routes by location: review comments get a threaded reply, everything else a thread comment
func (e *Engine) post(ctx context.Context, cmd *command.Command, body string) error {
	t := cmd.Toxicity
	switch cmd.Location {
	case command.LocationReviewComment:
		id, ok := cmd.Source.CommentID.Get()
		if !ok {
			return ErrMissingReplyTarget
		}
		return e.poster.CreateReviewCommentReply(ctx, t.Owner(), t.Name(), t.Number, id, body)
	default:
		return e.poster.CreateIssueComment(ctx, t.Owner(), t.Name(), t.Number, body)
	}
}
