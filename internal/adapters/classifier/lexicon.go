package classifier

import (
	"context"

	"toxicbot/internal/core/command"
	"toxicbot/internal/core/detector"
	"toxicbot/internal/core/rulepack"
	perr "toxicbot/internal/platform/errors"
)

// Lexicon scores text locally with the embedded rulepack
type Lexicon struct {
	d *detector.Detector
}

// NewLexicon compiles the embedded lexicon
func NewLexicon() (*Lexicon, error) {
	p, err := rulepack.Load()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeClassifier, "load lexicon")
	}
	return &Lexicon{d: detector.New(p)}, nil
}

// Classify scores each text. Categories the lexicon does not know score zero
func (l *Lexicon) Classify(ctx context.Context, texts, categories []string, threshold float64) ([][]command.Prediction, error) {
	out := make([][]command.Prediction, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "lexicon classify cancelled")
		}
		scores := l.d.Score(text)
		for _, c := range categories {
			if _, ok := scores[c]; !ok {
				scores[c] = 0
			}
		}
		preds, err := predictions(categories, scores, threshold)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeClassifier, "lexicon classify")
		}
		out = append(out, preds)
	}
	return out, nil
}
