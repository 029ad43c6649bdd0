// Package store opens the optional telemetry backends behind small seams.
// A Store with every backend disabled is valid and does nothing
package store

import (
	"context"

	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
)

// Store holds whichever backends Open enabled
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// Clickhouse is a tiny seam for columnar writes and queries
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the requested backends
// backends not enabled in cfg remain nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.CH = c
	}
	return s, nil
}

// Backends names the enabled backends for startup logs
func (s *Store) Backends() []string {
	if s == nil || s.CH == nil {
		return nil
	}
	return []string{"clickhouse"}
}

// Guard pings every enabled backend that can be pinged. A failed ping is
// an unavailable error so callers can treat it like any other outage
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return perr.Internalf("nil store")
	}
	if p, ok := s.CH.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "clickhouse ping")
		}
	}
	return nil
}

// Close releases every enabled backend; a zero Store closes cleanly
func (s *Store) Close(context.Context) error {
	if s == nil || s.CH == nil {
		return nil
	}
	if err := s.CH.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "clickhouse close")
	}
	s.Log.Debug().Msg("clickhouse closed")
	return nil
}
