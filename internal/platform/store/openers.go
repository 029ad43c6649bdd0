package store

import (
	"context"

	chx "toxicbot/internal/platform/store/ch"
)

// chOpen is a seam for tests
var chOpen = func(ctx context.Context, cfg chx.Config) (chConn, error) {
	c, err := chx.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chOpen(ctx, chx.Config{
		URL:         cfg.CH.URL,
		Role:        cfg.AppName,
		Tag:         cfg.Version,
		DialTimeout: cfg.CH.DialTimeout,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("app", cfg.AppName).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
