// Package modkit provides module wiring and core deps
package modkit

import (
	"toxicbot/internal/platform/config"
	"toxicbot/internal/platform/logger"
	"toxicbot/internal/platform/store"
)

// Deps holds core dependencies passed to modules. The zero value is usable:
// a zero Log discards, a zero Cfg reads unprefixed env, a nil CH means no telemetry store
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	CH  store.Clickhouse
}

// HasStore reports whether a ClickHouse seam was wired
func (d Deps) HasStore() bool { return d.CH != nil }
