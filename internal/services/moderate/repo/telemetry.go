// Package repo stores moderation telemetry in ClickHouse
package repo

import (
	"context"
	"errors"

	"toxicbot/internal/platform/store"
	"toxicbot/internal/services/moderate/domain"
)

// DefaultTable is the telemetry table name
const DefaultTable = "command_telemetry"

// Schema creates the telemetry table
const Schema = `CREATE TABLE IF NOT EXISTS ` + DefaultTable + ` (
	id               UUID,
	at               DateTime64(3, 'UTC'),
	name             LowCardinality(String),
	repo             String,
	number           UInt32,
	event_name       LowCardinality(String),
	action           LowCardinality(String),
	delivery_id      String,
	duration_ms      UInt32,
	success          Bool,
	is_toxic         Bool,
	should_intervene Bool,
	posted           Bool
) ENGINE = MergeTree
ORDER BY (name, at)`

// Telemetry writes domain.Record rows through the store seam
type Telemetry struct {
	ch store.Clickhouse
}

var _ domain.TelemetryPort = (*Telemetry)(nil)

// NewCH constructs a ClickHouse backed telemetry writer
func NewCH(ch store.Clickhouse) *Telemetry { return &Telemetry{ch: ch} }

// EnsureSchema creates the table when missing
func (t *Telemetry) EnsureSchema(ctx context.Context) error {
	if t == nil || t.ch == nil {
		return errors.New("telemetry: nil clickhouse")
	}
	return t.ch.Exec(ctx, Schema)
}

// Record implements domain.TelemetryPort
func (t *Telemetry) Record(ctx context.Context, rec domain.Record) error {
	if t == nil || t.ch == nil {
		return errors.New("telemetry: nil clickhouse")
	}
	return t.ch.Insert(ctx, DefaultTable, [][]any{row(rec)})
}

// row orders columns as in Schema
func row(rec domain.Record) []any {
	return []any{
		rec.ID,
		rec.At,
		rec.Name,
		rec.Repo,
		clampU32(int64(rec.Number)),
		rec.EventName,
		rec.Action,
		rec.DeliveryID,
		clampU32(rec.Duration.Milliseconds()),
		rec.Success,
		rec.IsToxic,
		rec.ShouldIntervene,
		rec.Posted,
	}
}

func clampU32(v int64) uint32 {
	switch {
	case v < 0:
		return 0
	case v > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(v)
}
