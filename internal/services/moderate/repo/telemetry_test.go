package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"toxicbot/internal/platform/store"
	"toxicbot/internal/services/moderate/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCH struct {
	table string
	rows  [][]any
	execs []string
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table = table
	f.rows = append(f.rows, rows...)
	return f.err
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return f.err
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, f.err }
func (f *fakeCH) Close() error                                              { return nil }

func TestRecord_WritesOneRowInSchemaOrder(t *testing.T) {
	ch := &fakeCH{}
	tel := NewCH(ch)
	id := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := tel.Record(context.Background(), domain.Record{
		ID: id, At: at, Name: "ToxicityCheck Comment", Repo: "octocat/Hello-World", Number: 42,
		EventName: "issue_comment", Action: "created", DeliveryID: "d-1",
		Duration: 1500 * time.Millisecond, Success: true, IsToxic: true,
	})
	require.NoError(t, err)
	require.Equal(t, DefaultTable, ch.table)
	require.Len(t, ch.rows, 1)

	r := ch.rows[0]
	require.Len(t, r, 13)
	assert.Equal(t, id, r[0])
	assert.Equal(t, at, r[1])
	assert.Equal(t, "ToxicityCheck Comment", r[2])
	assert.Equal(t, uint32(42), r[4])
	assert.Equal(t, uint32(1500), r[8])
	assert.Equal(t, true, r[9])
	assert.Equal(t, true, r[10])
	assert.Equal(t, false, r[11])
}

func TestRecord_PropagatesStoreError(t *testing.T) {
	ch := &fakeCH{err: errors.New("down")}
	err := NewCH(ch).Record(context.Background(), domain.Record{})
	require.EqualError(t, err, "down")
}

func TestNilStore(t *testing.T) {
	var tel *Telemetry
	require.Error(t, tel.Record(context.Background(), domain.Record{}))
	require.Error(t, NewCH(nil).EnsureSchema(context.Background()))
}

func TestEnsureSchema(t *testing.T) {
	ch := &fakeCH{}
	require.NoError(t, NewCH(ch).EnsureSchema(context.Background()))
	require.Len(t, ch.execs, 1)
	assert.Contains(t, ch.execs[0], "CREATE TABLE IF NOT EXISTS "+DefaultTable)
}

func TestClampU32(t *testing.T) {
	assert.Equal(t, uint32(0), clampU32(-5))
	assert.Equal(t, uint32(7), clampU32(7))
	assert.Equal(t, ^uint32(0), clampU32(1<<40))
}
