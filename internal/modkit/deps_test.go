package modkit

import (
	"context"
	"testing"

	"toxicbot/internal/platform/config"
	"toxicbot/internal/platform/store"
)

type nopCH struct{}

func (nopCH) Insert(context.Context, string, [][]any) error { return nil }
func (nopCH) Exec(context.Context, string, ...any) error    { return nil }
func (nopCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, nil
}
func (nopCH) Close() error { return nil }

func TestDeps_HasStore(t *testing.T) {
	t.Parallel()

	var d Deps
	if d.HasStore() {
		t.Fatal("zero Deps should carry no clickhouse")
	}

	d = Deps{Cfg: config.New(), CH: nopCH{}}
	if !d.HasStore() {
		t.Fatal("Deps with a CH seam should report a store")
	}
}
