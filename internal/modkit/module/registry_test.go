package module

import (
	"sync"
	"testing"

	kit "toxicbot/internal/platform/testkit"
)

type portSet struct{ Service string }

func TestRegistry_RoundTrip(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("moderation", portSet{Service: "svc"})
	got, ok := PortsAs[portSet]("moderation")
	if !ok || got.Service != "svc" {
		t.Fatalf("PortsAs = %+v, %v", got, ok)
	}

	Register("moderation", portSet{Service: "replaced"})
	got, _ = PortsAs[portSet]("moderation")
	if got.Service != "replaced" {
		t.Fatalf("re-register did not replace, got %+v", got)
	}
}

func TestRegistry_MissingAndMismatch(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := PortsAs[portSet]("missing"); ok {
		t.Fatal("missing name reported ok")
	}
	Register("moderation", portSet{})
	if _, ok := PortsAs[int]("moderation"); ok {
		t.Fatal("type mismatch reported ok")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("moderation", nil)
	Register("meta", nil)
	got := Names()
	if len(got) != 2 || got[0] != "meta" || got[1] != "moderation" {
		t.Fatalf("Names = %v", got)
	}
}

func TestRegistry_EmptyNamePanics(t *testing.T) {
	kit.MustPanic(t, func() { Register("", portSet{}) })
}

func TestRegistry_Concurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); Register("moderation", portSet{Service: "x"}) }()
		go func() { defer wg.Done(); _, _ = PortsAs[portSet]("moderation") }()
	}
	wg.Wait()

	if _, ok := PortsAs[portSet]("moderation"); !ok {
		t.Fatal("port set lost under concurrency")
	}
}
