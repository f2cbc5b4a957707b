package eventlog

import (
	"context"
	"path/filepath"
	"testing"

	"fellrun/internal/sim"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() sim.Result {
	return sim.Result{
		Outcome:  sim.OutcomeVictory,
		Escaped:  3,
		Captured: 1,
		Ticks:    42,
		Events: []sim.Event{
			{Kind: sim.EventTurnStart, Tick: 1, CumTick: 1, FromMap: -1, ToMap: -1},
			{Kind: sim.EventCaptured, Tick: 5, CumTick: 5, Name: "Pip", FromMap: -1, ToMap: -1},
			{Kind: sim.EventVictory, Tick: 42, CumTick: 42, FromMap: -1, ToMap: -1},
		},
	}
}

func TestStore_SaveAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveRun(ctx, "run-a", sampleResult()); err != nil {
		t.Fatal(err)
	}
	n, err := store.RunCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("run count = %d, want 1", n)
	}
}

func TestStore_SaveRunIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res := sampleResult()
	if err := store.SaveRun(ctx, "run-a", res); err != nil {
		t.Fatal(err)
	}
	// Second save with an updated result replaces, never duplicates.
	res.Outcome = sim.OutcomeTimeout
	res.Ticks = 99
	if err := store.SaveRun(ctx, "run-a", res); err != nil {
		t.Fatal(err)
	}

	n, err := store.RunCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("run count after re-save = %d, want 1", n)
	}
	counts, err := store.OutcomeCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts["timeout"] != 1 || counts["victory"] != 0 {
		t.Errorf("outcome counts = %v, want the re-saved outcome only", counts)
	}
}

func TestStore_OutcomeCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res := sampleResult()
	for _, id := range []string{"a", "b"} {
		if err := store.SaveRun(ctx, id, res); err != nil {
			t.Fatal(err)
		}
	}
	res.Outcome = sim.OutcomeDefeat
	if err := store.SaveRun(ctx, "c", res); err != nil {
		t.Fatal(err)
	}

	counts, err := store.OutcomeCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts["victory"] != 2 || counts["defeat"] != 1 {
		t.Errorf("counts = %v, want victory:2 defeat:1", counts)
	}
}

func TestStore_InitRequiredBeforeUse(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := store.SaveRun(context.Background(), "x", sampleResult()); err == nil {
		t.Error("SaveRun before Init succeeded, want error")
	}
	if _, err := store.RunCount(context.Background()); err == nil {
		t.Error("RunCount before Init succeeded, want error")
	}
}

func TestStore_InitIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRun(context.Background(), "a", sampleResult()); err != nil {
		t.Fatal(err)
	}
}

func TestStore_EmptyPathRejected(t *testing.T) {
	if err := NewStore("").Init(context.Background()); err == nil {
		t.Error("Init with empty path succeeded, want error")
	}
}
