package store

import (
	"context"
	"testing"
	"time"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// storeTestSuite exercises the Store contract against any implementation.
// Both MemStore and SQLiteStore run the same scenarios.
func storeTestSuite(t *testing.T, newStore func() Store) {
	t.Run("get unknown run returns ErrNotFound", func(t *testing.T) {
		s := newStore()
		_, err := s.GetRun(context.Background(), "missing")
		if err != ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("save then get round-trips", func(t *testing.T) {
		s := newStore()
		run := CompiledRun{
			RunID:      "run-1",
			EntityName: "traffic_light",
			VHDL:       "-- entity traffic_light is\n",
			Diagnostics: []diag.Diagnostic{
				{RunID: "run-1", Stage: diag.StagePaths, Code: diag.CodeCycleDetected, Msg: "cycle"},
			},
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		if err := s.SaveRun(context.Background(), run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}

		got, err := s.GetRun(context.Background(), "run-1")
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}
		if got.RunID != run.RunID || got.EntityName != run.EntityName || got.VHDL != run.VHDL {
			t.Errorf("round-tripped run does not match: got %+v", got)
		}
		if len(got.Diagnostics) != 1 || got.Diagnostics[0].Code != diag.CodeCycleDetected {
			t.Errorf("expected 1 diagnostic with code cycle-detected, got %+v", got.Diagnostics)
		}
	})

	t.Run("save overwrites an existing run with the same ID", func(t *testing.T) {
		s := newStore()
		base := CompiledRun{RunID: "run-2", EntityName: "v1", CreatedAt: time.Now().UTC()}
		if err := s.SaveRun(context.Background(), base); err != nil {
			t.Fatalf("initial SaveRun failed: %v", err)
		}

		updated := base
		updated.EntityName = "v2"
		if err := s.SaveRun(context.Background(), updated); err != nil {
			t.Fatalf("overwrite SaveRun failed: %v", err)
		}

		got, err := s.GetRun(context.Background(), "run-2")
		if err != nil {
			t.Fatalf("GetRun failed: %v", err)
		}
		if got.EntityName != "v2" {
			t.Errorf("expected overwritten EntityName = 'v2', got %q", got.EntityName)
		}
	})

	t.Run("list returns newest first and respects limit", func(t *testing.T) {
		s := newStore()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"a", "b", "c"} {
			run := CompiledRun{
				RunID:      id,
				EntityName: id,
				CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			}
			if err := s.SaveRun(context.Background(), run); err != nil {
				t.Fatalf("SaveRun(%s) failed: %v", id, err)
			}
		}

		all, err := s.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(all))
		}
		if all[0].RunID != "c" || all[1].RunID != "b" || all[2].RunID != "a" {
			t.Errorf("expected newest-first order c,b,a, got %v", all)
		}

		limited, err := s.ListRuns(context.Background(), 2)
		if err != nil {
			t.Fatalf("ListRuns with limit failed: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 runs with limit=2, got %d", len(limited))
		}
	})
}

func TestMemStore(t *testing.T) {
	storeTestSuite(t, func() Store { return NewMemStore() })
}
