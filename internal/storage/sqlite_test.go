package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveRunFillsDefaults(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SaveRun(Run{Ruleset: "darknet", Score: 40, Level: 5, Coins: 12, Duration: 95 * time.Second})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected an inserted ID")
	}
	if _, err := uuid.Parse(saved.RunID); err != nil {
		t.Errorf("RunID = %q, expected a UUID: %v", saved.RunID, err)
	}
	if saved.Player != "local" || saved.EndReason != EndTraced {
		t.Errorf("defaults = %q/%q, expected local/%s", saved.Player, saved.EndReason, EndTraced)
	}

	runs, err := store.TopRuns("darknet", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, expected 1", len(runs))
	}
	got := runs[0]
	if got.RunID != saved.RunID || got.Level != 5 || got.Coins != 12 || got.Duration != 95*time.Second {
		t.Errorf("TopRuns()[0] = %+v, expected the saved run", got)
	}
}

func TestSaveRunRequiresRuleset(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(Run{Score: 1}); err == nil {
		t.Error("SaveRun() without ruleset succeeded, expected error")
	}
}

func TestTopRunsOrdering(t *testing.T) {
	store := openTestStore(t)
	for _, r := range []Run{
		{Ruleset: "darknet", Score: 100, Level: 8},
		{Ruleset: "darknet", Score: 50, Level: 4},
		{Ruleset: "darknet", Score: 100, Level: 11},
		{Ruleset: "classic", Score: 500, Level: 30},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns("darknet", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	want := []int{11, 8, 4}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs, expected %d", len(runs), len(want))
	}
	for i, lvl := range want {
		if runs[i].Level != lvl {
			t.Errorf("runs[%d].Level = %d, expected %d", i, runs[i].Level, lvl)
		}
	}

	limited, err := store.TopRuns("darknet", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("TopRuns(limit 2) returned %d", len(limited))
	}
}

func TestRecentRuns(t *testing.T) {
	store := openTestStore(t)
	for _, ruleset := range []string{"darknet", "classic", "darknet"} {
		if _, err := store.SaveRun(Run{Ruleset: ruleset, Score: 10}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, expected 2", len(runs))
	}
	if runs[0].ID < runs[1].ID {
		t.Errorf("RecentRuns() not newest first: %d before %d", runs[0].ID, runs[1].ID)
	}
}

func TestHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("darknet")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() on empty = %d, expected 0", high)
	}

	store.SaveRun(Run{Ruleset: "darknet", Score: 30})
	store.SaveRun(Run{Ruleset: "darknet", Score: 70})
	store.SaveRun(Run{Ruleset: "classic", Score: 90})

	if high, _ = store.HighScore("darknet"); high != 70 {
		t.Errorf("HighScore() = %d, expected 70", high)
	}

	if err := store.ClearRuns("darknet"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if high, _ = store.HighScore("darknet"); high != 0 {
		t.Errorf("HighScore() after clear = %d, expected 0", high)
	}
	if high, _ = store.HighScore("classic"); high != 90 {
		t.Errorf("classic HighScore() = %d, expected 90", high)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetStats("darknet")
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GetStats() on empty = %+v", empty)
	}

	store.SaveRun(Run{Ruleset: "darknet", Score: 20, Level: 3, Coins: 5})
	store.SaveRun(Run{Ruleset: "darknet", Score: 40, Level: 6, Coins: 7})
	store.SaveRun(Run{Ruleset: "classic", Score: 10, Level: 2})

	stats, err := store.GetStats("darknet")
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.HighScore != 40 || stats.BestLevel != 6 || stats.TotalCoins != 12 {
		t.Errorf("GetStats() = %+v", stats)
	}
	if stats.AvgScore != 30 {
		t.Errorf("AvgScore = %v, expected 30", stats.AvgScore)
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 2 || all["classic"].Runs != 1 {
		t.Errorf("AllStats() = %v", all)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.ghostgrid/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".ghostgrid", "test.db")); err != nil {
		t.Errorf("database not created under HOME: %v", err)
	}
}
