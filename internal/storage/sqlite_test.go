package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-slide/internal/sim"
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
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.slide/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".slide", "test.db")); err != nil {
		t.Errorf("expected database under home: %v", err)
	}
}

func TestStoreBestResults(t *testing.T) {
	store := openTestStore(t)

	results := []Result{
		{LevelID: "example0", Won: true, Turns: 12},
		{LevelID: "example0", Won: false, Turns: 3},
		{LevelID: "example0", Won: true, Turns: 8, Player: "alice"},
		{LevelID: "example0", Won: true, Turns: 8},
		{LevelID: "crossing", Won: true, Turns: 6},
	}
	for _, r := range results {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	best, err := store.BestResults("example0", 10)
	if err != nil {
		t.Fatalf("BestResults() failed: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("Expected 3 winning results, got %d", len(best))
	}
	// Fewest turns first, ties in insertion order
	if best[0].Turns != 8 || best[0].Player != "alice" {
		t.Errorf("best[0] = %+v", best[0])
	}
	if best[1].Turns != 8 || best[1].Player != LocalPlayer {
		t.Errorf("best[1] = %+v", best[1])
	}
	if best[2].Turns != 12 {
		t.Errorf("best[2] = %+v", best[2])
	}
	for _, r := range best {
		if !r.Won || r.LevelID != "example0" {
			t.Errorf("unexpected result %+v", r)
		}
	}

	limited, err := store.BestResults("example0", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d results", len(limited))
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.LevelStats("nope")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if empty.Plays != 0 || empty.BestTurns != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	for _, r := range []Result{
		{LevelID: "first-steps", Won: false, Turns: 2},
		{LevelID: "first-steps", Won: true, Turns: 5},
		{LevelID: "first-steps", Won: true, Turns: 3},
		{LevelID: "slide-home", Won: false, Turns: 1},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.LevelStats("first-steps")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Plays != 3 || stats.Wins != 2 || stats.BestTurns != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("expected a last played time")
	}

	all, err := store.AllLevelStats()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(all))
	}
	if all["slide-home"].Wins != 0 || all["slide-home"].BestTurns != 0 {
		t.Errorf("slide-home stats = %+v", all["slide-home"])
	}

	if err := store.ClearResults("first-steps"); err != nil {
		t.Fatal(err)
	}
	if stats, _ = store.LevelStats("first-steps"); stats.Plays != 0 {
		t.Errorf("results not cleared: %+v", stats)
	}
}

func TestStoreSavedGames(t *testing.T) {
	store := openTestStore(t)

	if g, err := store.LoadGame("example0", ""); err != nil || g != nil {
		t.Fatalf("LoadGame() on empty store = %v, %v", g, err)
	}

	first := []sim.Action{sim.SlideAction(1, sim.DirUp)}
	if err := store.SaveGame(SavedGame{LevelID: "example0", Actions: first}); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	second := []sim.Action{sim.SlideAction(1, sim.DirUp), sim.MoveAction(0, sim.DirDown)}
	if err := store.SaveGame(SavedGame{LevelID: "example0", Actions: second}); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}
	if err := store.SaveGame(SavedGame{LevelID: "example0", Player: "bob"}); err != nil {
		t.Fatal(err)
	}

	g, err := store.LoadGame("example0", LocalPlayer)
	if err != nil || g == nil {
		t.Fatalf("LoadGame() = %v, %v", g, err)
	}
	if !reflect.DeepEqual(g.Actions, second) {
		t.Errorf("actions = %v, want %v", g.Actions, second)
	}

	bob, err := store.LoadGame("example0", "bob")
	if err != nil || bob == nil {
		t.Fatalf("LoadGame(bob) = %v, %v", bob, err)
	}
	if len(bob.Actions) != 0 {
		t.Errorf("bob's save should be empty, got %v", bob.Actions)
	}

	if err := store.DeleteGame("example0", ""); err != nil {
		t.Fatal(err)
	}
	if g, _ := store.LoadGame("example0", ""); g != nil {
		t.Error("save not deleted")
	}
	if g, _ := store.LoadGame("example0", "bob"); g == nil {
		t.Error("deleting one player's save removed another's")
	}
	if err := store.DeleteGame("missing", ""); err != nil {
		t.Errorf("deleting a missing save: %v", err)
	}
}

func TestSavedGameRestore(t *testing.T) {
	spec := sim.LevelSpec{
		Width:  3,
		Height: 1,
		Blocks: map[sim.Coord]sim.BlockSpec{
			sim.C(0, 0): {Kind: sim.KindBasic, Tags: map[string]any{sim.TagPassable: true, sim.TagNumGoalAgents: 0}},
			sim.C(1, 0): {Kind: sim.KindBasic, Tags: map[string]any{sim.TagPassable: true, sim.TagNumGoalAgents: 0}},
			sim.C(2, 0): {Kind: sim.KindBasic, Tags: map[string]any{sim.TagPassable: true, sim.TagNumGoalAgents: 1}},
		},
		NumAgents:  1,
		MustFinish: 1,
		Starts:     []sim.Coord{sim.C(0, 0)},
		Goals:      map[string]sim.Goal{sim.StatBlocksSatisfied: {Mode: sim.Exactly, Threshold: 1}},
	}

	g := &SavedGame{LevelID: "strip", Actions: []sim.Action{sim.MoveAction(0, sim.DirRight)}}
	b, err := g.Restore(spec)
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if pos := b.AgentPosition(0); pos != sim.OnBoard(sim.C(1, 0)) {
		t.Errorf("agent at %s", pos)
	}

	g.Actions = append(g.Actions, sim.MoveAction(5, sim.DirRight))
	if _, err := g.Restore(spec); err == nil {
		t.Error("expected an error for an unknown agent")
	}
}
