package sim_test

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-slide/internal/sim"
)

func basic(goal int) sim.BlockSpec {
	return sim.BlockSpec{Kind: sim.KindBasic, Tags: map[string]any{
		sim.TagPassable:      true,
		sim.TagNumGoalAgents: goal,
	}}
}

// exampleSpec is the 5x5 two-agent level: agent 0 on a block at (4,0),
// agent 1 at (4,4), a goal at (2,2) needing both agents.
func exampleSpec() sim.LevelSpec {
	return sim.LevelSpec{
		Width:  5,
		Height: 5,
		Blocks: map[sim.Coord]sim.BlockSpec{
			sim.C(4, 0): basic(0),
			sim.C(0, 1): basic(0),
			sim.C(3, 1): basic(0),
			sim.C(2, 2): basic(2),
			sim.C(4, 4): basic(0),
		},
		NumAgents:  2,
		MustFinish: 2,
		Starts:     []sim.Coord{sim.C(4, 0), sim.C(4, 4)},
		Goals: map[string]sim.Goal{
			sim.StatBlocksSatisfied: {Mode: sim.Exactly, Threshold: 1},
		},
	}
}

// winningLine solves exampleSpec.
var winningLine = []sim.Action{
	sim.SlideAction(1, sim.DirUp),
	sim.MoveAction(0, sim.DirDown),
	sim.MoveAction(0, sim.DirLeft),
	sim.SlideAction(0, sim.DirLeft),
	sim.SlideAction(1, sim.DirLeft),
	sim.MoveAction(0, sim.DirRight),
	sim.MoveAction(0, sim.DirDown),
	sim.MoveAction(1, sim.DirDown),
}

func mustInvariants(t *testing.T, b *sim.Board) {
	t.Helper()
	if err := b.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func expectInvariantPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if _, ok := sim.AsInvariant(r); !ok {
			t.Fatalf("expected *sim.InvariantError, got %T: %v", r, r)
		}
	}()
	fn()
}

func TestNewBoardStartingState(t *testing.T) {
	b := sim.NewBoard(exampleSpec())

	w, h := b.Dimensions()
	if w != 5 || h != 5 {
		t.Errorf("expected 5x5, got %dx%d", w, h)
	}
	if b.State() != sim.Running {
		t.Errorf("expected running, got %s", b.State())
	}
	if b.AliveAgents() != 2 {
		t.Errorf("expected 2 alive agents, got %d", b.AliveAgents())
	}
	if got := b.AgentPosition(0); got != sim.OnBoard(sim.C(4, 0)) {
		t.Errorf("agent 0 at %s, want (4,0)", got)
	}
	if got := b.Cell(sim.C(4, 4)).Agents(); !reflect.DeepEqual(got, []sim.AgentID{1}) {
		t.Errorf("cell (4,4) agents = %v, want [1]", got)
	}
	if b.Cell(sim.C(0, 0)).Kind() != sim.KindAir {
		t.Errorf("unplaced cell should be Air, got %s", b.Cell(sim.C(0, 0)).Kind())
	}
	if tex := b.Cell(sim.C(2, 2)).Texture(); tex.Kind != sim.TextureGoal || tex.Goal != 2 {
		t.Errorf("goal texture = %+v", tex)
	}
	mustInvariants(t, b)
}

func TestCanMoveAgentDoesNotMutate(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	before := b.Snapshot()

	for i := 0; i < 3; i++ {
		for _, d := range sim.Directions {
			first := b.CanMoveAgent(0, d)
			if second := b.CanMoveAgent(0, d); first != second {
				t.Errorf("CanMoveAgent(0, %s) not stable: %v then %v", d, first, second)
			}
		}
	}

	if !reflect.DeepEqual(before, b.Snapshot()) {
		t.Error("CanMoveAgent changed the board")
	}
	// Neighbours of (4,0) are Air.
	if b.CanMoveAgent(0, sim.DirLeft) || b.CanMoveAgent(0, sim.DirDown) {
		t.Error("agent 0 should not be able to walk into Air")
	}
	if b.CanMoveAgent(0, sim.DirUp) || b.CanMoveAgent(0, sim.DirRight) {
		t.Error("agent 0 should not be able to walk off the board")
	}
}

func TestIllegalMoveIsLoggedNoOp(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	before := b.Snapshot().Hash()

	out := b.MoveAgent(0, sim.DirUp)

	if out.Moved {
		t.Error("move off the board should not move")
	}
	if b.Turns() != 1 {
		t.Errorf("expected the no-op to be logged, turns = %d", b.Turns())
	}
	if b.Snapshot().Hash() != before {
		t.Error("no-op move changed the board")
	}
}

func TestSlideStopsAtBlock(t *testing.T) {
	b := sim.NewBoard(exampleSpec())

	out := b.SlideAgent(1, sim.DirUp)

	// (4,3), (4,2), (4,1) are Air, (4,0) stops it.
	if out.Steps != 4 {
		t.Errorf("expected 4 steps, got %d", out.Steps)
	}
	if !out.Moved {
		t.Error("expected the slide to move")
	}
	if got := b.AgentPosition(1); got != sim.OnBoard(sim.C(4, 1)) {
		t.Errorf("agent 1 at %s, want (4,1)", got)
	}
	if b.Cell(sim.C(4, 4)).Kind() != sim.KindAir {
		t.Error("slide origin should become Air")
	}
	if b.Cell(sim.C(4, 1)).Kind() != sim.KindBasic {
		t.Error("block should have moved to (4,1)")
	}
	mustInvariants(t, b)
}

func TestSlideOffEdgeLoses(t *testing.T) {
	b := sim.NewBoard(exampleSpec())

	out := b.SlideAgent(0, sim.DirLeft)

	if b.State() != sim.Lost {
		t.Errorf("expected lost, got %s", b.State())
	}
	if b.AliveAgents() != 1 {
		t.Errorf("expected alive count 1, got %d", b.AliveAgents())
	}
	if !reflect.DeepEqual(out.Ejected, []sim.AgentID{0}) {
		t.Errorf("ejected = %v, want [0]", out.Ejected)
	}
	if b.AgentPosition(0).IsOnBoard() {
		t.Error("ejected agent should be off the board")
	}
	for x := 0; x < 5; x++ {
		if k := b.Cell(sim.C(x, 0)).Kind(); k != sim.KindAir {
			t.Errorf("row 0 cell %d should be Air after ejection, got %s", x, k)
		}
	}
	mustInvariants(t, b)
}

func TestEjectionWithinMustFinishKeepsRunning(t *testing.T) {
	spec := exampleSpec()
	spec.MustFinish = 1
	b := sim.NewBoard(spec)

	b.SlideAgent(0, sim.DirLeft)

	if b.State() != sim.Running {
		t.Errorf("expected running with one agent to spare, got %s", b.State())
	}
	if b.AliveAgents() != 1 {
		t.Errorf("expected alive count 1, got %d", b.AliveAgents())
	}
	// Ejected agents cannot act but the turn is still logged.
	if b.CanMoveAgent(0, sim.DirUp) {
		t.Error("ejected agent should not be able to move")
	}
	out := b.SlideAgent(0, sim.DirRight)
	if out.Moved || b.Turns() != 2 {
		t.Errorf("slide of ejected agent: moved=%v turns=%d", out.Moved, b.Turns())
	}
	mustInvariants(t, b)
}

func TestWinningScenario(t *testing.T) {
	b := sim.NewBoard(exampleSpec())

	for i, act := range winningLine {
		out := b.Apply(act)
		mustInvariants(t, b)
		if i < len(winningLine)-1 && out.State != sim.Running {
			t.Fatalf("action %d (%s): state %s, want running", i, act, out.State)
		}
	}

	if b.State() != sim.Won {
		t.Fatalf("expected won, got %s", b.State())
	}
	if got := b.Progress(sim.StatBlocksSatisfied); got != 1 {
		t.Errorf("BlocksSatisfied = %d, want 1", got)
	}
	if got := b.Cell(sim.C(2, 2)).Agents(); !reflect.DeepEqual(got, []sim.AgentID{0, 1}) {
		t.Errorf("goal agents = %v, want [0 1]", got)
	}

	if !b.Undo() {
		t.Fatal("undo should succeed")
	}
	if b.State() != sim.Running {
		t.Errorf("expected running after undo, got %s", b.State())
	}
	if got := b.Progress(sim.StatBlocksSatisfied); got != 0 {
		t.Errorf("BlocksSatisfied after undo = %d, want 0", got)
	}
	if b.Turns() != len(winningLine)-1 {
		t.Errorf("turns after undo = %d, want %d", b.Turns(), len(winningLine)-1)
	}
	mustInvariants(t, b)
}

func TestUndoRoundTrip(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	start := b.Snapshot()

	for _, act := range winningLine[:len(winningLine)-1] {
		b.Apply(act)
	}
	for b.Undo() {
		mustInvariants(t, b)
	}

	end := b.Snapshot()
	if !reflect.DeepEqual(start, end) {
		t.Errorf("snapshot after undoing everything differs:\nstart %+v\nend   %+v", start, end)
	}
	if start.Hash() != end.Hash() {
		t.Error("hash after undoing everything differs")
	}
	if b.Undo() {
		t.Error("undo on an empty log should report false")
	}
}

func TestUndoRestoresLostGame(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	start := b.Snapshot().Hash()

	b.SlideAgent(0, sim.DirLeft)
	if b.State() != sim.Lost {
		t.Fatalf("expected lost, got %s", b.State())
	}

	b.Undo()

	if b.State() != sim.Running || b.AliveAgents() != 2 {
		t.Errorf("after undo: state %s alive %d", b.State(), b.AliveAgents())
	}
	if b.Snapshot().Hash() != start {
		t.Error("undo did not restore the start position")
	}
}

func TestRandomPlayKeepsInvariantsAndUndoes(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 20; round++ {
		b := sim.NewBoard(exampleSpec())
		start := b.Snapshot()

		for i := 0; i < 30 && b.State() == sim.Running; i++ {
			a := sim.AgentID(rng.IntN(2))
			d := sim.Directions[rng.IntN(len(sim.Directions))]
			if rng.IntN(2) == 0 {
				b.MoveAgent(a, d)
			} else {
				b.SlideAgent(a, d)
			}
			mustInvariants(t, b)
		}

		replayed, err := sim.Replay(exampleSpec(), b.Actions())
		if err != nil {
			t.Fatalf("round %d: replay: %v", round, err)
		}
		if replayed.Snapshot().Hash() != b.Snapshot().Hash() {
			t.Errorf("round %d: replay diverged", round)
		}

		for b.Undo() {
			mustInvariants(t, b)
		}
		if !reflect.DeepEqual(start, b.Snapshot()) {
			t.Errorf("round %d: undo did not return to the start", round)
		}
	}
}

func TestRestart(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	start := b.Snapshot()

	b.SlideAgent(1, sim.DirUp)
	b.MoveAgent(0, sim.DirDown)
	b.Restart()

	if b.Turns() != 0 {
		t.Errorf("restart should clear the log, turns = %d", b.Turns())
	}
	if !reflect.DeepEqual(start, b.Snapshot()) {
		t.Error("restart did not restore the start position")
	}
}

func TestActionAfterGameOverPanics(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	b.SlideAgent(0, sim.DirLeft)

	expectInvariantPanic(t, func() { b.MoveAgent(1, sim.DirUp) })
	expectInvariantPanic(t, func() { b.SlideAgent(1, sim.DirUp) })
}

func TestUnknownAgentPanics(t *testing.T) {
	b := sim.NewBoard(exampleSpec())

	expectInvariantPanic(t, func() { b.MoveAgent(2, sim.DirUp) })
	expectInvariantPanic(t, func() { b.CanMoveAgent(-1, sim.DirUp) })
}

func TestCellOutOfBoundsPanics(t *testing.T) {
	b := sim.NewBoard(exampleSpec())
	expectInvariantPanic(t, func() { b.Cell(sim.C(5, 0)) })
}

func TestNewBoardRejectsInvalidSpec(t *testing.T) {
	spec := exampleSpec()
	spec.Starts = spec.Starts[:1]
	expectInvariantPanic(t, func() { sim.NewBoard(spec) })
}

func TestNewBoardFreezesSpec(t *testing.T) {
	spec := exampleSpec()
	b := sim.NewBoard(spec)

	spec.Blocks[sim.C(0, 0)] = basic(0)
	spec.Starts[0] = sim.C(0, 0)
	b.Restart()

	if b.Cell(sim.C(0, 0)).Kind() != sim.KindAir {
		t.Error("board should not see changes to the caller's spec")
	}
	if got := b.AgentPosition(0); got != sim.OnBoard(sim.C(4, 0)) {
		t.Errorf("agent 0 restarted at %s", got)
	}
}

func TestReplayRejectsBadLogs(t *testing.T) {
	tests := []struct {
		name    string
		actions []sim.Action
	}{
		{"unknown agent", []sim.Action{sim.MoveAction(5, sim.DirUp)}},
		{"after loss", []sim.Action{sim.SlideAction(0, sim.DirLeft), sim.MoveAction(1, sim.DirUp)}},
		{"after win", append(append([]sim.Action(nil), winningLine...), sim.MoveAction(0, sim.DirUp))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Replay(exampleSpec(), tt.actions); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestReplayRejectsInvalidSpec(t *testing.T) {
	spec := exampleSpec()
	spec.Width = 0
	if _, err := sim.Replay(spec, nil); err == nil {
		t.Error("expected an error for an invalid level")
	}
}
