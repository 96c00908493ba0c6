package sim_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-slide/internal/sim"
)

// warp sends anything that hits it to a fixed cell.
type warp struct {
	sim.Unimplemented
	to sim.Coord
}

func (w *warp) OnHit(sim.Direction) (sim.HitResult, sim.StatusUpdate) {
	return sim.MoveTo(w.to), sim.Nothing()
}
func (w *warp) Texture() sim.Texture { return sim.Texture{Kind: sim.TextureImpassable} }
func (w *warp) Spec() sim.BlockSpec {
	return sim.BlockSpec{Kind: "Warp", Tags: map[string]any{"x": w.to.X, "y": w.to.Y}}
}

func init() {
	sim.RegisterBlock("Warp", func(spec sim.BlockSpec) (sim.Block, error) {
		x, err := spec.Int("x")
		if err != nil {
			return nil, err
		}
		y, err := spec.Int("y")
		if err != nil {
			return nil, err
		}
		return &warp{Unimplemented: sim.Unimplemented{KindName: "Warp"}, to: sim.C(x, y)}, nil
	})
}

func warpSpec(to sim.Coord) sim.BlockSpec {
	return sim.BlockSpec{Kind: "Warp", Tags: map[string]any{"x": to.X, "y": to.Y}}
}

// bounceSpec is a 4x1 strip where a block sliding right from (0,0)
// reaches the warp at (2,0) and is sent back to (0,0) forever.
func bounceSpec() sim.LevelSpec {
	return sim.LevelSpec{
		Width:  4,
		Height: 1,
		Blocks: map[sim.Coord]sim.BlockSpec{
			sim.C(0, 0): basic(0),
			sim.C(2, 0): warpSpec(sim.C(0, 0)),
		},
		NumAgents:  1,
		MustFinish: 1,
		Starts:     []sim.Coord{sim.C(0, 0)},
		Goals:      map[string]sim.Goal{sim.StatBlocksSatisfied: {Mode: sim.Exactly, Threshold: 1}},
	}
}

func TestSlideStepCeiling(t *testing.T) {
	b := sim.NewBoard(bounceSpec())

	out := b.SlideAgent(0, sim.DirRight)

	if out.Steps != sim.DefaultStepLimit {
		t.Errorf("expected the slide to stop at %d steps, got %d", sim.DefaultStepLimit, out.Steps)
	}
	if b.State() != sim.Lost {
		t.Errorf("expected lost, got %s", b.State())
	}
	mustInvariants(t, b)

	b.Undo()
	if b.State() != sim.Running {
		t.Errorf("expected running after undo, got %s", b.State())
	}
}

func TestSlideStepCeilingOption(t *testing.T) {
	b := sim.NewBoard(bounceSpec(), sim.WithStepLimit(7))

	out := b.SlideAgent(0, sim.DirRight)

	if out.Steps != 7 || b.State() != sim.Lost {
		t.Errorf("steps %d state %s, want 7 lost", out.Steps, b.State())
	}
}

func TestMoveToOffBoardEjects(t *testing.T) {
	spec := bounceSpec()
	spec.Blocks[sim.C(2, 0)] = warpSpec(sim.C(-1, 0))
	b := sim.NewBoard(spec)

	out := b.SlideAgent(0, sim.DirRight)

	if !reflect.DeepEqual(out.Ejected, []sim.AgentID{0}) {
		t.Errorf("ejected = %v, want [0]", out.Ejected)
	}
	if b.State() != sim.Lost {
		t.Errorf("expected lost, got %s", b.State())
	}
	mustInvariants(t, b)
}

func TestEjectingSatisfiedGoalReleasesCredit(t *testing.T) {
	spec := sim.LevelSpec{
		Width:  3,
		Height: 1,
		Blocks: map[sim.Coord]sim.BlockSpec{
			sim.C(0, 0): basic(0),
			sim.C(1, 0): basic(1),
		},
		NumAgents:  2,
		MustFinish: 1,
		Starts:     []sim.Coord{sim.C(1, 0), sim.C(0, 0)},
		Goals: map[string]sim.Goal{
			sim.StatBlocksSatisfied: {Mode: sim.Exactly, Threshold: 2},
		},
	}
	b := sim.NewBoard(spec)
	if got := b.Progress(sim.StatBlocksSatisfied); got != 1 {
		t.Fatalf("starting progress = %d, want 1", got)
	}
	mustInvariants(t, b)

	out := b.SlideAgent(0, sim.DirRight)

	if !reflect.DeepEqual(out.Ejected, []sim.AgentID{0}) {
		t.Errorf("ejected = %v, want [0]", out.Ejected)
	}
	if got := b.Progress(sim.StatBlocksSatisfied); got != 0 {
		t.Errorf("progress = %d after ejecting the goal, want 0", got)
	}
	if b.AliveAgents() != 1 || b.State() != sim.Running {
		t.Errorf("alive %d state %s, want 1 running", b.AliveAgents(), b.State())
	}
	if kind := b.Cell(sim.C(1, 0)).Kind(); kind != sim.KindAir {
		t.Errorf("goal cell left behind a %s", kind)
	}
	mustInvariants(t, b)

	if !b.Undo() || b.Progress(sim.StatBlocksSatisfied) != 1 {
		t.Errorf("undo should restore the credit, progress %d", b.Progress(sim.StatBlocksSatisfied))
	}
	mustInvariants(t, b)
}

func TestMoveToCarriesResidents(t *testing.T) {
	// Agent 1 stands on (3,0); the warp drops agent 0's block there.
	spec := sim.LevelSpec{
		Width:  4,
		Height: 2,
		Blocks: map[sim.Coord]sim.BlockSpec{
			sim.C(0, 0): basic(0),
			sim.C(2, 0): warpSpec(sim.C(3, 1)),
			sim.C(3, 1): basic(0),
			sim.C(3, 0): basic(0),
		},
		NumAgents:  2,
		MustFinish: 2,
		Starts:     []sim.Coord{sim.C(0, 0), sim.C(3, 1)},
		Goals:      map[string]sim.Goal{sim.StatBlocksSatisfied: {Mode: sim.Exactly, Threshold: 1}},
	}
	b := sim.NewBoard(spec)

	b.SlideAgent(0, sim.DirRight)

	// (1,0) Air, (2,0) warps to (3,1), then (4,1) is off the board.
	if b.State() != sim.Lost {
		t.Errorf("expected lost, got %s", b.State())
	}
	if b.AliveAgents() != 0 {
		t.Errorf("both agents should be ejected together, alive = %d", b.AliveAgents())
	}
	mustInvariants(t, b)
}

func TestGoalThresholdEdge(t *testing.T) {
	blk := sim.NewBasicBlock(true, 2, sim.Slide{Kind: sim.FastSlide})
	inc := sim.Progressed(sim.Increase(sim.StatBlocksSatisfied, 1))
	dec := sim.Progressed(sim.Decrease(sim.StatBlocksSatisfied, 1))

	steps := []struct {
		name  string
		apply func() sim.StatusUpdate
		want  sim.StatusUpdate
	}{
		{"enter first", func() sim.StatusUpdate { return blk.EnterAgent(0) }, sim.Nothing()},
		{"enter second", func() sim.StatusUpdate { return blk.EnterAgent(1) }, inc},
		{"enter third", func() sim.StatusUpdate { return blk.EnterAgent(2) }, sim.Nothing()},
		{"remove third", func() sim.StatusUpdate { return blk.RemoveAgent(2) }, sim.Nothing()},
		{"remove second", func() sim.StatusUpdate { return blk.RemoveAgent(1) }, dec},
		{"remove first", func() sim.StatusUpdate { return blk.RemoveAgent(0) }, sim.Nothing()},
	}

	for _, s := range steps {
		if got := s.apply(); !reflect.DeepEqual(got, s.want) {
			t.Errorf("%s: got %+v, want %+v", s.name, got, s.want)
		}
	}
	if len(blk.Agents()) != 0 {
		t.Errorf("expected empty block, got %v", blk.Agents())
	}
}

func TestBasicBlockDuplicateEntryPanics(t *testing.T) {
	blk := sim.NewBasicBlock(true, 0, sim.Slide{Kind: sim.FastSlide})
	blk.EnterAgent(3)

	expectInvariantPanic(t, func() { blk.EnterAgent(3) })
	expectInvariantPanic(t, func() { blk.RemoveAgent(4) })
}

func TestAirCapabilities(t *testing.T) {
	air := sim.NewAir()

	for _, d := range append([]sim.Direction{sim.DirNone}, sim.Directions...) {
		if air.CanEnter(d) {
			t.Errorf("Air should not be enterable from %s", d)
		}
		if hit, _ := air.OnHit(d); hit.Kind != sim.HitNoResistance {
			t.Errorf("Air hit from %s = %s, want NoResistance", d, hit)
		}
	}
	if len(air.Agents()) != 0 {
		t.Error("Air should hold no agents")
	}
	if air.OnDestruction() != sim.DestructionNone {
		t.Error("Air destruction should have no effect")
	}
	expectInvariantPanic(t, func() { air.EnterAgent(0) })
	expectInvariantPanic(t, func() { air.StartSlide(sim.DirUp) })
}

func TestUnimplementedDefaults(t *testing.T) {
	u := sim.Unimplemented{KindName: "Bare"}

	if u.CanEnter(sim.DirUp) {
		t.Error("default CanEnter should be false")
	}
	expectInvariantPanic(t, func() { u.OnHit(sim.DirUp) })
	expectInvariantPanic(t, func() { u.Texture() })
	expectInvariantPanic(t, func() { u.Spec() })
	expectInvariantPanic(t, func() { u.RemoveAgent(0) })
}

func TestBasicBlockFromSpec(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]any
		wantErr  string
		wantTex  sim.TextureKind
		wantKind sim.SlideKind
	}{
		{"default slide", map[string]any{"passable": true, "num_goal_agents": 0}, "", sim.TextureBasic, sim.FastSlide},
		{"impassable", map[string]any{"passable": false, "num_goal_agents": int64(0)}, "", sim.TextureImpassable, sim.FastSlide},
		{"goal", map[string]any{"passable": true, "num_goal_agents": 2.0, "slide": "NoSlide"}, "", sim.TextureGoal, sim.NoSlide},
		{"slow", map[string]any{"passable": true, "num_goal_agents": 0, "slide": "SlowSlide", "slide_steps": 3}, "", sim.TextureBasic, sim.SlowSlide},
		{"missing passable", map[string]any{"num_goal_agents": 0}, "MISSING_TAG", 0, 0},
		{"string passable", map[string]any{"passable": "yes", "num_goal_agents": 0}, "BAD_TAG", 0, 0},
		{"fractional goal", map[string]any{"passable": true, "num_goal_agents": 1.5}, "BAD_TAG", 0, 0},
		{"negative goal", map[string]any{"passable": true, "num_goal_agents": -1}, "BAD_TAG", 0, 0},
		{"unknown slide", map[string]any{"passable": true, "num_goal_agents": 0, "slide": "Warp"}, "BAD_TAG", 0, 0},
		{"slow without steps", map[string]any{"passable": true, "num_goal_agents": 0, "slide": "SlowSlide"}, "MISSING_TAG", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blk, err := sim.NewBlock(sim.BlockSpec{Kind: sim.KindBasic, Tags: tt.tags})
			if tt.wantErr != "" {
				var verr sim.ValidationError
				if !errors.As(err, &verr) || verr.Code != tt.wantErr {
					t.Fatalf("expected %s error, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if blk.Texture().Kind != tt.wantTex {
				t.Errorf("texture = %v, want %v", blk.Texture().Kind, tt.wantTex)
			}
			if slide, _ := blk.StartSlide(sim.DirUp); slide.Kind != tt.wantKind {
				t.Errorf("slide = %s, want %s", slide.Kind, tt.wantKind)
			}

			// Spec round-trips to an equivalent block.
			again, err := sim.NewBlock(blk.Spec())
			if err != nil {
				t.Fatalf("rebuilding from Spec: %v", err)
			}
			if !reflect.DeepEqual(again.Spec(), blk.Spec()) {
				t.Errorf("Spec round trip: %v != %v", again.Spec(), blk.Spec())
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	kinds := sim.BlockKinds()
	for _, want := range []string{sim.KindAir, sim.KindBasic, "Warp"} {
		found := false
		for _, k := range kinds {
			found = found || k == want
		}
		if !found {
			t.Errorf("kind %q not registered (have %v)", want, kinds)
		}
	}

	if _, err := sim.NewBlock(sim.BlockSpec{Kind: "Lava"}); err == nil {
		t.Error("expected an error for an unknown kind")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	sim.RegisterBlock(sim.KindAir, func(sim.BlockSpec) (sim.Block, error) { return sim.NewAir(), nil })
}
