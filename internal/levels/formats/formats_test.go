package formats_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-slide/internal/levels/formats"
	"github.com/vovakirdan/tui-slide/internal/sim"
)

const validTOML = `
x_size = 3
y_size = 2
num_agents = 1

[block.0.0]
type = "BasicBlock"
passable = true
num_goal_agents = 0
slide = "NoSlide"

[block.2.1]
type = "BasicBlock"
passable = true
num_goal_agents = 1

[agent.0]
start = [0, 0]

[victory_conditions]
BlocksSatisfied = { at_least = 1 }
`

func TestParseTOML(t *testing.T) {
	lvl, err := formats.ParseTOML([]byte(validTOML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := lvl.Spec
	if spec.Width != 3 || spec.Height != 2 {
		t.Errorf("size %dx%d, want 3x2", spec.Width, spec.Height)
	}
	if spec.MustFinish != 1 {
		t.Errorf("must finish should default to the agent count, got %d", spec.MustFinish)
	}
	if got := spec.Goals[sim.StatBlocksSatisfied]; got != (sim.Goal{Mode: sim.AtLeast, Threshold: 1}) {
		t.Errorf("goal = %s", got)
	}
	block := spec.Blocks[sim.C(0, 0)]
	if block.Kind != sim.KindBasic {
		t.Errorf("kind = %s", block.Kind)
	}
	if block.Has("type") {
		t.Error("type should not be kept as a tag")
	}
	if slide, _ := block.String("slide"); slide != "NoSlide" {
		t.Errorf("slide tag = %q", slide)
	}
}

func TestParseTOMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(string) string
		field   string
		wantMsg string
	}{
		{"missing x", drop("x_size = 3\n"), "x_size", "missing x dimension"},
		{"string y", swap("y_size = 2", `y_size = "2"`), "y_size", "must be an integer"},
		{"no victory", drop("[victory_conditions]\nBlocksSatisfied = { at_least = 1 }\n"), "victory_conditions", "no victory conditions"},
		{"bad mode", swap("at_least", "around"), "victory_conditions.BlocksSatisfied", "unknown goal mode"},
		{"bool goal", swap("{ at_least = 1 }", "true"), "victory_conditions.BlocksSatisfied", "integer value"},
		{"bad coordinate", swap("[block.2.1]", "[block.two.1]"), "block.two", "coordinate"},
		{"missing type", swap("type = \"BasicBlock\"\npassable = true\nnum_goal_agents = 1", "passable = true\nnum_goal_agents = 1"), "block.2.1.type", "missing block type"},
		{"agent count", swap("num_agents = 1", "num_agents = 2"), "agent", "does not match"},
		{"agent id", swap("[agent.0]", "[agent.7]"), "agent.7", "invalid agent id"},
		{"short start", swap("start = [0, 0]", "start = [0]"), "agent.0.start", "two ints"},
		{"start on air", swap("start = [0, 0]", "start = [1, 1]"), "level", "BAD_START"},
		{"block out of bounds", swap("[block.2.1]", "[block.3.1]"), "level", "OUT_OF_BOUNDS"},
		{"bad tag", swap("passable = true\nnum_goal_agents = 1", "passable = 1\nnum_goal_agents = 1"), "level", "BAD_TAG"},
		{"huge board", swap("x_size = 3\ny_size = 2", "x_size = 4294967296\ny_size = 4294967296"), "level", "BAD_SIZE"},
		{"syntax", func(string) string { return "x_size = = 3" }, "", "toml parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.edit(validTOML)
			if src == validTOML {
				t.Fatal("edit did not change the input")
			}
			_, err := formats.ParseTOML([]byte(src))
			assertFieldError(t, err, tt.field, tt.wantMsg)
		})
	}
}

const validYAML = `
id: demo
name: Demo
size: {x: 3, y: 2}
agents:
  count: 1
  starts: [[0, 0]]
victory:
  BlocksSatisfied: {exactly: 1}
blocks:
  - {at: [0, 0], type: BasicBlock, tags: {passable: true, num_goal_agents: 0}}
  - {at: [2, 1], type: BasicBlock, tags: {passable: true, num_goal_agents: 1}}
metadata:
  author: test
`

func TestParseYAML(t *testing.T) {
	lvl, err := formats.ParseYAML([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lvl.ID != "demo" || lvl.Name != "Demo" {
		t.Errorf("id %q name %q", lvl.ID, lvl.Name)
	}
	if lvl.Metadata["author"] != "test" {
		t.Errorf("metadata = %v", lvl.Metadata)
	}
	if got := lvl.Spec.Goals[sim.StatBlocksSatisfied]; got != (sim.Goal{Mode: sim.Exactly, Threshold: 1}) {
		t.Errorf("goal = %s", got)
	}
	if len(lvl.Spec.Blocks) != 2 || lvl.Spec.Starts[0] != sim.C(0, 0) {
		t.Errorf("blocks %v starts %v", lvl.Spec.Blocks, lvl.Spec.Starts)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(string) string
		field   string
		wantMsg string
	}{
		{"missing size", drop("size: {x: 3, y: 2}\n"), "size", "missing board size"},
		{"missing y", swap("{x: 3, y: 2}", "{x: 3}"), "size.y", "missing y dimension"},
		{"huge board", swap("{x: 3, y: 2}", "{x: 100000, y: 100000}"), "level", "BAD_SIZE"},
		{"missing agents", swap("agents:\n  count: 1\n  starts: [[0, 0]]\n", ""), "agents", "no agents"},
		{"missing count", swap("  count: 1\n", ""), "agents.count", "missing number of agents"},
		{"start count", swap("count: 1", "count: 2"), "agents.starts", "2 agents declared"},
		{"short coordinate", swap("at: [2, 1]", "at: [2]"), "blocks[1].at", "two integers"},
		{"missing type", swap("type: BasicBlock, tags: {passable: true, num_goal_agents: 1}", "tags: {passable: true, num_goal_agents: 1}"), "blocks[1].type", "missing block type"},
		{"duplicate block", swap("at: [2, 1]", "at: [0, 0]"), "blocks[1].at", "already placed"},
		{"no victory", swap("victory:\n  BlocksSatisfied: {exactly: 1}\n", ""), "victory", "no victory conditions"},
		{"two modes", swap("{exactly: 1}", "{exactly: 1, at_most: 2}"), "victory.BlocksSatisfied", "exactly one mode"},
		{"bad mode", swap("exactly", "roughly"), "victory.BlocksSatisfied", "unknown goal mode"},
		{"wrong type", swap("count: 1", "count: one"), "", "yaml unmarshal"},
		{"unknown block", swap("type: BasicBlock, tags: {passable: true, num_goal_agents: 1}", "type: Lava"), "level", "UNKNOWN_BLOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.edit(validYAML)
			if src == validYAML {
				t.Fatal("edit did not change the input")
			}
			_, err := formats.ParseYAML([]byte(src))
			assertFieldError(t, err, tt.field, tt.wantMsg)
		})
	}
}

func TestParseByExtension(t *testing.T) {
	if _, err := formats.Parse([]byte(validYAML), ".yml"); err != nil {
		t.Errorf(".yml: %v", err)
	}
	if _, err := formats.Parse([]byte(validTOML), ".toml"); err != nil {
		t.Errorf(".toml: %v", err)
	}
	if _, err := formats.Parse([]byte(validYAML), ".json"); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func assertFieldError(t *testing.T, err error, field, wantMsg string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var fe *formats.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %T: %v", err, err)
	}
	if fe.Field != field {
		t.Errorf("field = %q, want %q (%v)", fe.Field, field, err)
	}
	if !strings.Contains(err.Error(), wantMsg) {
		t.Errorf("error %q does not mention %q", err, wantMsg)
	}
}

func drop(s string) func(string) string {
	return swap(s, "")
}

func swap(old, repl string) func(string) string {
	return func(src string) string {
		return strings.Replace(src, old, repl, 1)
	}
}
