package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-slide/internal/sim"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
// Required scalars are pointers so a missing field is told apart from zero.
type YAMLLevel struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description,omitempty"`
	Size        *YAMLSize            `yaml:"size"`
	Agents      *YAMLAgents          `yaml:"agents"`
	Victory     map[string]yaml.Node `yaml:"victory"`
	Blocks      []YAMLBlock          `yaml:"blocks"`
	Metadata    map[string]string    `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	X *int `yaml:"x"`
	Y *int `yaml:"y"`
}

// YAMLAgents describes the agents of a level.
type YAMLAgents struct {
	Count      *int    `yaml:"count"`
	MustFinish *int    `yaml:"must_finish,omitempty"`
	Starts     [][]int `yaml:"starts"`
}

// YAMLBlock places a single non-Air block.
type YAMLBlock struct {
	At   []int          `yaml:"at"`
	Type string         `yaml:"type"`
	Tags map[string]any `yaml:"tags,omitempty"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, &FieldError{Msg: fmt.Sprintf("yaml unmarshal: %v", err), Err: err}
	}

	level := Level{
		ID:          yl.ID,
		Name:        yl.Name,
		Description: yl.Description,
		Metadata:    yl.Metadata,
	}

	if yl.Size == nil {
		return Level{}, fieldErr("size", "missing board size")
	}
	if yl.Size.X == nil {
		return Level{}, fieldErr("size.x", "missing x dimension")
	}
	if yl.Size.Y == nil {
		return Level{}, fieldErr("size.y", "missing y dimension")
	}
	level.Spec.Width = *yl.Size.X
	level.Spec.Height = *yl.Size.Y

	level.Spec.Blocks = make(map[sim.Coord]sim.BlockSpec, len(yl.Blocks))
	for i, b := range yl.Blocks {
		field := fmt.Sprintf("blocks[%d]", i)
		c, err := yamlCoord(field+".at", b.At)
		if err != nil {
			return Level{}, err
		}
		if b.Type == "" {
			return Level{}, fieldErr(field+".type", "missing block type")
		}
		if _, dup := level.Spec.Blocks[c]; dup {
			return Level{}, fieldErr(field+".at", "a block is already placed at %s", c)
		}
		level.Spec.Blocks[c] = sim.BlockSpec{Kind: b.Type, Tags: b.Tags}
	}

	if yl.Agents == nil {
		return Level{}, fieldErr("agents", "no agents in level")
	}
	if yl.Agents.Count == nil {
		return Level{}, fieldErr("agents.count", "missing number of agents")
	}
	level.Spec.NumAgents = *yl.Agents.Count
	level.Spec.MustFinish = level.Spec.NumAgents
	if yl.Agents.MustFinish != nil {
		level.Spec.MustFinish = *yl.Agents.MustFinish
	}
	if len(yl.Agents.Starts) != level.Spec.NumAgents {
		return Level{}, fieldErr("agents.starts", "%d agents declared but %d start positions given",
			level.Spec.NumAgents, len(yl.Agents.Starts))
	}
	for i, s := range yl.Agents.Starts {
		c, err := yamlCoord(fmt.Sprintf("agents.starts[%d]", i), s)
		if err != nil {
			return Level{}, err
		}
		level.Spec.Starts = append(level.Spec.Starts, c)
	}

	if len(yl.Victory) == 0 {
		return Level{}, fieldErr("victory", "no victory conditions in level")
	}
	level.Spec.Goals = make(map[string]sim.Goal, len(yl.Victory))
	for stat, node := range yl.Victory {
		g, err := yamlGoal("victory."+stat, &node)
		if err != nil {
			return Level{}, err
		}
		level.Spec.Goals[stat] = g
	}

	return finish(level)
}

func yamlCoord(field string, v []int) (sim.Coord, error) {
	if len(v) != 2 {
		return sim.Coord{}, fieldErr(field, "coordinate must be a list of two integers, got %d values", len(v))
	}
	return sim.C(v[0], v[1]), nil
}

// yamlGoal accepts a bare integer (exactly) or a one-entry mapping such as
// {at_least: 2}.
func yamlGoal(field string, node *yaml.Node) (sim.Goal, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var n int64
		if err := node.Decode(&n); err != nil {
			return sim.Goal{}, fieldErr(field, "victory condition must be an integer: %v", err)
		}
		return ParseGoal(field, "exactly", n)
	case yaml.MappingNode:
		var m map[string]int64
		if err := node.Decode(&m); err != nil {
			return sim.Goal{}, fieldErr(field, "victory condition must map a mode to an integer: %v", err)
		}
		if len(m) != 1 {
			return sim.Goal{}, fieldErr(field, "victory condition needs exactly one mode, got %d", len(m))
		}
		for mode, n := range m {
			return ParseGoal(field, mode, n)
		}
	}
	return sim.Goal{}, fieldErr(field, "victory condition must be an integer or a mapping")
}
