package formats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/vovakirdan/tui-slide/internal/sim"
)

// ParseTOML parses the classic level format:
//
//	x_size = 5
//	y_size = 5
//	num_agents = 2
//	num_agents_must_finish = 2   # optional
//
//	[block.4.0]
//	type = "BasicBlock"
//	passable = true
//	num_goal_agents = 0
//
//	[agent.0]
//	start = [4, 0]
//
//	[victory_conditions]
//	BlocksSatisfied = 1            # exactly 1
//	Other = { at_least = 2 }
//
// Optional top-level id, name and description strings are also read.
func ParseTOML(data []byte) (Level, error) {
	var table map[string]any
	if err := toml.Unmarshal(data, &table); err != nil {
		return Level{}, &FieldError{Msg: fmt.Sprintf("toml parse: %v", err), Err: err}
	}

	var (
		level Level
		err   error
	)
	if level.ID, err = optString(table, "id"); err != nil {
		return Level{}, err
	}
	if level.Name, err = optString(table, "name"); err != nil {
		return Level{}, err
	}
	if level.Description, err = optString(table, "description"); err != nil {
		return Level{}, err
	}

	if level.Spec.Goals, err = tomlVictory(table); err != nil {
		return Level{}, err
	}
	if err := tomlBlocks(table, &level.Spec); err != nil {
		return Level{}, err
	}
	if err := tomlAgents(table, &level.Spec); err != nil {
		return Level{}, err
	}

	return finish(level)
}

func reqInt(table map[string]any, key, missing string) (int, error) {
	v, ok := table[key]
	if !ok {
		return 0, fieldErr(key, "%s", missing)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fieldErr(key, "must be an integer, got %T", v)
	}
	return int(n), nil
}

func optString(table map[string]any, key string) (string, error) {
	v, ok := table[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fieldErr(key, "must be a string, got %T", v)
	}
	return s, nil
}

func subTable(v any, field, what string) (map[string]any, error) {
	t, ok := v.(map[string]any)
	if !ok {
		return nil, fieldErr(field, "%s must be a table, got %T", what, v)
	}
	return t, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func tomlBlocks(table map[string]any, spec *sim.LevelSpec) error {
	var err error
	if spec.Width, err = reqInt(table, "x_size", "missing x dimension"); err != nil {
		return err
	}
	if spec.Height, err = reqInt(table, "y_size", "missing y dimension"); err != nil {
		return err
	}

	raw, ok := table["block"]
	if !ok {
		return fieldErr("block", "no blocks found")
	}
	columns, err := subTable(raw, "block", "blocks")
	if err != nil {
		return err
	}

	spec.Blocks = make(map[sim.Coord]sim.BlockSpec)
	for _, xs := range sortedKeys(columns) {
		x, err := strconv.Atoi(xs)
		if err != nil {
			return fieldErr("block."+xs, "coordinate not specified correctly")
		}
		row, err := subTable(columns[xs], "block."+xs, "block column")
		if err != nil {
			return err
		}
		for _, ys := range sortedKeys(row) {
			field := "block." + xs + "." + ys
			y, err := strconv.Atoi(ys)
			if err != nil {
				return fieldErr(field, "coordinate not specified correctly")
			}
			entries, err := subTable(row[ys], field, "block")
			if err != nil {
				return err
			}
			kind, ok := entries["type"].(string)
			if !ok {
				return fieldErr(field+".type", "missing block type")
			}
			tags := make(map[string]any, len(entries)-1)
			for k, v := range entries {
				if k != "type" {
					tags[k] = v
				}
			}
			spec.Blocks[sim.C(x, y)] = sim.BlockSpec{Kind: kind, Tags: tags}
		}
	}
	return nil
}

func tomlAgents(table map[string]any, spec *sim.LevelSpec) error {
	var err error
	if spec.NumAgents, err = reqInt(table, "num_agents", "missing number of agents"); err != nil {
		return err
	}
	spec.MustFinish = spec.NumAgents
	if _, ok := table["num_agents_must_finish"]; ok {
		if spec.MustFinish, err = reqInt(table, "num_agents_must_finish", ""); err != nil {
			return err
		}
	}

	raw, ok := table["agent"]
	if !ok {
		return fieldErr("agent", "no agents in level")
	}
	agents, err := subTable(raw, "agent", "agents")
	if err != nil {
		return err
	}
	if len(agents) != spec.NumAgents {
		return fieldErr("agent", "number of agents specified (%d) does not match number declared (%d)",
			spec.NumAgents, len(agents))
	}

	spec.Starts = make([]sim.Coord, spec.NumAgents)
	for key, v := range agents {
		field := "agent." + key
		id, err := strconv.Atoi(key)
		if err != nil {
			return fieldErr(field, "invalid agent id (not an int)")
		}
		if id < 0 || id >= spec.NumAgents {
			return fieldErr(field, "invalid agent id (must be below %d)", spec.NumAgents)
		}
		info, err := subTable(v, field, "agent")
		if err != nil {
			return err
		}
		start, ok := info["start"]
		if !ok {
			return fieldErr(field+".start", "agent missing start position")
		}
		arr, ok := start.([]any)
		if !ok || len(arr) != 2 {
			return fieldErr(field+".start", "start position must be an array of two ints")
		}
		x, okX := arr[0].(int64)
		y, okY := arr[1].(int64)
		if !okX || !okY {
			return fieldErr(field+".start", "start position must be an array of two ints")
		}
		spec.Starts[id] = sim.C(int(x), int(y))
	}
	return nil
}

func tomlVictory(table map[string]any) (map[string]sim.Goal, error) {
	raw, ok := table["victory_conditions"]
	if !ok {
		return nil, fieldErr("victory_conditions", "no victory conditions in level")
	}
	conds, err := subTable(raw, "victory_conditions", "victory conditions")
	if err != nil {
		return nil, err
	}
	if len(conds) == 0 {
		return nil, fieldErr("victory_conditions", "no victory conditions in level")
	}

	goals := make(map[string]sim.Goal, len(conds))
	for stat, v := range conds {
		field := "victory_conditions." + stat
		var g sim.Goal
		switch val := v.(type) {
		case int64:
			g, err = ParseGoal(field, "exactly", val)
		case map[string]any:
			if len(val) != 1 {
				return nil, fieldErr(field, "victory condition needs exactly one mode, got %d", len(val))
			}
			for mode, nv := range val {
				n, ok := nv.(int64)
				if !ok {
					return nil, fieldErr(field+"."+mode, "must be an integer, got %T", nv)
				}
				g, err = ParseGoal(field, mode, n)
			}
		default:
			return nil, fieldErr(field, "victory condition must be assigned an integer value, got %T", v)
		}
		if err != nil {
			return nil, err
		}
		goals[stat] = g
	}
	return goals, nil
}
