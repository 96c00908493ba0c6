package sim

import (
	"fmt"
	"slices"
)

// Built-in block kinds.
const (
	KindAir   = "Air"
	KindBasic = "BasicBlock"
)

// Tag names understood by BasicBlock.
const (
	TagPassable      = "passable"
	TagNumGoalAgents = "num_goal_agents"
	TagSlide         = "slide"
	TagSlideSteps    = "slide_steps"
)

func init() {
	RegisterBlock(KindAir, func(BlockSpec) (Block, error) { return NewAir(), nil })
	RegisterBlock(KindBasic, newBasicBlockFromSpec)
}

// Air is the empty filler cell. Agents cannot stand in it and anything
// sliding into it passes straight through.
type Air struct {
	Unimplemented
}

// NewAir creates an Air cell.
func NewAir() *Air {
	return &Air{Unimplemented{KindName: KindAir}}
}

// OnHit lets a sliding block pass through.
func (*Air) OnHit(Direction) (HitResult, StatusUpdate) { return NoResistance(), Nothing() }

// Texture draws nothing.
func (*Air) Texture() Texture { return Texture{Kind: TextureNone} }

// Spec describes an empty cell.
func (*Air) Spec() BlockSpec { return BlockSpec{Kind: KindAir} }

// BasicBlock is a solid cell. When passable it holds agents and carries
// them along when it slides. With a goal count of N > 0 it counts toward
// BlocksSatisfied while N agents stand on it.
type BasicBlock struct {
	Unimplemented

	passable bool
	goal     int
	slide    Slide
	agents   []AgentID // sorted
}

// NewBasicBlock creates an empty BasicBlock.
func NewBasicBlock(passable bool, goal int, slide Slide) *BasicBlock {
	return &BasicBlock{
		Unimplemented: Unimplemented{KindName: KindBasic},
		passable:      passable,
		goal:          goal,
		slide:         slide,
	}
}

func newBasicBlockFromSpec(spec BlockSpec) (Block, error) {
	passable, err := spec.Bool(TagPassable)
	if err != nil {
		return nil, err
	}
	goal, err := spec.Int(TagNumGoalAgents)
	if err != nil {
		return nil, err
	}
	if goal < 0 {
		return nil, ValidationError{
			Code:    "BAD_TAG",
			Message: fmt.Sprintf("%s tag %q must not be negative, got %d", spec.Kind, TagNumGoalAgents, goal),
		}
	}

	slide := Slide{Kind: FastSlide}
	if spec.Has(TagSlide) {
		name, err := spec.String(TagSlide)
		if err != nil {
			return nil, err
		}
		kind, ok := ParseSlideKind(name)
		if !ok {
			return nil, ValidationError{
				Code:    "BAD_TAG",
				Message: fmt.Sprintf("%s has unknown slide type %q", spec.Kind, name),
			}
		}
		slide.Kind = kind
		if kind == SlowSlide {
			steps, err := spec.Int(TagSlideSteps)
			if err != nil {
				return nil, err
			}
			if steps <= 0 {
				return nil, ValidationError{
					Code:    "BAD_TAG",
					Message: fmt.Sprintf("%s tag %q must be positive, got %d", spec.Kind, TagSlideSteps, steps),
				}
			}
			slide.Steps = steps
		}
	}

	return NewBasicBlock(passable, goal, slide), nil
}

// CanEnter reports whether the block is passable.
func (b *BasicBlock) CanEnter(Direction) bool { return b.passable }

// EnterAgent adds a resident. Reaching the goal count credits BlocksSatisfied.
func (b *BasicBlock) EnterAgent(a AgentID) StatusUpdate {
	i, found := slices.BinarySearch(b.agents, a)
	if found {
		invariantf("agent %d entered %s twice", a, KindBasic)
	}
	b.agents = slices.Insert(b.agents, i, a)

	if b.goal > 0 && len(b.agents) == b.goal {
		return Progressed(Increase(StatBlocksSatisfied, 1))
	}
	return Nothing()
}

// RemoveAgent drops a resident. Leaving a satisfied goal withdraws its credit.
func (b *BasicBlock) RemoveAgent(a AgentID) StatusUpdate {
	i, found := slices.BinarySearch(b.agents, a)
	if !found {
		invariantf("agent %d removed from %s it does not occupy", a, KindBasic)
	}
	wasSatisfied := b.goal > 0 && len(b.agents) == b.goal
	b.agents = slices.Delete(b.agents, i, i+1)

	if wasSatisfied {
		return Progressed(Decrease(StatBlocksSatisfied, 1))
	}
	return Nothing()
}

// Agents returns the residents in ascending order.
func (b *BasicBlock) Agents() []AgentID {
	if len(b.agents) == 0 {
		return nil
	}
	return slices.Clone(b.agents)
}

// OnHit stops whatever slides into the block.
func (b *BasicBlock) OnHit(Direction) (HitResult, StatusUpdate) { return Stop(), Nothing() }

// StartSlide returns the configured slide regardless of direction.
func (b *BasicBlock) StartSlide(Direction) (Slide, StatusUpdate) { return b.slide, Nothing() }

// Texture picks the goal, floor or wall look.
func (b *BasicBlock) Texture() Texture {
	switch {
	case b.goal > 0:
		return Texture{Kind: TextureGoal, Goal: b.goal}
	case b.passable:
		return Texture{Kind: TextureBasic}
	default:
		return Texture{Kind: TextureImpassable}
	}
}

// Spec reports the tags the block was built from.
func (b *BasicBlock) Spec() BlockSpec {
	tags := map[string]any{
		TagPassable:      b.passable,
		TagNumGoalAgents: b.goal,
		TagSlide:         b.slide.Kind.String(),
	}
	if b.slide.Kind == SlowSlide {
		tags[TagSlideSteps] = b.slide.Steps
	}
	return BlockSpec{Kind: KindBasic, Tags: tags}
}

// Stats implements StatReporter.
func (b *BasicBlock) Stats() []string {
	if b.goal > 0 {
		return []string{StatBlocksSatisfied}
	}
	return nil
}

// GoalCount is the number of agents the block needs, 0 when it is not a goal.
func (b *BasicBlock) GoalCount() int { return b.goal }
