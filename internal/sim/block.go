package sim

// HitKind is what happens when a sliding cell runs into another cell.
type HitKind uint8

const (
	// HitStop halts the slide before entering the hit cell.
	HitStop HitKind = iota
	// HitNoResistance lets the sliding cell take the hit cell's place.
	HitNoResistance
	// HitMoveTo relocates the sliding cell to an explicit coordinate.
	HitMoveTo
)

// HitResult is returned by Block.OnHit.
type HitResult struct {
	Kind   HitKind
	Target Coord // Only meaningful for HitMoveTo
}

// Stop is the HitStop result.
func Stop() HitResult { return HitResult{Kind: HitStop} }

// NoResistance is the HitNoResistance result.
func NoResistance() HitResult { return HitResult{Kind: HitNoResistance} }

// MoveTo relocates the sliding cell to c.
func MoveTo(c Coord) HitResult { return HitResult{Kind: HitMoveTo, Target: c} }

// String returns a short description of the hit result.
func (h HitResult) String() string {
	switch h.Kind {
	case HitStop:
		return "Stop"
	case HitNoResistance:
		return "NoResistance"
	case HitMoveTo:
		return "MoveTo" + h.Target.String()
	default:
		return "Unknown"
	}
}

// SlideKind is the mode a slide starts in.
type SlideKind uint8

const (
	NoSlide SlideKind = iota
	// FastSlide slides until something stops it.
	FastSlide
	// SlowSlide is reserved for stepped sliding. It currently resolves
	// exactly like FastSlide.
	SlowSlide
)

// String returns the slide kind as used in level files.
func (k SlideKind) String() string {
	switch k {
	case NoSlide:
		return "NoSlide"
	case FastSlide:
		return "FastSlide"
	case SlowSlide:
		return "SlowSlide"
	default:
		return "Unknown"
	}
}

// ParseSlideKind parses a slide kind name.
func ParseSlideKind(s string) (SlideKind, bool) {
	switch s {
	case "NoSlide":
		return NoSlide, true
	case "FastSlide":
		return FastSlide, true
	case "SlowSlide":
		return SlowSlide, true
	default:
		return NoSlide, false
	}
}

// Slide is returned by Block.StartSlide.
type Slide struct {
	Kind  SlideKind
	Steps int // Only meaningful for SlowSlide
}

// TextureKind is a rendering hint. Core logic never inspects it.
type TextureKind uint8

const (
	TextureNone TextureKind = iota
	TextureBasic
	TextureImpassable
	TextureGoal
)

// Texture tells a renderer how to draw a cell.
type Texture struct {
	Kind TextureKind `json:"kind"`
	Goal int         `json:"goal,omitempty"` // Required agent count for TextureGoal
}

// DestructionResult is the effect of permanently removing a block.
type DestructionResult uint8

const (
	DestructionNone DestructionResult = iota
)

// Block is the content of one grid cell.
//
// A block is owned by exactly one cell at a time. New block kinds embed
// Unimplemented and override the capabilities they support, then register
// a factory with RegisterBlock.
type Block interface {
	// Kind returns the registered kind name, e.g. "BasicBlock".
	Kind() string

	// CanEnter reports whether an agent may walk into this cell from d.
	CanEnter(d Direction) bool

	// EnterAgent registers an agent as occupant.
	// Registering an agent twice is an invariant violation.
	EnterAgent(a AgentID) StatusUpdate

	// RemoveAgent unregisters an occupant.
	// Removing an absent agent is an invariant violation.
	RemoveAgent(a AgentID) StatusUpdate

	// Agents returns current occupants in ascending order.
	Agents() []AgentID

	// OnHit is called on the target cell when something slides into it from d.
	OnHit(d Direction) (HitResult, StatusUpdate)

	// StartSlide is called on the cell an agent occupies when a slide begins.
	StartSlide(d Direction) (Slide, StatusUpdate)

	// Texture returns a rendering hint.
	Texture() Texture

	// OnDestruction is the hook for a block being permanently removed.
	OnDestruction() DestructionResult

	// Spec returns the description the block was built from, without
	// occupants. NewBlock(b.Spec()) must yield an equivalent empty block.
	Spec() BlockSpec
}

// Unimplemented provides the default capability set. Capabilities that
// mutate or describe the cell panic so that a block is never silently
// treated as supporting them.
type Unimplemented struct {
	KindName string
}

// Kind returns the kind name.
func (u Unimplemented) Kind() string { return u.KindName }

// CanEnter defaults to false.
func (Unimplemented) CanEnter(Direction) bool { return false }

// EnterAgent panics.
func (u Unimplemented) EnterAgent(a AgentID) StatusUpdate {
	invariantf("agent %d entered %s, which does not hold agents", a, u.KindName)
	return Nothing()
}

// RemoveAgent panics.
func (u Unimplemented) RemoveAgent(a AgentID) StatusUpdate {
	invariantf("agent %d removed from %s, which does not hold agents", a, u.KindName)
	return Nothing()
}

// Agents defaults to no occupants.
func (Unimplemented) Agents() []AgentID { return nil }

// OnHit panics.
func (u Unimplemented) OnHit(d Direction) (HitResult, StatusUpdate) {
	invariantf("%s hit from %s does not implement OnHit", u.KindName, d)
	return Stop(), Nothing()
}

// StartSlide panics.
func (u Unimplemented) StartSlide(d Direction) (Slide, StatusUpdate) {
	invariantf("slide %s started on %s, which does not implement sliding", d, u.KindName)
	return Slide{}, Nothing()
}

// Texture panics.
func (u Unimplemented) Texture() Texture {
	invariantf("%s does not implement Texture", u.KindName)
	return Texture{}
}

// OnDestruction defaults to no effect.
func (Unimplemented) OnDestruction() DestructionResult { return DestructionNone }

// Spec panics.
func (u Unimplemented) Spec() BlockSpec {
	invariantf("%s does not implement Spec", u.KindName)
	return BlockSpec{}
}

// CellView is the read-only face of a cell handed to renderers.
type CellView interface {
	Kind() string
	CanEnter(d Direction) bool
	Agents() []AgentID
	Texture() Texture
}
