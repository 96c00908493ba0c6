package sim

func (b *Board) requireRunning(act Action) {
	if b.state != Running {
		invariantf("%s requested while the game is %s", act, b.state)
	}
}

// MoveAgent steps agent a one cell in direction d when the target cell is
// on the board and accepts it. The action is logged either way; an
// illegal move is a no-op turn. Panics when the game is not running.
func (b *Board) MoveAgent(a AgentID, d Direction) Outcome {
	b.checkAgent(a)
	act := MoveAction(a, d)
	b.requireRunning(act)
	b.actions = append(b.actions, act)

	out := Outcome{Action: act}
	if cur, ok := b.positions[a].Coord(); ok && b.CanMoveAgent(a, d) {
		target := cur.Step(d)
		b.processUpdate(b.block(cur).RemoveAgent(a))
		b.processUpdate(b.block(target).EnterAgent(a))
		b.positions[a] = OnBoard(target)
		out.Moved = true
	}

	b.checkVictory()
	out.State = b.state
	b.logger.Debug("move", "agent", a, "dir", d, "moved", out.Moved, "state", b.state)
	return out
}

// SlideAgent slides the cell agent a stands on in direction d. The cell
// keeps travelling while the cells it hits offer no resistance, is
// relocated by MoveTo hits, and is ejected with its occupants when it
// leaves the board. A slide still running after StepLimit steps loses the
// game. Panics when the game is not running.
func (b *Board) SlideAgent(a AgentID, d Direction) Outcome {
	b.checkAgent(a)
	act := SlideAction(a, d)
	b.requireRunning(act)
	b.actions = append(b.actions, act)

	out := Outcome{Action: act}
	cur, ok := b.positions[a].Coord()
	if !ok {
		b.logger.Debug("slide ignored, agent is off the board", "agent", a)
		out.State = b.state
		return out
	}

	slide, update := b.block(cur).StartSlide(d)
	b.processUpdate(update)

	sliding := slide.Kind != NoSlide && d != DirNone
	for sliding {
		target := cur.Step(d)
		if !b.InBounds(target) {
			out.Ejected = append(out.Ejected, b.ejectBlock(cur)...)
			out.Moved = true
			sliding = false
		} else {
			hit, update := b.block(target).OnHit(d)
			b.processUpdate(update)

			switch hit.Kind {
			case HitStop:
				sliding = false
			case HitNoResistance:
				b.relocateBlock(cur, target)
				cur = target
				out.Moved = true
			case HitMoveTo:
				out.Moved = true
				if !b.InBounds(hit.Target) {
					out.Ejected = append(out.Ejected, b.ejectBlock(cur)...)
					sliding = false
				} else {
					b.relocateBlock(cur, hit.Target)
					cur = hit.Target
				}
			default:
				invariantf("cell at %s returned unknown hit result %d", target, hit.Kind)
			}
		}

		out.Steps++
		if sliding && out.Steps >= b.stepLimit {
			b.logger.Warn("slide hit the step limit", "agent", a, "dir", d, "steps", out.Steps)
			b.state = Lost
			break
		}
		b.checkVictory()
	}

	b.checkVictory()
	out.State = b.state
	b.logger.Debug("slide", "agent", a, "dir", d, "steps", out.Steps, "ejected", out.Ejected, "state", b.state)
	return out
}

// relocateBlock moves the cell at start to end. The cell previously at end
// is discarded, start becomes Air, and agents that stood at end are
// handed over to the arriving cell.
func (b *Board) relocateBlock(start, end Coord) {
	if start == end {
		return
	}

	moving := b.block(start)
	replaced := b.block(end)
	residents := replaced.Agents()

	for _, a := range moving.Agents() {
		b.positions[a] = OnBoard(end)
	}
	b.cells[b.index(end)] = moving
	b.cells[b.index(start)] = NewAir()

	for _, a := range residents {
		b.processUpdate(replaced.RemoveAgent(a))
		b.processUpdate(moving.EnterAgent(a))
	}
	replaced.OnDestruction()
}

// ejectBlock pushes the cell at start off the board. Its agents leave the
// game and start becomes Air. Returns the ejected agents.
func (b *Board) ejectBlock(start Coord) []AgentID {
	ejected := b.block(start)
	agents := ejected.Agents()

	for _, a := range agents {
		b.processUpdate(ejected.RemoveAgent(a))
		b.positions[a] = OffBoard
	}
	b.alive -= len(agents)
	if len(agents) > 0 && b.alive < b.spec.MustFinish {
		b.logger.Debug("too few agents left", "alive", b.alive, "must_finish", b.spec.MustFinish)
		b.state = Lost
	}

	ejected.OnDestruction()
	b.cells[b.index(start)] = NewAir()
	return agents
}
