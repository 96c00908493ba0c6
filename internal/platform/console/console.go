// Package console runs a level as a line-oriented question and answer loop
// over any reader and writer. It is the plain-terminal counterpart to the
// bubbletea front end and is handy for pipes and scripted play.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-slide/internal/render"
	"github.com/vovakirdan/tui-slide/internal/sim"
)

const (
	promptAgent     = "Which Agent do you want to move? (z to undo, q to quit)"
	promptDirection = "Which direction do you want to move in (u, d, l, r)?"

	msgNotNumber    = "That was not a number."
	msgNotDirection = "That was not a direction, please use a direction(u, d, l, r)"
	msgWon          = "CONGRATULATIONS! YOU ARE A WINNER!"
	msgLost         = "Womp womp, you lost."
)

// ErrQuit is returned when the player leaves before the game ends.
var ErrQuit = errors.New("console: player quit")

// Game drives one board from text input.
type Game struct {
	board  *sim.Board
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger
}

// NewGame creates a console game over board. A nil logger discards output.
func NewGame(board *sim.Board, in io.Reader, out io.Writer, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		board:  board,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run plays until the game ends. It returns the final state, or ErrQuit
// when the player quits or the input runs out first.
func (g *Game) Run() (sim.GameState, error) {
	g.printBoard()

	for g.board.State() == sim.Running {
		line, ok := g.ask(promptAgent)
		if !ok {
			return g.board.State(), ErrQuit
		}

		switch strings.ToLower(line) {
		case "q", "quit":
			return g.board.State(), ErrQuit
		case "z", "undo":
			if !g.board.Undo() {
				g.println("Nothing to undo.")
			}
			g.printBoard()
			continue
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			g.println(msgNotNumber)
			continue
		}
		if n < 0 || n >= g.board.NumAgents() {
			g.println(fmt.Sprintf("There is no agent %d.", n))
			continue
		}
		agent := sim.AgentID(n)

		line, ok = g.ask(promptDirection)
		if !ok {
			return g.board.State(), ErrQuit
		}
		dir, ok := sim.ParseDirection(line)
		if !ok || dir == sim.DirNone {
			g.println(msgNotDirection)
			continue
		}

		g.turn(agent, dir)
		g.printBoard()
	}

	switch g.board.State() {
	case sim.Won:
		g.println("\n\n" + msgWon)
	case sim.Lost:
		g.println("\n\n" + msgLost)
	}
	return g.board.State(), nil
}

// turn moves agent when it can step in dir, otherwise slides its cell.
func (g *Game) turn(agent sim.AgentID, dir sim.Direction) {
	if !g.board.AgentPosition(agent).IsOnBoard() {
		g.println(fmt.Sprintf("Agent %d fell off the board.", agent))
		return
	}

	if g.board.CanMoveAgent(agent, dir) {
		g.board.MoveAgent(agent, dir)
		return
	}

	g.println(fmt.Sprintf("Sliding agent %d in direction %s", agent, dir))
	out := g.board.SlideAgent(agent, dir)
	for _, a := range out.Ejected {
		g.println(fmt.Sprintf("Agent %d fell off the board.", a))
	}
	g.logger.Debug("slide", "agent", agent, "dir", dir, "steps", out.Steps, "state", out.State)
}

// ask prints prompt and reads one trimmed line. It reports false at the
// end of input.
func (g *Game) ask(prompt string) (string, bool) {
	g.println(prompt)
	if !g.in.Scan() {
		if err := g.in.Err(); err != nil {
			g.logger.Warn("reading input failed", "error", err)
		}
		return "", false
	}
	return strings.TrimSpace(g.in.Text()), true
}

func (g *Game) printBoard() {
	g.println(render.Text(g.board))
	g.println(render.Status(g.board))
}

func (g *Game) println(s string) {
	fmt.Fprintln(g.out, s)
}
