package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-slide/internal/levels"
	"github.com/vovakirdan/tui-slide/internal/render"
	"github.com/vovakirdan/tui-slide/internal/sim"
	"github.com/vovakirdan/tui-slide/internal/storage"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outgoing messages buffered per session.
	sendBuffer = 16
)

// Command types accepted on a play socket.
const (
	CommandMove    = "move"
	CommandSlide   = "slide"
	CommandUndo    = "undo"
	CommandRestart = "restart"
	CommandState   = "state"
)

// Reply events sent on a play socket.
const (
	EventJoined    = "joined"
	EventMoved     = "moved"
	EventSlid      = "slid"
	EventUndone    = "undone"
	EventRestarted = "restarted"
	EventState     = "state"
	EventError     = "error"
)

// Command is one message from the client.
type Command struct {
	Type      string `json:"type"`
	Agent     int    `json:"agent"`
	Direction string `json:"direction,omitempty"`
}

// Outcome summarizes what a move or slide did.
type Outcome struct {
	Moved   bool          `json:"moved"`
	Steps   int           `json:"steps"`
	Ejected []sim.AgentID `json:"ejected,omitempty"`
}

// Reply is one message to the client. Every reply carries the full board
// so clients never track state themselves.
type Reply struct {
	Event     string        `json:"event"`
	SessionID string        `json:"session_id"`
	Level     string        `json:"level"`
	State     sim.GameState `json:"state"`
	Turns     int           `json:"turns"`
	Outcome   *Outcome      `json:"outcome,omitempty"`
	Snapshot  *sim.Snapshot `json:"snapshot,omitempty"`
	Board     string        `json:"board,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// session is one websocket playing one board. The board is only touched
// from readPump.
type session struct {
	id       string
	server   *Server
	conn     *websocket.Conn
	level    levels.Level
	player   string
	board    *sim.Board
	send     chan []byte
	logger   *log.Logger
	recorded bool
}

// handlePlay upgrades the request and starts a play session for the level.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}
	if err := lvl.Spec.Validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	player := r.URL.Query().Get("player")
	if player == "" {
		player = DefaultPlayer
	}

	id := uuid.NewString()
	logger := s.logger.With("session", id, "level", lvl.ID, "player", player)
	opts := []sim.Option{sim.WithLogger(logger)}
	if s.config.StepLimit > 0 {
		opts = append(opts, sim.WithStepLimit(s.config.StepLimit))
	}

	sess := &session{
		id:     id,
		server: s,
		level:  lvl,
		player: player,
		board:  lvl.NewBoard(opts...),
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
	if !s.reserve(sess) {
		s.writeError(w, http.StatusServiceUnavailable, "too many sessions")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		s.unregister(sess)
		return
	}
	s.attach(sess, conn)
	logger.Info("session started", "remote", r.RemoteAddr)

	go sess.writePump()
	go sess.readPump()
}

// reserve claims a session slot, reporting false when the server is full.
func (s *Server) reserve(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.MaxSessions > 0 && len(s.sessions) >= s.config.MaxSessions {
		return false
	}
	s.sessions[sess.id] = sess
	return true
}

func (s *Server) attach(sess *session, conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.conn = conn
}

func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.id)
}

// pongWait is how long a socket may stay silent, a little over one ping.
func (s *session) pongWait() time.Duration {
	return s.server.config.PingInterval * 10 / 9
}

// readPump decodes commands and answers each one in order.
func (s *session) readPump() {
	defer func() {
		s.server.unregister(s)
		close(s.send)
		s.conn.Close()
		s.logger.Info("session ended", "turns", s.board.Turns(), "state", s.board.State())
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.pongWait()))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.pongWait()))
		return nil
	})

	if !s.push(s.reply(EventJoined)) {
		return
	}

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket error", "error", err)
			}
			return
		}

		reply, fatal := s.dispatch(data)
		if !s.push(reply) || fatal {
			return
		}
	}
}

// writePump sends queued replies and keeps the connection alive with pings.
func (s *session) writePump() {
	ticker := time.NewTicker(s.server.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push queues a reply, dropping the connection when the client does not
// keep up.
func (s *session) push(r Reply) bool {
	data, err := json.Marshal(r)
	if err != nil {
		s.logger.Error("could not encode reply", "error", err)
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		s.logger.Warn("client too slow, closing")
		return false
	}
}

// dispatch runs one command. An engine invariant violation ends only this
// session: fatal is true and the reply explains why.
func (s *session) dispatch(data []byte) (reply Reply, fatal bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if inv, ok := sim.AsInvariant(r); ok {
			s.logger.Error("session aborted", "error", inv)
		} else {
			s.logger.Error("session panicked", "panic", r)
		}
		reply = Reply{
			Event:     EventError,
			SessionID: s.id,
			Level:     s.level.ID,
			Error:     "internal error, session closed",
		}
		fatal = true
	}()

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return s.fail("malformed command"), false
	}
	return s.handle(cmd), false
}

func (s *session) handle(cmd Command) Reply {
	switch cmd.Type {
	case CommandState:
		return s.reply(EventState)

	case CommandUndo:
		if !s.board.Undo() {
			return s.fail("nothing to undo")
		}
		s.recorded = false
		return s.reply(EventUndone)

	case CommandRestart:
		s.board.Restart()
		s.recorded = false
		return s.reply(EventRestarted)

	case CommandMove, CommandSlide:
		return s.play(cmd)
	}
	return s.fail(fmt.Sprintf("unknown command %q", cmd.Type))
}

func (s *session) play(cmd Command) Reply {
	if s.board.State() != sim.Running {
		return s.fail("the game is over, undo or restart to keep playing")
	}
	if cmd.Agent < 0 || cmd.Agent >= s.board.NumAgents() {
		return s.fail(fmt.Sprintf("no agent %d", cmd.Agent))
	}
	dir, ok := sim.ParseDirection(cmd.Direction)
	if !ok || dir == sim.DirNone {
		return s.fail(fmt.Sprintf("unknown direction %q", cmd.Direction))
	}

	var out sim.Outcome
	event := EventMoved
	if cmd.Type == CommandMove {
		out = s.board.MoveAgent(sim.AgentID(cmd.Agent), dir)
	} else {
		out = s.board.SlideAgent(sim.AgentID(cmd.Agent), dir)
		event = EventSlid
	}
	if out.State != sim.Running {
		s.record()
	}

	r := s.reply(event)
	r.Outcome = &Outcome{Moved: out.Moved, Steps: out.Steps, Ejected: out.Ejected}
	return r
}

// record stores the result of a finished game once.
func (s *session) record() {
	store := s.server.store
	if s.recorded || store == nil {
		return
	}
	s.recorded = true
	_, err := store.SaveResult(storage.Result{
		LevelID: s.level.ID,
		Player:  s.player,
		Won:     s.board.State() == sim.Won,
		Turns:   s.board.Turns(),
	})
	if err != nil {
		s.logger.Warn("could not save result", "error", err)
	}
	s.logger.Info("game finished", "state", s.board.State(), "turns", s.board.Turns())
}

func (s *session) reply(event string) Reply {
	snap := s.board.Snapshot()
	return Reply{
		Event:     event,
		SessionID: s.id,
		Level:     s.level.ID,
		State:     s.board.State(),
		Turns:     s.board.Turns(),
		Snapshot:  &snap,
		Board:     render.Text(s.board),
	}
}

func (s *session) fail(msg string) Reply {
	r := s.reply(EventError)
	r.Error = msg
	return r
}
