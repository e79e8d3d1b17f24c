package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
	"github.com/proterg/RogueHeroes-sub000/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Session owns one battle per websocket connection. The battle is not
// thread-safe, so the command handler and the tick loop serialize on mu.
type Session struct {
	id   string
	cfg  *game.Config
	conn *websocket.Conn
	send chan Message
	log  *logrus.Entry

	mu     sync.Mutex
	battle *game.Battle

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(cfg *game.Config, conn *websocket.Conn) *Session {
	id := uuid.NewString()
	return &Session{
		id:   id,
		cfg:  cfg,
		conn: conn,
		send: make(chan Message, 256),
		log:  logger.Log.WithField("session", id),
		done: make(chan struct{}),
	}
}

// run starts the pumps and the tick loop, then blocks until the connection
// drops.
func (s *Session) run() {
	s.log.Info("session opened")
	go s.writePump()
	go s.tickLoop()
	s.readPump()
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.conn.Close(); err != nil {
			s.log.WithError(err).Debug("close connection")
		}
		s.log.Info("session closed")
	})
}

func (s *Session) push(msg Message) {
	select {
	case s.send <- msg:
	default:
		// Slow consumer: drop the snapshot, the next tick supersedes it.
	}
}

func (s *Session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.log.WithError(err).Warn("set read deadline")
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := s.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Warn("read failed")
			}
			return
		}
		s.handle(cmd)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case msg := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.WithError(err).Debug("write failed")
				return
			}
		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// tickLoop advances the battle at the nominal rate while it is fighting
// and pushes a snapshot after every tick.
func (s *Session) tickLoop() {
	ticker := time.NewTicker(game.NominalTickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			b := s.battle
			if b != nil && b.Status == game.StatusFighting {
				b.Step()
				s.push(stateMessage(b))
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// handle applies one client command under the session lock and answers with
// either a fresh state snapshot or an error message.
func (s *Session) handle(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.Type == "start" {
		seed := cmd.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		b, err := game.NewBattle(s.cfg, seed)
		if err != nil {
			s.fail(err)
			return
		}
		s.battle = b
		s.log.WithField("seed", seed).Info("battle started")
		s.push(stateMessage(b))
		return
	}

	if s.battle == nil {
		s.push(Message{Type: "error", Error: "no battle started"})
		return
	}

	var err error
	switch cmd.Type {
	case "select":
		err = s.battle.SelectArchetype(cmd.Archetype)
	case "place":
		err = s.battle.PlaceAt(cmd.X, cmd.Y)
	case "remove":
		err = s.battle.RemoveAt(cmd.X, cmd.Y)
	case "confirm":
		err = s.battle.ConfirmPhase()
	case "auto":
		err = s.battle.AutoDeploy()
	case "state":
		// snapshot only
	default:
		s.push(Message{Type: "error", Tick: s.battle.Tick, Error: "unknown command " + cmd.Type})
		return
	}
	if err != nil {
		s.fail(err)
		return
	}
	s.push(stateMessage(s.battle))
}

func (s *Session) fail(err error) {
	s.log.WithError(err).Debug("command rejected")
	msg := Message{Type: "error", Error: err.Error()}
	if s.battle != nil {
		msg.Tick = s.battle.Tick
	}
	s.push(msg)
}
