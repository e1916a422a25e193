// internal/httpserver/ws.go
//
// Websocket event stream for a single game.
//   GET /game/{id}/ws
//
// Protocol (JSON text frames):
//   client → {"command":"select","index":2} (same shape as the REST body plus
//            the command name)
//   server → {"type":"state","state":{...}}   once on connect, and after every command
//            {"type":"event","event":{...}}   one per engine event, in order
//            {"type":"error","error":"card_used"}
//
// When PACE_EVENTS is set, each event frame is held back by the event's
// pacing hint so a thin client can animate straight off the stream. The
// session lock is released before any pacing sleep.

package httpserver

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/websocket"

	"github.com/robalobadob/herding/internal/game"
	"github.com/robalobadob/herding/internal/store"
)

const maxDecodeErrors = 3

// frame is a server → client message.
type frame struct {
	Type  string         `json:"type"`
	State *game.Snapshot `json:"state,omitempty"`
	Event *game.Event    `json:"event,omitempty"`
	Error string         `json:"error,omitempty"`
}

// handleStream checks ownership over plain HTTP, then upgrades.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	ws := websocket.Server{
		Handshake: s.checkOrigin,
		Handler: func(conn *websocket.Conn) {
			s.serveStream(conn, sess)
		},
	}
	ws.ServeHTTP(w, r)
}

// checkOrigin accepts the configured client origin and same-host pages.
func (s *Server) checkOrigin(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return err
	}
	if origin == nil {
		return errors.New("missing origin")
	}
	if origin.String() == s.cfg.ClientOrigin || origin.Host == r.Host {
		cfg.Origin = origin
		return nil
	}
	if co, err := url.Parse(s.cfg.ClientOrigin); err == nil && co.Host == origin.Host && co.Scheme == origin.Scheme {
		cfg.Origin = origin
		return nil
	}
	return errors.New("origin not allowed")
}

func (s *Server) serveStream(conn *websocket.Conn, sess *store.Session) {
	defer func() { _ = conn.Close() }()
	r := conn.Request()

	var snap game.Snapshot
	_ = sess.Do(func(g *game.Game) error {
		snap = g.Snapshot()
		return nil
	})
	if err := websocket.JSON.Send(conn, frame{Type: "state", State: &snap}); err != nil {
		return
	}
	logger := log.With().Str("game", snap.ID).Logger()
	logger.Debug().Msg("stream opened")

	decodeErrors := 0
	for {
		var c command
		if err := websocket.JSON.Receive(conn, &c); err != nil {
			if errors.Is(err, io.EOF) {
				logger.Debug().Msg("stream closed")
				return
			}
			decodeErrors++
			if websocket.JSON.Send(conn, frame{Type: "error", Error: "invalid_frame"}) != nil || decodeErrors >= maxDecodeErrors {
				return
			}
			continue
		}
		decodeErrors = 0

		res, err := s.run(r, sess, c)
		if errors.Is(err, errUnknownCommand) {
			if websocket.JSON.Send(conn, frame{Type: "error", Error: "unknown_command"}) != nil {
				return
			}
			continue
		}
		if !res.Applied {
			if websocket.JSON.Send(conn, frame{Type: "error", Error: res.Error}) != nil {
				return
			}
			continue
		}
		if err := s.sendEvents(conn, res.Events); err != nil {
			logger.Debug().Err(err).Msg("stream write")
			return
		}
		if websocket.JSON.Send(conn, frame{Type: "state", State: &res.State}) != nil {
			return
		}
	}
}

// sendEvents writes one frame per event, pacing them when configured.
func (s *Server) sendEvents(conn *websocket.Conn, events []game.Event) error {
	for i := range events {
		if s.cfg.PaceEvents && events[i].Pace > 0 {
			time.Sleep(events[i].Pace)
		}
		if err := websocket.JSON.Send(conn, frame{Type: "event", Event: &events[i]}); err != nil {
			return err
		}
	}
	return nil
}
