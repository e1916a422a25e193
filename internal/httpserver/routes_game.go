// internal/httpserver/routes_game.go
//
// HTTP routes for free-play herds.
//   - POST /game/new              → start a game (optional fixed seed)
//   - GET  /game/{id}             → current snapshot
//   - POST /game/{id}/{command}   → deal | select | pivot | remove | clear | play
//
// Every command answers with the events it produced and the resulting
// snapshot. Rule rejections are 409s carrying a stable error code; the game
// is left untouched.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	mrand "math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/herding/internal/daily"
	"github.com/robalobadob/herding/internal/game"
	"github.com/robalobadob/herding/internal/store"
)

var errUnknownCommand = errors.New("unknown command")

// command is one player intent, shared by the REST and websocket transports.
type command struct {
	Command string      `json:"command"`
	Index   int         `json:"index"`
	Pivot   game.Action `json:"pivot"`
}

// commandRes is the reply to a command.
type commandRes struct {
	Applied bool          `json:"applied"`
	Error   string        `json:"error,omitempty"`
	Events  []game.Event  `json:"events"`
	State   game.Snapshot `json:"state"`
}

type newGameReq struct {
	Seed *int64 `json:"seed"`
}

type newGameRes struct {
	GameID string        `json:"gameId"`
	State  game.Snapshot `json:"state"`
}

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Get("/{id}/ws", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(requestTimeout)
			r.Post("/new", s.handleNewGame)
			r.Get("/{id}", s.handleGetGame)
			r.Post("/{id}/{command}", s.handleCommand)
		})
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var p newGameReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	opts := game.Options{}
	if p.Seed != nil {
		opts.Rand = mrand.New(mrand.NewSource(*p.Seed))
	}
	sess := s.newSession(w, r, opts)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	log.Info().Str("game", sess.Game.ID).Bool("seeded", p.Seed != nil).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: sess.Game.ID, State: sess.Game.Snapshot()})
}

// newSession builds a session owned by the requester.
func (s *Server) newSession(w http.ResponseWriter, r *http.Request, opts game.Options) *store.Session {
	logger := log.Logger
	opts.Logger = &logger
	sess := &store.Session{
		Game:      game.New(opts),
		OwnerID:   s.ensureAnonID(w, r),
		StartedAt: s.now(),
	}
	if me := currentUser(r); me != nil {
		sess.UserID = me.ID
	}
	return sess
}

// loadSession fetches the {id} session and checks ownership, writing the
// error response itself when it fails.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no_game")
		return nil, false
	}
	if !s.owns(r, sess) {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	var snap game.Snapshot
	_ = sess.Do(func(g *game.Game) error {
		snap = g.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	c := command{Command: chi.URLParam(r, "command")}
	var body struct {
		Index int         `json:"index"`
		Pivot game.Action `json:"pivot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	c.Index, c.Pivot = body.Index, body.Pivot

	res, err := s.run(r, sess, c)
	if errors.Is(err, errUnknownCommand) {
		writeError(w, http.StatusNotFound, "unknown_command")
		return
	}
	status := http.StatusOK
	if !res.Applied {
		status = http.StatusConflict
	}
	writeJSON(w, status, res)
}

// run applies c under the session lock and records a finished game.
func (s *Server) run(r *http.Request, sess *store.Session, c command) (commandRes, error) {
	var res commandRes
	err := sess.Do(func(g *game.Game) error {
		events, err := apply(g, c)
		if errors.Is(err, errUnknownCommand) {
			return err
		}
		res.Applied = err == nil
		res.Error = errorCode(err)
		res.Events = events
		if res.Events == nil {
			res.Events = []game.Event{}
		}
		res.State = g.Snapshot()
		if res.Applied && g.Finished() {
			s.recordFinished(r, sess, g)
		}
		return nil
	})
	return res, err
}

// apply dispatches a command to the engine.
func apply(g *game.Game, c command) ([]game.Event, error) {
	switch c.Command {
	case "deal":
		return g.DealNewHand()
	case "select":
		return g.SelectCard(c.Index)
	case "pivot":
		return g.AddPivot(c.Pivot)
	case "remove":
		return g.RemoveFromSequence(c.Index)
	case "clear":
		return g.ClearSequence()
	case "play":
		return g.PlaySequence()
	}
	return nil, errUnknownCommand
}

// errorCode maps engine rejections to wire codes.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrExecuting):
		return "executing"
	case errors.Is(err, game.ErrBadIndex):
		return "bad_index"
	case errors.Is(err, game.ErrCardUsed):
		return "card_used"
	case errors.Is(err, game.ErrUnknownPivot):
		return "unknown_pivot"
	case errors.Is(err, game.ErrEmptySequence):
		return "empty_sequence"
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	}
	return "rejected"
}

// recordFinished persists the outcome once. Callers hold the session lock.
// Failures are logged; the game itself is already over.
func (s *Server) recordFinished(r *http.Request, sess *store.Session, g *game.Game) {
	if sess.Recorded {
		return
	}
	sess.Recorded = true
	c := g.Counters()
	ctx := r.Context()

	if sess.UserID != "" {
		if err := s.accounts.RecordGame(ctx, sess.UserID, c.Scored, c.Lost); err != nil {
			log.Warn().Err(err).Str("user", sess.UserID).Msg("record game stats")
		}
	}
	if sess.DailyDate != "" {
		owner := sess.OwnerID
		if sess.UserID != "" {
			owner = sess.UserID
		}
		err := s.results.InsertResult(ctx, daily.Result{
			OwnerID:   owner,
			Date:      sess.DailyDate,
			GameID:    g.ID,
			Scored:    c.Scored,
			Lost:      c.Lost,
			Rounds:    g.Rounds(),
			ElapsedMs: int(s.now().Sub(sess.StartedAt).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("game", g.ID).Msg("record daily result")
		}
	}
	log.Info().Str("game", g.ID).Int("scored", c.Scored).Int("lost", c.Lost).Int("rounds", g.Rounds()).Msg("game finished")
}
