// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Herd" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's herd (creates or reuses session)
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// The herd itself is played through the regular /game/{id} commands; the
// session just carries the date, so finishing it files a daily result.
// Each player gets one recorded result per day (enforced by the DB unique key
// and the in-memory session index). The board is seeded from date + salt,
// so everyone herds the same cows with the same deals.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/herding/internal/daily"
	"github.com/robalobadob/herding/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	salt     string
	sessions map[string]string // game id keyed by playerID|date
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Use(requestTimeout)
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// prune forgets index entries whose session is no longer stored.
func (d *dailyServer) prune(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, id := range d.sessions {
		if _, err := d.srv.store.Get(ctx, id); err != nil {
			delete(d.sessions, key)
		}
	}
}

// today returns the current UTC day.
func (d *dailyServer) today() time.Time { return d.srv.now().UTC() }

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string         `json:"gameId"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	State  *game.Snapshot `json:"state,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → Played=true, no game.
// - Otherwise reuse the live session for today or seed a fresh one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := d.srv.playerID(w, r)
	now := d.today()
	date := daily.DateKey(now)

	played, err := d.srv.results.AlreadyPlayed(r.Context(), pid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			var snap game.Snapshot
			_ = sess.Do(func(g *game.Game) error {
				snap = g.Snapshot()
				return nil
			})
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: date, State: &snap})
			return
		}
		delete(d.sessions, key)
	}

	sess := d.srv.newSession(w, r, game.Options{Rand: daily.Rand(now, d.salt)})
	sess.DailyDate = date
	snap := sess.Game.Snapshot()
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save daily session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	d.sessions[key] = sess.Game.ID
	log.Info().Str("game", sess.Game.ID).Str("date", date).Msg("daily herd started")

	writeJSON(w, http.StatusOK, dailyNewRes{GameID: sess.Game.ID, Date: date, State: &snap})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.today())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.srv.results.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
