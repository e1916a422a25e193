// internal/httpserver/server.go
//
// HTTP server wiring for the herding backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/new, /game/{id}, /game/{id}/{command}.
//   - Event stream: /game/{id}/ws (websocket, see ws.go).
//   - Daily herd endpoints (optional auth): mounted under /daily.
//   - Auth + stats endpoints: /auth/*, /stats/me.
//   - Janitor: evicts idle live games (see StartJanitor).
//
// Notes:
//   - Live games are held in the session store; only finished-game results
//     reach the database.
//   - Guests are identified by an anonymous cookie; a valid JWT adds the
//     account on top.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/herding/internal/auth"
	"github.com/robalobadob/herding/internal/config"
	"github.com/robalobadob/herding/internal/daily"
	"github.com/robalobadob/herding/internal/store"
)

// Accounts is the user store the server needs.
type Accounts interface {
	Create(ctx context.Context, username, password string) (*auth.User, error)
	Authenticate(ctx context.Context, username, password string) (*auth.User, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
	RecordGame(ctx context.Context, userID string, scored, lost int) error
}

// DailyResults is the daily result store the server needs.
type DailyResults interface {
	AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error)
	InsertResult(ctx context.Context, r daily.Result) error
	Leaderboard(ctx context.Context, date string, limit int) ([]daily.LBRow, error)
}

// Server bundles router, session store and result stores.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	store    store.Store
	accounts Accounts
	results  DailyResults
	tokens   *auth.Tokens
	daily    *dailyServer
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, accounts Accounts, results DailyResults) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    st,
		accounts: accounts,
		results:  results,
		tokens:   auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL()),
		now:      time.Now,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)
	s.r.Use(jsonContentType)
	s.r.Use(s.withOptionalAuth)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"herding","endpoints":["/health","POST /game/new","POST /game/{id}/{command}","GET /game/{id}/ws","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountGame(s.r)
	s.mountDaily(s.r)
	s.mountAuth(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.r)
}

// StartJanitor evicts live games untouched for idle, checking every tick.
// It stops when ctx is cancelled.
func (s *Server) StartJanitor(ctx context.Context, every, idle time.Duration) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.sweep(ctx, s.now().Add(-idle)); n > 0 {
					log.Info().Int("evicted", n).Dur("idle", idle).Msg("janitor swept sessions")
				}
			}
		}
	}()
}

// sweep drops sessions idle since cutoff and the daily index entries that
// pointed at them.
func (s *Server) sweep(ctx context.Context, cutoff time.Time) int {
	n, err := s.store.Sweep(ctx, cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("sweep sessions")
	}
	if s.daily != nil {
		s.daily.prune(ctx)
	}
	return n
}

// requestTimeout bounds plain request/response handlers. The websocket
// stream is registered outside it.
var requestTimeout = chimw.Timeout(10 * time.Second)

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
