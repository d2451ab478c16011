// internal/httpserver/server.go
//
// HTTP bridge between a presenter (renderer + keyboard) and the game loop.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words", POST /presenter/attach.
//   - Presenter endpoints (require token): frame snapshot, new game, letter
//     guess, hint, sound/volume/label options, and the /stream WebSocket.
//
// Notes:
//   - Handlers never touch game state directly; every call goes through the
//     Game interface (the engine loop) and its context.
//   - CORS is origin-aware and credentials-enabled so the presenter cookie
//     works from the configured client origin.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/audio"
	"github.com/robalobadob/hangman/internal/engine"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/words"
)

// Game is the command surface of the running game (engine.Loop).
type Game interface {
	NewGame(ctx context.Context) (game.View, error)
	Guess(ctx context.Context, c rune) (engine.GuessResult, error)
	Hint(ctx context.Context) (engine.HintResult, error)
	ToggleSound(ctx context.Context) (audio.Settings, error)
	AdjustVolume(ctx context.Context, delta float64) (audio.Settings, error)
	ToggleLabel(ctx context.Context) (bool, error)
	Frame(ctx context.Context) (engine.Frame, error)
	Subscribe() (<-chan engine.Frame, func())
}

// Options configure the bridge.
type Options struct {
	ClientOrigin string
	Secret       string
	TokenTTL     time.Duration
	Catalog      *words.Catalog // for /debug/words; may be nil
}

// Server bundles the router and the game it drives.
type Server struct {
	r        *chi.Mux
	game     Game
	opts     Options
	upgrader websocket.Upgrader
	http     *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(g Game, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), game: g, opts: opts}
	s.http = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- diagnostics + attach (bounded handler time) ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"hangman","endpoints":["/health","POST /presenter/attach","GET /frame","POST /game/new","POST /game/guess","POST /game/hint","GET /stream"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", s.handleDebugWords)
		r.Post("/presenter/attach", s.handleAttach)
		r.Post("/presenter/detach", s.handleDetach)

		// presenter endpoints (require token)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/frame", s.handleFrame)
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/guess", s.handleGuess)
			r.Post("/game/hint", s.handleHint)
			r.Post("/options/sound", s.handleToggleSound)
			r.Post("/options/volume", s.handleVolume)
			r.Post("/options/label", s.handleToggleLabel)
		})
	})

	// long-lived: no timeout
	s.r.With(s.requireAuth).Get("/stream", s.handleStream)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start serves HTTP on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

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

// cors enables credentialed CORS for the configured presenter origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
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

// checkOrigin admits same-host and configured-origin WebSocket upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.opts.ClientOrigin || origin == "http://"+r.Host
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// errorCode maps engine and game errors to a wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidLetter):
		return "invalid_letter"
	case errors.Is(err, words.ErrEmptyCatalog):
		return "no_words"
	case errors.Is(err, engine.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return "game_unavailable"
	}
	log.Error().Err(err).Msg("game command failed")
	return "internal"
}

// writeGameError writes err with its status code.
func writeGameError(w http.ResponseWriter, err error) {
	code := errorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case "invalid_letter":
		status = http.StatusBadRequest
	case "no_words", "game_unavailable":
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, code)
}

// ------------------------------ PRESENTER ----------------------------------

type attachRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleAttach issues a presenter token and sets the presenter cookie.
func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	id, tok, exp, err := s.signToken(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("sign presenter token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setAuthCookie(w, tok, exp)
	log.Info().Str("presenter", id).Time("expires", exp).Msg("presenter attached")
	writeJSON(w, attachRes{Token: tok, ExpiresAt: exp})
}

// handleDetach clears the presenter cookie.
func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	var categories, tiers, total int
	if s.opts.Catalog != nil {
		categories, tiers, total = s.opts.Catalog.Stats()
	}
	writeJSON(w, map[string]int{"categories": categories, "tiers": tiers, "words": total})
}

// ------------------------------- GAME --------------------------------------

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, err := s.game.Frame(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	v, err := s.game.NewGame(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, v)
}

// guessReq is the payload of POST /game/guess.
type guessReq struct {
	Letter string `json:"letter"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, ok := singleRune(req.Letter)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_letter")
		return
	}
	res, err := s.game.Guess(r.Context(), c)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	res, err := s.game.Hint(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleToggleSound(w http.ResponseWriter, r *http.Request) {
	st, err := s.game.ToggleSound(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, st)
}

// volumeReq is the payload of POST /options/volume.
type volumeReq struct {
	Delta float64 `json:"delta"`
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	st, err := s.game.AdjustVolume(r.Context(), req.Delta)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, st)
}

func (s *Server) handleToggleLabel(w http.ResponseWriter, r *http.Request) {
	on, err := s.game.ToggleLabel(r.Context())
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"showLabel": on})
}

// singleRune returns the only rune of s.
func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, true
}
