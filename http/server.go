package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"questlog/auth"
	"questlog/campaign"
)

type Server struct {
	router   *mux.Router
	handlers *Handlers
}

func NewServer(authService *auth.Service, campaigns *campaign.Service, allowedOrigin string, log *slog.Logger) *Server {
	router := mux.NewRouter()
	handlers := NewHandlers(authService, campaigns, log)

	server := &Server{
		router:   router,
		handlers: handlers,
	}

	server.setupRoutes(authService, allowedOrigin, log)
	return server
}

func (s *Server) setupRoutes(authService *auth.Service, allowedOrigin string, log *slog.Logger) {
	s.router.Use(LoggingMiddleware(log))
	s.router.Use(SecurityHeadersMiddleware)
	s.router.Use(CORSMiddleware(allowedOrigin))

	// CSRF note: SameSite=Lax on the session cookie prevents cross-site POST
	// requests from including the cookie, providing CSRF protection for all
	// state-changing endpoints without needing a token-based scheme.

	loginLimiter := NewRateLimiter(5.0/60.0, 5)
	signupLimiter := NewRateLimiter(3.0/60.0, 3)

	// Public routes with rate limiting on the credential endpoints.
	s.router.Handle("/signup", signupLimiter.Middleware(http.HandlerFunc(s.handlers.Signup))).Methods("POST")
	s.router.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(s.handlers.Login))).Methods("POST")
	s.router.HandleFunc("/logout", s.handlers.Logout).Methods("DELETE")

	// Everything else requires the session cookie.
	protected := s.router.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(authService))

	protected.HandleFunc("/check_session", s.handlers.CheckSession).Methods("GET")

	protected.HandleFunc("/games", s.handlers.ListGames).Methods("GET")
	protected.HandleFunc("/games", s.handlers.CreateGame).Methods("POST")
	protected.HandleFunc("/games/{gameID}", s.handlers.UpdateGame).Methods("PATCH")
	protected.HandleFunc("/games/{gameID}", s.handlers.DeleteGame).Methods("DELETE")

	protected.HandleFunc("/games/{gameID}/players", s.handlers.CreatePlayer).Methods("POST")
	protected.HandleFunc("/players/{playerID}", s.handlers.UpdatePlayer).Methods("PATCH")
	protected.HandleFunc("/players/{playerID}", s.handlers.DeletePlayer).Methods("DELETE")

	// Both creation forms: nested under the game, or flat with game_id in
	// the body.
	protected.HandleFunc("/games/{gameID}/players/{playerID}/characters", s.handlers.CreateCharacter).Methods("POST")
	protected.HandleFunc("/players/{playerID}/characters", s.handlers.CreateCharacter).Methods("POST")
	protected.HandleFunc("/characters/{characterID}", s.handlers.UpdateCharacter).Methods("PATCH")
	protected.HandleFunc("/characters/{characterID}", s.handlers.DeleteCharacter).Methods("DELETE")

	protected.HandleFunc("/games/{gameID}/sessions", s.handlers.CreateSession).Methods("POST")
	protected.HandleFunc("/sessions/{sessionID}", s.handlers.UpdateSession).Methods("PATCH")
	protected.HandleFunc("/sessions/{sessionID}", s.handlers.DeleteSession).Methods("DELETE")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) GetHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
