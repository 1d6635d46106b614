package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"useraccounts/internal/app/users"
	"useraccounts/internal/apperr"
	"useraccounts/internal/http/middleware"
	"useraccounts/shared/go/logging"
	sharedmw "useraccounts/shared/go/middleware"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, req users.RegisterRequest) error
	Login(ctx context.Context, username, password string) (string, error)
}

// CollectionService manages one per-user collection.
type CollectionService interface {
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, itemID string) ([]string, error)
	Remove(ctx context.Context, userID, itemID string) ([]string, error)
}

// Options tunes the HTTP surface.
type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	// StoreTimeout bounds every API request, including the store calls it makes.
	StoreTimeout time.Duration
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users      UserService
	favourites CollectionService
	history    CollectionService
	authorizer middleware.Authorizer
	opts       Options
	logger     zerolog.Logger
}

// New configures a Server.
func New(
	users UserService,
	favourites CollectionService,
	history CollectionService,
	authorizer middleware.Authorizer,
	opts Options,
) *Server {
	return &Server{
		users:      users,
		favourites: favourites,
		history:    history,
		authorizer: authorizer,
		opts:       opts,
		logger:     opts.Logger.With().Str("component", "httpapi").Logger(),
	}
}

// Routes exposes the account and collection endpoints.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/user").Subrouter()
	api.Use(s.withDeadline)

	// Auth routes (no auth required)
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.RequireAuth(s.authorizer, s.logger))
	s.mountCollection(protected, "/favourites", s.favourites)
	s.mountCollection(protected, "/history", s.history)

	return router
}

// Handler wraps Routes with recovery, request logging and CORS.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Routes()
	h = middleware.CORS(s.opts.AllowedOrigins)(h)
	h = sharedmw.RequestLogging(s.opts.Logger)(h)
	h = sharedmw.Recovery(s.opts.Logger)(h)
	return h
}

func (s *Server) withDeadline(next http.Handler) http.Handler {
	if s.opts.StoreTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.opts.StoreTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// logFailure records the full error chain; clients only see the public message.
func (s *Server) logFailure(r *http.Request, err error) {
	log := logging.Scoped(s.logger, r.Context())
	event := log.Warn()
	if kind := apperr.KindOf(err); kind == apperr.Store || kind == apperr.Unknown || kind == apperr.Hash {
		event = log.Error()
	}
	event.Err(err).
		Str("kind", apperr.KindOf(err).String()).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
