package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"adguard-controller/internal/command"
	"adguard-controller/internal/dispatch"
	"adguard-controller/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CommandHandler runs one command synchronously and reports its outcome.
type CommandHandler interface {
	Handle(ctx context.Context, cmd command.Command) dispatch.Outcome
}

type Server struct {
	dispatcher CommandHandler
}

func New(dispatcher CommandHandler) *Server {
	return &Server{dispatcher: dispatcher}
}

// Handler builds the route tree. The trigger routes are GETs on
// purpose: a phone shortcut or browser bookmark can fire them with a
// single tap and no request body. The surface is unauthenticated and
// trusts network placement.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleStatus)
	r.Get("/youtube/enable", s.handleCommand(command.EnableBlocking))
	r.Get("/youtube/disable", s.handleCommand(command.DisableBlocking))
	r.Method(http.MethodGet, "/metrics", observability.Handler())
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "AdGuard YouTube API is running"})
}

func (s *Server) handleCommand(cmd command.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := s.dispatcher.Handle(r.Context(), cmd)
		observability.CommandProcessed("http", cmd.String(), out.Success)
		writeJSON(w, out.StatusCode, apiResponse{Success: out.Success, Message: out.Message})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
