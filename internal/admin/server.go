// Package admin exposes the management API: question catalog CRUD,
// application review and bot settings.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/models"
	"github.com/KulmamatovZalkar/newedges/internal/store/postgres"
)

// Store is the storage surface the admin API needs.
type Store interface {
	ListQuestions(ctx context.Context) ([]*models.Question, error)
	QuestionByID(ctx context.Context, id int64) (*models.Question, error)
	CreateQuestion(ctx context.Context, q *models.Question) (*models.Question, error)
	UpdateQuestion(ctx context.Context, q *models.Question) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error

	ListApplications(ctx context.Context) ([]*models.Application, error)
	GetApplication(ctx context.Context, applicantID int64) (*models.Application, error)
	SetApplicationStatus(ctx context.Context, applicantID int64, status string) error
	ListResponses(ctx context.Context, applicantID int64) ([]*postgres.ResponseView, error)

	GetSettings(ctx context.Context) (*models.BotSettings, error)
	UpdateSettings(ctx context.Context, settings *models.BotSettings) error
}

// Server is the admin HTTP server.
type Server struct {
	store  Store
	logger logger.Logger
	router *mux.Router
}

func NewServer(store Store, log logger.Logger) *Server {
	s := &Server{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "admin"}),
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.logRequests)

	api.HandleFunc("/questions", s.handleListQuestions).Methods(http.MethodGet)
	api.HandleFunc("/questions", s.handleCreateQuestion).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id:[0-9]+}", s.handleGetQuestion).Methods(http.MethodGet)
	api.HandleFunc("/questions/{id:[0-9]+}", s.handleUpdateQuestion).Methods(http.MethodPut)
	api.HandleFunc("/questions/{id:[0-9]+}", s.handleDeleteQuestion).Methods(http.MethodDelete)

	api.HandleFunc("/applications", s.handleListApplications).Methods(http.MethodGet)
	api.HandleFunc("/applications/{applicantId:[0-9]+}", s.handleGetApplication).Methods(http.MethodGet)
	api.HandleFunc("/applications/{applicantId:[0-9]+}/status", s.handleSetApplicationStatus).Methods(http.MethodPatch)
	api.HandleFunc("/applications/{applicantId:[0-9]+}/responses", s.handleListResponses).Methods(http.MethodGet)

	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("response encoding failed", nil)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respond(w, status, errorResponse{Error: message})
}

// respondStoreError maps storage errors onto HTTP statuses.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeQuestionNotFound, apperrors.ErrCodeApplicantNotFound:
		s.respond(w, http.StatusNotFound, errorResponse{
			Error: "not found",
			Code:  string(apperrors.CodeOf(err)),
		})
	default:
		s.logger.WithError(err).Error("storage error", nil)
		s.respond(w, http.StatusInternalServerError, errorResponse{
			Error: "internal error",
			Code:  string(apperrors.ErrCodeStorageFailure),
		})
	}
}
