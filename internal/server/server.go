// Package server exposes the analysis pipeline over HTTP: website health
// checks, AI visibility measurements, the combined analysis, and rendered
// reports.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/pdf"
	"github.com/scaile/openanalytics/internal/storage"
)

// Version is reported by the service directory and status endpoints.
const Version = "3.0.0"

// HealthRunner grades a website.
type HealthRunner interface {
	Run(ctx context.Context, req *models.HealthCheckRequest) (*models.HealthResult, error)
}

// MentionsRunner measures brand visibility in AI answers.
type MentionsRunner interface {
	Run(ctx context.Context, req *models.MentionsCheckRequest) (*models.MentionsResult, error)
}

// Analyzer runs the combined analysis.
type Analyzer interface {
	Run(ctx context.Context, req *models.AnalyzeRequest) (*models.MasterResult, error)
}

// Server routes HTTP requests to the analysis services.
type Server struct {
	cfg       *config.Config
	health    HealthRunner
	mentions  MentionsRunner
	analyzer  Analyzer
	converter pdf.Converter
	archive   storage.StorageInterface
}

// NewServer creates a server over the given services. archive may be nil to
// disable report archiving.
func NewServer(cfg *config.Config, health HealthRunner, mentions MentionsRunner, analyzer Analyzer, converter pdf.Converter, archive storage.StorageInterface) *Server {
	return &Server{
		cfg:       cfg,
		health:    health,
		mentions:  mentions,
		analyzer:  analyzer,
		converter: converter,
		archive:   archive,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoverMiddleware)

	router.HandleFunc("/", s.handleRoot).Methods("GET")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/health", s.handleHealthCheck).Methods("POST")
	router.HandleFunc("/mentions", s.handleMentionsCheck).Methods("POST")
	router.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	router.HandleFunc("/report", s.handleReport).Methods("POST")

	return router
}

// recoverMiddleware converts handler panics into 500 responses so a single
// bad request cannot take the process down.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.Errorf("Panic in %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the JSON shape of every non-2xx response.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// decode parses the JSON request body into req and validates it. A false
// return means the 400 response has already been written.
func decode(w http.ResponseWriter, r *http.Request, req interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationDetails(err)...)
		return false
	}
	return true
}

// validationDetails flattens a validator error into per-field messages.
func validationDetails(err error) []string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		details := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			details = append(details, fmt.Sprintf("%s failed on the %s rule", fe.Field(), fe.Tag()))
		}
		return details
	}
	return []string{err.Error()}
}
