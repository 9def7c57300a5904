package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/pdf"
	"github.com/scaile/openanalytics/internal/reports"
	"github.com/scaile/openanalytics/internal/storage"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "OpenAnalytics",
		"version": Version,
		"status":  "ready",
		"endpoints": map[string]string{
			"/health":   "POST - website health check",
			"/mentions": "POST - AI visibility measurement",
			"/analyze":  "POST - combined analysis (health + mentions)",
			"/report":   "POST - rendered report (html or pdf)",
			"/":         "GET - this directory",
			"/status":   "GET - service status",
		},
		"gemini_configured": s.cfg.GeminiAPIKey != "",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"version":           Version,
		"gemini_configured": s.cfg.GeminiAPIKey != "",
	})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	var req models.HealthCheckRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.health.Run(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "health check failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMentionsCheck(w http.ResponseWriter, r *http.Request) {
	var req models.MentionsCheckRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.mentions.Run(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "mentions check failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.analyzer.Run(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed", err.Error())
		return
	}

	s.archiveBlob(result, "json", nil)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.analyzer.Run(r.Context(), &req.AnalyzeRequest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed", err.Error())
		return
	}

	html, err := reports.RenderHTML(result, reports.Options{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report rendering failed", err.Error())
		return
	}

	s.archiveBlob(result, "json", nil)

	if req.Format == "pdf" {
		rendered, err := s.converter.Convert(r.Context(), html, pdf.DefaultOptions())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "pdf rendering failed", err.Error())
			return
		}
		s.archiveBlob(result, "pdf", rendered.PDF)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", storage.Slug(result.Company)+"-report.pdf"))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(rendered.PDF); err != nil {
			logrus.Errorf("Failed to write PDF response: %v", err)
		}
		return
	}

	s.archiveBlob(result, "html", []byte(html))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		logrus.Errorf("Failed to write report response: %v", err)
	}
}

// archiveBlob stores one artifact of the analysis under the company's
// archive prefix. A nil artifact with ext "json" archives the result itself.
// Archive failures are logged, never surfaced: the caller already holds the
// report.
func (s *Server) archiveBlob(result *models.MasterResult, ext string, artifact []byte) {
	if s.archive == nil {
		return
	}

	if artifact == nil {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			logrus.Errorf("Failed to marshal analysis %s: %v", result.ID, err)
			return
		}
		artifact = data
	}

	name := storage.BlobName(result.Company, ext, result.GeneratedAt, result.ID)
	if err := s.archive.Store(name, artifact); err != nil {
		logrus.Errorf("Failed to archive %s: %v", name, err)
	}
}
