// The pdfrender service converts HTML documents and live pages to PDF with
// headless Chromium. It runs as its own deployment so the analysis API does
// not need a Chrome binary in its image.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/scaile/openanalytics/internal/pdf"
)

const (
	version       = "1.0.0"
	renderTimeout = 2 * time.Minute
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	renderer := pdf.NewRenderer(renderTimeout)

	router := mux.NewRouter()
	router.HandleFunc("/health", handleHealth).Methods("GET")
	router.HandleFunc("/convert", handleConvert(renderer)).Methods("POST")
	router.HandleFunc("/convert/url", handleConvertURL(renderer)).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: renderTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("PDF rendering service starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

type convertResponse struct {
	PDFBase64    string `json:"pdf_base64"`
	SizeBytes    int    `json:"size_bytes"`
	RenderTimeMS int64  `json:"render_time_ms"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pdf-generation",
		"version": version,
	})
}

func handleConvert(renderer *pdf.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "could not read request body")
			return
		}

		var req struct {
			HTML string `json:"html"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if strings.TrimSpace(req.HTML) == "" {
			writeDetail(w, http.StatusBadRequest, "html is required")
			return
		}

		// Absent option fields keep the service defaults.
		opts := pdf.DefaultOptions()
		if err := json.Unmarshal(body, &opts); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}

		result, err := renderer.Convert(r.Context(), req.HTML, opts)
		if err != nil {
			logrus.Errorf("HTML conversion failed: %v", err)
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}

		logrus.Infof("Converted %d bytes of HTML to a %d-byte PDF in %d ms",
			len(req.HTML), len(result.PDF), result.RenderTimeMS)
		writeJSON(w, http.StatusOK, convertResponse{
			PDFBase64:    base64.StdEncoding.EncodeToString(result.PDF),
			SizeBytes:    len(result.PDF),
			RenderTimeMS: result.RenderTimeMS,
		})
	}
}

func handleConvertURL(renderer *pdf.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "could not read request body")
			return
		}

		var req struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeDetail(w, http.StatusBadRequest, "url is required")
			return
		}

		opts := pdf.URLOptions{Options: pdf.DefaultOptions()}
		if err := json.Unmarshal(body, &opts); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}

		result, err := renderer.ConvertURL(r.Context(), req.URL, opts)
		if err != nil {
			logrus.Errorf("URL conversion failed for %s: %v", req.URL, err)
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}

		logrus.Infof("Converted %s to a %d-byte PDF in %d ms", req.URL, len(result.PDF), result.RenderTimeMS)
		writeJSON(w, http.StatusOK, convertResponse{
			PDFBase64:    base64.StdEncoding.EncodeToString(result.PDF),
			SizeBytes:    len(result.PDF),
			RenderTimeMS: result.RenderTimeMS,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

// writeDetail reports an error in the rendering service's wire format.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
