// internal/server/handlers/analysis.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandpulse/internal/adapter/storage"
	"brandpulse/internal/domain/sentiment"
	"brandpulse/internal/logger"
	"brandpulse/internal/service/analysis"
	reportsvc "brandpulse/internal/service/report"
)

// AnalysisHandler handles analysis-run and report HTTP requests
type AnalysisHandler struct {
	runner     *analysis.Service
	store      *storage.ReportStore
	runTimeout time.Duration
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(runner *analysis.Service, store *storage.ReportStore, runTimeout time.Duration) *AnalysisHandler {
	return &AnalysisHandler{
		runner:     runner,
		store:      store,
		runTimeout: runTimeout,
	}
}

// analysisRequest is the POST /analyses payload
type analysisRequest struct {
	Topics  []string          `json:"topics"`
	Regions []string          `json:"regions,omitempty"`
	Tickers map[string]string `json:"tickers,omitempty"`
}

// StartAnalysis accepts an analysis request and runs it in the
// background, returning the run ID for polling
func (h *AnalysisHandler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	topics := trimTopics(req.Topics)
	if len(topics) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one topic is required", nil)
		return
	}
	if len(req.Regions) > 0 && len(sentiment.RegionsFor(req.Regions)) == 0 {
		respondWithError(w, http.StatusBadRequest, "No known region codes in request", nil)
		return
	}

	runID := uuid.New().String()
	if err := h.store.CreateRun(r.Context(), runID, topics); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create run", err)
		return
	}

	// The run outlives the request; it carries its own deadline.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout)
		defer cancel()

		_, err := h.runner.Run(ctx, analysis.RunOptions{
			RunID:       runID,
			Topics:      topics,
			RegionCodes: req.Regions,
			Tickers:     req.Tickers,
		})
		if err != nil {
			logger.Log.WithField("run_id", runID).WithError(err).Error("analysis run failed")
		}
	}()

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"run_id": runID,
		"status": storage.RunStatusRunning,
	})
}

// GetRun returns the status of a run
func (h *AnalysisHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing run ID", nil)
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Run not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get run", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, run)
}

// GetRunReport returns the report a run produced
func (h *AnalysisHandler) GetRunReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing run ID", nil)
		return
	}

	doc, err := h.store.GetReportByRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get report", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, doc)
}

// ListReports returns recent report summaries
func (h *AnalysisHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reports, err := h.store.ListReports(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// GetReport returns a stored report document
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing report ID", nil)
		return
	}

	doc, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get report", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, doc)
}

// GetReportPDF renders a stored report as PDF
func (h *AnalysisHandler) GetReportPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing report ID", nil)
		return
	}

	doc, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Report not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get report", err)
		}
		return
	}

	pdf, err := reportsvc.ExportPDF(*doc)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// ListRegions returns the region catalog available for analysis
func (h *AnalysisHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, sentiment.DefaultRegions())
}

func trimTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.Log.WithError(err).Error(message)
	}

	jsonResponse, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
