// Package api provides handlers for external APIs and interfaces
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelzeko/health-watch/internal/entities"
	"github.com/abelzeko/health-watch/internal/usecases"
)

// HTTPServer exposes the submission and query surface over HTTP
type HTTPServer struct {
	useCase *usecases.SurveillanceUseCase
	router  chi.Router
}

// NewHTTPServer creates the HTTP surface with all routes registered
func NewHTTPServer(useCase *usecases.SurveillanceUseCase) *HTTPServer {
	s := &HTTPServer{
		useCase: useCase,
	}

	r := chi.NewRouter()
	r.Post("/api/reports", s.handleSubmitReport)
	r.Post("/api/observations", s.handleSubmitObservation)
	r.Get("/api/alerts", s.handleListAlerts)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r

	return s
}

// ServeHTTP delegates to the router, useful for testing
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start begins listening on the given address
func (s *HTTPServer) Start(addr string) error {
	log.Printf("HTTP server listening on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv.ListenAndServe()
}

type reportRequest struct {
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Location      string   `json:"location"`
	Symptoms      string   `json:"symptoms"`
	Contact       string   `json:"contact"`
	Turbidity     *float64 `json:"turbidity"`
	PH            *float64 `json:"ph"`
	BacteriaCount *float64 `json:"bacteria_count"`
}

type observationRequest struct {
	Location      string   `json:"location"`
	Turbidity     *float64 `json:"turbidity"`
	PH            *float64 `json:"ph"`
	BacteriaCount *float64 `json:"bacteria_count"`
}

func (s *HTTPServer) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	report := &entities.Report{
		Name:          req.Name,
		Age:           req.Age,
		Location:      req.Location,
		Symptoms:      req.Symptoms,
		Contact:       req.Contact,
		Turbidity:     req.Turbidity,
		PH:            req.PH,
		BacteriaCount: req.BacteriaCount,
	}

	result, err := s.useCase.SubmitReport(r.Context(), report)
	if err != nil {
		if errors.Is(err, usecases.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error submitting report: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *HTTPServer) handleSubmitObservation(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Turbidity == nil || req.PH == nil || req.BacteriaCount == nil {
		writeError(w, http.StatusBadRequest, "turbidity, ph and bacteria_count are required")
		return
	}

	obs := &entities.WaterObservation{
		Location:      req.Location,
		Turbidity:     *req.Turbidity,
		PH:            *req.PH,
		BacteriaCount: *req.BacteriaCount,
	}

	stored, err := s.useCase.SubmitObservation(r.Context(), obs)
	if err != nil {
		if errors.Is(err, usecases.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error submitting observation: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store observation")
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (s *HTTPServer) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	alerts, err := s.useCase.ActiveAlerts(limit)
	if err != nil {
		log.Printf("Error listing alerts: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []entities.Alert{}
	}

	writeJSON(w, http.StatusOK, alerts)
}

func (s *HTTPServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.useCase.RunAnalysis(r.Context())
	if err != nil {
		log.Printf("Error running analysis: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to run analysis")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
