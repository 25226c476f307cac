package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/analysis"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

const (
	// maxBodyBytes bounds request bodies; raw samples can be large.
	maxBodyBytes = 32 << 20

	// maxBootstrapIterations bounds the resample buffer a request can allocate.
	maxBootstrapIterations = 1_000_000
)

var iterationLimitMessage = fmt.Sprintf("iterations must not exceed %d", maxBootstrapIterations)

type HealthResponse struct {
	Status           string `json:"status"`
	ExperimentsCount int    `json:"experiments_count"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type ProportionRequest struct {
	Control   stats.ProportionSample `json:"control"`
	Treatment stats.ProportionSample `json:"treatment"`
}

type MeanRequest struct {
	Control   []float64 `json:"control"`
	Treatment []float64 `json:"treatment"`
}

// PowerRequest leaves SignificanceLevel and DesiredPower nil when omitted so
// that only missing fields take the defaults.
type PowerRequest struct {
	BaselineRate            float64  `json:"baseline_rate"`
	MinimumDetectableEffect float64  `json:"minimum_detectable_effect"`
	SignificanceLevel       *float64 `json:"significance_level"`
	DesiredPower            *float64 `json:"desired_power"`
}

func (r PowerRequest) plan() stats.PowerPlanRequest {
	req := stats.PowerPlanRequest{
		BaselineRate:            r.BaselineRate,
		MinimumDetectableEffect: r.MinimumDetectableEffect,
		SignificanceLevel:       stats.DefaultSignificanceLevel,
		DesiredPower:            stats.DefaultPower,
	}
	if r.SignificanceLevel != nil {
		req.SignificanceLevel = *r.SignificanceLevel
	}
	if r.DesiredPower != nil {
		req.DesiredPower = *r.DesiredPower
	}
	return req
}

type BootstrapRequest struct {
	Control    []float64 `json:"control"`
	Treatment  []float64 `json:"treatment"`
	Iterations *int      `json:"iterations"`
	Seed       *uint64   `json:"seed"`
}

type ExperimentResponse struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Arms      []string  `json:"arms"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	experiments, err := s.store.ListExperiments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		ExperimentsCount: len(experiments),
		UptimeSeconds:    int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleProportion(w http.ResponseWriter, r *http.Request) {
	var req ProportionRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := stats.ProportionTest(req.Control, req.Treatment)
	s.metrics.RecordAnalysis("proportion", err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(&report.Analysis{Proportion: result}).Proportion)
}

func (s *Server) handleMean(w http.ResponseWriter, r *http.Request) {
	var req MeanRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := stats.MeanTest(req.Control, req.Treatment)
	s.metrics.RecordAnalysis("mean", err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(&report.Analysis{Mean: result}).Mean)
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	var req PowerRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := stats.PowerPlan(req.plan())
	s.metrics.RecordAnalysis("power", err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(&report.Analysis{Power: result}).Power)
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	var req BootstrapRequest
	if !s.decode(w, r, &req) {
		return
	}
	iterations := s.bootstrapIterations
	if req.Iterations != nil {
		iterations = *req.Iterations
	}
	if iterations > maxBootstrapIterations {
		writeError(w, http.StatusUnprocessableEntity, iterationLimitMessage)
		return
	}

	result, err := analysis.Bootstrap(r.Context(), stats.BootstrapRequest{
		Control:    req.Control,
		Treatment:  req.Treatment,
		Iterations: iterations,
		Workers:    s.bootstrapWorkers,
	}, req.Seed, s.metrics)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(&report.Analysis{Bootstrap: result}).Bootstrap)
}

func (s *Server) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	experiments, err := s.store.ListExperiments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Return empty array instead of null
	response := make([]ExperimentResponse, 0, len(experiments))
	for _, e := range experiments {
		response = append(response, ExperimentResponse{
			Name:      e.Name,
			Kind:      string(e.Kind),
			Arms:      e.Arms,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// handleExperimentAnalysis runs the stored experiment's test. Query params:
// treatment, bootstrap=true, iterations, seed.
func (s *Server) handleExperimentAnalysis(w http.ResponseWriter, r *http.Request) {
	opts, err := s.analysisOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := analysis.Run(r.Context(), s.store, chi.URLParam(r, "name"), opts, s.metrics)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(a))
}

func (s *Server) analysisOptions(r *http.Request) (analysis.Options, error) {
	q := r.URL.Query()
	opts := analysis.Options{
		Treatment:  q.Get("treatment"),
		Iterations: s.bootstrapIterations,
		Workers:    s.bootstrapWorkers,
	}

	if v := q.Get("bootstrap"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("bootstrap must be true or false")
		}
		opts.Bootstrap = b
	}
	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("iterations must be an integer")
		}
		if n > maxBootstrapIterations {
			return opts, errors.New(iterationLimitMessage)
		}
		opts.Iterations = n
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New("seed must be an unsigned integer")
		}
		opts.Seed = &seed
	}
	return opts, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// fail maps an error to a status code and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSONError(w, status, ErrorResponse{Error: msg, RequestID: RequestIDFrom(r.Context())})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, stats.ErrInvalidSample), errors.Is(err, stats.ErrInvalidConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONError(w, status, ErrorResponse{Error: msg})
}

func writeJSONError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}
