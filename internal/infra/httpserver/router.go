package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/medagent-core/internal/application/analysis"
	appreports "github.com/bryanwahyu/medagent-core/internal/application/reports"
	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
	"github.com/bryanwahyu/medagent-core/internal/infra/analyzer/remote"
	"github.com/bryanwahyu/medagent-core/internal/middleware"
)

type Router struct {
	reportsSvc  *appreports.Service
	analysisSvc *appanalysis.Service
	remote      *remote.Client // nil when no provider is configured
}

func NewRouter(reportsSvc *appreports.Service, analysisSvc *appanalysis.Service, remoteClient *remote.Client) http.Handler {
	r := &Router{reportsSvc: reportsSvc, analysisSvc: analysisSvc, remote: remoteClient}
	mux := chi.NewRouter()

	// The primary caller is a browser app.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analysis", r.handleAnalyze)
		rt.Post("/analysis/remote", r.handleAnalyzeRemote)

		rt.Get("/reports", r.handleList)
		rt.Post("/reports", r.handleCreate)
		rt.Get("/reports/{id}", r.handleGet)
		rt.Delete("/reports/{id}", r.handleDelete)
	})

	return mux
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, code domain.Code) {
	writeJSON(w, status, apiError{Error: msg, Code: string(code)})
}

// writeValidationError surfaces a domain validation error on the wire.
func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	writeError(w, http.StatusBadRequest, verr.Message, verr.Code)
}

// POST /v1/analysis
// Body: {"patient_info": "...", "agents": [...]?}
// Runs the local orchestrator and returns the transient report without
// persisting it; saving is the caller's explicit second step.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	var body struct {
		PatientInfo string           `json:"patient_info"`
		Agents      []agents.Profile `json:"agents"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	info := middleware.SanitizeString(body.PatientInfo)
	if info == "" {
		writeError(w, http.StatusBadRequest,
			"Patient info is required and must be a non-empty string", domain.CodeMissingPatientInfo)
		return
	}

	middleware.IncrementAnalyses()
	report, err := r.analysisSvc.Run(req.Context(), info, body.Agents)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		log.Printf("analysis run failed: %v", err)
		writeJSON(w, http.StatusBadGateway, apiError{Error: "analysis failed", Code: "ANALYSIS_FAILED"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// POST /v1/analysis/remote
// Forwards the case to the external analyzer provider, passing the bearer
// credential through untouched.
func (r *Router) handleAnalyzeRemote(w http.ResponseWriter, req *http.Request) {
	if r.remote == nil {
		writeJSON(w, http.StatusServiceUnavailable, apiError{Error: "remote analyzer is not configured"})
		return
	}

	var body struct {
		Symptoms       string `json:"symptoms"`
		MedicalHistory string `json:"medical_history"`
		BloodResults   string `json:"blood_results"`
		Procedures     string `json:"procedures"`
		PatientID      string `json:"patient_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	if middleware.SanitizeString(body.Symptoms) == "" {
		writeError(w, http.StatusBadRequest,
			"Patient info is required and must be a non-empty string", domain.CodeMissingPatientInfo)
		return
	}

	middleware.IncrementAnalyses()
	report, err := r.remote.Analyze(req.Context(), remote.AnalyzeRequest{
		Symptoms:       body.Symptoms,
		MedicalHistory: body.MedicalHistory,
		BloodResults:   body.BloodResults,
		Procedures:     body.Procedures,
		PatientID:      body.PatientID,
		BearerToken:    middleware.BearerFromContext(req.Context()),
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		log.Printf("remote analysis failed: %v", err)
		writeJSON(w, http.StatusBadGateway, apiError{Error: "analysis failed", Code: "ANALYSIS_FAILED"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GET /v1/reports?limit=&cursor=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) {
	limit := 20
	if v := req.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = middleware.ValidateLimit(n)
		}
	}

	var cursor *domain.ReportID
	if v := req.URL.Query().Get("cursor"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid cursor format", domain.CodeInvalidCursor)
			return
		}
		c := domain.ReportID(n)
		cursor = &c
	}

	page, err := r.reportsSvc.List(req.Context(), limit, cursor)
	if err != nil {
		log.Printf("list reports failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", domain.CodeDatabase)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// POST /v1/reports
func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) {
	var body struct {
		PatientInfo  string          `json:"patient_info"`
		AgentResults json.RawMessage `json:"agent_results"`
		Summary      string          `json:"summary"`
		Title        *string         `json:"title"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	rec, err := r.reportsSvc.Create(req.Context(), appreports.CreateCommand{
		PatientInfo:  body.PatientInfo,
		AgentResults: body.AgentResults,
		Summary:      body.Summary,
		Title:        body.Title,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		log.Printf("create report failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", domain.CodeDatabase)
		return
	}

	middleware.IncrementReportsCreated()
	writeJSON(w, http.StatusCreated, rec)
}

// GET /v1/reports/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) {
	id, ok := parseID(w, req)
	if !ok {
		return
	}

	rec, err := r.reportsSvc.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found", domain.CodeNotFound)
			return
		}
		// Single-report reads surface the raw error text, no code.
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// DELETE /v1/reports/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) {
	id, ok := parseID(w, req)
	if !ok {
		return
	}

	if err := r.reportsSvc.Delete(req.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Report not found", domain.CodeNotFound)
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func parseID(w http.ResponseWriter, req *http.Request) (domain.ReportID, bool) {
	raw := chi.URLParam(req, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Valid ID is required", domain.CodeInvalidID)
		return 0, false
	}
	return domain.ReportID(n), true
}
