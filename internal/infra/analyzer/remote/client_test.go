package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, payload string, capture func(*http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			capture(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestAnalyzeMapsMixedSectionShapes(t *testing.T) {
	payload := `{
		"diagnostic": "Likely viral syndrome.",
		"blood_analysis": {"text": "CRP mildly elevated.", "confidence": 0.87},
		"coding_analysis": {"content": "ICD-10 J06.9"},
		"summary": {"analysis": "Self-limited illness, supportive care."}
	}`
	client := newServer(t, http.StatusOK, payload, nil)

	report, err := client.Analyze(context.Background(), AnalyzeRequest{Symptoms: "fever and cough"})
	require.NoError(t, err)

	require.Len(t, report.AgentResults, 3)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "fever and cough", report.PatientInfo)

	diag := report.AgentResults[0]
	assert.Equal(t, "Diagnostic Analysis", diag.Agent)
	assert.Equal(t, "Diagnostics", diag.Specialty)
	assert.Equal(t, "remote", diag.Model)
	assert.Equal(t, "Likely viral syndrome.", diag.Analysis)
	assert.Equal(t, "-", diag.ResponseTime)

	lab := report.AgentResults[1]
	assert.Equal(t, "Lab Analysis", lab.Agent)
	assert.Equal(t, "CRP mildly elevated.\n\nConfidence: 0.87", lab.Analysis)

	coding := report.AgentResults[2]
	assert.Equal(t, "Coding Analysis", coding.Agent)
	assert.Equal(t, "ICD-10 J06.9", coding.Analysis)

	assert.Equal(t, "Self-limited illness, supportive care.", report.Summary)
}

func TestAnalyzeAlternateSectionKeys(t *testing.T) {
	payload := `{"diagnosis": "Migraine without aura.", "blood": "Unremarkable."}`
	client := newServer(t, http.StatusOK, payload, nil)

	report, err := client.Analyze(context.Background(), AnalyzeRequest{Symptoms: "headache"})
	require.NoError(t, err)

	require.Len(t, report.AgentResults, 2)
	assert.Equal(t, "Diagnostic Analysis", report.AgentResults[0].Agent)
	assert.Equal(t, "Lab Analysis", report.AgentResults[1].Agent)
}

func TestAnalyzeMissingSummaryFallsBack(t *testing.T) {
	client := newServer(t, http.StatusOK, `{"diagnostic": "Finding."}`, nil)

	report, err := client.Analyze(context.Background(), AnalyzeRequest{Symptoms: "x"})
	require.NoError(t, err)
	assert.Equal(t, fallbackSummary, report.Summary)
}

func TestAnalyzeNoSectionsIsAnError(t *testing.T) {
	client := newServer(t, http.StatusOK, `{"unrelated": "field", "summary": "no sections though"}`, nil)

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Symptoms: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no analysis sections")
}

func TestAnalyzeUpstreamError(t *testing.T) {
	client := newServer(t, http.StatusBadGateway, `upstream exploded`, nil)

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Symptoms: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestAnalyzeForwardsBearerAndBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	client := newServer(t, http.StatusOK, `{"diagnostic": "ok"}`, func(r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{
		Symptoms:       "chest pain",
		MedicalHistory: "hypertension",
		PatientID:      "p-17",
		BearerToken:    "tok-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "chest pain", gotBody["symptoms"])
	assert.Equal(t, "hypertension", gotBody["medical_history"])
	assert.Equal(t, "p-17", gotBody["patient_id"])
	assert.NotContains(t, gotBody, "BearerToken")
}

func TestAnalyzeNoBearerHeaderWhenEmpty(t *testing.T) {
	var sawAuth bool
	client := newServer(t, http.StatusOK, `{"diagnostic": "ok"}`, func(r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Symptoms: "x"})
	require.NoError(t, err)
	assert.False(t, sawAuth)
}
