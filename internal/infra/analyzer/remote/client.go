// Package remote talks to the external analyzer provider. The provider's
// response schema is an external contract, so decoding is deliberately
// tolerant: optional sections, string-or-object text fields, alternate key
// spellings.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
)

const fallbackSummary = "Integrated summary unavailable from the remote analyzer."

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeRequest is the provider's request contract. The bearer token is
// an opaque pass-through credential from the caller.
type AnalyzeRequest struct {
	Symptoms       string `json:"symptoms"`
	MedicalHistory string `json:"medical_history"`
	BloodResults   string `json:"blood_results"`
	Procedures     string `json:"procedures"`
	PatientID      string `json:"patient_id"`

	BearerToken string `json:"-"`
}

// section tolerates both a bare string and an object payload carrying the
// text under one of several field names.
type section struct {
	Text       string
	Confidence *float64
}

func (s *section) UnmarshalJSON(b []byte) error {
	var str string
	if json.Unmarshal(b, &str) == nil {
		s.Text = str
		return nil
	}
	var obj struct {
		Text       string   `json:"text"`
		Analysis   string   `json:"analysis"`
		Content    string   `json:"content"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for _, v := range []string{obj.Text, obj.Analysis, obj.Content} {
		if strings.TrimSpace(v) != "" {
			s.Text = v
			break
		}
	}
	s.Confidence = obj.Confidence
	return nil
}

// sectionSpec maps a provider section (under any of its known keys) to the
// agent identity it becomes in the report.
type sectionSpec struct {
	keys      []string
	agent     string
	specialty string
}

var sectionSpecs = []sectionSpec{
	{[]string{"diagnostic", "diagnostic_analysis", "diagnosis"}, "Diagnostic Analysis", "Diagnostics"},
	{[]string{"blood_analysis", "lab_analysis", "blood"}, "Lab Analysis", "Laboratory Medicine"},
	{[]string{"coding", "coding_analysis", "medical_coding"}, "Coding Analysis", "Medical Coding"},
}

// Analyze posts the case to the provider and maps each present section to
// one agent result. The provider reports no timing, so response_time is a
// placeholder.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*agents.Report, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("remote analyzer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remote analyzer returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding remote analyzer response: %w", err)
	}

	results := mapSections(payload)
	if len(results) == 0 {
		return nil, fmt.Errorf("remote analyzer returned no analysis sections")
	}

	return &agents.Report{
		RunID:        uuid.New().String(),
		PatientInfo:  req.Symptoms,
		AgentResults: results,
		Summary:      summaryFrom(payload),
	}, nil
}

func mapSections(payload map[string]json.RawMessage) []agents.Result {
	var results []agents.Result
	for _, spec := range sectionSpecs {
		sec, ok := findSection(payload, spec.keys)
		if !ok || strings.TrimSpace(sec.Text) == "" {
			continue
		}
		analysis := sec.Text
		if sec.Confidence != nil {
			analysis = fmt.Sprintf("%s\n\nConfidence: %.2f", analysis, *sec.Confidence)
		}
		results = append(results, agents.Result{
			Agent:        spec.agent,
			Specialty:    spec.specialty,
			Model:        "remote",
			Analysis:     analysis,
			ResponseTime: "-",
		})
	}
	return results
}

func findSection(payload map[string]json.RawMessage, keys []string) (section, bool) {
	for _, k := range keys {
		raw, ok := payload[k]
		if !ok {
			continue
		}
		var sec section
		if err := json.Unmarshal(raw, &sec); err != nil {
			continue
		}
		return sec, true
	}
	return section{}, false
}

func summaryFrom(payload map[string]json.RawMessage) string {
	if raw, ok := payload["summary"]; ok {
		var sec section
		if json.Unmarshal(raw, &sec) == nil && strings.TrimSpace(sec.Text) != "" {
			return sec.Text
		}
	}
	return fallbackSummary
}
