package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/bryanwahyu/medagent-core/internal/application"
	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service implements use-cases for stored reports. Safe for concurrent use;
// identifier assignment is the repository's responsibility.
type Service struct {
	Repo    domain.Repository
	Archive domain.ArtifactStore // optional; nil disables archiving
	Clock   application.Clock
}

// CreateCommand carries the raw create request. AgentResults stays opaque
// beyond the is-it-an-array check.
type CreateCommand struct {
	PatientInfo  string
	AgentResults json.RawMessage
	Summary      string
	Title        *string
}

// Create validates, trims, timestamps and persists a report. Validation
// failures carry stable codes; order matches the wire contract.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.StoredReport, error) {
	patientInfo := strings.TrimSpace(cmd.PatientInfo)
	if patientInfo == "" {
		return nil, &domain.ValidationError{
			Code:    domain.CodeMissingPatientInfo,
			Message: "Patient info is required and must be a non-empty string",
		}
	}

	if !isJSONArray(cmd.AgentResults) {
		return nil, &domain.ValidationError{
			Code:    domain.CodeMissingAgentResults,
			Message: "Agent results is required and must be an array",
		}
	}

	summary := strings.TrimSpace(cmd.Summary)
	if summary == "" {
		return nil, &domain.ValidationError{
			Code:    domain.CodeMissingSummary,
			Message: "Summary is required and must be a non-empty string",
		}
	}

	var title *string
	if cmd.Title != nil {
		t := strings.TrimSpace(*cmd.Title)
		title = &t
	}

	now := s.Clock.Now().UnixMilli()
	rec := &domain.StoredReport{
		PatientInfo:  patientInfo,
		AgentResults: cmd.AgentResults,
		Summary:      summary,
		Title:        title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.archive(ctx, rec)
	return rec, nil
}

// Get fetches one report by id.
func (s *Service) Get(ctx context.Context, id domain.ReportID) (*domain.StoredReport, error) {
	return s.Repo.Get(ctx, id)
}

// Delete removes one report by id. Returns domain.ErrNotFound when the row
// does not exist; the removed body is not returned.
func (s *Service) Delete(ctx context.Context, id domain.ReportID) error {
	return s.Repo.Delete(ctx, id)
}

// List pages reports in descending id order. The limit defaults to 20 and
// is hard-capped at 100 regardless of the requested value.
func (s *Service) List(ctx context.Context, limit int, cursor *domain.ReportID) (domain.Page, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	items, err := s.Repo.List(ctx, limit, cursor)
	if err != nil {
		return domain.Page{}, err
	}
	if items == nil {
		items = []*domain.StoredReport{}
	}

	page := domain.Page{Items: items}
	if len(items) == limit {
		next := items[len(items)-1].ID
		page.NextCursor = &next
	}
	return page, nil
}

// archive uploads a JSON snapshot of the report. Best effort: failures are
// logged and never surfaced to the caller.
func (s *Service) archive(ctx context.Context, rec *domain.StoredReport) {
	if s.Archive == nil {
		return
	}
	body, err := json.Marshal(rec)
	if err != nil {
		log.Printf("report archive marshal failed: id=%d err=%v", rec.ID, err)
		return
	}
	key := fmt.Sprintf("reports/%d.json", rec.ID)
	url, err := s.Archive.Upload(ctx, key, body, "application/json")
	if err != nil {
		log.Printf("report archive upload failed: id=%d err=%v", rec.ID, err)
		return
	}
	log.Printf("report archived: id=%d url=%s", rec.ID, url)
}

// isJSONArray reports whether raw parses as a JSON array (possibly empty).
// JSON null does not count: the field is required.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	var items []json.RawMessage
	return json.Unmarshal(raw, &items) == nil
}
