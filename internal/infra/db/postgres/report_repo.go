package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
)

// Expected schema:
//
//	CREATE TABLE medical_reports (
//	  id            BIGSERIAL PRIMARY KEY,
//	  patient_info  TEXT NOT NULL,
//	  agent_results JSONB NOT NULL,
//	  summary       TEXT NOT NULL,
//	  title         TEXT NULL,
//	  created_at    BIGINT NOT NULL,
//	  updated_at    BIGINT NOT NULL
//	);
type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// Create inserts the report; the sequence assigns the id.
func (r *ReportRepository) Create(ctx context.Context, rec *domain.StoredReport) error {
	const q = `
INSERT INTO medical_reports
  (patient_info, agent_results, summary, title, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`

	results := rec.AgentResults
	if strings.TrimSpace(string(results)) == "" {
		results = json.RawMessage("[]")
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		rec.PatientInfo, []byte(results), rec.Summary,
		nullString(rec.Title), rec.CreatedAt, rec.UpdatedAt,
	).Scan(&id); err != nil {
		return err
	}
	rec.ID = domain.ReportID(id)
	return nil
}

// Get by id
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.StoredReport, error) {
	const q = `
SELECT id, patient_info, agent_results, summary, title, created_at, updated_at
FROM medical_reports
WHERE id=$1
LIMIT 1;`
	return scanReport(r.db.QueryRowContext(ctx, q, id))
}

// Delete by id
func (r *ReportRepository) Delete(ctx context.Context, id domain.ReportID) error {
	const q = `DELETE FROM medical_reports WHERE id=$1;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List pages descending by id with a strict upper-bound cursor.
func (r *ReportRepository) List(ctx context.Context, limit int, cursor *domain.ReportID) ([]*domain.StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `
SELECT id, patient_info, agent_results, summary, title, created_at, updated_at
FROM medical_reports`
	args := []any{}
	if cursor != nil {
		q += "\nWHERE id < $1\nORDER BY id DESC LIMIT $2;"
		args = append(args, *cursor, limit)
	} else {
		q += "\nORDER BY id DESC LIMIT $1;"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.StoredReport
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.StoredReport, error) {
	var rec domain.StoredReport
	var results []byte
	var title sql.NullString
	if err := row.Scan(
		&rec.ID, &rec.PatientInfo, &results, &rec.Summary,
		&title, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rec.AgentResults = json.RawMessage(results)
	if title.Valid {
		rec.Title = &title.String
	}
	return &rec, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
