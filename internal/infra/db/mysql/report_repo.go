package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
)

// Expected schema:
//
//	CREATE TABLE medical_reports (
//	  id            BIGINT AUTO_INCREMENT PRIMARY KEY,
//	  patient_info  TEXT NOT NULL,
//	  agent_results JSON NOT NULL,
//	  summary       TEXT NOT NULL,
//	  title         VARCHAR(255) NULL,
//	  created_at    BIGINT NOT NULL,
//	  updated_at    BIGINT NOT NULL
//	);
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts the report and fills in the auto-assigned id.
func (r *ReportRepository) Create(ctx context.Context, rec *domain.StoredReport) error {
	const q = `
INSERT INTO medical_reports
  (patient_info, agent_results, summary, title, created_at, updated_at)
VALUES (?,?,?,?,?,?);
`
	res, err := r.db.ExecContext(ctx, q,
		rec.PatientInfo, jsonOrEmptyArray(rec.AgentResults), rec.Summary,
		nullString(rec.Title), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
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
WHERE id=? LIMIT 1;
`
	return scanReport(r.db.QueryRowContext(ctx, q, id))
}

// Delete by id; missing rows map to domain.ErrNotFound.
func (r *ReportRepository) Delete(ctx context.Context, id domain.ReportID) error {
	const q = `DELETE FROM medical_reports WHERE id=?;`
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

// List pages descending by id; the cursor bounds ids strictly from above.
func (r *ReportRepository) List(ctx context.Context, limit int, cursor *domain.ReportID) ([]*domain.StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `
SELECT id, patient_info, agent_results, summary, title, created_at, updated_at
FROM medical_reports`
	args := []any{}
	if cursor != nil {
		q += "\nWHERE id < ?"
		args = append(args, *cursor)
	}
	q += "\nORDER BY id DESC LIMIT ?;"
	args = append(args, limit)

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
