// Package memory holds an in-memory report repository. It is the default
// storage driver for local runs and the repository used by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
)

type ReportRepository struct {
	mu   sync.Mutex
	seq  int64
	rows map[domain.ReportID]*domain.StoredReport
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{rows: map[domain.ReportID]*domain.StoredReport{}}
}

// Create assigns the next identifier under the lock, so concurrent callers
// never observe the same id.
func (r *ReportRepository) Create(_ context.Context, rec *domain.StoredReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec.ID = domain.ReportID(r.seq)
	r.rows[rec.ID] = clone(rec)
	return nil
}

func (r *ReportRepository) Get(_ context.Context, id domain.ReportID) (*domain.StoredReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(rec), nil
}

func (r *ReportRepository) Delete(_ context.Context, id domain.ReportID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// List returns up to limit rows with id descending, restricted to ids
// strictly below the cursor when one is given.
func (r *ReportRepository) List(_ context.Context, limit int, cursor *domain.ReportID) ([]*domain.StoredReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]domain.ReportID, 0, len(r.rows))
	for id := range r.rows {
		if cursor != nil && id >= *cursor {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*domain.StoredReport, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(r.rows[id]))
	}
	return out, nil
}

// clone keeps stored rows isolated from caller mutation.
func clone(rec *domain.StoredReport) *domain.StoredReport {
	cp := *rec
	if rec.AgentResults != nil {
		cp.AgentResults = append([]byte(nil), rec.AgentResults...)
	}
	if rec.Title != nil {
		t := *rec.Title
		cp.Title = &t
	}
	return &cp
}
