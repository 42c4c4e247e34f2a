package reports

import "context"

// Repository port (interface for persistence)
type Repository interface {
	// Create persists r and fills in its ID. Identifier assignment must be
	// serialized: concurrent calls never observe the same ID.
	Create(ctx context.Context, r *StoredReport) error
	Get(ctx context.Context, id ReportID) (*StoredReport, error)
	Delete(ctx context.Context, id ReportID) error
	// List returns up to limit rows ordered by ID descending. A non-nil
	// cursor restricts results to IDs strictly smaller than the cursor.
	List(ctx context.Context, limit int, cursor *ReportID) ([]*StoredReport, error)
}

// ArtifactStore port (interface for archiving report snapshots)
type ArtifactStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
