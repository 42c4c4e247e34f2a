package reports

import "encoding/json"

// ReportID identifier type. Assigned by the storage engine, strictly
// increasing in insertion order.
type ReportID int64

// StoredReport is the durable form of a report. AgentResults stays an
// opaque serialized array; the store never inspects its internal shape.
// Timestamps are epoch milliseconds and equal at creation.
type StoredReport struct {
	ID           ReportID        `json:"id"`
	PatientInfo  string          `json:"patientInfo"`
	AgentResults json.RawMessage `json:"agentResults"`
	Summary      string          `json:"summary"`
	Title        *string         `json:"title"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
}
