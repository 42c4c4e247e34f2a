package reports

// Page is one slice of a descending listing. NextCursor is present iff the
// page holds exactly the requested limit, and carries the last item's ID.
type Page struct {
	Items      []*StoredReport `json:"items"`
	NextCursor *ReportID       `json:"nextCursor,omitempty"`
}
