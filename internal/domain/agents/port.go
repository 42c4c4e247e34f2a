package agents

import "context"

// Analyzer port (interface for one specialist unit)
type Analyzer interface {
	Analyze(ctx context.Context, p Profile, patientInfo string) (Result, error)
}
