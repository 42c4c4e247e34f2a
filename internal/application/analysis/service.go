package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
)

const defaultAgentTimeout = 10 * time.Second

// Service implements the orchestration use-case: fan out one case to every
// configured agent concurrently and fold the results into a Report.
// Safe for concurrent use.
type Service struct {
	Analyzer agents.Analyzer
	Profiles []agents.Profile // fallback when the caller supplies none
	Timeout  time.Duration    // per-agent budget; defaultAgentTimeout when zero
}

// Run invokes every agent concurrently and waits for all of them. Any
// single agent failure fails the whole run; no partial report is returned.
// The result list always matches the profile list in length and order.
func (s *Service) Run(ctx context.Context, patientInfo string, profiles []agents.Profile) (*agents.Report, error) {
	info := strings.TrimSpace(patientInfo)
	if len(profiles) == 0 {
		profiles = s.Profiles
	}
	if len(profiles) == 0 {
		profiles = agents.DefaultProfiles()
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultAgentTimeout
	}

	// Pre-sized slice indexed by profile position; output order is input
	// order, never completion order.
	results := make([]agents.Result, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range profiles {
		i, p := i, p
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			res, err := s.Analyzer.Analyze(actx, p, info)
			if err != nil {
				return fmt.Errorf("agent %s: %w", p.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &agents.Report{
		RunID:        uuid.New().String(),
		PatientInfo:  info,
		AgentResults: results,
		Summary:      synthesize(results),
	}, nil
}

var themePattern = regexp.MustCompile(`(?i)ACS|cardiac|arthralgia|migraine`)

// synthesize builds the integrated summary. Deterministic given the agent
// outputs: the consensus line flips on whether any theme matched.
func synthesize(results []agents.Result) string {
	var combined strings.Builder
	for i, r := range results {
		if i > 0 {
			combined.WriteString("\n\n")
		}
		fmt.Fprintf(&combined, "%s (%s):\n%s", r.Agent, r.Specialty, r.Analysis)
	}

	consensus := "Agents recommend further evaluation due to non-specific presentation."
	if themePattern.MatchString(combined.String()) {
		consensus = "Multiple agents identify themed patterns aligned with symptoms."
	}

	return "Integrated Summary:\n- Consensus: " + consensus +
		"\n- Key recommendations emphasize initial diagnostics and safety-netting." +
		"\n- Priority actions: address life-threatening causes first, then targeted workup."
}
