// Package analyzer implements the simulated specialist unit: rule-table
// inference over free-text cases plus a bounded random latency that stands
// in for model inference time.
package analyzer

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
)

type rule struct {
	pattern        *regexp.Regexp
	finding        string
	recommendation string
	concern        string
}

// Fixed rule table keyed by symptom clusters. Illustrative only; this is
// not clinical reasoning.
var rules = []rule{
	{
		pattern:        regexp.MustCompile(`(?i)(chest pain|shortness of breath|sob|heart)`),
		finding:        "Symptoms suggest possible cardiac involvement (e.g., ACS risk)",
		recommendation: "Obtain ECG, troponins, CXR; start ASA if not contraindicated",
		concern:        "Rule out acute coronary syndrome and pulmonary embolism",
	},
	{
		pattern:        regexp.MustCompile(`(?i)(headache|nausea|photophobia|light)`),
		finding:        "Headache pattern concerning for migraine; consider red flags",
		recommendation: "Neurologic exam; trial NSAID + antiemetic; consider triptan",
		concern:        "Rule out intracranial pathology if red flags present",
	},
	{
		pattern:        regexp.MustCompile(`(?i)(joint pain|stiffness|knees|wrists|fatigue)`),
		finding:        "Inflammatory arthralgia pattern with morning stiffness",
		recommendation: "Order ESR/CRP, RF, anti-CCP; consider rheumatology referral",
		concern:        "Evaluate for rheumatoid arthritis or other inflammatory arthropathy",
	},
}

const (
	fallbackFinding        = "Non-specific presentation; requires further history and exam"
	fallbackRecommendation = "Gather detailed history, vitals, focused physical exam"
	fallbackConcern        = "Ensure no time-sensitive emergencies are missed"
)

// Simulated is a stateless analyzer with a per-instance random source.
// MinDelay/Jitter/Sleep are swappable so tests run deterministically.
type Simulated struct {
	MinDelay time.Duration
	Jitter   time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulated() *Simulated {
	return &Simulated{
		MinDelay: 600 * time.Millisecond,
		Jitter:   1200 * time.Millisecond,
		Sleep:    sleepContext,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Analyze runs the rule table against the case text after simulating a
// variable processing delay. Profile validation is the caller's job.
func (a *Simulated) Analyze(ctx context.Context, p agents.Profile, patientInfo string) (agents.Result, error) {
	delay := a.delay()
	if err := a.Sleep(ctx, delay); err != nil {
		return agents.Result{}, fmt.Errorf("agent %s interrupted: %w", p.Name, err)
	}

	findings, recs, concerns := infer(patientInfo)

	return agents.Result{
		Agent:        p.Name,
		Specialty:    p.Specialty,
		Model:        p.Model,
		Analysis:     compose(findings, recs, concerns),
		ResponseTime: fmt.Sprintf("%.2fs", delay.Seconds()),
	}, nil
}

func (a *Simulated) delay() time.Duration {
	d := a.MinDelay
	if a.Jitter > 0 {
		a.mu.Lock()
		d += time.Duration(a.rnd.Int63n(int64(a.Jitter)))
		a.mu.Unlock()
	}
	return d
}

func infer(text string) (findings, recs, concerns []string) {
	for _, ru := range rules {
		if ru.pattern.MatchString(text) {
			findings = append(findings, ru.finding)
			recs = append(recs, ru.recommendation)
			concerns = append(concerns, ru.concern)
		}
	}
	if len(findings) == 0 {
		findings = append(findings, fallbackFinding)
		recs = append(recs, fallbackRecommendation)
		concerns = append(concerns, fallbackConcern)
	}
	return findings, recs, concerns
}

// compose renders the three labeled sections, at most two findings and two
// recommendations, one concern.
func compose(findings, recs, concerns []string) string {
	lines := []string{"Main Findings:", "- " + findings[0]}
	if len(findings) > 1 {
		lines = append(lines, "- "+findings[1])
	}
	lines = append(lines, "", "Recommendations:", "- "+recs[0])
	if len(recs) > 1 {
		lines = append(lines, "- "+recs[1])
	}
	lines = append(lines, "", "Concerns:", "- "+concerns[0])
	return strings.Join(lines, "\n")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
