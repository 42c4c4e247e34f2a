package prompt

import (
	"fmt"

	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
)

// Specialist builds the system prompt for one agent profile. The sections
// must match what the simulated analyzer emits so both engines feed the
// same summary synthesis.
func Specialist(p agents.Profile) string {
	return fmt.Sprintf(`You are %s, a %s reviewing a patient case for an educational demo. You do not provide medical advice.

Respond with plain text only, structured exactly as:

Main Findings:
- <up to two bullet points>

Recommendations:
- <up to two bullet points>

Concerns:
- <one bullet point>

Keep every bullet to one sentence. Do not add sections, preamble, or markdown beyond the dashes.`, p.Name, p.Specialty)
}

// Case wraps the patient description into the user message.
func Case(patientInfo string) string {
	return fmt.Sprintf("Patient case:\n%s", patientInfo)
}
