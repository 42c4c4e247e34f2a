package agents

// Profile identifies one configured specialist agent. Profiles are defined
// at configuration time and never created by callers.
type Profile struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Model     string `json:"model" yaml:"model"`
	Specialty string `json:"specialty" yaml:"specialty"`
}

// Result is one agent's take on a case. Created once per invocation and
// immutable afterwards; owned by the Report that contains it.
type Result struct {
	Agent        string `json:"agent"`
	Specialty    string `json:"specialty"`
	Model        string `json:"model"`
	Analysis     string `json:"analysis"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// Report is the transient outcome of one orchestration run. Each caller
// that receives one owns its own copy; persistence goes through the
// reports aggregate.
type Report struct {
	RunID        string   `json:"run_id"`
	PatientInfo  string   `json:"patient_info"`
	AgentResults []Result `json:"agent_results"`
	Summary      string   `json:"summary"`
}

// DefaultProfiles is the specialist team used when the caller supplies none.
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: "gemma2-9b", Name: "Dr. Gemma", Model: "gemma2:9b", Specialty: "General Medicine Specialist"},
		{ID: "phi3-3_8b", Name: "Dr. Phi", Model: "phi3:3.8b", Specialty: "Diagnostic Specialist"},
		{ID: "llama3-latest", Name: "Dr. Llama", Model: "llama3:latest", Specialty: "Treatment Planning Specialist"},
	}
}
