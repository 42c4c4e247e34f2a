// Command seed loads a handful of sample reports into the configured
// store, then exits. Intended for demos and local development.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/bryanwahyu/medagent-core/internal/application"
	appreports "github.com/bryanwahyu/medagent-core/internal/application/reports"
	"github.com/bryanwahyu/medagent-core/internal/config"
	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
	mysqlp "github.com/bryanwahyu/medagent-core/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/medagent-core/internal/infra/db/postgres"
)

type sample struct {
	patientInfo string
	results     []agents.Result
	summary     string
	title       string
}

var samples = []sample{
	{
		patientInfo: "65-year-old male presented with crushing chest pain radiating to left arm. Associated with diaphoresis and nausea. ECG shows ST elevation in leads II, III, aVF. History of hypertension and hyperlipidemia.",
		results: []agents.Result{
			{Agent: "DiagnosticAgent", Specialty: "Cardiology", Model: "GPT-4", Analysis: "ST elevation consistent with inferior wall MI. Cardiac biomarkers likely elevated. Emergent cardiac catheterization indicated.", ResponseTime: "1.3s"},
			{Agent: "TreatmentAgent", Specialty: "Internal Medicine", Model: "Claude-3", Analysis: "Recommend aspirin 325mg, clopidogrel 600mg loading, atorvastatin 80mg. Consider thrombolysis if cath lab unavailable within 90 minutes.", ResponseTime: "0.9s"},
			{Agent: "RiskAssessmentAgent", Specialty: "Cardiology", Model: "Gemini-Pro", Analysis: "STEMI with moderate risk profile. Monitor for arrhythmias. Post-rehabilitation prognosis good with adherence.", ResponseTime: "2.1s"},
		},
		summary: "Patient presents with an evolving ST-elevation myocardial infarction affecting the inferior wall. Management requires immediate reperfusion therapy with close monitoring for complications during the acute phase.",
		title:   "Inferior Wall STEMI Case",
	},
	{
		patientInfo: "42-year-old female with progressive dyspnea and dry cough over 3 weeks. HRCT chest shows bilateral ground glass opacities with crazy paving pattern. History of rheumatoid arthritis.",
		results: []agents.Result{
			{Agent: "DiagnosticAgent", Specialty: "Radiology", Model: "GPT-4", Analysis: "Ground glass opacities with crazy paving highly suggestive of pulmonary alveolar proteinosis or atypical infection. Consider autoimmune pneumonitis given RA history.", ResponseTime: "1.7s"},
			{Agent: "TreatmentAgent", Specialty: "Pulmonology", Model: "Claude-3", Analysis: "Bronchoalveolar lavage indicated to exclude infection. Consider serologies for connective tissue diseases. Trial of corticosteroids.", ResponseTime: "1.1s"},
		},
		summary: "The differential for bilateral ground glass opacities spans infectious, autoimmune, and infiltrative etiologies; bronchoscopy with BAL is needed for definitive diagnosis given her immunocompromised state.",
		title:   "Bilateral Ground Glass Opacities Case",
	},
	{
		patientInfo: "28-year-old woman with new onset thunderclap headache and photophobia. CT shows subarachnoid hemorrhage with blood in both Sylvian fissures. GCS 14, mild neck stiffness.",
		results: []agents.Result{
			{Agent: "DiagnosticAgent", Specialty: "Radiology", Model: "GPT-4", Analysis: "Diffuse SAH pattern concerning for aneurysmal bleed. CTA recommended to identify source.", ResponseTime: "0.8s"},
			{Agent: "TreatmentAgent", Specialty: "Neurosurgery", Model: "Claude-3", Analysis: "Admit to NSICU for monitoring. Start nimodipine 60mg Q4H for vasospasm prevention. Angiogram within 24-48 hours.", ResponseTime: "1.4s"},
		},
		summary: "Most likely aneurysmal subarachnoid hemorrhage. Early aneurysm obliteration and aggressive medical management can substantially improve prognosis.",
		title:   "Subarachnoid Hemorrhage Case",
	},
}

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	var repo domain.Repository
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewReportRepository(db)
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewReportRepository(db)
	default:
		log.Fatalf("seeding requires a persistent storage driver, got %q", cfg.Storage.Driver)
	}

	svc := &appreports.Service{Repo: repo, Clock: application.SystemClock{}}

	for _, s := range samples {
		raw, err := json.Marshal(s.results)
		if err != nil {
			log.Fatalf("marshal sample results: %v", err)
		}
		title := s.title
		rec, err := svc.Create(ctx, appreports.CreateCommand{
			PatientInfo:  s.patientInfo,
			AgentResults: raw,
			Summary:      s.summary,
			Title:        &title,
		})
		if err != nil {
			log.Fatalf("seed create failed: %v", err)
		}
		log.Printf("seeded report id=%d title=%q", rec.ID, s.title)
	}
}
