package screening

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

type Section struct {
	Title string `json:"title"`
	Note  string `json:"note"`
}

// EvaluationResult is the validated outcome of one evaluation. Sections and
// Tips are never nil.
type EvaluationResult struct {
	Percentage int       `json:"percentage"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Summary    string    `json:"summary"`
	Sections   []Section `json:"sections"`
	Tips       []string  `json:"tips"`
}

// QAPair is one question with the text of the option picked for it.
type QAPair struct {
	Question string
	Answer   string
}

// Outcome tags where an EvaluationResult came from.
type Outcome string

const (
	OutcomeModel    Outcome = "model"
	OutcomeFallback Outcome = "fallback"
)

const fallbackSummary = "Ringkasan otomatis gagal dibuat. Silakan coba lagi atau konsultasikan dengan tenaga kesehatan."

// FallbackResult is substituted whenever the model call fails.
func FallbackResult() EvaluationResult {
	return EvaluationResult{
		Percentage: 50,
		RiskLevel:  RiskMedium,
		Summary:    fallbackSummary,
		Sections:   []Section{},
		Tips:       []string{},
	}
}
