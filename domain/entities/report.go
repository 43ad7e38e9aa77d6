package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Disclaimer accompanies every analysis output, including failure responses.
// The reports are read by or about vulnerable people, so no payload leaves
// the service without it.
const Disclaimer = "Esta é uma análise automática e deve ser revisada por um psicólogo certificado. Não constitui diagnóstico."

// UrgentRiskAction fills recommended_action_if_risk when the generator rated
// a risk signal as possible/likely but left the action empty.
const UrgentRiskAction = "Procure ajuda profissional imediata: entre em contato com o CVV pelo telefone 188 ou dirija-se ao serviço de emergência mais próximo."

const (
	minLimitations     = 3
	minFollowUpEntries = 3
	maxFollowUpEntries = 8
)

// RiskSignal is the closed vocabulary for risk screening ratings.
type RiskSignal string

const (
	RiskNone     RiskSignal = "none"
	RiskUnclear  RiskSignal = "unclear"
	RiskPossible RiskSignal = "possible"
	RiskLikely   RiskSignal = "likely"
)

// Elevated reports whether the rating requires an urgent recommended action.
func (r RiskSignal) Elevated() bool {
	return r == RiskPossible || r == RiskLikely
}

func (r RiskSignal) Valid() bool {
	switch r {
	case RiskNone, RiskUnclear, RiskPossible, RiskLikely:
		return true
	}
	return false
}

// ObservedCue is a single piece of textual evidence with its category.
type ObservedCue struct {
	Cue          string `json:"cue"`
	Category     string `json:"category"`
	WhyItMatters string `json:"why_it_matters"`
}

// Interpretation is one cautious, non-diagnostic reading of the evidence.
type Interpretation struct {
	Interpretation string `json:"interpretation"`
}

// RiskScreening binds risk-signal ratings to the recommended action.
type RiskScreening struct {
	SelfHarmOrSuicideSignals        RiskSignal `json:"self_harm_or_suicide_signals"`
	ViolenceOrImminentDangerSignals RiskSignal `json:"violence_or_imminent_danger_signals"`
	RecommendedActionIfRisk         string     `json:"recommended_action_if_risk"`
}

// Elevated reports whether either signal is rated possible or likely.
func (r RiskScreening) Elevated() bool {
	return r.SelfHarmOrSuicideSignals.Elevated() || r.ViolenceOrImminentDangerSignals.Elevated()
}

// ConfiabilityScore rates how much the analysis can be trusted.
type ConfiabilityScore struct {
	Score         float64  `json:"score"`
	RatingLabel   string   `json:"rating_label"`
	Justification []string `json:"justification"`
}

// AnalysisReport is the structured output contract of the analysis stage.
// Every field is populated according to the schema even when the underlying
// evidence is thin; empty-but-present is acceptable, missing is not.
type AnalysisReport struct {
	Disclaimer                            string            `json:"disclaimer"`
	TextSummary                           string            `json:"text_summary"`
	ObservedCues                          []ObservedCue     `json:"observed_cues"`
	PossibleInterpretations               []Interpretation  `json:"possible_interpretations"`
	AlternativeExplanationsAndLimitations []string          `json:"alternative_explanations_and_limitations"`
	RiskScreening                         RiskScreening     `json:"risk_screening"`
	ConclusionForPsychologist             string            `json:"conclusion_for_psychologist"`
	ConfiabilityScore                     ConfiabilityScore `json:"confiability_score"`
	FollowUpQuestionsForClinician         []string          `json:"follow_up_questions_for_clinician"`
	Recommendation                        string            `json:"recommendation"`

	// RawAnalysis is only set on degraded reports, carrying the generator
	// output that failed schema validation.
	RawAnalysis string `json:"raw_analysis,omitempty"`
}

var standardLimitations = []string{
	"A análise é baseada apenas no texto transcrito, sem acesso ao contexto de vida da pessoa.",
	"Sinais emocionais em áudio curto podem refletir um estado momentâneo, não um padrão persistente.",
	"A transcrição e a classificação automática de emoção podem conter erros que afetam a interpretação.",
}

var standardFollowUps = []string{
	"Como você tem se sentido na maior parte dos dias nas últimas semanas?",
	"Houve alguma mudança recente importante na sua rotina ou nos seus relacionamentos?",
	"Como está a qualidade do seu sono e do seu apetite?",
}

// DecodeReport strictly parses generator output into an AnalysisReport,
// normalizing it against the schema invariants. Non-conforming output yields
// a *SchemaParseError carrying the raw text for the degraded-report fallback.
func DecodeReport(raw string) (*AnalysisReport, error) {
	body, ok := extractJSONObject(raw)
	if !ok {
		return nil, &SchemaParseError{Raw: raw, Err: fmt.Errorf("no JSON object found in generator output")}
	}

	var report AnalysisReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, &SchemaParseError{Raw: raw, Err: err}
	}

	report.Normalize()
	if err := report.Validate(); err != nil {
		return nil, &SchemaParseError{Raw: raw, Err: err}
	}
	return &report, nil
}

// DegradedReport builds the fallback report used when generator output fails
// schema validation. It keeps the raw text and the mandatory disclaimer.
func DegradedReport(raw string) *AnalysisReport {
	return &AnalysisReport{
		Disclaimer:  Disclaimer,
		RawAnalysis: raw,
		RiskScreening: RiskScreening{
			SelfHarmOrSuicideSignals:        RiskUnclear,
			ViolenceOrImminentDangerSignals: RiskUnclear,
		},
	}
}

// Normalize repairs the report in place so the schema invariants hold even
// when the generator ignored its instructions.
func (r *AnalysisReport) Normalize() {
	if strings.TrimSpace(r.Disclaimer) == "" {
		r.Disclaimer = Disclaimer
	}

	if !r.RiskScreening.SelfHarmOrSuicideSignals.Valid() {
		r.RiskScreening.SelfHarmOrSuicideSignals = RiskUnclear
	}
	if !r.RiskScreening.ViolenceOrImminentDangerSignals.Valid() {
		r.RiskScreening.ViolenceOrImminentDangerSignals = RiskUnclear
	}

	// Risk escalation invariant: possible/likely demands a non-empty urgent
	// action; none/unclear demands an empty one.
	if r.RiskScreening.Elevated() {
		if strings.TrimSpace(r.RiskScreening.RecommendedActionIfRisk) == "" {
			r.RiskScreening.RecommendedActionIfRisk = UrgentRiskAction
		}
	} else {
		r.RiskScreening.RecommendedActionIfRisk = ""
	}

	for len(r.AlternativeExplanationsAndLimitations) < minLimitations {
		r.AlternativeExplanationsAndLimitations = append(
			r.AlternativeExplanationsAndLimitations,
			standardLimitations[len(r.AlternativeExplanationsAndLimitations)%len(standardLimitations)],
		)
	}

	for len(r.FollowUpQuestionsForClinician) < minFollowUpEntries {
		r.FollowUpQuestionsForClinician = append(
			r.FollowUpQuestionsForClinician,
			standardFollowUps[len(r.FollowUpQuestionsForClinician)%len(standardFollowUps)],
		)
	}
	if len(r.FollowUpQuestionsForClinician) > maxFollowUpEntries {
		r.FollowUpQuestionsForClinician = r.FollowUpQuestionsForClinician[:maxFollowUpEntries]
	}

	if r.ConfiabilityScore.Score < 0 {
		r.ConfiabilityScore.Score = 0
	}
	if r.ConfiabilityScore.Score > 100 {
		r.ConfiabilityScore.Score = 100
	}
	switch r.ConfiabilityScore.RatingLabel {
	case "low", "medium", "high":
	default:
		r.ConfiabilityScore.RatingLabel = ratingLabelFor(r.ConfiabilityScore.Score)
	}

	if r.ObservedCues == nil {
		r.ObservedCues = []ObservedCue{}
	}
	if r.PossibleInterpretations == nil {
		r.PossibleInterpretations = []Interpretation{}
	}
	if r.ConfiabilityScore.Justification == nil {
		r.ConfiabilityScore.Justification = []string{}
	}
}

// Validate checks the invariants that Normalize cannot repair silently.
func (r *AnalysisReport) Validate() error {
	if strings.TrimSpace(r.Disclaimer) == "" {
		return fmt.Errorf("disclaimer is required")
	}
	if !r.RiskScreening.SelfHarmOrSuicideSignals.Valid() {
		return fmt.Errorf("invalid self_harm_or_suicide_signals rating %q", r.RiskScreening.SelfHarmOrSuicideSignals)
	}
	if !r.RiskScreening.ViolenceOrImminentDangerSignals.Valid() {
		return fmt.Errorf("invalid violence_or_imminent_danger_signals rating %q", r.RiskScreening.ViolenceOrImminentDangerSignals)
	}
	if r.RiskScreening.Elevated() && strings.TrimSpace(r.RiskScreening.RecommendedActionIfRisk) == "" {
		return fmt.Errorf("recommended_action_if_risk must be set when a risk signal is elevated")
	}
	if !r.RiskScreening.Elevated() && r.RiskScreening.RecommendedActionIfRisk != "" {
		return fmt.Errorf("recommended_action_if_risk must be empty when no risk signal is elevated")
	}
	if len(r.AlternativeExplanationsAndLimitations) < minLimitations {
		return fmt.Errorf("alternative_explanations_and_limitations needs at least %d entries", minLimitations)
	}
	if n := len(r.FollowUpQuestionsForClinician); n < minFollowUpEntries || n > maxFollowUpEntries {
		return fmt.Errorf("follow_up_questions_for_clinician needs %d-%d entries, got %d", minFollowUpEntries, maxFollowUpEntries, n)
	}
	if r.ConfiabilityScore.Score < 0 || r.ConfiabilityScore.Score > 100 {
		return fmt.Errorf("confiability score %f out of range [0,100]", r.ConfiabilityScore.Score)
	}
	return nil
}

func ratingLabelFor(score float64) string {
	switch {
	case score < 40:
		return "low"
	case score < 70:
		return "medium"
	default:
		return "high"
	}
}

// extractJSONObject rescues the JSON body from generator output that wraps
// it in prose or markdown fences despite the output-purity instruction.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
