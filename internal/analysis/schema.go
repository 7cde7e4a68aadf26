package analysis

import (
	genai "google.golang.org/genai"

	"healthguard/internal/types/wellness"
)

const (
	FieldPossibleCauses       = "possible_causes"
	FieldPatternInsights      = "pattern_insights"
	FieldRiskLevel            = "risk_level"
	FieldImmediateSteps       = "immediate_steps"
	FieldDailyRecommendations = "daily_recommendations"
	FieldSummary              = "summary"
)

// RequiredFields is the declared property order of the response object.
var RequiredFields = []string{
	FieldPossibleCauses,
	FieldPatternInsights,
	FieldRiskLevel,
	FieldImmediateSteps,
	FieldDailyRecommendations,
	FieldSummary,
}

// ResponseSchema is sent with every request as a structured-output hint.
// A fresh value is returned so callers may not mutate a shared schema.
func ResponseSchema() *genai.Schema {
	levels := make([]string, 0, 3)
	for _, r := range wellness.RiskLevels() {
		levels = append(levels, string(r))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			FieldPossibleCauses:  stringArray("Non-medical, wellness-focused explanations for symptoms."),
			FieldPatternInsights: stringArray("Observations based on sensor data correlation."),
			FieldRiskLevel: {
				Type:        genai.TypeString,
				Enum:        levels,
				Description: "General wellness risk assessment.",
			},
			FieldImmediateSteps:       stringArray("Actionable immediate advice."),
			FieldDailyRecommendations: stringArray("Habit changes for the long term."),
			FieldSummary: {
				Type:        genai.TypeString,
				Description: "A concise 2-3 line summary of the analysis.",
			},
		},
		Required:         append([]string(nil), RequiredFields...),
		PropertyOrdering: append([]string(nil), RequiredFields...),
	}
}

func stringArray(desc string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: desc,
	}
}
