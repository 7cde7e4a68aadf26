package handler

import (
	"net/http"

	"healthguard/internal/types/wellness"
)

type optionsBody struct {
	Bounds     wellness.SensorBounds `json:"bounds"`
	Lifestyles []wellness.Option     `json:"lifestyles"`
	Diets      []wellness.Option     `json:"diets"`
	RiskLevels []wellness.RiskLevel  `json:"risk_levels"`
	Defaults   struct {
		Sensors wellness.SensorSnapshot `json:"sensors"`
		Context wellness.UserContext    `json:"context"`
	} `json:"defaults"`
}

// HandleOptions describes the input controls: slider ranges and select lists.
func HandleOptions(w http.ResponseWriter, _ *http.Request) {
	var body optionsBody
	body.Bounds = wellness.Bounds()
	body.Lifestyles = wellness.LifestyleOptions()
	body.Diets = wellness.DietOptions()
	body.RiskLevels = wellness.RiskLevels()
	body.Defaults.Sensors = wellness.DefaultSensors()
	body.Defaults.Context = wellness.DefaultContext()
	writeJSON(w, http.StatusOK, body)
}

type healthBody struct {
	OK  bool   `json:"ok"`
	LLM string `json:"llm"`
}

// HealthHandler reports liveness and which model client is wired.
func HealthHandler(llmName string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthBody{OK: true, LLM: llmName})
	}
}
