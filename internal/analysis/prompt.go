package analysis

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"healthguard/internal/types/wellness"
)

const (
	AssistantName         = "Smart HealthGuard"
	NoSymptomsPlaceholder = "None reported"
)

var tasks = []string{
	"Identify potential wellness issues from correlations between the readings (e.g., high stress together with low sleep).",
	"Provide safe, non-medical explanations for what you observe.",
	"Suggest actionable wellness steps.",
}

var constraints = []string{
	"DO NOT provide a medical diagnosis.",
	"If any reading is critical (e.g., extremely high heart rate or temperature), advise seeing a doctor as one of the immediate steps.",
}

// BuildPrompt renders the instruction block for one analysis. It is a pure
// function of its inputs; field order is fixed.
func BuildPrompt(s wellness.SensorSnapshot, c wellness.UserContext) string {
	var buf bytes.Buffer
	writeSection(&buf, "ROLE", fmt.Sprintf("Act as an AI wellness assistant named %s.\nAnalyze the following user data.", AssistantName))
	writeSection(&buf, "USER CONTEXT", formatList([]string{
		"Symptoms: " + symptomsText(c.Symptoms),
		"Lifestyle: " + c.Lifestyle,
		"Diet Habits: " + c.Diet,
	}))
	writeSection(&buf, "IOT SENSOR DATA (CURRENT READINGS)", formatList([]string{
		fmt.Sprintf("Heart Rate: %d bpm", s.HeartRate),
		fmt.Sprintf("Body Temperature: %s°C", formatFloat(s.Temperature)),
		fmt.Sprintf("Steps Today: %d", s.Steps),
		fmt.Sprintf("Sleep last night: %s hours", formatFloat(s.SleepHours)),
		fmt.Sprintf("Calculated Stress Level (1-10): %d", s.StressLevel),
		fmt.Sprintf("Blood Oxygen (SpO2): %d%%", s.BloodOxygen),
	}))
	writeSection(&buf, "TASKS", formatNumbered(tasks))
	writeSection(&buf, "CONSTRAINTS", formatList(constraints))
	writeSection(&buf, "OUTPUT_FORMAT", "Return the response strictly as a JSON object matching the schema.")
	return strings.TrimSpace(buf.String()) + "\n"
}

func symptomsText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoSymptomsPlaceholder
	}
	return s
}

// formatFloat prints the shortest representation: 36.6, 7.5, 8.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func formatNumbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
