package analysis

import (
	"bytes"
	"encoding/json"

	"healthguard/internal/types/wellness"
	"healthguard/internal/util/jsonutil"
)

// Decode validates a raw model payload against the declared shape.
// The schema sent with the request is only a hint, so every field is
// checked here; a partially typed result is never returned.
func Decode(raw []byte) (wellness.AnalysisResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return wellness.AnalysisResult{}, newError(KindEmptyResponse, nil)
	}
	fields, err := jsonutil.ObjectFields(raw)
	if err != nil {
		return wellness.AnalysisResult{}, newError(KindParse, err)
	}
	for _, name := range RequiredFields {
		if jsonutil.IsNull(fields[name]) {
			return wellness.AnalysisResult{}, parseErrorf("missing required field %q", name)
		}
	}

	var out wellness.AnalysisResult
	lists := []struct {
		name string
		dst  *[]string
	}{
		{FieldPossibleCauses, &out.PossibleCauses},
		{FieldPatternInsights, &out.PatternInsights},
		{FieldImmediateSteps, &out.ImmediateSteps},
		{FieldDailyRecommendations, &out.DailyRecommendations},
	}
	for _, l := range lists {
		if err := decodeStrings(l.name, fields[l.name], l.dst); err != nil {
			return wellness.AnalysisResult{}, err
		}
	}

	var level string
	if err := json.Unmarshal(fields[FieldRiskLevel], &level); err != nil {
		return wellness.AnalysisResult{}, parseErrorf("field %q: want string: %v", FieldRiskLevel, err)
	}
	if out.RiskLevel, err = wellness.ParseRiskLevel(level); err != nil {
		return wellness.AnalysisResult{}, newError(KindParse, err)
	}
	if err := json.Unmarshal(fields[FieldSummary], &out.Summary); err != nil {
		return wellness.AnalysisResult{}, parseErrorf("field %q: want string: %v", FieldSummary, err)
	}
	return out, nil
}

// decodeStrings decodes an array of strings element by element, since
// encoding/json would silently turn a null element into "".
func decodeStrings(name string, raw json.RawMessage, dst *[]string) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return parseErrorf("field %q: want array of strings: %v", name, err)
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		if jsonutil.IsNull(e) {
			return parseErrorf("field %q: element %d is null", name, i)
		}
		if err := json.Unmarshal(e, &out[i]); err != nil {
			return parseErrorf("field %q: element %d: want string: %v", name, i, err)
		}
	}
	*dst = out
	return nil
}
