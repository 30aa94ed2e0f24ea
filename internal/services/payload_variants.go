package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// Two reply shapes have been seen in practice:
//
//	flat:   {"score": 85, "breakdown": {...}, "improvements": {"critical": [...], ...}}
//	nested: {"scores": {"overall": 85, ...}, "improvements": [...], "criticalIssues": [...]}
type payloadVariant int

const (
	variantFlat payloadVariant = iota
	variantNested
)

func (v payloadVariant) String() string {
	if v == variantNested {
		return "nested"
	}
	return "flat"
}

type rawScores struct {
	overall             float64
	atsCompatibility    float64
	keywordOptimization float64
	formatting          float64
	impact              float64
}

var scoreAdapters = map[payloadVariant]func(map[string]any) rawScores{
	variantFlat:   flatScores,
	variantNested: nestedScores,
}

// improvementOrder is the order categorized improvements are flattened in.
var improvementOrder = []string{"critical", "important", "suggested", "recommended"}

func detectVariant(payload map[string]any) payloadVariant {
	if _, ok := payload["scores"].(map[string]any); ok {
		return variantNested
	}
	return variantFlat
}

func mapPayload(payload map[string]any) *models.AnalysisResult {
	raw := scoreAdapters[detectVariant(payload)](payload)

	result := models.NewAnalysisResult()
	result.Scores = models.Scores{
		Overall:             ClampScore(raw.overall),
		ATSCompatibility:    ClampScore(raw.atsCompatibility),
		KeywordOptimization: ClampScore(raw.keywordOptimization),
		Formatting:          ClampScore(raw.formatting),
		Impact:              ClampScore(raw.impact),
	}

	result.Summary = summaryText(payload)
	if strengths, ok := stringArray(payload["strengths"]); ok {
		result.Strengths = strengths
	}

	criticalFound, suggestionsFound := false, false
	switch improvements := payload["improvements"].(type) {
	case []any:
		result.Improvements, _ = stringArray(improvements)
	case map[string]any:
		for _, key := range improvementOrder {
			if list, ok := stringArray(improvements[key]); ok {
				result.Improvements = append(result.Improvements, list...)
			}
		}
		result.CriticalIssues, criticalFound = stringArray(improvements["critical"])
		result.Suggestions, suggestionsFound = stringArray(improvements["suggested"])
	}

	if !criticalFound {
		result.CriticalIssues, _ = stringArray(payload["criticalIssues"])
	}
	if !suggestionsFound {
		result.Suggestions, _ = stringArray(payload["suggestions"])
	}

	return result
}

func flatScores(payload map[string]any) rawScores {
	breakdown, _ := payload["breakdown"].(map[string]any)

	keywords, ok := numberValue(breakdown["keywords"])
	if !ok {
		keywords, _ = numberValue(breakdown["keywordsScore"])
	}
	overall, _ := numberValue(payload["score"])
	formatting, _ := numberValue(breakdown["formatting"])

	return rawScores{
		overall:             overall,
		atsCompatibility:    pairAverage(breakdown["experience"], breakdown["education"]),
		keywordOptimization: keywords,
		formatting:          formatting,
		impact:              pairAverage(breakdown["skills"], breakdown["experience"]),
	}
}

// nestedScores prefers scores.* and falls back to the flat derivation per field.
func nestedScores(payload map[string]any) rawScores {
	raw := flatScores(payload)
	scores, _ := payload["scores"].(map[string]any)

	overrides := []struct {
		key    string
		target *float64
	}{
		{"overall", &raw.overall},
		{"atsCompatibility", &raw.atsCompatibility},
		{"keywordOptimization", &raw.keywordOptimization},
		{"formatting", &raw.formatting},
		{"impact", &raw.impact},
	}
	for _, o := range overrides {
		if v, ok := numberValue(scores[o.key]); ok {
			*o.target = v
		}
	}

	return raw
}

// pairAverage averages two sub-scores. When only one of them is present and
// non-zero it is used alone instead of being averaged with zero.
func pairAverage(a, b any) float64 {
	av, aok := numberValue(a)
	bv, bok := numberValue(b)
	aok = aok && usable(av)
	bok = bok && usable(bv)

	switch {
	case aok && bok:
		return (av + bv) / 2
	case aok:
		return av
	case bok:
		return bv
	default:
		return 0
	}
}

func usable(f float64) bool {
	return f != 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// numberValue reads a JSON number or a numeric string such as " 85 " or "85%".
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ClampScore rounds to the nearest integer and bounds the result to [0,100].
// NaN and infinities become 0.
func ClampScore(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	r := math.Round(f)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return int(r)
	}
}

// stringArray returns the string elements of v when v is an array. The returned
// slice is never nil.
func stringArray(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return []string{}, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func summaryText(payload map[string]any) string {
	if s, ok := payload["summary"].(string); ok && s != "" {
		return s
	}
	if s, ok := payload["analysisSummary"].(string); ok {
		return s
	}
	return ""
}
