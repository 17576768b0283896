package screening

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize coerces an untrusted model object into an EvaluationResult. It
// never fails: every missing or malformed field gets a default.
func Normalize(raw map[string]any) EvaluationResult {
	return EvaluationResult{
		Percentage: normalizePercentage(raw["percentage"]),
		RiskLevel:  normalizeRiskLevel(raw["riskLevel"]),
		Summary:    coerceString(raw["summary"]),
		Sections:   normalizeSections(raw["sections"]),
		Tips:       normalizeTips(raw["tips"]),
	}
}

func normalizePercentage(v any) int {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Round(f)
	switch {
	case f < 0:
		return 0
	case f > 100:
		return 100
	}
	return int(f)
}

// Only the exact labels requested in the prompt are recognised; anything
// else lands on Medium.
func normalizeRiskLevel(v any) RiskLevel {
	s, _ := v.(string)
	switch s {
	case "Tinggi":
		return RiskHigh
	case "Sedang":
		return RiskMedium
	case "Rendah":
		return RiskLow
	}
	return RiskMedium
}

func normalizeSections(v any) []Section {
	items, ok := v.([]any)
	if !ok {
		return []Section{}
	}
	out := make([]Section, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		out = append(out, Section{
			Title: coerceString(m["title"]),
			Note:  coerceString(m["note"]),
		})
	}
	return out
}

func normalizeTips(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, coerceString(it))
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
