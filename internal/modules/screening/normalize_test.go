package screening

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalize_Percentage(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"in_range", float64(78), 78},
		{"above", float64(150), 100},
		{"below", float64(-5), 0},
		{"rounds_half_up", 49.5, 50},
		{"rounds_down", 49.4, 49},
		{"string", "abc", 0},
		{"numeric_string", "78", 78},
		{"numeric_string_padded", " 64.6 ", 65},
		{"numeric_string_above", "250", 100},
		{"nan_string", "NaN", 0},
		{"inf_string", "Inf", 0},
		{"empty_string", "", 0},
		{"absent", nil, 0},
		{"json_number", json.Number("12.6"), 13},
		{"int", 42, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := map[string]any{}
			if tc.in != nil {
				raw["percentage"] = tc.in
			}
			if got := Normalize(raw).Percentage; got != tc.want {
				t.Fatalf("percentage(%v)=%d want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_RiskLevel(t *testing.T) {
	cases := []struct {
		in   any
		want RiskLevel
	}{
		{"Tinggi", RiskHigh},
		{"Sedang", RiskMedium},
		{"Rendah", RiskLow},
		{"rendah", RiskMedium},
		{"low", RiskMedium},
		{"High", RiskMedium},
		{" Tinggi", RiskMedium},
		{nil, RiskMedium},
		{float64(3), RiskMedium},
	}
	for _, tc := range cases {
		raw := map[string]any{"riskLevel": tc.in}
		if tc.in == nil {
			raw = map[string]any{}
		}
		if got := Normalize(raw).RiskLevel; got != tc.want {
			t.Fatalf("riskLevel(%v)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_DefaultsNeverNil(t *testing.T) {
	got := Normalize(map[string]any{"sections": "oops", "tips": map[string]any{"a": 1}})
	if got.Sections == nil || len(got.Sections) != 0 {
		t.Fatalf("sections=%#v", got.Sections)
	}
	if got.Tips == nil || len(got.Tips) != 0 {
		t.Fatalf("tips=%#v", got.Tips)
	}
	if got.Summary != "" {
		t.Fatalf("summary=%q", got.Summary)
	}

	empty := Normalize(nil)
	if empty.Sections == nil || empty.Tips == nil || empty.RiskLevel != RiskMedium || empty.Percentage != 0 {
		t.Fatalf("nil input: %#v", empty)
	}
}

func TestNormalize_FromModelJSON(t *testing.T) {
	var raw map[string]any
	body := `{
		"percentage": 64.2,
		"riskLevel": "Sedang",
		"summary": "Perlu pemantauan.",
		"sections": [{"title": "Gaya Hidup", "note": "Kurang olahraga"}, "stray", {"title": 5}],
		"tips": ["Olahraga rutin", 3, null]
	}`
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Normalize(raw)
	want := EvaluationResult{
		Percentage: 64,
		RiskLevel:  RiskMedium,
		Summary:    "Perlu pemantauan.",
		Sections: []Section{
			{Title: "Gaya Hidup", Note: "Kurang olahraga"},
			{},
			{Title: "5"},
		},
		Tips: []string{"Olahraga rutin", "3", ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize mismatch:\n got %#v\nwant %#v", got, want)
	}
}
