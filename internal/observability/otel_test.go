package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" authorization = Bearer x ,bad,=nokey,empty=, x-team=screening")
	if len(got) != 2 || got["authorization"] != "Bearer x" || got["x-team"] != "screening" {
		t.Fatalf("headers=%v", got)
	}
	if parseHeaders("") != nil {
		t.Fatal("empty input should yield nil")
	}
}

func TestParseRatio(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"", 0.1},
		{"0.5", 0.5},
		{"-1", 0},
		{"4", 1},
		{"abc", 0.1},
	}
	for _, tc := range cases {
		if got := parseRatio(tc.raw, 0.1); got != tc.want {
			t.Errorf("parseRatio(%q)=%v want %v", tc.raw, got, tc.want)
		}
	}
}

func TestExporterKind(t *testing.T) {
	cases := []struct {
		cfg  OtelConfig
		want string
	}{
		{OtelConfig{}, "stdout"},
		{OtelConfig{Endpoint: "collector:4318"}, "otlp"},
		{OtelConfig{Exporter: "stdout", Endpoint: "collector:4318"}, "stdout"},
		{OtelConfig{Exporter: "otlp"}, "otlp"},
	}
	for _, tc := range cases {
		if got := exporterKind(tc.cfg); got != tc.want {
			t.Errorf("exporterKind(%+v)=%q want %q", tc.cfg, got, tc.want)
		}
	}
}
