package analysis

import (
	"strings"
	"testing"
)

const wellFormed = `{
  "homeWinProb": 45,
  "drawProb": 25,
  "awayWinProb": 30,
  "confidence": 70,
  "riskLevel": "medium",
  "advice": "Home side has momentum.",
  "keyFactors": ["home form", "injuries"],
  "betSuggestions": [
    {"market": "1X2", "pick": "Home", "confidence": 65, "risk": "medium"}
  ]
}`

func TestParseStrict(t *testing.T) {
	res := Parse(wellFormed)
	if !res.OK {
		t.Fatalf("expected parse to succeed")
	}
	if res.Strategy != StrategyStrict {
		t.Fatalf("expected strict strategy, got %s", res.Strategy)
	}
	a := res.Analysis
	if a.HomeWinProb != 45 || a.DrawProb != 25 || a.AwayWinProb != 30 {
		t.Fatalf("unexpected probabilities: %+v", a)
	}
	if a.Confidence != 70 || a.RiskLevel != "medium" {
		t.Fatalf("unexpected confidence/risk: %+v", a)
	}
	if len(a.KeyFactors) != 2 || len(a.BetSuggestions) != 1 {
		t.Fatalf("unexpected lists: %+v", a)
	}
	if a.BetSuggestions[0].Pick != "Home" || a.BetSuggestions[0].Confidence != 65 {
		t.Fatalf("unexpected suggestion: %+v", a.BetSuggestions[0])
	}
}

func TestParseFencedWithTrailingComma(t *testing.T) {
	raw := "Sure! Here's the analysis you asked for:\n```json\n" +
		`{"homeWinProb": 40, "drawProb": 30, "awayWinProb": 30, "confidence": 60, "riskLevel": "low", "advice": "Tight match.",}` +
		"\n```\nLet me know if you need anything else."

	res := Parse(raw)
	if !res.OK {
		t.Fatalf("expected parse to succeed")
	}
	if res.Strategy != StrategyStrict && res.Strategy != StrategySyntaxRepair {
		t.Fatalf("expected strict or syntax_repair, got %s", res.Strategy)
	}
	a := res.Analysis
	if a.HomeWinProb != 40 || a.DrawProb != 30 || a.AwayWinProb != 30 {
		t.Fatalf("unexpected probabilities: %+v", a)
	}
}

func TestParseSyntaxRepairs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "trailing comma in array",
			raw:  `{"homeWinProb": 50, "drawProb": 20, "awayWinProb": 30, "keyFactors": ["form",],}`,
		},
		{
			name: "line comments",
			raw: `{
  "homeWinProb": 50, // strong favourite
  "drawProb": 20,
  "awayWinProb": 30
}`,
		},
		{
			name: "block comment",
			raw:  `{"homeWinProb": 50, /* estimate */ "drawProb": 20, "awayWinProb": 30}`,
		},
		{
			name: "control characters",
			raw:  "{\"homeWinProb\": 50,\x00 \"drawProb\": 20, \"awayWinProb\": 30\x01}",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse(tc.raw)
			if !res.OK {
				t.Fatalf("expected parse to succeed")
			}
			if res.Strategy != StrategySyntaxRepair {
				t.Fatalf("expected syntax_repair, got %s", res.Strategy)
			}
			a := res.Analysis
			if a.HomeWinProb != 50 || a.DrawProb != 20 || a.AwayWinProb != 30 {
				t.Fatalf("unexpected probabilities: %+v", a)
			}
		})
	}
}

func TestParseStringRepairs(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantAdvice string
	}{
		{
			name:       "unescaped inner quote",
			raw:        `{"homeWinProb": 55, "drawProb": 25, "awayWinProb": 20, "advice": "They call it the "derby" for a reason"}`,
			wantAdvice: `They call it the \"derby\" for a reason`,
		},
		{
			name:       "raw newline inside value",
			raw:        "{\"homeWinProb\": 55, \"drawProb\": 25, \"awayWinProb\": 20, \"advice\": \"Take the hosts\nwith caution\"}",
			wantAdvice: "Take the hosts with caution",
		},
		{
			name:       "stray backslash",
			raw:        `{"homeWinProb": 55, "drawProb": 25, "awayWinProb": 20, "advice": "win\loss record favours home"}`,
			wantAdvice: `win\loss record favours home`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse(tc.raw)
			if !res.OK {
				t.Fatalf("expected parse to succeed")
			}
			if res.Strategy != StrategyStringRepair {
				t.Fatalf("expected string_repair, got %s", res.Strategy)
			}
			a := res.Analysis
			if a.HomeWinProb != 55 {
				t.Fatalf("unexpected probabilities: %+v", a)
			}
			want := strings.ReplaceAll(tc.wantAdvice, `\"`, `"`)
			want = strings.ReplaceAll(want, `\\`, `\`)
			if a.Advice != want {
				t.Fatalf("advice = %q, want %q", a.Advice, want)
			}
		})
	}
}

func TestParseSalvage(t *testing.T) {
	raw := `The model rambled on about tactics { "homeWinProb": 60 some text
"drawProb": 15 more garbage "awayWinProb": 25 and then
{"market": "Over/Under 2.5", "pick": "Over", "confidence": 55, "risk": "high"} trailing junk`

	res := Parse(raw)
	if !res.OK {
		t.Fatalf("expected salvage to succeed")
	}
	if res.Strategy != StrategySalvage {
		t.Fatalf("expected field_salvage, got %s", res.Strategy)
	}
	a := res.Analysis
	if a.HomeWinProb != 60 || a.DrawProb != 15 || a.AwayWinProb != 25 {
		t.Fatalf("unexpected probabilities: %+v", a)
	}
	if len(a.BetSuggestions) != 1 || a.BetSuggestions[0].Market != "Over/Under 2.5" {
		t.Fatalf("unexpected suggestions: %+v", a.BetSuggestions)
	}
	if a.BetSuggestions[0].Confidence != 55 || a.BetSuggestions[0].Risk != "high" {
		t.Fatalf("unexpected suggestion detail: %+v", a.BetSuggestions[0])
	}
}

func TestParseFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "prose only", raw: "I cannot provide betting analysis for this match."},
		{name: "json without probabilities", raw: `{"advice": "no idea", "riskLevel": "high"}`},
		{name: "unrelated json", raw: `{"error": "quota exceeded", "code": 429}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse(tc.raw)
			if res.OK {
				t.Fatalf("expected fallback, got strategy %s with %+v", res.Strategy, res.Analysis)
			}
			if res.Strategy != StrategyFallback {
				t.Fatalf("expected fallback strategy, got %s", res.Strategy)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"{", "}", `{"homeWinProb":}`, "``````", "```json```",
		`{"homeWinProb": "forty"}`, strings.Repeat(`{"a":`, 200),
		"{\"homeWinProb\": 10, \"drawProb\": 10, \"awayWinProb\": \xff}",
	}
	for _, raw := range inputs {
		_ = Parse(raw)
	}
}

func TestExtractJSONSpan(t *testing.T) {
	span, ok := extractJSONSpan("prefix {\"a\": 1} suffix")
	if !ok || span != `{"a": 1}` {
		t.Fatalf("span = %q ok = %v", span, ok)
	}
	if _, ok := extractJSONSpan("no json here"); ok {
		t.Fatalf("expected no span")
	}
}
