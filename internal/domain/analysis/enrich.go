package analysis

import "strings"

const (
	LocaleEnglish    = "en"
	LocaleIndonesian = "id"
)

var riskLabels = map[string]map[string]string{
	LocaleEnglish: {
		RiskLow:    "Low risk",
		RiskMedium: "Medium risk",
		RiskHigh:   "High risk",
	},
	LocaleIndonesian: {
		RiskLow:    "Risiko rendah",
		RiskMedium: "Risiko sedang",
		RiskHigh:   "Risiko tinggi",
	},
}

var riskColors = map[string]string{
	RiskLow:    "#2e7d32",
	RiskMedium: "#f9a825",
	RiskHigh:   "#c62828",
}

var fallbackAdvice = map[string]string{
	LocaleEnglish:    "Not enough reliable data for this match yet. Check back closer to kickoff.",
	LocaleIndonesian: "Belum ada data yang cukup untuk pertandingan ini. Coba lagi menjelang kickoff.",
}

// NormalizeLocale narrows a client locale tag to a supported language.
func NormalizeLocale(locale string) string {
	tag := strings.ToLower(strings.TrimSpace(locale))
	if tag == LocaleIndonesian || strings.HasPrefix(tag, "id-") {
		return LocaleIndonesian
	}
	return LocaleEnglish
}

// Enrich turns a parse result into a client-ready Analysis. Display
// metadata and missing defaults are filled in; numeric fields from a
// successful parse are never changed.
func Enrich(res ParseResult, locale string) Analysis {
	locale = NormalizeLocale(locale)
	if !res.OK {
		return DefaultAnalysis(locale)
	}

	a := res.Analysis
	a.RiskLevel = NormalizeRisk(a.RiskLevel)
	a.RiskDisplay = displayFor(a.RiskLevel, locale)
	if a.Confidence <= 0 {
		a.Confidence = 50
	}
	if a.Advice == "" {
		a.Advice = fallbackAdvice[locale]
	}
	if a.KeyFactors == nil {
		a.KeyFactors = []string{}
	}
	if a.BetSuggestions == nil {
		a.BetSuggestions = []BetSuggestion{}
	}
	for i := range a.BetSuggestions {
		s := &a.BetSuggestions[i]
		s.Risk = NormalizeRisk(s.Risk)
		s.RiskDisplay = displayFor(s.Risk, locale)
		if s.Confidence <= 0 {
			s.Confidence = a.Confidence
		}
	}
	a.Degraded = res.Strategy == StrategySalvage

	return a
}

// DefaultAnalysis is the safe payload served when the upstream response
// was unusable. Probabilities sum to exactly 100.
func DefaultAnalysis(locale string) Analysis {
	locale = NormalizeLocale(locale)
	return Analysis{
		HomeWinProb:    33,
		DrawProb:       34,
		AwayWinProb:    33,
		Confidence:     50,
		RiskLevel:      RiskMedium,
		Advice:         fallbackAdvice[locale],
		KeyFactors:     []string{},
		BetSuggestions: []BetSuggestion{},
		RiskDisplay:    displayFor(RiskMedium, locale),
		Degraded:       true,
	}
}

func displayFor(risk, locale string) *RiskDisplay {
	labels, ok := riskLabels[locale]
	if !ok {
		labels = riskLabels[LocaleEnglish]
	}
	return &RiskDisplay{
		Label: labels[risk],
		Color: riskColors[risk],
	}
}
