package analysis

import (
	"strings"
	"time"
)

// Scope names the kind of analysis a request asks for. Each scope is
// rate-limited and cached independently.
const (
	ScopeAnalysis    = "analysis"
	ScopePredictions = "predictions"
)

// Risk levels carried by an Analysis and its bet suggestions.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Analysis is the structured verdict extracted from a model response.
type Analysis struct {
	HomeWinProb    int             `json:"homeWinProb"`
	DrawProb       int             `json:"drawProb"`
	AwayWinProb    int             `json:"awayWinProb"`
	Confidence     int             `json:"confidence"`
	RiskLevel      string          `json:"riskLevel"`
	Advice         string          `json:"advice"`
	KeyFactors     []string        `json:"keyFactors"`
	BetSuggestions []BetSuggestion `json:"betSuggestions"`
	RiskDisplay    *RiskDisplay    `json:"riskDisplay,omitempty"`
	Degraded       bool            `json:"degraded,omitempty"`
}

// BetSuggestion is a single market recommendation inside an Analysis.
type BetSuggestion struct {
	Market      string       `json:"market"`
	Pick        string       `json:"pick"`
	Confidence  int          `json:"confidence"`
	Risk        string       `json:"risk"`
	RiskDisplay *RiskDisplay `json:"riskDisplay,omitempty"`
}

// RiskDisplay is presentation metadata attached during enrichment so
// clients never have to map risk tokens themselves.
type RiskDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

func ValidScope(scope string) bool {
	switch scope {
	case ScopeAnalysis, ScopePredictions:
		return true
	default:
		return false
	}
}

// NormalizeRisk maps free-form risk tokens to one of the known levels.
// Unknown tokens fall back to medium.
func NormalizeRisk(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case RiskLow, "rendah":
		return RiskLow
	case RiskHigh, "tinggi":
		return RiskHigh
	default:
		return RiskMedium
	}
}

// CacheEntry is a cached analysis keyed by fixture, scope and locale.
type CacheEntry struct {
	FixtureID  int64
	Scope      string
	Locale     string
	Payload    Analysis
	ComputedAt time.Time
	ExpiresAt  time.Time
	MatchDay   time.Time
}
