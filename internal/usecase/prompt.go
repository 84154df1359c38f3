package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/matchmindhq/matchmind/internal/domain/analysis"
)

// MatchContext is the factual material the prompt is built from. Missing
// fields are simply omitted from the prompt.
type MatchContext struct {
	HomeTeam     string
	AwayTeam     string
	League       string
	KickoffAt    time.Time
	Venue        string
	HomePosition int
	AwayPosition int
	HomeForm     string
	AwayForm     string
	HeadToHead   []string
}

const promptSchema = `{"homeWinProb": <0-100>, "drawProb": <0-100>, "awayWinProb": <0-100>, "confidence": <0-100>, "riskLevel": "low|medium|high", "advice": "<string>", "keyFactors": ["<string>"], "betSuggestions": [{"market": "<string>", "pick": "<string>", "confidence": <0-100>, "risk": "low|medium|high"}]}`

// BuildPrompt assembles the upstream prompt for one fixture. Prompts are
// built per request on the hot path, so assembly goes through a pooled
// buffer.
func BuildPrompt(mc MatchContext, scope, locale string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	switch scope {
	case analysis.ScopePredictions:
		buf.WriteString("You are a football prediction engine. Predict the outcome of this match.\n")
	default:
		buf.WriteString("You are a football analyst. Analyze this match for a betting-insight app.\n")
	}

	fmt.Fprintf(buf, "Match: %s vs %s\n", mc.HomeTeam, mc.AwayTeam)
	if mc.League != "" {
		fmt.Fprintf(buf, "League: %s\n", mc.League)
	}
	if !mc.KickoffAt.IsZero() {
		fmt.Fprintf(buf, "Kickoff: %s\n", mc.KickoffAt.UTC().Format(time.RFC3339))
	}
	if mc.Venue != "" {
		fmt.Fprintf(buf, "Venue: %s\n", mc.Venue)
	}
	if mc.HomePosition > 0 && mc.AwayPosition > 0 {
		fmt.Fprintf(buf, "League positions: %s #%d, %s #%d\n", mc.HomeTeam, mc.HomePosition, mc.AwayTeam, mc.AwayPosition)
	}
	if mc.HomeForm != "" {
		fmt.Fprintf(buf, "Recent form %s: %s\n", mc.HomeTeam, mc.HomeForm)
	}
	if mc.AwayForm != "" {
		fmt.Fprintf(buf, "Recent form %s: %s\n", mc.AwayTeam, mc.AwayForm)
	}
	if len(mc.HeadToHead) > 0 {
		buf.WriteString("Head to head:\n")
		for _, line := range mc.HeadToHead {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(buf, "- %s\n", line)
			}
		}
	}

	if analysis.NormalizeLocale(locale) == analysis.LocaleIndonesian {
		buf.WriteString("Write advice, keyFactors and picks in Indonesian.\n")
	} else {
		buf.WriteString("Write advice, keyFactors and picks in English.\n")
	}
	buf.WriteString("Respond with a single JSON object and nothing else. Schema:\n")
	buf.WriteString(promptSchema)
	buf.WriteString("\n")

	return buf.String()
}
