package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Strategy names, in the order they are attempted. Later strategies are
// more tolerant and more lossy than earlier ones.
const (
	StrategyStrict       = "strict"
	StrategySyntaxRepair = "syntax_repair"
	StrategyStringRepair = "string_repair"
	StrategySalvage      = "field_salvage"
	StrategyFallback     = "fallback"
)

// ParseResult reports which strategy produced the payload. OK is false
// only when every strategy failed; callers then serve defaults.
type ParseResult struct {
	Analysis Analysis
	Strategy string
	OK       bool
}

type strategy struct {
	name string
	run  func(span string) (Analysis, bool)
}

var strategies = []strategy{
	{StrategyStrict, decodeSpan},
	{StrategySyntaxRepair, func(span string) (Analysis, bool) {
		return decodeSpan(repairSyntax(span))
	}},
	{StrategyStringRepair, func(span string) (Analysis, bool) {
		return decodeSpan(repairStrings(repairSyntax(span)))
	}},
	{StrategySalvage, salvageFields},
}

// Parse extracts an Analysis from raw model output. It never returns an
// error: malformed input degrades through the repair strategies and, when
// nothing is recoverable, comes back with OK=false.
func Parse(raw string) ParseResult {
	span, found := extractJSONSpan(raw)
	if found {
		for _, st := range strategies {
			if a, ok := st.run(span); ok {
				return ParseResult{Analysis: a, Strategy: st.name, OK: true}
			}
		}
	} else if a, ok := salvageFields(raw); ok {
		return ParseResult{Analysis: a, Strategy: StrategySalvage, OK: true}
	}

	return ParseResult{Strategy: StrategyFallback}
}

// extractJSONSpan strips markdown code fences and surrounding prose,
// returning the text between the first '{' and the last '}'.
func extractJSONSpan(raw string) (string, bool) {
	text := raw
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "JSON")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		} else {
			text = rest
		}
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

type analysisPayload struct {
	HomeWinProb    float64             `json:"homeWinProb"`
	DrawProb       float64             `json:"drawProb"`
	AwayWinProb    float64             `json:"awayWinProb"`
	Confidence     float64             `json:"confidence"`
	RiskLevel      string              `json:"riskLevel"`
	Advice         string              `json:"advice"`
	KeyFactors     []string            `json:"keyFactors"`
	BetSuggestions []suggestionPayload `json:"betSuggestions"`
}

type suggestionPayload struct {
	Market     string  `json:"market"`
	Pick       string  `json:"pick"`
	Confidence float64 `json:"confidence"`
	Risk       string  `json:"risk"`
}

func decodeSpan(span string) (Analysis, bool) {
	var payload analysisPayload
	if err := sonic.UnmarshalString(span, &payload); err != nil {
		return Analysis{}, false
	}
	if payload.HomeWinProb+payload.DrawProb+payload.AwayWinProb <= 0 {
		return Analysis{}, false
	}

	a := Analysis{
		HomeWinProb: roundProb(payload.HomeWinProb),
		DrawProb:    roundProb(payload.DrawProb),
		AwayWinProb: roundProb(payload.AwayWinProb),
		Confidence:  roundProb(payload.Confidence),
		RiskLevel:   strings.TrimSpace(payload.RiskLevel),
		Advice:      strings.TrimSpace(payload.Advice),
		KeyFactors:  payload.KeyFactors,
	}
	for _, s := range payload.BetSuggestions {
		if s.Market == "" && s.Pick == "" {
			continue
		}
		a.BetSuggestions = append(a.BetSuggestions, BetSuggestion{
			Market:     strings.TrimSpace(s.Market),
			Pick:       strings.TrimSpace(s.Pick),
			Confidence: roundProb(s.Confidence),
			Risk:       strings.TrimSpace(s.Risk),
		})
	}
	return a, true
}

func roundProb(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v + 0.5)
}

// repairSyntax removes the structural noise models add to otherwise valid
// JSON: line and block comments, control characters, and trailing commas
// before a closing brace or bracket. String contents are preserved.
func repairSyntax(span string) string {
	var b strings.Builder
	b.Grow(len(span))
	inString := false

	for i := 0; i < len(span); i++ {
		c := span[i]
		if inString {
			if c == '\\' && i+1 < len(span) {
				b.WriteByte(c)
				i++
				b.WriteByte(span[i])
				continue
			}
			if c == '"' {
				inString = false
			}
			if c >= 0x20 || c == '\n' || c == '\t' {
				b.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(span) && span[i+1] == '/':
			for i < len(span) && span[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(span) && span[i+1] == '*':
			if end := strings.Index(span[i+2:], "*/"); end >= 0 {
				i += 2 + end + 1
			} else {
				i = len(span)
			}
		case c == ',':
			j := i + 1
			for j < len(span) && isSpace(span[j]) {
				j++
			}
			if j < len(span) && (span[j] == '}' || span[j] == ']') {
				continue
			}
			b.WriteByte(c)
		case c < 0x20 && c != '\n' && c != '\t' && c != '\r':
			continue
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// repairStrings fixes broken string values: unescaped inner quotes,
// stray backslashes and raw newlines. A quote is treated as closing only
// when the next significant character is structural JSON.
func repairStrings(span string) string {
	var b strings.Builder
	b.Grow(len(span) + 16)
	inString := false

	for i := 0; i < len(span); i++ {
		c := span[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '\\':
			if i+1 < len(span) && validEscape(span[i+1]) {
				b.WriteByte(c)
				i++
				b.WriteByte(span[i])
			} else {
				b.WriteString(`\\`)
			}
		case '"':
			if closesString(span, i+1) {
				inString = false
				b.WriteByte(c)
			} else {
				b.WriteString(`\"`)
			}
		case '\n', '\r', '\t':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func validEscape(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	default:
		return false
	}
}

func closesString(span string, from int) bool {
	for i := from; i < len(span); i++ {
		switch span[i] {
		case ' ', '\t':
			continue
		case ',', ':', '}', ']', '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}

var (
	reHomeProb   = regexp.MustCompile(`(?i)"homeWinProb"\s*:\s*(\d+(?:\.\d+)?)`)
	reDrawProb   = regexp.MustCompile(`(?i)"drawProb"\s*:\s*(\d+(?:\.\d+)?)`)
	reAwayProb   = regexp.MustCompile(`(?i)"awayWinProb"\s*:\s*(\d+(?:\.\d+)?)`)
	reConfidence = regexp.MustCompile(`(?i)"confidence"\s*:\s*(\d+(?:\.\d+)?)`)
	reRiskLevel  = regexp.MustCompile(`(?i)"riskLevel"\s*:\s*"([a-zA-Z ]+)"`)
	reAdvice     = regexp.MustCompile(`(?i)"advice"\s*:\s*"([^"{}]{1,400})"`)
	reFactors    = regexp.MustCompile(`(?i)"keyFactors"\s*:\s*\[([^\]]*)\]`)
	reSuggestion = regexp.MustCompile(`(?is)\{[^{}]*?"market"\s*:\s*"([^"]+)"[^{}]*?"pick"\s*:\s*"([^"]+)"[^{}]*?\}`)
	reSugConf    = regexp.MustCompile(`(?i)"confidence"\s*:\s*(\d+(?:\.\d+)?)`)
	reSugRisk    = regexp.MustCompile(`(?i)"risk"\s*:\s*"([a-zA-Z ]+)"`)
	reQuoted     = regexp.MustCompile(`"([^"]+)"`)
)

// salvageFields scrapes recognizable fragments out of text that no repair
// could turn into valid JSON. It succeeds only when at least one outcome
// probability is recoverable.
func salvageFields(raw string) (Analysis, bool) {
	home, homeOK := matchNumber(reHomeProb, raw)
	draw, drawOK := matchNumber(reDrawProb, raw)
	away, awayOK := matchNumber(reAwayProb, raw)
	if !homeOK && !drawOK && !awayOK {
		return Analysis{}, false
	}

	a := Analysis{
		HomeWinProb: home,
		DrawProb:    draw,
		AwayWinProb: away,
	}
	if conf, ok := matchNumber(reConfidence, raw); ok {
		a.Confidence = conf
	}
	if m := reRiskLevel.FindStringSubmatch(raw); m != nil {
		a.RiskLevel = m[1]
	}
	if m := reAdvice.FindStringSubmatch(raw); m != nil {
		a.Advice = strings.TrimSpace(m[1])
	}
	if m := reFactors.FindStringSubmatch(raw); m != nil {
		for _, q := range reQuoted.FindAllStringSubmatch(m[1], -1) {
			if v := strings.TrimSpace(q[1]); v != "" {
				a.KeyFactors = append(a.KeyFactors, v)
			}
		}
	}
	for _, m := range reSuggestion.FindAllStringSubmatch(raw, -1) {
		s := BetSuggestion{
			Market: strings.TrimSpace(m[1]),
			Pick:   strings.TrimSpace(m[2]),
		}
		if conf, ok := matchNumber(reSugConf, m[0]); ok {
			s.Confidence = conf
		}
		if r := reSugRisk.FindStringSubmatch(m[0]); r != nil {
			s.Risk = r[1]
		}
		a.BetSuggestions = append(a.BetSuggestions, s)
	}

	return a, true
}

func matchNumber(re *regexp.Regexp, raw string) (int, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return roundProb(v), true
}
