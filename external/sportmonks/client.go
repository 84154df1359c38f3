package sportmonks

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchmindhq/matchmind/internal/platform/logging"
	"github.com/matchmindhq/matchmind/internal/platform/resilience"
	"github.com/matchmindhq/matchmind/internal/usecase"
)

const (
	defaultBaseURL         = "https://api.sportmonks.com/v3/football"
	defaultIncludeFixture  = "participants;scores;venue;state"
	defaultIncludeStanding = "participant;details.type;form"
	fixtureDetailChunkSize = 20
)

var digitsRegex = regexp.MustCompile(`\d+`)
var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errSportMonksTransient = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements usecase.SportDataProvider against the SportMonks
// football API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchFixturesBySeason reads the season schedule, then hydrates score,
// status and venue details in chunks. A failed detail chunk degrades to
// the schedule-only rows instead of failing the whole season.
func (c *Client) FetchFixturesBySeason(ctx context.Context, seasonID int64) ([]usecase.ExternalFixture, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	schedulePath := fmt.Sprintf("/schedules/seasons/%d", seasonID)
	var schedule scheduleEnvelope
	if _, err := c.doJSON(ctx, schedulePath, nil, &schedule); err != nil {
		return nil, fmt.Errorf("fetch schedule season_id=%d: %w", seasonID, err)
	}

	byID := make(map[int64]usecase.ExternalFixture, 128)
	for _, stage := range schedule.Data {
		for _, round := range stage.Rounds {
			roundNumber := parseRoundNumber(round.Name, 1)
			for _, item := range round.Fixtures {
				if item.ID <= 0 {
					continue
				}
				homeName, awayName, homeID, awayID := resolveFixtureParticipants(item.Participants)
				existing := byID[item.ID]
				existing.ExternalID = item.ID
				existing.Round = maxInt(existing.Round, roundNumber)
				existing.HomeTeamName = firstNonEmpty(existing.HomeTeamName, homeName)
				existing.AwayTeamName = firstNonEmpty(existing.AwayTeamName, awayName)
				existing.HomeTeamRefID = pickID(existing.HomeTeamRefID, homeID)
				existing.AwayTeamRefID = pickID(existing.AwayTeamRefID, awayID)
				if parsed := parseProviderDateTime(item.StartingAt); parsed != nil {
					existing.KickoffAt = *parsed
				}
				if existing.Status == "" {
					existing.Status = "SCHEDULED"
				}
				byID[item.ID] = existing
			}
		}
	}

	fixtureIDs := make([]int64, 0, len(byID))
	for fixtureID := range byID {
		fixtureIDs = append(fixtureIDs, fixtureID)
	}
	sort.SliceStable(fixtureIDs, func(i, j int) bool { return fixtureIDs[i] < fixtureIDs[j] })

	for start := 0; start < len(fixtureIDs); start += fixtureDetailChunkSize {
		end := start + fixtureDetailChunkSize
		if end > len(fixtureIDs) {
			end = len(fixtureIDs)
		}

		chunk := fixtureIDs[start:end]
		idValues := make([]string, 0, len(chunk))
		for _, fixtureID := range chunk {
			idValues = append(idValues, strconv.FormatInt(fixtureID, 10))
		}

		path := "/fixtures/multi/" + strings.Join(idValues, ",")
		query := map[string]string{
			"include": defaultIncludeFixture,
		}

		var details fixturesMultiEnvelope
		if _, err := c.doJSON(ctx, path, query, &details); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "fetch fixture details failed, continuing with schedule-only rows",
				"season_id", seasonID,
				"chunk_size", len(chunk),
				"error", err,
			)
			continue
		}

		for _, item := range details.Data {
			if item.ID <= 0 {
				continue
			}
			byID[item.ID] = hydrateFixture(byID[item.ID], item)
		}
	}

	out := make([]usecase.ExternalFixture, 0, len(byID))
	for _, item := range byID {
		if item.ExternalID <= 0 || item.KickoffAt.IsZero() {
			continue
		}
		if item.Round <= 0 {
			item.Round = 1
		}
		if strings.TrimSpace(item.Status) == "" {
			item.Status = "SCHEDULED"
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})

	return out, nil
}

func (c *Client) FetchStandingsBySeason(ctx context.Context, seasonID int64) ([]usecase.ExternalStanding, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	path := fmt.Sprintf("/standings/seasons/%d", seasonID)
	query := map[string]string{
		"include": defaultIncludeStanding,
	}

	var envelope standingsEnvelope
	if _, err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings season_id=%d: %w", seasonID, err)
	}

	return parseStandings(envelope.Data), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportmonks circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errSportMonksTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errSportMonksTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errSportMonksTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSportMonksTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func hydrateFixture(existing usecase.ExternalFixture, item fixtureDetails) usecase.ExternalFixture {
	if existing.ExternalID == 0 {
		existing.ExternalID = item.ID
	}
	if parsed := parseProviderDateTime(item.StartingAt); parsed != nil {
		existing.KickoffAt = *parsed
	}

	homeName, awayName, homeID, awayID := resolveFixtureParticipants(item.Participants)
	existing.HomeTeamName = firstNonEmpty(existing.HomeTeamName, homeName)
	existing.AwayTeamName = firstNonEmpty(existing.AwayTeamName, awayName)
	existing.HomeTeamRefID = pickID(existing.HomeTeamRefID, homeID)
	existing.AwayTeamRefID = pickID(existing.AwayTeamRefID, awayID)
	existing.Status = mapFixtureStatus(item.StateID, item.ResultInfo)
	existing.HomeScore, existing.AwayScore = resolveFixtureScores(item.Scores, item.Participants)

	if item.Venue.Set {
		existing.Venue = strings.TrimSpace(item.Venue.Data.Name)
	}
	return existing
}

func resolveFixtureParticipants(participants []fixtureParticipant) (string, string, int64, int64) {
	var homeName, awayName string
	var homeID, awayID int64
	for _, item := range participants {
		switch strings.ToLower(strings.TrimSpace(item.Meta.Location)) {
		case "home":
			homeName = strings.TrimSpace(item.Name)
			homeID = item.ID
		case "away":
			awayName = strings.TrimSpace(item.Name)
			awayID = item.ID
		}
	}
	return homeName, awayName, homeID, awayID
}

func resolveFixtureScores(scores []fixtureScoreItem, participants []fixtureParticipant) (*int, *int) {
	if len(scores) == 0 {
		return nil, nil
	}

	var homeParticipantID int64
	var awayParticipantID int64
	for _, item := range participants {
		switch strings.ToLower(strings.TrimSpace(item.Meta.Location)) {
		case "home":
			homeParticipantID = item.ID
		case "away":
			awayParticipantID = item.ID
		}
	}

	bestWeight := 0
	homeValues := map[int]int{}
	awayValues := map[int]int{}
	for _, score := range scores {
		value, ok := score.numericScore()
		if !ok {
			continue
		}

		weight := scoreDescriptionWeight(score.Description)
		if weight > bestWeight {
			bestWeight = weight
			homeValues = map[int]int{}
			awayValues = map[int]int{}
		}
		if weight < bestWeight {
			continue
		}

		if score.ParticipantID == homeParticipantID && homeParticipantID > 0 {
			homeValues[weight] = value
		}
		if score.ParticipantID == awayParticipantID && awayParticipantID > 0 {
			awayValues[weight] = value
		}
	}

	var home *int
	if value, ok := homeValues[bestWeight]; ok {
		home = ptrInt(value)
	}
	var away *int
	if value, ok := awayValues[bestWeight]; ok {
		away = ptrInt(value)
	}
	return home, away
}

func scoreDescriptionWeight(raw string) int {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "current":
		return 6
	case strings.Contains(value, "normal_time"), strings.Contains(value, "90"):
		return 5
	case strings.Contains(value, "extra_time"):
		return 4
	case strings.Contains(value, "penalt"):
		return 3
	case value == "1st_half", value == "2nd_half":
		return 2
	default:
		return 1
	}
}

func mapFixtureStatus(stateID int64, resultInfo string) string {
	switch stateID {
	case 2, 3, 4, 6, 7, 8, 9:
		return "LIVE"
	case 5, 13, 14:
		return "FINISHED"
	case 10:
		return "POSTPONED"
	case 11, 12:
		return "CANCELLED"
	case 1:
		return "SCHEDULED"
	}

	info := strings.ToLower(strings.TrimSpace(resultInfo))
	switch {
	case strings.Contains(info, "postpon"):
		return "POSTPONED"
	case strings.Contains(info, "cancel"), strings.Contains(info, "abandon"):
		return "CANCELLED"
	case strings.Contains(info, "live"), strings.Contains(info, "in play"), strings.Contains(info, "half"):
		return "LIVE"
	case strings.Contains(info, "finish"), strings.Contains(info, "full time"), strings.Contains(info, "aet"), strings.Contains(info, "pen"):
		return "FINISHED"
	default:
		return "SCHEDULED"
	}
}

func parseStandings(items []map[string]any) []usecase.ExternalStanding {
	out := make([]usecase.ExternalStanding, 0, len(items))
	for _, item := range items {
		participantID := getInt64(item, "participant_id")
		if participantID <= 0 {
			participantID = getInt64(item, "team_id")
		}
		participant := relationDataMap(item["participant"])
		if participantID <= 0 {
			participantID = getInt64(participant, "id")
		}

		position := getInt(item, "position")
		if position <= 0 {
			position = getInt(item, "rank")
		}

		row := usecase.ExternalStanding{
			TeamRefID:       participantID,
			TeamName:        strings.TrimSpace(getString(participant, "name")),
			Position:        position,
			Played:          getIntAny(item, "played", "matches_played", "games_played"),
			Won:             getIntAny(item, "won", "wins"),
			Draw:            getIntAny(item, "draw", "draws", "drawn"),
			Lost:            getIntAny(item, "lost", "loss", "losses"),
			GoalsFor:        getIntAny(item, "goals_for", "goals_scored"),
			GoalsAgainst:    getIntAny(item, "goals_against", "goals_conceded"),
			Points:          getInt(item, "points"),
			GoalDifference:  getInt(item, "goal_difference"),
			SourceUpdatedAt: parseProviderDateTime(getString(item, "updated_at")),
		}

		for _, detail := range extractStandingDetails(item["details"]) {
			applyStandingDetail(&row, detail)
		}

		row.Form = parseStandingForm(item["form"])
		if row.GoalDifference == 0 && (row.GoalsFor != 0 || row.GoalsAgainst != 0) {
			row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		}
		if row.Position <= 0 || row.TeamRefID <= 0 {
			continue
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].TeamRefID < out[j].TeamRefID
	})

	return out
}

// Overall (per-season) detail types from the provider type catalogue.
// Home/away splits use lower ids and must not overwrite these.
var overallStandingMetricByTypeID = map[int64]string{
	129: "played",
	130: "won",
	131: "draw",
	132: "lost",
	133: "goals_for",
	134: "goals_against",
	179: "goal_difference",
	187: "points",
}

func applyStandingDetail(row *usecase.ExternalStanding, detail map[string]any) {
	if row == nil {
		return
	}

	typeInfo := relationDataMap(detail["type"])
	typeID := getInt64(detail, "type_id")
	if typeID <= 0 {
		typeID = getInt64(typeInfo, "id")
	}

	metric, ok := overallStandingMetricByTypeID[typeID]
	if !ok {
		name := strings.ToLower(firstNonEmpty(
			getString(typeInfo, "developer_name"),
			getString(typeInfo, "code"),
			getString(typeInfo, "name"),
		))
		if !strings.HasPrefix(name, "overall") {
			return
		}
		switch {
		case strings.Contains(name, "difference"):
			metric = "goal_difference"
		case strings.Contains(name, "conceded") || strings.Contains(name, "against"):
			metric = "goals_against"
		case strings.Contains(name, "scored") || strings.Contains(name, "goals"):
			metric = "goals_for"
		case strings.Contains(name, "played") || strings.Contains(name, "matches"):
			metric = "played"
		case strings.Contains(name, "won") || strings.Contains(name, "wins"):
			metric = "won"
		case strings.Contains(name, "draw"):
			metric = "draw"
		case strings.Contains(name, "lost") || strings.Contains(name, "loss"):
			metric = "lost"
		case strings.Contains(name, "points"):
			metric = "points"
		default:
			return
		}
	}

	value := detail["value"]
	if value == nil {
		value = detail["total"]
	}
	numeric := int(asFloat64(value))
	if numeric == 0 {
		return
	}

	switch metric {
	case "played":
		row.Played = numeric
	case "won":
		row.Won = numeric
	case "draw":
		row.Draw = numeric
	case "lost":
		row.Lost = numeric
	case "goals_for":
		row.GoalsFor = numeric
	case "goals_against":
		row.GoalsAgainst = numeric
	case "goal_difference":
		row.GoalDifference = numeric
	case "points":
		row.Points = numeric
	}
}

func extractStandingDetails(raw any) []map[string]any {
	switch typed := raw.(type) {
	case nil:
		return nil
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			if row, ok := item.(map[string]any); ok {
				out = append(out, row)
			}
		}
		return out
	case map[string]any:
		if nested, ok := typed["data"]; ok {
			return extractStandingDetails(nested)
		}
		return []map[string]any{typed}
	default:
		return nil
	}
}

func parseStandingForm(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		if nested, ok := typed["data"]; ok {
			return parseStandingForm(nested)
		}
		return strings.TrimSpace(firstNonEmpty(
			getString(typed, "result"),
			getString(typed, "form"),
			getString(typed, "value"),
		))
	case []any:
		items := make([]string, 0, len(typed))
		for _, raw := range typed {
			row, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			part := strings.TrimSpace(firstNonEmpty(
				getString(row, "result"),
				getString(row, "form"),
				getString(row, "value"),
			))
			if part == "" {
				continue
			}
			items = append(items, strings.ToUpper(part))
		}
		return strings.Join(items, "")
	default:
		return ""
	}
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func parseRoundNumber(raw string, fallback int) int {
	candidate := digitsRegex.FindString(strings.TrimSpace(raw))
	if candidate == "" {
		return fallback
	}
	value, err := strconv.Atoi(candidate)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
