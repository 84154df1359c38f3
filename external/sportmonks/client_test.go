package sportmonks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchFixturesBySeason(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") != "secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/schedules/seasons/777"):
			_, _ = w.Write([]byte(`{"data":[{"rounds":[{"name":"Round 3","fixtures":[
				{"id":901,"starting_at":"2026-03-21 15:00:00","participants":[
					{"id":11,"name":"Arsenal","meta":{"location":"home"}},
					{"id":12,"name":"Chelsea","meta":{"location":"away"}}
				]},
				{"id":902,"starting_at":"2026-03-21 17:30:00","participants":[
					{"id":13,"name":"Liverpool","meta":{"location":"home"}},
					{"id":14,"name":"Everton","meta":{"location":"away"}}
				]}
			]}]}]}`))
		case strings.HasPrefix(r.URL.Path, "/fixtures/multi/"):
			_, _ = w.Write([]byte(`{"data":[
				{"id":901,"starting_at":"2026-03-21 15:00:00","state_id":5,
				 "participants":[
					{"id":11,"name":"Arsenal","meta":{"location":"home"}},
					{"id":12,"name":"Chelsea","meta":{"location":"away"}}
				 ],
				 "venue":{"data":{"id":1,"name":"Emirates Stadium"}},
				 "scores":[
					{"participant_id":11,"description":"CURRENT","score":{"goals":2}},
					{"participant_id":12,"description":"CURRENT","score":{"goals":1}}
				 ]}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "secret-token",
	})

	fixtures, err := client.FetchFixturesBySeason(t.Context(), 777)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got=%d", len(fixtures))
	}

	first := fixtures[0]
	if first.ExternalID != 901 || first.Round != 3 {
		t.Fatalf("unexpected fixture: %+v", first)
	}
	if first.HomeTeamName != "Arsenal" || first.AwayTeamName != "Chelsea" {
		t.Fatalf("unexpected participants: %+v", first)
	}
	if first.Status != "FINISHED" || first.Venue != "Emirates Stadium" {
		t.Fatalf("detail hydration missing: %+v", first)
	}
	if first.HomeScore == nil || *first.HomeScore != 2 || first.AwayScore == nil || *first.AwayScore != 1 {
		t.Fatalf("unexpected scores: %+v", first)
	}

	// Second fixture only appeared in the schedule payload.
	if fixtures[1].ExternalID != 902 || fixtures[1].Status != "SCHEDULED" {
		t.Fatalf("expected schedule-only row, got %+v", fixtures[1])
	}
}

func TestFetchStandingsBySeason(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/standings/seasons/777") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":[
			{"participant_id":12,"position":2,"points":40,
			 "participant":{"data":{"id":12,"name":"Chelsea"}},
			 "form":[{"result":"w"},{"result":"d"},{"result":"l"}]},
			{"participant_id":11,"position":1,
			 "participant":{"data":{"id":11,"name":"Arsenal"}},
			 "details":{"data":[
				{"type_id":129,"value":22},
				{"type_id":130,"value":16},
				{"type_id":131,"value":2},
				{"type_id":132,"value":4},
				{"type_id":133,"value":50},
				{"type_id":134,"value":27},
				{"type_id":187,"value":50}
			 ]}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Token: "token"})

	standings, err := client.FetchStandingsBySeason(t.Context(), 777)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 rows, got=%d", len(standings))
	}

	leader := standings[0]
	if leader.TeamRefID != 11 || leader.TeamName != "Arsenal" {
		t.Fatalf("unexpected leader: %+v", leader)
	}
	if leader.Played != 22 || leader.Won != 16 || leader.Draw != 2 || leader.Lost != 4 {
		t.Fatalf("detail metrics not applied: %+v", leader)
	}
	if leader.Points != 50 || leader.GoalDifference != 23 {
		t.Fatalf("expected derived goal difference, got %+v", leader)
	}

	if standings[1].Form != "WDL" {
		t.Fatalf("expected form WDL, got %q", standings[1].Form)
	}
}

func TestParseStandingsPrefersOverallDetails(t *testing.T) {
	t.Parallel()

	items := []map[string]any{
		{
			"participant_id": float64(6733),
			"position":       float64(1),
			"details": map[string]any{
				"data": []any{
					standingDetail(119, "home-matches-played", 11),
					standingDetail(121, "home-won", 8),
					standingDetail(129, "overall-matches-played", 22),
					standingDetail(130, "overall-won", 16),
				},
			},
		},
	}

	parsed := parseStandings(items)
	if len(parsed) != 1 {
		t.Fatalf("expected one standing row, got=%d", len(parsed))
	}
	if parsed[0].Played != 22 {
		t.Fatalf("expected played=22, got=%d", parsed[0].Played)
	}
	if parsed[0].Won != 16 {
		t.Fatalf("expected won=16, got=%d", parsed[0].Won)
	}
}

func TestFetchStandingsNonRetryableStatus(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Token: "token", MaxRetries: 2})

	_, err := client.FetchStandingsBySeason(t.Context(), 777)
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, calls=%d", calls)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`Get "https://host/path?api_token=secret-token": timeout`, "secret-token")
	if strings.Contains(got, "secret-token") {
		t.Fatalf("token leaked: %s", got)
	}
	if !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("expected redacted token param, got %s", got)
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://host/standings/seasons/1?api_token=secret&include=form")
	if strings.Contains(got, "secret") {
		t.Fatalf("token leaked: %s", got)
	}
}

func standingDetail(typeID int64, developerName string, value int) map[string]any {
	return map[string]any{
		"type_id": float64(typeID),
		"value":   float64(value),
		"type": map[string]any{
			"data": map[string]any{
				"id":             float64(typeID),
				"developer_name": developerName,
			},
		},
	}
}
