package memory

import (
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
)

const (
	LeagueIDLiga1Indonesia = "idn-liga-1"
	LeagueIDPremierLeague  = "eng-premier-league"
)

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID:         900101,
			LeagueID:   LeagueIDLiga1Indonesia,
			Round:      1,
			HomeTeam:   "Persija Jakarta",
			AwayTeam:   "Persib Bandung",
			HomeTeamID: 3001,
			AwayTeamID: 3002,
			KickoffAt:  time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
			Venue:      "Jakarta International Stadium",
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         900102,
			LeagueID:   LeagueIDLiga1Indonesia,
			Round:      1,
			HomeTeam:   "Persebaya Surabaya",
			AwayTeam:   "Bali United",
			HomeTeamID: 3003,
			AwayTeamID: 3004,
			KickoffAt:  time.Date(2026, 9, 13, 12, 30, 0, 0, time.UTC),
			Venue:      "Gelora Bung Tomo",
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         900103,
			LeagueID:   LeagueIDLiga1Indonesia,
			Round:      2,
			HomeTeam:   "Persib Bandung",
			AwayTeam:   "Persebaya Surabaya",
			HomeTeamID: 3002,
			AwayTeamID: 3003,
			KickoffAt:  time.Date(2026, 9, 19, 12, 30, 0, 0, time.UTC),
			Venue:      "Gelora Bandung Lautan Api",
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         900104,
			LeagueID:   LeagueIDLiga1Indonesia,
			Round:      2,
			HomeTeam:   "Bali United",
			AwayTeam:   "Persija Jakarta",
			HomeTeamID: 3004,
			AwayTeamID: 3001,
			KickoffAt:  time.Date(2026, 9, 20, 12, 30, 0, 0, time.UTC),
			Venue:      "Kapten I Wayan Dipta",
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         910101,
			LeagueID:   LeagueIDPremierLeague,
			Round:      1,
			HomeTeam:   "Arsenal",
			AwayTeam:   "Liverpool",
			HomeTeamID: 4001,
			AwayTeamID: 4002,
			KickoffAt:  time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC),
			Venue:      "Emirates Stadium",
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         910102,
			LeagueID:   LeagueIDPremierLeague,
			Round:      1,
			HomeTeam:   "Chelsea",
			AwayTeam:   "Everton",
			HomeTeamID: 4003,
			AwayTeamID: 4004,
			KickoffAt:  time.Date(2026, 9, 13, 16, 30, 0, 0, time.UTC),
			Venue:      "Stamford Bridge",
			Status:     fixture.StatusScheduled,
		},
	}
}

func SeedStandings() []leaguestanding.Standing {
	return []leaguestanding.Standing{
		{LeagueID: LeagueIDLiga1Indonesia, TeamID: 3002, TeamName: "Persib Bandung", Position: 1, Played: 4, Won: 3, Draw: 1, GoalsFor: 9, GoalsAgainst: 3, GoalDifference: 6, Points: 10, Form: "WWDW"},
		{LeagueID: LeagueIDLiga1Indonesia, TeamID: 3001, TeamName: "Persija Jakarta", Position: 2, Played: 4, Won: 3, Lost: 1, GoalsFor: 8, GoalsAgainst: 4, GoalDifference: 4, Points: 9, Form: "WLWW"},
		{LeagueID: LeagueIDLiga1Indonesia, TeamID: 3004, TeamName: "Bali United", Position: 3, Played: 4, Won: 2, Draw: 1, Lost: 1, GoalsFor: 6, GoalsAgainst: 5, GoalDifference: 1, Points: 7, Form: "DWLW"},
		{LeagueID: LeagueIDLiga1Indonesia, TeamID: 3003, TeamName: "Persebaya Surabaya", Position: 4, Played: 4, Won: 1, Draw: 1, Lost: 2, GoalsFor: 4, GoalsAgainst: 7, GoalDifference: -3, Points: 4, Form: "LWDL"},
		{LeagueID: LeagueIDPremierLeague, TeamID: 4002, TeamName: "Liverpool", Position: 1, Played: 4, Won: 4, GoalsFor: 11, GoalsAgainst: 2, GoalDifference: 9, Points: 12, Form: "WWWW"},
		{LeagueID: LeagueIDPremierLeague, TeamID: 4001, TeamName: "Arsenal", Position: 2, Played: 4, Won: 3, Draw: 1, GoalsFor: 8, GoalsAgainst: 3, GoalDifference: 5, Points: 10, Form: "WDWW"},
		{LeagueID: LeagueIDPremierLeague, TeamID: 4003, TeamName: "Chelsea", Position: 3, Played: 4, Won: 2, Draw: 1, Lost: 1, GoalsFor: 7, GoalsAgainst: 5, GoalDifference: 2, Points: 7, Form: "WLDW"},
		{LeagueID: LeagueIDPremierLeague, TeamID: 4004, TeamName: "Everton", Position: 4, Played: 4, Won: 1, Lost: 3, GoalsFor: 3, GoalsAgainst: 8, GoalDifference: -5, Points: 3, Form: "LLWL"},
	}
}
