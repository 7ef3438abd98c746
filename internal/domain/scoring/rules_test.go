package scoring

import (
	"math"
	"testing"

	"github.com/courtsight/draft-assistant/internal/domain/player"
)

func TestDeriveComputesFantasyPoints(t *testing.T) {
	t.Parallel()

	row := Derive(player.Player{
		Name:        "Nikola Jokic",
		Team:        "DEN",
		Position:    player.PositionCenter,
		GamesPlayed: 70,
		Points:      2100,
		Rebounds:    700,
		Assists:     600,
		Steals:      100,
		Blocks:      50,
		Turnovers:   200,
	}, DefaultWeights())

	// 30*1.0 + 10*1.2 + 8.5714*1.5 + 1.4286*3 + 0.7143*3 - 2.8571
	if got, want := row.FPPG, 58.43; got != want {
		t.Fatalf("FPPG = %v, want %v", got, want)
	}
	if got, want := row.FPTSTotal, 4090.1; got != want {
		t.Fatalf("Total = %v, want %v", got, want)
	}
	if got, want := row.PTSPG, 30.0; got != want {
		t.Fatalf("PTS_PG = %v, want %v", got, want)
	}
	if got, want := row.ASTPG, 8.6; got != want {
		t.Fatalf("AST_PG = %v, want %v", got, want)
	}
	if got, want := row.TOPG, 2.9; got != want {
		t.Fatalf("TO_PG = %v, want %v", got, want)
	}
}

func TestDeriveUsesUnroundedRates(t *testing.T) {
	t.Parallel()

	// 3 games: rates like 33.333... must feed FPPG before any display
	// rounding, otherwise the 2-decimal result drifts.
	row := Derive(player.Player{
		Name:        "Sample",
		Team:        "BOS",
		Position:    player.PositionPointGuard,
		GamesPlayed: 3,
		Points:      100,
	}, DefaultWeights())

	if got, want := row.FPPG, round2(100.0/3.0); got != want {
		t.Fatalf("FPPG = %v, want %v", got, want)
	}
	if got, want := row.PTSPG, 33.3; got != want {
		t.Fatalf("PTS_PG = %v, want %v", got, want)
	}
}

func TestDeriveCoercesZeroGamesPlayed(t *testing.T) {
	t.Parallel()

	row := Derive(player.Player{
		Name:     "Rookie",
		Team:     player.TeamUnknown,
		Position: player.PositionUnknown,
		Points:   10,
	}, DefaultWeights())

	if row.GP != 1 {
		t.Fatalf("GP = %d, want 1", row.GP)
	}
	if math.IsInf(row.FPPG, 0) || math.IsNaN(row.FPPG) {
		t.Fatalf("FPPG = %v, want finite", row.FPPG)
	}
	if got, want := row.FPPG, 10.0; got != want {
		t.Fatalf("FPPG = %v, want %v", got, want)
	}
}

func TestDeriveNegativeFantasyPoints(t *testing.T) {
	t.Parallel()

	row := Derive(player.Player{
		Name:        "Turnover Machine",
		Team:        "LAL",
		Position:    player.PositionPointGuard,
		GamesPlayed: 10,
		Turnovers:   50,
	}, DefaultWeights())

	if got, want := row.FPPG, -5.0; got != want {
		t.Fatalf("FPPG = %v, want %v", got, want)
	}
	if got, want := row.FPTSTotal, -50.0; got != want {
		t.Fatalf("Total = %v, want %v", got, want)
	}
}

func TestBuildTableSortsByFPPGDescending(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		{Name: "Low", Team: "CHI", Position: player.PositionCenter, GamesPlayed: 10, Points: 100},
		{Name: "High", Team: "BOS", Position: player.PositionPointGuard, GamesPlayed: 10, Points: 400},
		{Name: "Mid", Team: "MIA", Position: player.PositionSmallForward, GamesPlayed: 10, Points: 250},
	}

	table := BuildTable(players, DefaultWeights())

	if len(table) != 3 {
		t.Fatalf("len(table) = %d, want 3", len(table))
	}
	for i := 1; i < len(table); i++ {
		if table[i].FPPG > table[i-1].FPPG {
			t.Fatalf("table not sorted: row %d FPPG %v > row %d FPPG %v",
				i, table[i].FPPG, i-1, table[i-1].FPPG)
		}
	}
	if table[0].Player != "High" || table[2].Player != "Low" {
		t.Fatalf("unexpected order: %q, %q, %q", table[0].Player, table[1].Player, table[2].Player)
	}
}

func TestBuildTableBreaksTiesByName(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		{Name: "Zeta", Team: "NY", Position: player.PositionCenter, GamesPlayed: 10, Points: 100},
		{Name: "Alpha", Team: "BKN", Position: player.PositionCenter, GamesPlayed: 10, Points: 100},
	}

	table := BuildTable(players, DefaultWeights())

	if table[0].Player != "Alpha" || table[1].Player != "Zeta" {
		t.Fatalf("tie-break order = %q, %q; want Alpha, Zeta", table[0].Player, table[1].Player)
	}
}
