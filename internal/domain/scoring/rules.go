package scoring

import (
	"math"
	"sort"

	"github.com/courtsight/draft-assistant/internal/domain/player"
)

// Weights are the fantasy point values per stat, applied to per-game rates.
type Weights struct {
	Points    float64
	Rebounds  float64
	Assists   float64
	Steals    float64
	Blocks    float64
	Turnovers float64
}

func DefaultWeights() Weights {
	return Weights{
		Points:    1.0,
		Rebounds:  1.2,
		Assists:   1.5,
		Steals:    3.0,
		Blocks:    3.0,
		Turnovers: -1.0,
	}
}

// Derive computes the draft board row for a single player. It is pure: no
// I/O, no clock, no mutation of the input.
//
// FPPG is computed from unrounded per-game rates and rounded to 2 decimals
// only at the end. Total uses the rounded FPPG so the two displayed numbers
// stay consistent with each other.
func Derive(p player.Player, w Weights) player.Row {
	gp := p.GamesPlayed
	if gp < 1 {
		gp = 1
	}
	games := float64(gp)

	ptsPG := float64(p.Points) / games
	rebPG := float64(p.Rebounds) / games
	astPG := float64(p.Assists) / games
	stlPG := float64(p.Steals) / games
	blkPG := float64(p.Blocks) / games
	toPG := float64(p.Turnovers) / games

	fppg := round2(ptsPG*w.Points +
		rebPG*w.Rebounds +
		astPG*w.Assists +
		stlPG*w.Steals +
		blkPG*w.Blocks +
		toPG*w.Turnovers)

	return player.Row{
		Player:    p.Name,
		Team:      p.Team,
		Position:  string(p.Position),
		GP:        gp,
		PTS:       p.Points,
		REB:       p.Rebounds,
		AST:       p.Assists,
		STL:       p.Steals,
		BLK:       p.Blocks,
		TO:        p.Turnovers,
		PTSPG:     round1(ptsPG),
		REBPG:     round1(rebPG),
		ASTPG:     round1(astPG),
		STLPG:     round1(stlPG),
		BLKPG:     round1(blkPG),
		TOPG:      round1(toPG),
		FPPG:      fppg,
		FPTSTotal: round1(fppg * games),
	}
}

// BuildTable derives every player and orders the board by FPPG descending.
// Names break ties so output is deterministic across fetches.
func BuildTable(players []player.Player, w Weights) player.Table {
	table := make(player.Table, 0, len(players))
	for _, p := range players {
		table = append(table, Derive(p, w))
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].FPPG != table[j].FPPG {
			return table[i].FPPG > table[j].FPPG
		}
		return table[i].Player < table[j].Player
	})

	return table
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
