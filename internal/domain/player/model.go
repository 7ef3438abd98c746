package player

import (
	"fmt"
	"time"
)

// Position represents basketball position categories used on the draft board.
type Position string

const (
	PositionPointGuard    Position = "PG"
	PositionShootingGuard Position = "SG"
	PositionSmallForward  Position = "SF"
	PositionPowerForward  Position = "PF"
	PositionCenter        Position = "C"
	PositionUnknown       Position = "UNK"
)

var AllPositions = map[Position]struct{}{
	PositionPointGuard:    {},
	PositionShootingGuard: {},
	PositionSmallForward:  {},
	PositionPowerForward:  {},
	PositionCenter:        {},
	PositionUnknown:       {},
}

// TeamUnknown is the abbreviation used when no NBA team can be determined.
const TeamUnknown = "UNK"

// Player is a normalized NBA athlete with season stat totals.
type Player struct {
	Name        string
	Team        string
	Position    Position
	GamesPlayed int
	Points      int
	Rebounds    int
	Assists     int
	Steals      int
	Blocks      int
	Turnovers   int
}

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Team == "" {
		return fmt.Errorf("player team is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.GamesPlayed < 1 {
		return fmt.Errorf("player games played must be at least 1")
	}

	return nil
}

// Row is a single derived line of the draft board table. JSON field names are
// the public export contract shared with the dashboard and CSV output.
type Row struct {
	Player    string  `json:"Player"`
	Team      string  `json:"Team"`
	Position  string  `json:"Position"`
	GP        int     `json:"GP"`
	PTS       int     `json:"PTS"`
	REB       int     `json:"REB"`
	AST       int     `json:"AST"`
	STL       int     `json:"STL"`
	BLK       int     `json:"BLK"`
	TO        int     `json:"TO"`
	PTSPG     float64 `json:"PTS_PG"`
	REBPG     float64 `json:"REB_PG"`
	ASTPG     float64 `json:"AST_PG"`
	STLPG     float64 `json:"STL_PG"`
	BLKPG     float64 `json:"BLK_PG"`
	TOPG      float64 `json:"TO_PG"`
	FPPG      float64 `json:"FPPG"`
	FPTSTotal float64 `json:"Total"`
}

// Table is a draft board ordered by FPPG descending.
type Table []Row

// Clone returns a copy that callers can mutate without aliasing cached data.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

const seasonRolloverMonth = time.October

// CurrentSeason derives the NBA season year from the wall clock. Before
// October the ongoing season is still labeled with the previous year.
func CurrentSeason(now time.Time) int {
	year := now.Year()
	if now.Month() < seasonRolloverMonth {
		year--
	}
	return year
}
