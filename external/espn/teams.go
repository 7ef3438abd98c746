package espn

import "github.com/courtsight/draft-assistant/internal/domain/player"

// teamAbbreviationByID maps ESPN's numeric pro-team ids to the abbreviations
// used on the draft board.
var teamAbbreviationByID = map[int]string{
	1:  "ATL",
	2:  "BOS",
	3:  "BKN",
	4:  "CHA",
	5:  "CHI",
	6:  "CLE",
	7:  "DAL",
	8:  "DEN",
	9:  "DET",
	10: "GSW",
	11: "HOU",
	12: "IND",
	13: "LAC",
	14: "LAL",
	15: "MEM",
	16: "MIA",
	17: "MIL",
	18: "MIN",
	19: "NO",
	20: "NY",
	21: "OKC",
	22: "ORL",
	23: "PHI",
	24: "PHX",
	25: "POR",
	26: "SAC",
	27: "SA",
	28: "TOR",
	29: "UTA",
	30: "WSH",
}

// positionByID maps ESPN's numeric position ids.
var positionByID = map[int]player.Position{
	1: player.PositionPointGuard,
	2: player.PositionShootingGuard,
	3: player.PositionSmallForward,
	4: player.PositionPowerForward,
	5: player.PositionCenter,
}
