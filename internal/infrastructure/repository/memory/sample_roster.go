package memory

import "github.com/courtsight/draft-assistant/internal/domain/player"

// SampleRoster returns the built-in roster served when every upstream
// endpoint is down. Stat lines are frozen, roughly star-level season totals;
// the small row count also tells the dashboard it is looking at fallback
// data. Each call returns a fresh copy.
func SampleRoster() []player.Player {
	players := []player.Player{
		{Name: "Nikola Jokic", Team: "DEN", Position: player.PositionCenter, GamesPlayed: 70, Points: 2100, Rebounds: 700, Assists: 600, Steals: 100, Blocks: 50, Turnovers: 200},
		{Name: "Luka Doncic", Team: "DAL", Position: player.PositionPointGuard, GamesPlayed: 65, Points: 2200, Rebounds: 600, Assists: 700, Steals: 120, Blocks: 30, Turnovers: 250},
		{Name: "Joel Embiid", Team: "PHI", Position: player.PositionCenter, GamesPlayed: 60, Points: 2000, Rebounds: 800, Assists: 300, Steals: 80, Blocks: 120, Turnovers: 180},
		{Name: "Giannis Antetokounmpo", Team: "MIL", Position: player.PositionPowerForward, GamesPlayed: 68, Points: 1900, Rebounds: 750, Assists: 400, Steals: 90, Blocks: 80, Turnovers: 220},
		{Name: "Jayson Tatum", Team: "BOS", Position: player.PositionSmallForward, GamesPlayed: 72, Points: 1800, Rebounds: 500, Assists: 350, Steals: 100, Blocks: 60, Turnovers: 200},
		{Name: "Stephen Curry", Team: "GSW", Position: player.PositionPointGuard, GamesPlayed: 58, Points: 1600, Rebounds: 300, Assists: 400, Steals: 80, Blocks: 20, Turnovers: 180},
		{Name: "LeBron James", Team: "LAL", Position: player.PositionSmallForward, GamesPlayed: 55, Points: 1400, Rebounds: 400, Assists: 450, Steals: 70, Blocks: 40, Turnovers: 200},
		{Name: "Kevin Durant", Team: "PHX", Position: player.PositionSmallForward, GamesPlayed: 62, Points: 1700, Rebounds: 450, Assists: 300, Steals: 60, Blocks: 80, Turnovers: 190},
		{Name: "Damian Lillard", Team: "MIL", Position: player.PositionPointGuard, GamesPlayed: 60, Points: 1500, Rebounds: 250, Assists: 500, Steals: 70, Blocks: 15, Turnovers: 200},
		{Name: "Anthony Davis", Team: "LAL", Position: player.PositionPowerForward, GamesPlayed: 65, Points: 1600, Rebounds: 700, Assists: 200, Steals: 80, Blocks: 150, Turnovers: 180},
		{Name: "Jimmy Butler", Team: "MIA", Position: player.PositionSmallForward, GamesPlayed: 58, Points: 1200, Rebounds: 400, Assists: 350, Steals: 100, Blocks: 30, Turnovers: 150},
		{Name: "Kawhi Leonard", Team: "LAC", Position: player.PositionSmallForward, GamesPlayed: 50, Points: 1100, Rebounds: 350, Assists: 250, Steals: 80, Blocks: 40, Turnovers: 120},
		{Name: "Paul George", Team: "LAC", Position: player.PositionSmallForward, GamesPlayed: 55, Points: 1300, Rebounds: 400, Assists: 300, Steals: 90, Blocks: 50, Turnovers: 160},
		{Name: "Russell Westbrook", Team: "LAC", Position: player.PositionPointGuard, GamesPlayed: 52, Points: 1000, Rebounds: 400, Assists: 500, Steals: 80, Blocks: 20, Turnovers: 200},
		{Name: "Kyrie Irving", Team: "DAL", Position: player.PositionPointGuard, GamesPlayed: 48, Points: 1200, Rebounds: 200, Assists: 400, Steals: 60, Blocks: 15, Turnovers: 150},
		{Name: "Devin Booker", Team: "PHX", Position: player.PositionShootingGuard, GamesPlayed: 65, Points: 1500, Rebounds: 300, Assists: 350, Steals: 70, Blocks: 25, Turnovers: 180},
		{Name: "Bradley Beal", Team: "PHX", Position: player.PositionShootingGuard, GamesPlayed: 60, Points: 1400, Rebounds: 250, Assists: 300, Steals: 60, Blocks: 20, Turnovers: 170},
		{Name: "Donovan Mitchell", Team: "CLE", Position: player.PositionShootingGuard, GamesPlayed: 68, Points: 1600, Rebounds: 300, Assists: 400, Steals: 80, Blocks: 30, Turnovers: 190},
		{Name: "Trae Young", Team: "ATL", Position: player.PositionPointGuard, GamesPlayed: 70, Points: 1500, Rebounds: 250, Assists: 600, Steals: 70, Blocks: 10, Turnovers: 250},
		{Name: "Ja Morant", Team: "MEM", Position: player.PositionPointGuard, GamesPlayed: 45, Points: 1000, Rebounds: 200, Assists: 400, Steals: 50, Blocks: 15, Turnovers: 150},
		{Name: "Zion Williamson", Team: "NO", Position: player.PositionPowerForward, GamesPlayed: 40, Points: 900, Rebounds: 300, Assists: 200, Steals: 40, Blocks: 30, Turnovers: 120},
		{Name: "Karl-Anthony Towns", Team: "MIN", Position: player.PositionCenter, GamesPlayed: 65, Points: 1500, Rebounds: 600, Assists: 300, Steals: 60, Blocks: 80, Turnovers: 180},
		{Name: "Rudy Gobert", Team: "MIN", Position: player.PositionCenter, GamesPlayed: 70, Points: 800, Rebounds: 800, Assists: 100, Steals: 50, Blocks: 120, Turnovers: 100},
		{Name: "Bam Adebayo", Team: "MIA", Position: player.PositionCenter, GamesPlayed: 68, Points: 1200, Rebounds: 600, Assists: 300, Steals: 80, Blocks: 100, Turnovers: 150},
		{Name: "Pascal Siakam", Team: "IND", Position: player.PositionPowerForward, GamesPlayed: 70, Points: 1400, Rebounds: 500, Assists: 350, Steals: 70, Blocks: 60, Turnovers: 160},
	}

	out := make([]player.Player, len(players))
	copy(out, players)
	return out
}
