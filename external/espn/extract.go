package espn

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/courtsight/draft-assistant/internal/domain/player"
)

// MissingStatsPolicy decides what happens to a record that carries no stats
// object at all. Exactly one policy is in force for a pipeline run; fields
// are never mixed between policies.
type MissingStatsPolicy string

const (
	// MissingStatsZero keeps the player with an all-zero stat line.
	MissingStatsZero MissingStatsPolicy = "zero"
	// MissingStatsLeagueAverage keeps the player with a league-average
	// placeholder line so rankings stay plausible.
	MissingStatsLeagueAverage MissingStatsPolicy = "league_average"
	// MissingStatsDrop omits the player entirely.
	MissingStatsDrop MissingStatsPolicy = "drop"
)

func ParseMissingStatsPolicy(raw string) (MissingStatsPolicy, error) {
	switch MissingStatsPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case MissingStatsZero:
		return MissingStatsZero, nil
	case MissingStatsLeagueAverage:
		return MissingStatsLeagueAverage, nil
	case MissingStatsDrop:
		return MissingStatsDrop, nil
	default:
		return "", fmt.Errorf("unknown missing-stats policy %q", raw)
	}
}

type statLine struct {
	games     int
	points    int
	rebounds  int
	assists   int
	steals    int
	blocks    int
	turnovers int
}

// leagueAverageLine approximates a mid-rotation NBA season.
var leagueAverageLine = statLine{
	games:     65,
	points:    1200,
	rebounds:  400,
	assists:   300,
	steals:    60,
	blocks:    40,
	turnovers: 150,
}

func (c *Client) extractPlayers(ctx context.Context, items []map[string]any) []player.Player {
	players := make([]player.Player, 0, len(items))
	droppedNoStats := 0
	for _, item := range items {
		p, ok := c.extractPlayer(ctx, item)
		if !ok {
			droppedNoStats++
			continue
		}
		players = append(players, p)
	}
	if droppedNoStats > 0 {
		c.logger.InfoContext(ctx, "players dropped by missing-stats policy",
			"policy", string(c.missingStats), "dropped", droppedNoStats)
	}
	return players
}

// extractPlayer normalizes one upstream document. Every field falls back
// through a fixed chain so one malformed record never poisons the batch.
func (c *Client) extractPlayer(ctx context.Context, doc map[string]any) (player.Player, bool) {
	name := firstNonEmpty(
		getString(doc, "displayName"),
		getString(doc, "fullName"),
		getString(doc, "name"),
	)
	if name == "" {
		name = "Unknown"
	}

	line, ok := extractStatLine(doc)
	if !ok {
		switch c.missingStats {
		case MissingStatsDrop:
			return player.Player{}, false
		case MissingStatsZero:
			line = statLine{}
		default:
			line = leagueAverageLine
		}
	}
	if line.games < 1 {
		line.games = 1
	}

	return player.Player{
		Name:        name,
		Team:        c.extractTeam(ctx, doc),
		Position:    extractPosition(doc),
		GamesPlayed: line.games,
		Points:      line.points,
		Rebounds:    line.rebounds,
		Assists:     line.assists,
		Steals:      line.steals,
		Blocks:      line.blocks,
		Turnovers:   line.turnovers,
	}, true
}

// extractTeam resolves the team abbreviation: inline abbreviation, then the
// team "$ref" document, then the numeric id tables, then UNK.
func (c *Client) extractTeam(ctx context.Context, doc map[string]any) string {
	if team := getMap(doc, "team"); team != nil {
		if abbr := getString(team, "abbreviation"); abbr != "" {
			return strings.ToUpper(abbr)
		}
		if ref, ok := refURL(team); ok {
			if abbr, ok := c.teamAbbrFromRef(ctx, ref); ok {
				return abbr
			}
		}
		if id, ok := getFloat(team, "id"); ok {
			if abbr, known := teamAbbreviationByID[int(id)]; known {
				return abbr
			}
		}
	}

	for _, key := range []string{"proTeamId", "teamId"} {
		if id, ok := getFloat(doc, key); ok {
			if abbr, known := teamAbbreviationByID[int(id)]; known {
				return abbr
			}
		}
	}

	return player.TeamUnknown
}

// teamAbbrFromRef dereferences a team "$ref" and returns the abbreviation.
// The same 30 team documents repeat across nearly every athlete record, and
// extraction walks the batch sequentially, so resolved abbreviations are
// memoized for the client's lifetime. Fetch failures are not memoized.
func (c *Client) teamAbbrFromRef(ctx context.Context, ref string) (string, bool) {
	c.teamRefMu.RLock()
	abbr, cached := c.teamRefAbbr[ref]
	c.teamRefMu.RUnlock()
	if cached {
		return abbr, abbr != ""
	}

	resolved, err := c.fetchRef(ctx, ref)
	if err != nil {
		c.logger.DebugContext(ctx, "team reference resolution failed", "ref", ref, "error", err)
		return "", false
	}

	abbr = strings.ToUpper(getString(resolved, "abbreviation"))
	c.teamRefMu.Lock()
	c.teamRefAbbr[ref] = abbr
	c.teamRefMu.Unlock()
	return abbr, abbr != ""
}

// extractPosition maps the position object to a draft board position. The
// abbreviation wins when it is a recognized one; otherwise the numeric id
// table decides.
func extractPosition(doc map[string]any) player.Position {
	if pos := getMap(doc, "position"); pos != nil {
		abbr := player.Position(strings.ToUpper(getString(pos, "abbreviation")))
		if _, ok := player.AllPositions[abbr]; ok && abbr != player.PositionUnknown {
			return abbr
		}
		if id, ok := getFloat(pos, "id"); ok {
			if mapped, known := positionByID[int(id)]; known {
				return mapped
			}
		}
	}

	if id, ok := getFloat(doc, "defaultPositionId"); ok {
		if mapped, known := positionByID[int(id)]; known {
			return mapped
		}
	}

	return player.PositionUnknown
}

// extractStatLine pulls season totals from the most recent season entry under
// statistics.seasons, falling back to a flat stats object.
func extractStatLine(doc map[string]any) (statLine, bool) {
	stats := latestSeasonStats(doc)
	if stats == nil {
		stats = getMap(doc, "stats")
	}
	if stats == nil {
		return statLine{}, false
	}

	return statLine{
		games:     statInt(stats, "gamesPlayed"),
		points:    statInt(stats, "points"),
		rebounds:  statInt(stats, "rebounds"),
		assists:   statInt(stats, "assists"),
		steals:    statInt(stats, "steals"),
		blocks:    statInt(stats, "blocks"),
		turnovers: statInt(stats, "turnovers"),
	}, true
}

func latestSeasonStats(doc map[string]any) map[string]any {
	statistics := getMap(doc, "statistics")
	if statistics == nil {
		return nil
	}
	seasons, ok := statistics["seasons"].([]any)
	if !ok || len(seasons) == 0 {
		return nil
	}
	latest, ok := seasons[len(seasons)-1].(map[string]any)
	if !ok {
		return nil
	}
	return getMap(latest, "stats")
}

func statInt(stats map[string]any, key string) int {
	v, ok := getFloat(stats, key)
	if !ok || v < 0 {
		return 0
	}
	return int(math.Round(v))
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if value, ok := m[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if value, ok := m[key].(map[string]any); ok {
		return value
	}
	return nil
}

// getFloat accepts the numeric shapes the upstream mixes freely: JSON
// numbers, integer-typed values from decoders, and numeric strings.
func getFloat(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch value := m[key].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
