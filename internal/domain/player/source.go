package player

import "context"

// Source describes where normalized season players come from. Use cases only
// depend on this boundary, never on a concrete upstream API.
type Source interface {
	SeasonPlayers(ctx context.Context, season int) ([]Player, error)
}
