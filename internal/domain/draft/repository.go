package draft

import "context"

// Repository describes drafted-player persistence needs from use cases.
type Repository interface {
	// Mark records a player as drafted. Marking twice is a no-op.
	Mark(ctx context.Context, playerName string) error
	// Unmark releases a player back to the pool. Returns false when the
	// player was not drafted.
	Unmark(ctx context.Context, playerName string) (bool, error)
	// List returns every pick ordered by player name.
	List(ctx context.Context) ([]Pick, error)
	IsDrafted(ctx context.Context, playerName string) (bool, error)
}
