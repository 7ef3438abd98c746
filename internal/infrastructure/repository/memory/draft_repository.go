package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtsight/draft-assistant/internal/domain/draft"
)

// DraftRepository tracks drafted players for the lifetime of the process.
type DraftRepository struct {
	mu      sync.RWMutex
	drafted map[string]time.Time
	now     func() time.Time
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		drafted: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Mark records the pick. Re-marking keeps the original pick time.
func (r *DraftRepository) Mark(_ context.Context, playerName string) error {
	r.mu.Lock()
	if _, ok := r.drafted[playerName]; !ok {
		r.drafted[playerName] = r.now()
	}
	r.mu.Unlock()
	return nil
}

func (r *DraftRepository) Unmark(_ context.Context, playerName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafted[playerName]; !ok {
		return false, nil
	}
	delete(r.drafted, playerName)
	return true, nil
}

func (r *DraftRepository) List(_ context.Context) ([]draft.Pick, error) {
	r.mu.RLock()
	out := make([]draft.Pick, 0, len(r.drafted))
	for name, at := range r.drafted {
		out = append(out, draft.Pick{PlayerName: name, PickedAt: at})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}

func (r *DraftRepository) IsDrafted(_ context.Context, playerName string) (bool, error) {
	r.mu.RLock()
	_, ok := r.drafted[playerName]
	r.mu.RUnlock()
	return ok, nil
}
