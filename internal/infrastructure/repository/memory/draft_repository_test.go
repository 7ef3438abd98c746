package memory

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDraftRepositoryMarkListUnmark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewDraftRepository()

	if err := repo.Mark(ctx, "Trae Young"); err != nil {
		t.Fatalf("Mark error: %v", err)
	}
	if err := repo.Mark(ctx, "Bam Adebayo"); err != nil {
		t.Fatalf("Mark error: %v", err)
	}
	// Marking twice stays idempotent.
	if err := repo.Mark(ctx, "Trae Young"); err != nil {
		t.Fatalf("Mark error: %v", err)
	}

	picks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(picks) != 2 || picks[0].PlayerName != "Bam Adebayo" || picks[1].PlayerName != "Trae Young" {
		t.Fatalf("List = %v, want sorted pair", picks)
	}
	for _, pick := range picks {
		if pick.PickedAt.IsZero() {
			t.Fatalf("pick %q has no timestamp", pick.PlayerName)
		}
	}

	drafted, err := repo.IsDrafted(ctx, "Trae Young")
	if err != nil || !drafted {
		t.Fatalf("IsDrafted = (%v, %v), want (true, nil)", drafted, err)
	}

	removed, err := repo.Unmark(ctx, "Trae Young")
	if err != nil || !removed {
		t.Fatalf("Unmark = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = repo.Unmark(ctx, "Trae Young")
	if err != nil || removed {
		t.Fatalf("second Unmark = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestDraftRepositoryRemarkKeepsPickTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewDraftRepository()
	base := time.Date(2026, time.March, 1, 19, 0, 0, 0, time.UTC)
	clock := base
	repo.now = func() time.Time { return clock }

	if err := repo.Mark(ctx, "Trae Young"); err != nil {
		t.Fatalf("Mark error: %v", err)
	}
	clock = base.Add(time.Hour)
	if err := repo.Mark(ctx, "Trae Young"); err != nil {
		t.Fatalf("Mark error: %v", err)
	}

	picks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(picks) != 1 || !picks[0].PickedAt.Equal(base) {
		t.Fatalf("picks = %v, want single pick with original time", picks)
	}
}

func TestDraftRepositoryConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewDraftRepository()

	var wg sync.WaitGroup
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_ = repo.Mark(ctx, n)
			_, _ = repo.IsDrafted(ctx, n)
		}(name)
	}
	wg.Wait()

	picks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(picks) != 5 {
		t.Fatalf("List = %d picks, want 5", len(picks))
	}
}
