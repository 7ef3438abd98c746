package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtsight/draft-assistant/internal/domain/draft"
	"github.com/courtsight/draft-assistant/internal/platform/logging"
)

// DraftService tracks which players are already off the board.
type DraftService struct {
	drafts draft.Repository
	logger *logging.Logger
}

func NewDraftService(drafts draft.Repository, logger *logging.Logger) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DraftService{
		drafts: drafts,
		logger: logger,
	}
}

func (s *DraftService) MarkDrafted(ctx context.Context, playerName string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.MarkDrafted")
	defer span.End()

	name := strings.TrimSpace(playerName)
	if name == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	if err := s.drafts.Mark(ctx, name); err != nil {
		return fmt.Errorf("mark drafted: %w", err)
	}

	s.logger.InfoContext(ctx, "player drafted", "player", name)
	return nil
}

func (s *DraftService) Undraft(ctx context.Context, playerName string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Undraft")
	defer span.End()

	name := strings.TrimSpace(playerName)
	if name == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	removed, err := s.drafts.Unmark(ctx, name)
	if err != nil {
		return fmt.Errorf("undraft: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: player %q is not drafted", ErrNotFound, name)
	}

	s.logger.InfoContext(ctx, "player undrafted", "player", name)
	return nil
}

func (s *DraftService) ListDrafted(ctx context.Context) ([]draft.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ListDrafted")
	defer span.End()

	picks, err := s.drafts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafted: %w", err)
	}
	return picks, nil
}
