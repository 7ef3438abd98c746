package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtsight/draft-assistant/internal/domain/draft"
	"github.com/courtsight/draft-assistant/internal/domain/player"
	"github.com/courtsight/draft-assistant/internal/domain/scoring"
	"github.com/courtsight/draft-assistant/internal/platform/cache"
	"github.com/courtsight/draft-assistant/internal/platform/logging"
)

// TableSource reports where a served table came from.
type TableSource string

const (
	TableSourceLive   TableSource = "live"
	TableSourceCache  TableSource = "cache"
	TableSourceStale  TableSource = "stale"
	TableSourceSample TableSource = "sample"
)

// SampleRowThreshold is the row count at or below which a dashboard should
// assume it is looking at fallback data. A real league fetch returns
// hundreds of players.
const SampleRowThreshold = 100

const minSeason = 2000

// TableQuery narrows the served table. Zero Season means "current season".
type TableQuery struct {
	Season        int
	Position      string
	Search        string
	AvailableOnly bool
}

// RosterTable is a draft board plus its provenance.
type RosterTable struct {
	Season    int
	Source    TableSource
	FetchedAt time.Time
	Rows      player.Table
}

type tableSnapshot struct {
	rows      player.Table
	fetchedAt time.Time
}

// RosterService runs the acquisition pipeline and serves draft board tables.
// Degradation order on a failed fetch: last cached snapshot (even stale),
// then the built-in sample roster.
type RosterService struct {
	source   player.Source
	drafts   draft.Repository
	store    *cache.Store
	fallback func() []player.Player
	weights  scoring.Weights
	logger   *logging.Logger
	now      func() time.Time
}

func NewRosterService(
	source player.Source,
	drafts draft.Repository,
	store *cache.Store,
	fallback func() []player.Player,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		source:   source,
		drafts:   drafts,
		store:    store,
		fallback: fallback,
		weights:  scoring.DefaultWeights(),
		logger:   logger,
		now:      time.Now,
	}
}

// Table returns the draft board for the queried season, filtered per the
// query. Rows are copies; callers can mutate them freely.
func (s *RosterService) Table(ctx context.Context, query TableQuery) (RosterTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Table")
	defer span.End()

	season, err := s.normalizeSeason(query.Season)
	if err != nil {
		return RosterTable{}, err
	}

	position, err := normalizePositionFilter(query.Position)
	if err != nil {
		return RosterTable{}, err
	}

	table, err := s.seasonTable(ctx, season)
	if err != nil {
		return RosterTable{}, err
	}

	table.Rows, err = s.filterRows(ctx, table.Rows, position, query.Search, query.AvailableOnly)
	if err != nil {
		return RosterTable{}, err
	}

	return table, nil
}

// Refresh drops the cached snapshot and fetches live data. Unlike Table it
// does not fall back; a failed refresh is an error.
func (s *RosterService) Refresh(ctx context.Context, season int) (RosterTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Refresh")
	defer span.End()

	normalized, err := s.normalizeSeason(season)
	if err != nil {
		return RosterTable{}, err
	}

	key := rosterCacheKey(normalized)
	s.store.Delete(ctx, key)

	snapshot, err := s.loadSeason(ctx, normalized)
	if err != nil {
		return RosterTable{}, fmt.Errorf("%w: refresh season %d: %v", ErrDependencyUnavailable, normalized, err)
	}

	return RosterTable{
		Season:    normalized,
		Source:    TableSourceLive,
		FetchedAt: snapshot.fetchedAt,
		Rows:      snapshot.rows.Clone(),
	}, nil
}

func (s *RosterService) normalizeSeason(season int) (int, error) {
	current := player.CurrentSeason(s.now())
	if season == 0 {
		return current, nil
	}
	if season < minSeason || season > current+1 {
		return 0, fmt.Errorf("%w: season %d out of range [%d, %d]", ErrInvalidInput, season, minSeason, current+1)
	}
	return season, nil
}

func (s *RosterService) seasonTable(ctx context.Context, season int) (RosterTable, error) {
	key := rosterCacheKey(season)

	if value, ok := s.store.Get(ctx, key); ok {
		if snapshot, ok := value.(tableSnapshot); ok {
			return RosterTable{
				Season:    season,
				Source:    TableSourceCache,
				FetchedAt: snapshot.fetchedAt,
				Rows:      snapshot.rows.Clone(),
			}, nil
		}
	}

	snapshot, err := s.loadSeason(ctx, season)
	if err == nil {
		return RosterTable{
			Season:    season,
			Source:    TableSourceLive,
			FetchedAt: snapshot.fetchedAt,
			Rows:      snapshot.rows.Clone(),
		}, nil
	}

	s.logger.WarnContext(ctx, "live fetch failed", "season", season, "error", err)

	if value, fresh, ok := s.store.GetStale(ctx, key); ok && !fresh {
		if snapshot, ok := value.(tableSnapshot); ok {
			s.logger.InfoContext(ctx, "serving stale roster snapshot",
				"season", season, "fetched_at", snapshot.fetchedAt)
			return RosterTable{
				Season:    season,
				Source:    TableSourceStale,
				FetchedAt: snapshot.fetchedAt,
				Rows:      snapshot.rows.Clone(),
			}, nil
		}
	}

	// Sample data goes through the same transformer as live data and is
	// never cached, so a recovered upstream wins on the next request.
	s.logger.WarnContext(ctx, "serving built-in sample roster", "season", season)
	return RosterTable{
		Season:    season,
		Source:    TableSourceSample,
		FetchedAt: s.now(),
		Rows:      scoring.BuildTable(s.fallback(), s.weights),
	}, nil
}

func (s *RosterService) loadSeason(ctx context.Context, season int) (tableSnapshot, error) {
	value, err := s.store.GetOrLoad(ctx, rosterCacheKey(season), func(ctx context.Context) (any, error) {
		players, err := s.source.SeasonPlayers(ctx, season)
		if err != nil {
			return nil, err
		}
		return tableSnapshot{
			rows:      scoring.BuildTable(players, s.weights),
			fetchedAt: s.now(),
		}, nil
	})
	if err != nil {
		return tableSnapshot{}, err
	}

	snapshot, ok := value.(tableSnapshot)
	if !ok {
		return tableSnapshot{}, fmt.Errorf("unexpected cache payload type %T", value)
	}
	return snapshot, nil
}

func (s *RosterService) filterRows(ctx context.Context, rows player.Table, position, search string, availableOnly bool) (player.Table, error) {
	var drafted map[string]struct{}
	if availableOnly {
		picks, err := s.drafts.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list drafted players: %w", err)
		}
		drafted = make(map[string]struct{}, len(picks))
		for _, pick := range picks {
			drafted[pick.PlayerName] = struct{}{}
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make(player.Table, 0, len(rows))
	for _, row := range rows {
		if position != "" && row.Position != position {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(row.Player), needle) {
			continue
		}
		if availableOnly {
			if _, taken := drafted[row.Player]; taken {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func normalizePositionFilter(raw string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", nil
	}
	if _, ok := player.AllPositions[player.Position(trimmed)]; !ok {
		return "", fmt.Errorf("%w: unknown position filter %q", ErrInvalidInput, raw)
	}
	return trimmed, nil
}

func rosterCacheKey(season int) string {
	return fmt.Sprintf("roster:%d", season)
}
