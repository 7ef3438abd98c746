package espn

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sourcegraph/conc/iter"

	"github.com/courtsight/draft-assistant/internal/domain/player"
)

// collectionKeys is the priority order in which the player array is located
// inside an endpoint envelope. The three public endpoint families disagree on
// the key name.
var collectionKeys = []string{"items", "athletes", "players"}

type seasonEndpoint struct {
	name      string
	url       string
	query     map[string]string
	paginated bool
}

func (e seasonEndpoint) pageQuery(page int) map[string]string {
	query := make(map[string]string, len(e.query)+1)
	for key, value := range e.query {
		query[key] = value
	}
	query["page"] = strconv.Itoa(page)
	return query
}

// seasonEndpoints lists probe targets in preference order. The first endpoint
// that answers 200 with a non-empty collection wins; the rest are never
// tried.
func (c *Client) seasonEndpoints(season int) []seasonEndpoint {
	coreURL := fmt.Sprintf("%s/v2/sports/basketball/leagues/nba/seasons/%d/athletes", c.coreBaseURL, season)
	return []seasonEndpoint{
		{
			name:      "core-athletes-statistics",
			url:       coreURL,
			query:     map[string]string{"limit": strconv.Itoa(collectionPageSize), "statistics": "true"},
			paginated: true,
		},
		{
			name:      "core-athletes",
			url:       coreURL,
			query:     map[string]string{"limit": strconv.Itoa(collectionPageSize)},
			paginated: true,
		},
		{
			name:  "site-athletes",
			url:   fmt.Sprintf("%s/apis/v2/sports/basketball/nba/athletes", c.siteBaseURL),
			query: map[string]string{"limit": strconv.Itoa(collectionPageSize)},
		},
		{
			name:  "fantasy-players",
			url:   fmt.Sprintf("%s/apis/v3/games/fba/seasons/%d/players", c.fantasyBaseURL, season),
			query: map[string]string{"limit": strconv.Itoa(collectionPageSize)},
		},
	}
}

type probeResult struct {
	endpoint  seasonEndpoint
	items     []map[string]any
	pageCount int
}

func (c *Client) probeSeason(ctx context.Context, season int) (probeResult, error) {
	var lastErr error
	for _, endpoint := range c.seasonEndpoints(season) {
		doc := map[string]any{}
		if _, err := c.doJSON(ctx, endpoint.url, endpoint.query, &doc); err != nil {
			lastErr = err
			c.logger.WarnContext(ctx, "endpoint probe failed",
				"endpoint", endpoint.name, "season", season, "error", err)
			continue
		}

		items, ok := collectionItems(doc)
		if !ok || len(items) == 0 {
			lastErr = fmt.Errorf("endpoint %s returned no player collection", endpoint.name)
			c.logger.WarnContext(ctx, "endpoint probe returned no collection",
				"endpoint", endpoint.name, "season", season)
			continue
		}

		pageCount := 1
		if endpoint.paginated {
			if count, ok := getFloat(doc, "pageCount"); ok && count > 1 {
				pageCount = int(count)
			}
		}

		c.logger.InfoContext(ctx, "endpoint probe succeeded",
			"endpoint", endpoint.name, "season", season,
			"items", len(items), "page_count", pageCount)

		return probeResult{endpoint: endpoint, items: items, pageCount: pageCount}, nil
	}

	if lastErr != nil {
		return probeResult{}, fmt.Errorf("%w: last error: %v", ErrNoEndpoint, lastErr)
	}
	return probeResult{}, ErrNoEndpoint
}

// collectionItems finds the player array under the first matching collection
// key and keeps only object entries.
func collectionItems(doc map[string]any) ([]map[string]any, bool) {
	for _, key := range collectionKeys {
		raw, ok := doc[key].([]any)
		if !ok {
			continue
		}
		items := make([]map[string]any, 0, len(raw))
		for _, entry := range raw {
			if m, ok := entry.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items, true
	}
	return nil, false
}

// fetchRemainingPages pulls pages 2..min(pageCount, pageLimit) concurrently.
// A failed page is dropped; partial data beats no data on draft day. Results
// keep page order so the final table is deterministic.
func (c *Client) fetchRemainingPages(ctx context.Context, first probeResult) []map[string]any {
	last := first.pageCount
	if last > c.pageLimit {
		c.logger.InfoContext(ctx, "page count exceeds configured limit",
			"page_count", first.pageCount, "page_limit", c.pageLimit)
		last = c.pageLimit
	}
	if last < 2 {
		return nil
	}

	pages := make([]int, 0, last-1)
	for page := 2; page <= last; page++ {
		pages = append(pages, page)
	}

	mapper := iter.Mapper[int, []map[string]any]{MaxGoroutines: c.resolveWorkers}
	batches := mapper.Map(pages, func(page *int) []map[string]any {
		doc := map[string]any{}
		if _, err := c.doJSON(ctx, first.endpoint.url, first.endpoint.pageQuery(*page), &doc); err != nil {
			c.logger.WarnContext(ctx, "page fetch failed",
				"endpoint", first.endpoint.name, "page", *page, "error", err)
			return nil
		}
		items, ok := collectionItems(doc)
		if !ok {
			return nil
		}
		return items
	})

	var out []map[string]any
	for _, batch := range batches {
		out = append(out, batch...)
	}
	return out
}

// SeasonPlayers implements player.Source against the public ESPN endpoints.
func (c *Client) SeasonPlayers(ctx context.Context, season int) ([]player.Player, error) {
	ctx, span := startSpan(ctx, "espn.Client.SeasonPlayers")
	defer span.End()

	first, err := c.probeSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	items := first.items
	if first.endpoint.paginated && first.pageCount > 1 {
		items = append(items, c.fetchRemainingPages(ctx, first)...)
	}

	resolved := c.resolveItems(ctx, items)
	players := c.extractPlayers(ctx, resolved)
	if len(players) == 0 {
		return nil, fmt.Errorf("endpoint %s yielded no usable players", first.endpoint.name)
	}

	c.logger.InfoContext(ctx, "season players fetched",
		"endpoint", first.endpoint.name, "season", season,
		"raw_items", len(items), "players", len(players))

	return players, nil
}
