package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtsight/draft-assistant/internal/usecase"
)

// RefreshRoster drops the cached snapshot for a season and pulls fresh data.
// Intended for schedulers, hence the internal job token requirement.
func (h *Handler) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshRoster")
	defer span.End()

	season := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("season")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: season must be a year, got %q", usecase.ErrInvalidInput, raw))
			return
		}
		season = parsed
	}

	table, err := h.rosterService.Refresh(ctx, season)
	if err != nil {
		h.logger.ErrorContext(ctx, "roster refresh failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "roster refreshed", "season", table.Season, "players", len(table.Rows))
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"season":    table.Season,
		"players":   len(table.Rows),
		"fetchedAt": table.FetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
