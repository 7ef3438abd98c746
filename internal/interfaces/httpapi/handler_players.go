package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/courtsight/draft-assistant/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query, err := parseTableQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.rosterService.Table(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "season", query.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterTableToDTO(table))
}

func (h *Handler) ExportPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportPlayers")
	defer span.End()

	query, err := parseTableQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		data, err := h.exportService.ExportCSV(ctx, query)
		if err != nil {
			h.logger.WarnContext(ctx, "csv export failed", "season", query.Season, "error", err)
			writeError(ctx, w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="draft-board.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case "json":
		data, err := h.exportService.ExportJSON(ctx, query)
		if err != nil {
			h.logger.WarnContext(ctx, "json export failed", "season", query.Season, "error", err)
			writeError(ctx, w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unsupported export format %q", usecase.ErrInvalidInput, format))
	}
}
