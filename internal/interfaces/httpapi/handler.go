package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtsight/draft-assistant/internal/domain/player"
	"github.com/courtsight/draft-assistant/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	rosterService *usecase.RosterService
	draftService  *usecase.DraftService
	exportService *usecase.ExportService
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	draftService *usecase.DraftService,
	exportService *usecase.ExportService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		rosterService: rosterService,
		draftService:  draftService,
		exportService: exportService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseTableQuery reads the shared roster query parameters. A missing
// season means "current season" downstream.
func parseTableQuery(r *http.Request) (usecase.TableQuery, error) {
	query := usecase.TableQuery{
		Position: strings.TrimSpace(r.URL.Query().Get("position")),
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("season")); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.TableQuery{}, fmt.Errorf("%w: season must be a year, got %q", usecase.ErrInvalidInput, raw)
		}
		query.Season = season
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("available")); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return usecase.TableQuery{}, fmt.Errorf("%w: available must be a boolean, got %q", usecase.ErrInvalidInput, raw)
		}
		query.AvailableOnly = available
	}

	return query, nil
}

type rosterTableDTO struct {
	Season    int          `json:"season"`
	Source    string       `json:"source"`
	FetchedAt string       `json:"fetchedAt"`
	Count     int          `json:"count"`
	Rows      player.Table `json:"rows"`
}

func rosterTableToDTO(table usecase.RosterTable) rosterTableDTO {
	return rosterTableDTO{
		Season:    table.Season,
		Source:    string(table.Source),
		FetchedAt: table.FetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Count:     len(table.Rows),
		Rows:      table.Rows,
	}
}
