package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/courtsight/draft-assistant/internal/usecase"
)

type draftRequest struct {
	Player string `json:"player" validate:"required,max=120"`
}

type draftPickDTO struct {
	Player    string `json:"player"`
	DraftedAt string `json:"draftedAt"`
}

func (h *Handler) ListDraftedPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDraftedPlayers")
	defer span.End()

	picks, err := h.draftService.ListDrafted(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list drafted failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	drafted := make([]draftPickDTO, 0, len(picks))
	for _, pick := range picks {
		drafted = append(drafted, draftPickDTO{
			Player:    pick.PlayerName,
			DraftedAt: pick.PickedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"drafted": drafted,
		"count":   len(drafted),
	})
}

func (h *Handler) DraftPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DraftPlayer")
	defer span.End()

	var payload draftRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.draftService.MarkDrafted(ctx, payload.Player); err != nil {
		h.logger.WarnContext(ctx, "draft player failed", "player", payload.Player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]string{
		"player": payload.Player,
		"status": "drafted",
	})
}

func (h *Handler) UndraftPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndraftPlayer")
	defer span.End()

	name := r.PathValue("player")
	if err := h.draftService.Undraft(ctx, name); err != nil {
		h.logger.WarnContext(ctx, "undraft player failed", "player", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"player": name,
		"status": "undrafted",
	})
}
