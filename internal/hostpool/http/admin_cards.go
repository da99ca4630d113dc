package http

import (
	"net/http"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// HandleListCards handles GET /v1/admin/cards
//
//	@Summary		List cards
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		poolsdk.Card
//	@Failure		403	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/cards [get].
func (h *AdminHandler) HandleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Cards.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(cards, toCard))
}

// HandleGenerateCards handles POST /v1/admin/cards
//
//	@Summary		Generate cards
//	@Description	Mints 1 to 100 cards with random 32 character codes
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		poolsdk.GenerateCardsRequest	true	"kind, units, validity and count"
//	@Success		201		{array}		poolsdk.Card
//	@Failure		400		{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/cards [post].
func (h *AdminHandler) HandleGenerateCards(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.GenerateCardsRequest
	if !readJSON(w, r, &req) {
		return
	}

	cards, err := h.Cards.Generate(r.Context(), service.GenerateCardsRequest{
		Kind:         domain.CardKind(req.Kind),
		Units:        req.Units,
		ValidityDays: req.ValidityDays,
		Count:        req.Count,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, mapSlice(cards, toCard))
}

// HandleDeleteCard handles DELETE /v1/admin/cards/{id}
//
//	@Summary		Delete a card
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"card id"
//	@Success		204
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/cards/{id} [delete].
func (h *AdminHandler) HandleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.Cards.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
