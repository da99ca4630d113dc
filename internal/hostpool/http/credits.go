package http

import (
	"net/http"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// CreditsHandler serves the caller's credit ledger and card redemption.
type CreditsHandler struct {
	Ledger     *service.LedgerService
	Redemption *service.RedemptionService
}

// HandleList handles GET /v1/credits
//
//	@Summary		List my credits
//	@Description	Returns every credit of the caller with total, used and available counts of live credits
//	@Tags			Credits
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	poolsdk.CreditsResponse
//	@Failure		401	{object}	poolsdk.ErrorResponse
//	@Failure		403	{object}	poolsdk.ErrorResponse
//	@Router			/v1/credits [get].
func (h *CreditsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := httpx.UserIDFromContext(ctx)

	credits, err := h.Ledger.Credits(ctx, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := h.Ledger.Stats(ctx, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCreditsResponse(credits, stats))
}

// HandleRedeem handles POST /v1/cards/redeem
//
//	@Summary		Redeem a card
//	@Description	A create card grants credits; a renew card extends every live credit of the caller
//	@Tags			Credits
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		poolsdk.RedeemRequest	true	"card code"
//	@Success		200		{object}	poolsdk.RedeemResponse
//	@Failure		400		{object}	poolsdk.ErrorResponse	"missing code"
//	@Failure		404		{object}	poolsdk.ErrorResponse	"unknown code, or nothing to renew"
//	@Failure		409		{object}	poolsdk.ErrorResponse	"card already used"
//	@Failure		410		{object}	poolsdk.ErrorResponse	"card expired"
//	@Failure		429		{object}	poolsdk.ErrorResponse
//	@Router			/v1/cards/redeem [post].
func (h *CreditsHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.RedeemRequest
	if !readJSON(w, r, &req) {
		return
	}

	res, err := h.Redemption.Redeem(r.Context(), req.Code, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRedeemResponse(res))
}
