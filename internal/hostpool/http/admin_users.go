package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// HandleListUsers handles GET /v1/admin/users
//
//	@Summary		List users
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		poolsdk.User
//	@Failure		403	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/users [get].
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(users, toUser))
}

// HandleUpdateUser handles PATCH /v1/admin/users/{id}
//
//	@Summary		Enable or disable a user
//	@Description	Hostnames of disabled users are torn down by the next sweep
//	@Tags			Admin
//	@Accept			json
//	@Security		BearerAuth
//	@Param			id		path	string						true	"user id (token subject)"
//	@Param			request	body	poolsdk.UpdateUserRequest	true	"active or disabled"
//	@Success		204
//	@Failure		400	{object}	poolsdk.ErrorResponse
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/users/{id} [patch].
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.UpdateUserRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.Users.SetStatus(r.Context(), r.PathValue("id"), domain.UserStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListCredits handles GET /v1/admin/users/{id}/credits
//
//	@Summary		List a user's credits
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"user id"
//	@Success		200	{object}	poolsdk.CreditsResponse
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/users/{id}/credits [get].
func (h *AdminHandler) HandleListCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.Users.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	credits, err := h.Ledger.Credits(ctx, u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := h.Ledger.Stats(ctx, u.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCreditsResponse(credits, stats))
}

// HandleGrantCredits handles POST /v1/admin/users/{id}/credits
//
//	@Summary		Grant credits
//	@Description	Creates independent one-unit credits without a card
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"user id"
//	@Param			request	body		poolsdk.GrantCreditsRequest	true	"units and validity"
//	@Success		201		{array}		poolsdk.Credit
//	@Failure		400		{object}	poolsdk.ErrorResponse
//	@Failure		404		{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/users/{id}/credits [post].
func (h *AdminHandler) HandleGrantCredits(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.GrantCreditsRequest
	if !readJSON(w, r, &req) {
		return
	}

	validity := time.Duration(req.ValidityDays) * 24 * time.Hour
	credits, err := h.Ledger.Grant(r.Context(), r.PathValue("id"), req.Units, validity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, mapSlice(credits, toCredit))
}

// HandleRemoveCredit handles DELETE /v1/admin/credits/{id}
//
//	@Summary		Remove a credit
//	@Description	Hostnames bound to the credit move to the owner's earliest-expiring free credit, or are deleted when none is free
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"credit id"
//	@Success		200	{object}	poolsdk.RemoveCreditResponse
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/credits/{id} [delete].
func (h *AdminHandler) HandleRemoveCredit(w http.ResponseWriter, r *http.Request) {
	res, err := h.Removal.RemoveCredit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRemovalResponse(res))
}

func toRemovalResponse(res service.RemovalResult) poolsdk.RemoveCreditResponse {
	return poolsdk.RemoveCreditResponse{
		Migrated: mapSlice(res.Migrated, func(m service.Migration) poolsdk.Migration {
			return poolsdk.Migration{HostnameID: m.HostnameID, FromCredit: m.FromCredit, ToCredit: m.ToCredit}
		}),
		Deleted: mapSlice(res.Deleted, func(h domain.Hostname) string { return h.ID }),
	}
}
