package http

import (
	"net/http"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// HostnamesHandler serves the caller's own hostnames. Records of other users
// are reported as missing.
type HostnamesHandler struct {
	Provisioning *service.ProvisioningService
	Redemption   *service.RedemptionService
	Domains      *service.DomainService
}

// HandleListDomains handles GET /v1/domains
//
//	@Summary		List pooled domains
//	@Description	Active pooled domains with the number of hostnames still free under each
//	@Tags			Hostnames
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		poolsdk.Domain
//	@Failure		401	{object}	poolsdk.ErrorResponse
//	@Router			/v1/domains [get].
func (h *HostnamesHandler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.Domains.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(domains, toDomain))
}

// HandleList handles GET /v1/hostnames
//
//	@Summary		List my hostnames
//	@Tags			Hostnames
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		poolsdk.Hostname
//	@Failure		401	{object}	poolsdk.ErrorResponse
//	@Router			/v1/hostnames [get].
func (h *HostnamesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.Provisioning.ListByOwner(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(list, toHostname))
}

// HandleCreate handles POST /v1/hostnames
//
//	@Summary		Provision a hostname
//	@Description	Consumes one credit and creates the DNS record and custom hostname. The response carries the TXT records to publish.
//	@Description	On a provider failure the record is kept with status "error" and the credit is returned.
//	@Tags			Hostnames
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		poolsdk.CreateHostnameRequest	true	"hostname request"
//	@Success		201		{object}	poolsdk.Hostname
//	@Failure		400		{object}	poolsdk.ErrorResponse	"invalid hostname, address or record type"
//	@Failure		404		{object}	poolsdk.ErrorResponse	"unknown domain"
//	@Failure		409		{object}	poolsdk.ErrorResponse	"hostname taken, domain full or inactive"
//	@Failure		422		{object}	poolsdk.ErrorResponse	"no credit available"
//	@Failure		502		{object}	poolsdk.ErrorResponse	"provider rejected the request"
//	@Router			/v1/hostnames [post].
func (h *HostnamesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.CreateHostnameRequest
	if !readJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	created, err := h.Provisioning.Provision(ctx, httpx.UserIDFromContext(ctx), service.ProvisionRequest{
		DomainID:      req.DomainID,
		Hostname:      req.Hostname,
		TargetAddress: req.TargetAddress,
		RecordType:    domain.RecordType(req.RecordType),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toHostname(created))
}

// HandleRefresh handles POST /v1/hostnames/{id}/refresh
//
//	@Summary		Refresh certificate status
//	@Description	Re-reads the custom hostname from the provider and updates status and validation records
//	@Tags			Hostnames
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"hostname id"
//	@Success		200	{object}	poolsdk.RefreshResponse
//	@Failure		400	{object}	poolsdk.ErrorResponse	"not provisioned"
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Failure		502	{object}	poolsdk.ErrorResponse
//	@Router			/v1/hostnames/{id}/refresh [post].
func (h *HostnamesHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.Provisioning.RefreshStatus(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, poolsdk.RefreshResponse{
		Hostname:         toHostname(res.Hostname),
		SSLStatus:        res.SSLStatus,
		ValidationErrors: res.ValidationErrors,
	})
}

// HandleRenew handles POST /v1/hostnames/{id}/renew
//
//	@Summary		Renew with a card
//	@Description	Redeems a renew card from the hostname page; only renew cards are accepted
//	@Tags			Hostnames
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"hostname id"
//	@Param			request	body		poolsdk.RenewRequest	true	"card code"
//	@Success		200		{object}	poolsdk.RedeemResponse
//	@Failure		400		{object}	poolsdk.ErrorResponse	"not a renew card"
//	@Failure		404		{object}	poolsdk.ErrorResponse
//	@Failure		409		{object}	poolsdk.ErrorResponse
//	@Failure		410		{object}	poolsdk.ErrorResponse
//	@Router			/v1/hostnames/{id}/renew [post].
func (h *HostnamesHandler) HandleRenew(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.RenewRequest
	if !readJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	res, err := h.Redemption.RedeemForRenewal(ctx, req.Code, r.PathValue("id"), httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRedeemResponse(res))
}

// HandleUpdate handles PATCH /v1/hostnames/{id}
//
//	@Summary		Change target address
//	@Description	Points the DNS record at a new address of the same family
//	@Tags			Hostnames
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"hostname id"
//	@Param			request	body		poolsdk.UpdateHostnameRequest	true	"new address"
//	@Success		200		{object}	poolsdk.Hostname
//	@Failure		400		{object}	poolsdk.ErrorResponse
//	@Failure		404		{object}	poolsdk.ErrorResponse
//	@Failure		502		{object}	poolsdk.ErrorResponse
//	@Router			/v1/hostnames/{id} [patch].
func (h *HostnamesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.UpdateHostnameRequest
	if !readJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	updated, err := h.Provisioning.EditTargetAddress(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), req.TargetAddress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toHostname(updated))
}

// HandleDelete handles DELETE /v1/hostnames/{id}
//
//	@Summary		Delete a hostname
//	@Description	Removes the remote resources (best effort) and the record, and frees its credit
//	@Tags			Hostnames
//	@Security		BearerAuth
//	@Param			id	path	string	true	"hostname id"
//	@Success		204
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/hostnames/{id} [delete].
func (h *HostnamesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.Provisioning.Delete(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
