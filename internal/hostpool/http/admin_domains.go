package http

import (
	"net/http"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// HandleListDomains handles GET /v1/admin/domains
//
//	@Summary		List all pooled domains
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		poolsdk.AdminDomain
//	@Failure		403	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/domains [get].
func (h *AdminHandler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.Domains.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(domains, toAdminDomain))
}

// HandleCreateDomain handles POST /v1/admin/domains
//
//	@Summary		Add a pooled domain
//	@Description	The provider key is sealed at rest and never returned
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		poolsdk.CreateDomainRequest	true	"domain and provider credentials"
//	@Success		201		{object}	poolsdk.AdminDomain
//	@Failure		400		{object}	poolsdk.ErrorResponse
//	@Failure		409		{object}	poolsdk.ErrorResponse	"domain exists"
//	@Router			/v1/admin/domains [post].
func (h *AdminHandler) HandleCreateDomain(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.CreateDomainRequest
	if !readJSON(w, r, &req) {
		return
	}

	d, err := h.Domains.Create(r.Context(), service.CreateDomainRequest{
		Name:          req.Name,
		ProviderEmail: req.ProviderEmail,
		ProviderKey:   req.ProviderKey,
		MaxHostnames:  req.MaxHostnames,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAdminDomain(domain.DomainUsage{PooledDomain: d}))
}

// HandleUpdateDomain handles PATCH /v1/admin/domains/{id}
//
//	@Summary		Activate or deactivate a domain
//	@Description	Inactive domains accept no new hostnames; existing ones keep working
//	@Tags			Admin
//	@Accept			json
//	@Security		BearerAuth
//	@Param			id		path	string						true	"domain id"
//	@Param			request	body	poolsdk.UpdateDomainRequest	true	"active or inactive"
//	@Success		204
//	@Failure		400	{object}	poolsdk.ErrorResponse
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/domains/{id} [patch].
func (h *AdminHandler) HandleUpdateDomain(w http.ResponseWriter, r *http.Request) {
	var req poolsdk.UpdateDomainRequest
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.Domains.SetStatus(r.Context(), r.PathValue("id"), domain.DomainStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteDomain handles DELETE /v1/admin/domains/{id}
//
//	@Summary		Delete a pooled domain
//	@Description	Tears down every hostname under the domain, returning their credits, then removes it
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"domain id"
//	@Success		200	{object}	poolsdk.DeleteDomainResponse
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/domains/{id} [delete].
func (h *AdminHandler) HandleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Domains.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, poolsdk.DeleteDomainResponse{HostnamesRemoved: removed})
}
