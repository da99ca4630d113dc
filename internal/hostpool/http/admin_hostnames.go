package http

import (
	"net/http"

	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// HandleListHostnames handles GET /v1/admin/hostnames
//
//	@Summary		List every hostname
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		poolsdk.Hostname
//	@Failure		403	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/hostnames [get].
func (h *AdminHandler) HandleListHostnames(w http.ResponseWriter, r *http.Request) {
	list, err := h.Provisioning.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(list, toHostname))
}

// HandleDeleteHostname handles DELETE /v1/admin/hostnames/{id}
//
//	@Summary		Delete any hostname
//	@Description	Same teardown as the owner's delete; the credit is freed
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"hostname id"
//	@Success		204
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/hostnames/{id} [delete].
func (h *AdminHandler) HandleDeleteHostname(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Provisioning.Delete(r.Context(), "", r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRepairHostname handles POST /v1/admin/hostnames/{id}/repair
//
//	@Summary		Repair a hostname
//	@Description	Recreates the DNS record and/or custom hostname the record is missing. A record left without a credit by a failed provision takes the owner's next free credit first.
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"hostname id"
//	@Success		200	{object}	poolsdk.RepairResponse
//	@Failure		404	{object}	poolsdk.ErrorResponse
//	@Failure		409	{object}	poolsdk.ErrorResponse
//	@Failure		422	{object}	poolsdk.ErrorResponse
//	@Failure		502	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/hostnames/{id}/repair [post].
func (h *AdminHandler) HandleRepairHostname(w http.ResponseWriter, r *http.Request) {
	res, err := h.Provisioning.Repair(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	actions := res.Actions
	if actions == nil {
		actions = []string{}
	}
	httpx.WriteJSON(w, http.StatusOK, poolsdk.RepairResponse{Hostname: toHostname(res.Hostname), Actions: actions})
}

// HandleSweep handles POST /v1/admin/sweep
//
//	@Summary		Run the reconciliation sweep now
//	@Description	Tears down hostnames with expired credits, expired records and hostnames of disabled users, then expires stale credits
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	poolsdk.SweepReport
//	@Failure		500	{object}	poolsdk.ErrorResponse
//	@Router			/v1/admin/sweep [post].
func (h *AdminHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.Sweep.RunOnce(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSweepReport(report))
}
