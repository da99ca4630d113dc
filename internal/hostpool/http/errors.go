package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/domain"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"
)

var errMissingClaims = errors.New("authenticated claims missing from request context")

// writeError maps a service error onto its status code and error body. It
// is the only place that knows the mapping.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		capacity   *domain.CapacityExhaustedError
		remote     *provider.Error
	)

	switch {
	case errors.As(err, &validation):
		httpx.WriteJSON(w, http.StatusBadRequest, poolsdk.ErrorResponse{
			Error:            validation.Code,
			ErrorDescription: validation.Message,
			Field:            validation.Field,
		})

	case errors.As(err, &notFound):
		httpx.WriteJSON(w, http.StatusNotFound, poolsdk.ErrorResponse{
			Error:            poolsdk.ErrorCodeNotFound,
			ErrorDescription: notFound.Error(),
		})

	case errors.As(err, &conflict):
		httpx.WriteJSON(w, http.StatusConflict, poolsdk.ErrorResponse{
			Error:            string(conflict.Code),
			ErrorDescription: conflict.Message,
		})

	case errors.Is(err, domain.ErrExpired):
		httpx.WriteJSON(w, http.StatusGone, poolsdk.ErrorResponse{
			Error:            poolsdk.ErrorCodeExpired,
			ErrorDescription: err.Error(),
		})

	case errors.As(err, &capacity):
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, poolsdk.ErrorResponse{
			Error:            string(capacity.Reason),
			ErrorDescription: capacity.Error(),
		})

	case errors.As(err, &remote):
		log.Warn("provider call failed", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusBadGateway, poolsdk.ErrorResponse{
			Error:            poolsdk.ErrorCodeProviderError,
			ErrorDescription: remote.Error(),
		})

	default:
		log.Error("request failed", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, poolsdk.ErrorResponse{
			Error:            poolsdk.ErrorCodeServerError,
			ErrorDescription: "internal server error",
		})
	}
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, poolsdk.ErrorResponse{
		Error:            poolsdk.ErrorCodeInvalidRequest,
		ErrorDescription: desc,
	})
}

// readJSON decodes the body or answers 400. It reports whether the handler
// should continue.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.ReadJSON(w, r, dst); err != nil {
		writeBadRequest(w, err.Error())
		return false
	}
	return true
}
