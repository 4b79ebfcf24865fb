package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/circuitbreaker"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/i18n"
	"github.com/guttosm/print-order-service/internal/orderapi"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/repository"
	"github.com/guttosm/print-order-service/internal/service"
)

// errorMapping pairs a sentinel with the status and message key it is
// reported as. Order matters: the first match wins.
type errorMapping struct {
	target error
	status int
	key    string
}

var errorMappings = []errorMapping{
	{service.ErrSessionNotFound, http.StatusNotFound, i18n.ErrKeySessionNotFound},
	{ordering.ErrTransitionInFlight, http.StatusConflict, i18n.ErrKeyTransitionInFlight},
	{ordering.ErrDraftLocked, http.StatusConflict, i18n.ErrKeyDraftLocked},
	{ordering.ErrInvalidTransition, http.StatusConflict, i18n.ErrKeyInvalidTransition},
	{ordering.ErrGuardFailed, http.StatusConflict, i18n.ErrKeyStepRequirements},
	{service.ErrStatusChange, http.StatusConflict, i18n.ErrKeyStatusChange},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, i18n.ErrKeyTimeout},
	{circuitbreaker.ErrCircuitOpen, http.StatusServiceUnavailable, i18n.ErrKeyOrderAPIUnavailable},
	{ordering.ErrUpload, http.StatusUnprocessableEntity, i18n.ErrKeyUploadFailed},
	{ordering.ErrPriceConfirmation, http.StatusBadGateway, i18n.ErrKeyPriceConfirmation},
	{ordering.ErrSubmission, http.StatusBadGateway, i18n.ErrKeySubmissionFailed},
	{ordering.ErrPaymentCheck, http.StatusBadGateway, i18n.ErrKeyPaymentCheckFailed},
	{orderapi.ErrNotFound, http.StatusNotFound, i18n.ErrKeyOrderNotFound},
	{repository.ErrPriceTableNotFound, http.StatusNotFound, i18n.ErrKeyPriceTableNotFound},
	{service.ErrRepositoryNotConfigured, http.StatusServiceUnavailable, i18n.ErrKeyPriceTableUnavailable},
	{model.ErrInvalidPriceTable, http.StatusBadRequest, i18n.ErrKeyValidation},
	{model.ErrUnknownBinding, http.StatusInternalServerError, i18n.ErrKeyPriceConfiguration},
	{model.ErrUnknownColorMode, http.StatusInternalServerError, i18n.ErrKeyPriceConfiguration},
	{model.ErrUnknownComposition, http.StatusInternalServerError, i18n.ErrKeyPriceConfiguration},
}

// respondError writes the error response for a failure coming out of the
// ordering, pricing or admin layers.
func respondError(c *gin.Context, err error) {
	builder := NewResponseBuilder(c)

	if details, ok := model.ValidationDetails(err); ok {
		if errors.Is(err, ordering.ErrUpload) {
			builder.ErrorWithDetails(http.StatusUnprocessableEntity, i18n.ErrKeyUploadFailed, details, err)
			return
		}
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyValidation, details, err)
		return
	}

	var guard *ordering.GuardError
	if errors.As(err, &guard) {
		details := map[string]string{"missing": strings.Join(guard.Missing, ",")}
		builder.ErrorWithDetails(http.StatusConflict, i18n.ErrKeyStepRequirements, details, err)
		return
	}

	status, key := classifyError(err)
	builder.Error(status, key, err)
}

// classifyError returns the status and message key err is reported as.
func classifyError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.key
		}
	}

	var apiErr *orderapi.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, i18n.ErrKeyOrderAPIUnavailable
	}
	if orderapi.IsUpstreamFailure(err) && isNetworkError(err) {
		return http.StatusServiceUnavailable, i18n.ErrKeyOrderAPIUnavailable
	}
	return http.StatusInternalServerError, i18n.ErrKeyInternalError
}

// isNetworkError reports whether err came from the transport rather than
// from this service.
func isNetworkError(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr)
}
