package http

import (
	"errors"
	"net/http"

	"order-desk/internal/domain"
	"order-desk/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, services.ErrOrderNotPaid):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrLineItemNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrOrderAlreadyPaid),
		errors.Is(err, services.ErrProductInUse),
		errors.Is(err, services.ErrOrderHasPayments):
		return http.StatusConflict
	case errors.Is(err, services.ErrPaymentDeleteForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
	}
	c.JSON(status, body)
}
