package http

import (
	"fmt"
	"net/http"

	"order-desk/internal/infra/idempotency"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const paymentScope = "payments"

// CreatePayment blocks until the processor settles the payment. A repeated
// Idempotency-Key is rejected while the first request's claim is live.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "CreatePayment")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(req.OrderID)))

	key := idempotency.Key(c.Request)
	if key != "" && h.idem != nil {
		fresh, err := h.idem.Reserve(ctx, paymentScope, key)
		switch {
		case err != nil:
			h.logger.Warn("idempotency store unavailable", zap.String("key", key), zap.Error(err))
		case !fresh:
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate request for idempotency key " + key})
			return
		}
	}

	p, err := h.payments.CreatePayment(ctx, req.OrderID, req.PaymentType)
	if err != nil {
		recordError(span, err)
		if key != "" && h.idem != nil {
			if rerr := h.idem.Release(ctx, paymentScope, key); rerr != nil {
				h.logger.Warn("idempotency key release failed", zap.String("key", key), zap.Error(rerr))
			}
		}
		h.writeError(c, err)
		return
	}
	span.SetAttributes(attribute.String("payment.status", string(p.Status)))
	c.JSON(http.StatusCreated, newPaymentResponse(p))
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(p))
}

func (h *Handler) ListOrderPayments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payments, err := h.payments.ListOrderPayments(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, newPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.payments.UpdatePaymentMethod(c.Request.Context(), id, req.PaymentType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(p))
}

func (h *Handler) VoidPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.payments.Void(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(p))
}

// DeletePayment never deletes: the payment is voided and 403 is returned.
func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	h.writeError(c, h.payments.Delete(c.Request.Context(), id))
}

func (h *Handler) ConfirmOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "ConfirmOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(id)))

	res, err := h.confirm.Confirm(ctx, id)
	if err != nil {
		recordError(span, err)
		h.writeError(c, err)
		return
	}
	span.SetAttributes(attribute.Bool("order.notified", res.Notified))

	order := newOrderResponse(res.Order)
	switch {
	case !res.Confirmed:
		c.JSON(http.StatusOK, gin.H{"warning": fmt.Sprintf("Order %d has no payment date, nothing was confirmed.", id), "order": order})
	case res.Notified:
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Order %d confirmed and the external service was notified.", id), "order": order})
	default:
		c.JSON(http.StatusOK, gin.H{"warning": fmt.Sprintf("Order %d confirmed, but the external service could not be notified.", id), "order": order})
	}
}
