package http

import (
	"net/http"
	"strconv"

	"order-desk/internal/infra"
	"order-desk/internal/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("order-desk/http")

type Handler struct {
	catalog  *services.CatalogService
	orders   *services.OrderService
	payments *services.PaymentService
	confirm  *services.ConfirmationService
	idem     infra.IdempotencyStore
	logger   *zap.Logger
}

func NewHandler(
	catalog *services.CatalogService,
	orders *services.OrderService,
	payments *services.PaymentService,
	confirm *services.ConfirmationService,
	idem infra.IdempotencyStore,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:  catalog,
		orders:   orders,
		payments: payments,
		confirm:  confirm,
		idem:     idem,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.POST("/products", h.CreateProduct)
	api.DELETE("/products/:id", h.DeleteProduct)

	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.DELETE("/orders/:id", h.DeleteOrder)
	api.GET("/orders/:id/payments", h.ListOrderPayments)
	api.POST("/orders/:id/items", h.AddLineItem)
	api.PATCH("/order-items/:id", h.UpdateLineItem)
	api.DELETE("/order-items/:id", h.DeleteLineItem)

	api.POST("/payments", h.CreatePayment)
	api.GET("/payments/:id", h.GetPayment)
	api.PATCH("/payments/:id", h.UpdatePayment)
	api.POST("/payments/:id/void", h.VoidPayment)
	api.DELETE("/payments/:id", h.DeletePayment)

	r.POST("/admin/orders/:id/confirm", h.ConfirmOrder)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "order-desk", "status": "healthy"})
}

func (h *Handler) ListProducts(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, newProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "results": out})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(p))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), req.toDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProductResponse(p))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order.items", len(req.Items)))

	order, err := h.orders.CreateOrder(ctx, req.toInputs())
	if err != nil {
		recordError(span, err)
		h.writeError(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("order.id", int64(order.ID)))
	c.JSON(http.StatusCreated, newOrderResponse(order))
}

func (h *Handler) ListOrders(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListOrders(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "results": out})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(o))
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddLineItem(c *gin.Context) {
	orderID, ok := idParam(c)
	if !ok {
		return
	}
	var req LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.orders.AddLineItem(c.Request.Context(), orderID, services.LineItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLineItemResponse(item))
}

func (h *Handler) UpdateLineItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.orders.UpdateLineItem(c.Request.Context(), id, services.LineItemPatch{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLineItemResponse(item))
}

func (h *Handler) DeleteLineItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.orders.DeleteLineItem(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func pageParam(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return 0, false
	}
	return page, true
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
