package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateOrderRequest representa a requisição para criar um pedido
type CreateOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateOrderRequest representa a requisição para alterar a quantidade
type UpdateOrderRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// OrderWorkflows define a interface dos workflows do coordenador
type OrderWorkflows interface {
	CreateOrder(ctx context.Context, productID string, quantity int) (*Order, error)
	UpdateOrderQuantity(ctx context.Context, orderID string, newQuantity int) (*Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// OrderQueries define a interface do caminho de leitura
type OrderQueries interface {
	GetOrder(ctx context.Context, orderID string) (*OrderResponse, error)
	ListOrders(ctx context.Context) ([]OrderResponse, error)
}

// OrderHandler contém os handlers HTTP
type OrderHandler struct {
	workflows OrderWorkflows
	queries   OrderQueries
	tracer    trace.Tracer
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(workflows OrderWorkflows, queries OrderQueries, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{
		workflows: workflows,
		queries:   queries,
		tracer:    tracer,
	}
}

// CreateOrder inicia o workflow de criação de pedido
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_order")
	defer span.End()

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	order, err := h.workflows.CreateOrder(ctx, req.ProductID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	c.JSON(http.StatusCreated, order)
}

// UpdateOrder inicia o workflow de alteração de quantidade
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_order_quantity")
	defer span.End()

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID := c.Param("id")
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.Int("quantity", req.Quantity),
	)

	order, err := h.workflows.UpdateOrderQuantity(ctx, orderID, req.Quantity)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder inicia o workflow de remoção de pedido
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "delete_order")
	defer span.End()

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order_id", orderID))

	if err := h.workflows.DeleteOrder(ctx, orderID); err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetOrder busca um pedido com os dados do produto
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_order")
	defer span.End()

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order_id", orderID))

	order, err := h.queries.GetOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders lista os pedidos com os dados dos produtos
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_orders")
	defer span.End()

	orders, err := h.queries.ListOrders(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// HealthCheck verifica a saúde do serviço
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}

// statusFromError mapeia a taxonomia de erros dos workflows para status HTTP
func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
