package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest representa a requisição para criar um produto
type CreateProductRequest struct {
	Name         string `json:"name" binding:"required"`
	PriceCents   int64  `json:"price_cents" binding:"required,gt=0"`
	InitialStock int    `json:"initial_stock" binding:"gte=0"`
}

// UpdateProductRequest representa a requisição para atualizar nome e preço
type UpdateProductRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
}

// QuantityRequest representa a requisição de reserve/release
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// DeltaRequest representa a requisição de adjust (delta com sinal, nunca zero)
type DeltaRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// StockChangeResponse é a resposta das operações de estoque
type StockChangeResponse struct {
	ProductID      string `json:"product_id"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CurrentStock   int    `json:"current_stock"`
}

// ProductHandler contém os handlers HTTP de produtos
type ProductHandler struct {
	useCase *ProductUseCase
}

// NewProductHandler cria uma nova instância de ProductHandler
func NewProductHandler(useCase *ProductUseCase) *ProductHandler {
	return &ProductHandler{
		useCase: useCase,
	}
}

// CreateProduct cria um novo produto
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), req.Name, req.PriceCents, req.InitialStock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct busca um produto pelo ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.useCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(productStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListProducts lista os produtos; com ?ids=a,b,c busca só os ids pedidos
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var (
		products []Product
		err      error
	)

	if ids := c.Query("ids"); ids != "" {
		products, err = h.useCase.GetProducts(c.Request.Context(), strings.Split(ids, ","))
	} else {
		products, err = h.useCase.ListProducts(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if products == nil {
		products = []Product{}
	}
	c.JSON(http.StatusOK, products)
}

// UpdateProduct atualiza nome e preço de um produto
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), c.Param("id"), req.Name, req.PriceCents)
	if err != nil {
		c.JSON(productStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct remove um produto
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.useCase.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(productStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ReserveStock consome estoque do produto
func (h *ProductHandler) ReserveStock(c *gin.Context) {
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Reserve(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		c.JSON(productStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toStockChangeResponse(product))
}

// ReleaseStock devolve estoque ao produto
func (h *ProductHandler) ReleaseStock(c *gin.Context) {
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Release(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		c.JSON(productStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toStockChangeResponse(product))
}

// AdjustStock aplica um delta com sinal ao estoque
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req DeltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Adjust(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		c.JSON(productStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toStockChangeResponse(product))
}

// HealthCheck verifica a saúde do serviço
func (h *ProductHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "products-service",
	})
}

func toStockChangeResponse(product *Product) StockChangeResponse {
	return StockChangeResponse{
		ProductID:      product.ID,
		UnitPriceCents: product.PriceCents,
		CurrentStock:   product.CurrentStock,
	}
}

func productStatus(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
