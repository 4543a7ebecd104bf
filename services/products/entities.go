package main

import (
	"errors"
	"time"
)

// ErrInsufficientStock indica que um débito de estoque deixaria o produto negativo
var ErrInsufficientStock = errors.New("insufficient stock")

// Product representa um produto e seu estoque
type Product struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	PriceCents   int64     `json:"price_cents" db:"price_cents"`
	CurrentStock int       `json:"current_stock" db:"current_stock"`
	Version      int       `json:"version" db:"version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewProduct cria uma nova instância de Product
func NewProduct(id, name string, priceCents int64, initialStock int) *Product {
	return &Product{
		ID:           id,
		Name:         name,
		PriceCents:   priceCents,
		CurrentStock: initialStock,
		Version:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// ApplyStockChange aplica um delta com sinal ao estoque. Delta negativo que
// deixaria o estoque negativo é rejeitado sem alterar o produto.
func (p *Product) ApplyStockChange(delta int) error {
	if p.CurrentStock+delta < 0 {
		return ErrInsufficientStock
	}

	p.CurrentStock += delta
	p.Version++
	p.UpdatedAt = time.Now()
	return nil
}

// StockMovement representa uma movimentação de estoque
type StockMovement struct {
	ID             string    `json:"id" db:"id"`
	ProductID      string    `json:"product_id" db:"product_id"`
	ChangeQuantity int       `json:"change_quantity" db:"change_quantity"`
	MovementType   string    `json:"movement_type" db:"movement_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// NewStockMovement cria uma nova instância de StockMovement
func NewStockMovement(id, productID string, changeQuantity int, movementType string) *StockMovement {
	return &StockMovement{
		ID:             id,
		ProductID:      productID,
		ChangeQuantity: changeQuantity,
		MovementType:   movementType,
		CreatedAt:      time.Now(),
	}
}

// MovementType representa os tipos de movimentação de estoque
const (
	MovementTypeReserved = "reserved"
	MovementTypeReleased = "released"
	MovementTypeAdjusted = "adjusted"
)
