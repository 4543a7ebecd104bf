package main

import (
	"errors"
	"time"
)

// Order representa um pedido no sistema
type Order struct {
	ID              string    `json:"id" db:"id"`
	ProductID       string    `json:"product_id" db:"product_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents" db:"unit_price_cents"`
	TotalPriceCents int64     `json:"total_price_cents" db:"total_price_cents"`
	Version         int       `json:"version" db:"version"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// NewOrder cria uma nova instância de Order. O preço unitário é congelado na
// criação e nunca muda depois disso.
func NewOrder(id, productID string, quantity int, unitPriceCents int64) *Order {
	return &Order{
		ID:              id,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPriceCents:  unitPriceCents,
		TotalPriceCents: int64(quantity) * unitPriceCents,
		Version:         1,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// ChangeQuantity altera a quantidade e recalcula o preço total a partir do
// preço unitário original (sem re-precificação).
func (o *Order) ChangeQuantity(newQuantity int) error {
	if newQuantity <= 0 {
		return errors.New("quantity must be positive")
	}

	o.Quantity = newQuantity
	o.TotalPriceCents = int64(newQuantity) * o.UnitPriceCents
	o.UpdatedAt = time.Now()
	return nil
}
