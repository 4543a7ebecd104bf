package main

import (
	"testing"
	"time"
)

func TestNewOrder(t *testing.T) {
	// Arrange
	id := "test-order-123"
	productID := "product-789"
	quantity := 10
	unitPriceCents := int64(500)

	// Act
	order := NewOrder(id, productID, quantity, unitPriceCents)

	// Assert
	if order.ID != id {
		t.Errorf("Expected ID %s, got %s", id, order.ID)
	}
	if order.ProductID != productID {
		t.Errorf("Expected ProductID %s, got %s", productID, order.ProductID)
	}
	if order.Quantity != quantity {
		t.Errorf("Expected Quantity %d, got %d", quantity, order.Quantity)
	}
	if order.UnitPriceCents != unitPriceCents {
		t.Errorf("Expected UnitPriceCents %d, got %d", unitPriceCents, order.UnitPriceCents)
	}
	if order.TotalPriceCents != 5000 {
		t.Errorf("Expected TotalPriceCents 5000, got %d", order.TotalPriceCents)
	}
	if order.Version != 1 {
		t.Errorf("Expected Version 1, got %d", order.Version)
	}
	if order.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if order.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	now := time.Now()
	if order.CreatedAt.After(now) || order.CreatedAt.Before(now.Add(-time.Second)) {
		t.Error("CreatedAt is not within expected time range")
	}
}

func TestOrderChangeQuantity(t *testing.T) {
	order := NewOrder("test-order-123", "product-789", 10, 500)

	if err := order.ChangeQuantity(15); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if order.Quantity != 15 {
		t.Errorf("Expected Quantity 15, got %d", order.Quantity)
	}
	if order.TotalPriceCents != 7500 {
		t.Errorf("Expected TotalPriceCents 7500, got %d", order.TotalPriceCents)
	}
	// O preço unitário nunca muda depois da criação.
	if order.TotalPriceCents/int64(order.Quantity) != order.UnitPriceCents {
		t.Errorf("Unit price changed: total=%d quantity=%d unit=%d",
			order.TotalPriceCents, order.Quantity, order.UnitPriceCents)
	}
}

func TestOrderChangeQuantityRejectsNonPositive(t *testing.T) {
	order := NewOrder("test-order-123", "product-789", 10, 500)

	for _, quantity := range []int{0, -3} {
		if err := order.ChangeQuantity(quantity); err == nil {
			t.Errorf("Expected error for quantity %d", quantity)
		}
	}

	if order.Quantity != 10 {
		t.Errorf("Expected Quantity unchanged at 10, got %d", order.Quantity)
	}
}
