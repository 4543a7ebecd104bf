package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *fakeStore, id, productID string, quantity int, unitPriceCents int64) {
	t.Helper()
	order := NewOrder(id, productID, quantity, unitPriceCents)
	require.NoError(t, store.CreateOrder(context.Background(), order))
}

func TestGetOrder_JoinsProduct(t *testing.T) {
	store := newFakeStore()
	inv := &fakeInventory{products: map[string]*ProductInfo{
		"product-1": {ID: "product-1", Name: "Keyboard", PriceCents: 500, CurrentStock: 90},
	}}
	seedOrder(t, store, "order-1", "product-1", 10, 500)

	uc := NewOrderQueryUseCase(store, inv)
	response, err := uc.GetOrder(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", response.ID)
	assert.Equal(t, int64(5000), response.TotalPriceCents)
	require.NotNil(t, response.Product)
	assert.Equal(t, "Keyboard", response.Product.Name)
}

func TestGetOrder_NotFound(t *testing.T) {
	uc := NewOrderQueryUseCase(newFakeStore(), &fakeInventory{})

	_, err := uc.GetOrder(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrder_JoinFailureStillReturnsOrder(t *testing.T) {
	store := newFakeStore()
	inv := &fakeInventory{fetchErr: errors.New("network down")}
	seedOrder(t, store, "order-1", "product-1", 10, 500)

	uc := NewOrderQueryUseCase(store, inv)
	response, err := uc.GetOrder(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Nil(t, response.Product)
	assert.Equal(t, 10, response.Quantity)
}

func TestListOrders_SingleBatchFetchOverDistinctIDs(t *testing.T) {
	store := newFakeStore()
	inv := &fakeInventory{products: map[string]*ProductInfo{
		"product-1": {ID: "product-1", Name: "Keyboard", PriceCents: 500},
		"product-2": {ID: "product-2", Name: "Mouse", PriceCents: 300},
	}}
	seedOrder(t, store, "order-1", "product-1", 10, 500)
	seedOrder(t, store, "order-2", "product-1", 3, 500)
	seedOrder(t, store, "order-3", "product-2", 1, 300)

	uc := NewOrderQueryUseCase(store, inv)
	responses, err := uc.ListOrders(context.Background())

	require.NoError(t, err)
	assert.Len(t, responses, 3)

	// Uma única chamada remota em lote, sem id repetido, em vez de uma por linha.
	require.Len(t, inv.calls, 1)
	assert.Contains(t, inv.calls[0], "fetch-batch:")
	assert.NotContains(t, inv.calls[0], "product-1,product-1")

	for _, response := range responses {
		require.NotNil(t, response.Product, "order %s missing product join", response.ID)
		assert.Equal(t, response.ProductID, response.Product.ID)
	}
}

func TestListOrders_BatchFailureLeavesProductsNil(t *testing.T) {
	store := newFakeStore()
	inv := &fakeInventory{fetchErr: errors.New("network down")}
	seedOrder(t, store, "order-1", "product-1", 10, 500)

	uc := NewOrderQueryUseCase(store, inv)
	responses, err := uc.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Nil(t, responses[0].Product)
}
