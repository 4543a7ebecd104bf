package main

import (
	"context"
	"log"
)

// OrderResponse junta o pedido com os dados do produto remoto. Product fica
// nulo quando o serviço de produtos não consegue resolver o id.
type OrderResponse struct {
	ID              string       `json:"id"`
	ProductID       string       `json:"product_id"`
	Quantity        int          `json:"quantity"`
	UnitPriceCents  int64        `json:"unit_price_cents"`
	TotalPriceCents int64        `json:"total_price_cents"`
	Product         *ProductInfo `json:"product,omitempty"`
}

// OrderQueryUseCase contém o caminho de leitura: passthrough para o store com
// join dos dados remotos de produto.
type OrderQueryUseCase struct {
	repository Repository
	inventory  InventoryClient
}

// NewOrderQueryUseCase cria uma nova instância de OrderQueryUseCase
func NewOrderQueryUseCase(repository Repository, inventory InventoryClient) *OrderQueryUseCase {
	return &OrderQueryUseCase{
		repository: repository,
		inventory:  inventory,
	}
}

// GetOrder busca um pedido e junta os dados do produto. A falha do join não
// derruba a leitura do pedido.
func (uc *OrderQueryUseCase) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	product, err := uc.inventory.FetchProduct(ctx, order.ProductID)
	if err != nil {
		log.Printf("ℹ️ [GET ORDER] Product join failed for OrderID=%s: %v", orderID, err)
		product = nil
	}

	return toOrderResponse(order, product), nil
}

// ListOrders lista os pedidos juntando os produtos em um único fetch em lote
// sobre os ids distintos, em vez de uma chamada remota por linha.
func (uc *OrderQueryUseCase) ListOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := uc.repository.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(orders))
	var productIDs []string
	for _, order := range orders {
		if !seen[order.ProductID] {
			seen[order.ProductID] = true
			productIDs = append(productIDs, order.ProductID)
		}
	}

	products, err := uc.inventory.FetchProducts(ctx, productIDs)
	if err != nil {
		log.Printf("ℹ️ [LIST ORDERS] Product join failed: %v", err)
		products = map[string]*ProductInfo{}
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *toOrderResponse(&orders[i], products[orders[i].ProductID]))
	}
	return responses, nil
}

func toOrderResponse(order *Order, product *ProductInfo) *OrderResponse {
	return &OrderResponse{
		ID:              order.ID,
		ProductID:       order.ProductID,
		Quantity:        order.Quantity,
		UnitPriceCents:  order.UnitPriceCents,
		TotalPriceCents: order.TotalPriceCents,
		Product:         product,
	}
}
