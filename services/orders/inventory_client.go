package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// StockLevel é o resultado de uma operação de estoque aplicada com sucesso
// pelo serviço de produtos.
type StockLevel struct {
	ProductID      string `json:"product_id"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CurrentStock   int    `json:"current_stock"`
}

// ProductInfo são os dados do produto retornados pelo serviço de produtos
type ProductInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	CurrentStock int    `json:"current_stock"`
}

// InventoryClient abstrai as chamadas remotas ao serviço de produtos. Cada
// operação é um único round trip sem retry; a política de retry é do
// coordenador.
type InventoryClient interface {
	Reserve(ctx context.Context, productID string, quantity int) (*StockLevel, error)
	Release(ctx context.Context, productID string, quantity int) (*StockLevel, error)
	Adjust(ctx context.Context, productID string, delta int) (*StockLevel, error)
	FetchProduct(ctx context.Context, productID string) (*ProductInfo, error)
	FetchProducts(ctx context.Context, productIDs []string) (map[string]*ProductInfo, error)
}

// HTTPInventoryClient implementa InventoryClient usando resty
type HTTPInventoryClient struct {
	client *resty.Client
}

// NewInventoryClient cria o client com base URL e timeout explícitos, em vez
// de resolver qualquer coisa de estado global.
func NewInventoryClient(baseURL string, timeout time.Duration) *HTTPInventoryClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &HTTPInventoryClient{client: client}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type deltaRequest struct {
	Delta int `json:"delta"`
}

// Reserve consome estoque do produto (delta negativo no lado remoto)
func (c *HTTPInventoryClient) Reserve(ctx context.Context, productID string, quantity int) (*StockLevel, error) {
	return c.stockCall(ctx, fmt.Sprintf("/api/products/%s/reserve", productID), quantityRequest{Quantity: quantity})
}

// Release devolve estoque ao produto
func (c *HTTPInventoryClient) Release(ctx context.Context, productID string, quantity int) (*StockLevel, error) {
	return c.stockCall(ctx, fmt.Sprintf("/api/products/%s/release", productID), quantityRequest{Quantity: quantity})
}

// Adjust aplica um delta com sinal: negativo reserva mais, positivo devolve.
// A checagem de insuficiência é do lado remoto; o client não guarda estado.
func (c *HTTPInventoryClient) Adjust(ctx context.Context, productID string, delta int) (*StockLevel, error) {
	return c.stockCall(ctx, fmt.Sprintf("/api/products/%s/adjust", productID), deltaRequest{Delta: delta})
}

func (c *HTTPInventoryClient) stockCall(ctx context.Context, path string, body interface{}) (*StockLevel, error) {
	var level StockLevel

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&level).
		Put(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &level, nil
	case http.StatusNotFound:
		return nil, ErrProductNotFound
	case http.StatusConflict:
		return nil, ErrInsufficientStock
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode())
	}
}

// FetchProduct busca os dados de um produto
func (c *HTTPInventoryClient) FetchProduct(ctx context.Context, productID string) (*ProductInfo, error) {
	var product ProductInfo

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("/api/products/%s", productID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &product, nil
	case http.StatusNotFound:
		return nil, ErrProductNotFound
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode())
	}
}

// FetchProducts busca vários produtos em uma única chamada, indexados por id.
// Ids desconhecidos simplesmente não aparecem no mapa.
func (c *HTTPInventoryClient) FetchProducts(ctx context.Context, productIDs []string) (map[string]*ProductInfo, error) {
	if len(productIDs) == 0 {
		return map[string]*ProductInfo{}, nil
	}

	var products []ProductInfo

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(productIDs, ",")).
		SetResult(&products).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode())
	}

	byID := make(map[string]*ProductInfo, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
