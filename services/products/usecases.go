package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// ProductUseCase contém a lógica de negócio de produtos e estoque
type ProductUseCase struct {
	repository ProductRepository
}

// NewProductUseCase cria uma nova instância de ProductUseCase
func NewProductUseCase(repository ProductRepository) *ProductUseCase {
	return &ProductUseCase{
		repository: repository,
	}
}

// CreateProduct cria um novo produto
func (uc *ProductUseCase) CreateProduct(ctx context.Context, name string, priceCents int64, initialStock int) (*Product, error) {
	product := NewProduct(uuid.New().String(), name, priceCents, initialStock)

	if err := uc.repository.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Printf("✅ [CREATE PRODUCT] ProductID: %s | Stock: %d", product.ID, product.CurrentStock)
	return product, nil
}

// GetProduct busca um produto pelo ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, productID string) (*Product, error) {
	return uc.repository.GetProduct(ctx, productID)
}

// GetProducts busca vários produtos pelo ID
func (uc *ProductUseCase) GetProducts(ctx context.Context, productIDs []string) ([]Product, error) {
	return uc.repository.GetProducts(ctx, productIDs)
}

// ListProducts lista todos os produtos
func (uc *ProductUseCase) ListProducts(ctx context.Context) ([]Product, error) {
	return uc.repository.ListProducts(ctx)
}

// UpdateProduct atualiza nome e preço de um produto
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, productID, name string, priceCents int64) (*Product, error) {
	product, err := uc.repository.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Name = name
	product.PriceCents = priceCents

	if err := uc.repository.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct remove um produto
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, productID string) error {
	return uc.repository.DeleteProduct(ctx, productID)
}

// Reserve consome estoque do produto
func (uc *ProductUseCase) Reserve(ctx context.Context, productID string, quantity int) (*Product, error) {
	log.Printf("➡️ [RESERVE] ProductID: %s | Quantity: %d", productID, quantity)
	return uc.changeStock(ctx, productID, -quantity, MovementTypeReserved)
}

// Release devolve estoque ao produto
func (uc *ProductUseCase) Release(ctx context.Context, productID string, quantity int) (*Product, error) {
	log.Printf("↩️ [RELEASE] ProductID: %s | Quantity: %d", productID, quantity)
	return uc.changeStock(ctx, productID, quantity, MovementTypeReleased)
}

// Adjust aplica um delta com sinal ao estoque
func (uc *ProductUseCase) Adjust(ctx context.Context, productID string, delta int) (*Product, error) {
	log.Printf("➡️ [ADJUST] ProductID: %s | Delta: %d", productID, delta)
	return uc.changeStock(ctx, productID, delta, MovementTypeAdjusted)
}

// changeStock aplica o delta dentro de uma transação com lock pessimista
// (SELECT FOR UPDATE), registrando o movimento na mesma transação. A linha
// fica bloqueada até o Commit ou Rollback, então não há corrida entre a
// checagem de insuficiência e o update.
func (uc *ProductUseCase) changeStock(ctx context.Context, productID string, delta int, movementType string) (*Product, error) {
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	product, err := uc.repository.GetProductForUpdate(ctx, tx, productID)
	if err != nil {
		log.Printf("❌ [STOCK] GetProductForUpdate failed | ProductID=%s | Error=%v", productID, err)
		return nil, err
	}

	if err := product.ApplyStockChange(delta); err != nil {
		log.Printf("❌ [STOCK] Rejected | ProductID=%s | Delta=%d | Stock=%d", productID, delta, product.CurrentStock)
		return nil, err
	}

	movement := NewStockMovement(uuid.New().String(), productID, delta, movementType)
	if err := uc.repository.SaveStockChange(ctx, tx, product, movement); err != nil {
		log.Printf("❌ [STOCK] Save failed | ProductID=%s | Error=%v", productID, err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock change: %w", err)
	}

	log.Printf("✅ [STOCK] %s | ProductID=%s | Delta=%d | Stock=%d", movementType, productID, delta, product.CurrentStock)
	return product, nil
}
