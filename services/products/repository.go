package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProductNotFound indica que o produto não existe
var ErrProductNotFound = errors.New("product not found")

// ProductRepository define a interface para operações de banco de dados de produtos
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, productID string) (*Product, error)
	GetProducts(ctx context.Context, productIDs []string) ([]Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, productID string) error

	BeginTx(ctx context.Context) (Tx, error)
	// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE)
	GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error)
	// SaveStockChange persiste o novo estoque e o movimento na mesma transação
	SaveStockChange(ctx context.Context, tx Tx, product *Product, movement *StockMovement) error
}

// Tx interface para transações
type Tx interface {
	Commit() error
	Rollback() error
}

// PostgresTx implementa a interface Tx
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit() error {
	return t.tx.Commit(context.Background())
}

func (t *PostgresTx) Rollback() error {
	return t.tx.Rollback(context.Background())
}

// PostgresProductRepository implementa ProductRepository usando PostgreSQL
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository cria uma nova instância de PostgresProductRepository
func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &PostgresProductRepository{
		db: db,
	}
}

const productColumns = "id, name, price_cents, current_stock, version, created_at, updated_at"

// CreateProduct cria um novo produto
func (r *PostgresProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, price_cents, current_stock, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, product.ID, product.Name, product.PriceCents, product.CurrentStock,
		product.Version, product.CreatedAt, product.UpdatedAt)
	return err
}

// GetProduct busca um produto pelo ID
func (r *PostgresProductRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	err := r.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", productID,
	).Scan(&product.ID, &product.Name, &product.PriceCents, &product.CurrentStock,
		&product.Version, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProducts busca vários produtos pelo ID em uma única query
func (r *PostgresProductRepository) GetProducts(ctx context.Context, productIDs []string) ([]Product, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ANY($1)", productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListProducts lista todos os produtos
func (r *PostgresProductRepository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Name, &product.PriceCents, &product.CurrentStock,
			&product.Version, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// UpdateProduct atualiza nome e preço do produto
func (r *PostgresProductRepository) UpdateProduct(ctx context.Context, product *Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $1, price_cents = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3
	`, product.Name, product.PriceCents, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct remove um produto
func (r *PostgresProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// BeginTx inicia uma nova transação
func (r *PostgresProductRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PostgresTx{tx: tx}, nil
}

// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE)
func (r *PostgresProductRepository) GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error) {
	pgTx := tx.(*PostgresTx).tx

	var product Product
	err := pgTx.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", productID,
	).Scan(&product.ID, &product.Name, &product.PriceCents, &product.CurrentStock,
		&product.Version, &product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product with lock: %w", err)
	}

	return &product, nil
}

// SaveStockChange persiste o estoque atualizado e o registro de movimentação
// dentro da transação com lock.
func (r *PostgresProductRepository) SaveStockChange(ctx context.Context, tx Tx, product *Product, movement *StockMovement) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		UPDATE products
		SET current_stock = $1, version = $2, updated_at = $3
		WHERE id = $4
	`, product.CurrentStock, product.Version, product.UpdatedAt, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	_, err = pgTx.Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, change_quantity, movement_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, movement.ID, movement.ProductID, movement.ChangeQuantity, movement.MovementType, movement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert movement record: %w", err)
	}

	return nil
}
