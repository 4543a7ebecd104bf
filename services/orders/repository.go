package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository define a interface para operações de banco de dados de pedidos
type Repository interface {
	// CreateOrder cria um novo pedido no banco de dados
	CreateOrder(ctx context.Context, order *Order) error

	// GetOrder busca um pedido pelo ID
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// UpdateOrder persiste o pedido mutado, checando a versão lida
	// (concorrência otimista). Retorna ErrConflict se a linha mudou desde a
	// leitura.
	UpdateOrder(ctx context.Context, order *Order) error

	// DeleteOrder remove o pedido
	DeleteOrder(ctx context.Context, orderID string) error

	// ListOrders lista todos os pedidos
	ListOrders(ctx context.Context) ([]Order, error)
}

// OrderRepository implementa Repository usando PostgreSQL
type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository cria uma nova instância de OrderRepository
func NewOrderRepository(db *pgxpool.Pool) Repository {
	return &OrderRepository{
		db: db,
	}
}

// CreateOrder cria um novo pedido no banco de dados
func (r *OrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, product_id, quantity, unit_price_cents, total_price_cents, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.ID, order.ProductID, order.Quantity, order.UnitPriceCents, order.TotalPriceCents,
		order.Version, order.CreatedAt, order.UpdatedAt)
	return err
}

// GetOrder busca um pedido pelo ID
func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	err := r.db.QueryRow(ctx, `
		SELECT id, product_id, quantity, unit_price_cents, total_price_cents, version, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&order.ID, &order.ProductID, &order.Quantity, &order.UnitPriceCents,
		&order.TotalPriceCents, &order.Version, &order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateOrder persiste o pedido com checagem de versão. RowsAffected == 0
// significa linha inexistente ou versão desatualizada; a existência é
// re-checada para distinguir ErrOrderNotFound de ErrConflict.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order *Order) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET quantity = $1, total_price_cents = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
	`, order.Quantity, order.TotalPriceCents, order.ID, order.Version)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", order.ID).Scan(&exists); err != nil {
			return fmt.Errorf("checking order existence after stale update: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrConflict
	}

	order.Version++
	return nil
}

// DeleteOrder remove o pedido
func (r *OrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListOrders lista todos os pedidos
func (r *OrderRepository) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, quantity, unit_price_cents, total_price_cents, version, created_at, updated_at
		FROM orders ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.ProductID, &order.Quantity, &order.UnitPriceCents,
			&order.TotalPriceCents, &order.Version, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
