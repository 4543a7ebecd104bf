package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// maxConflictRetries limita quantas vezes o update re-executa a partir da
// leitura quando o store reporta conflito de versão.
const maxConflictRetries = 3

// sagaStep guarda a compensação de um passo remoto já aplicado. Os passos são
// desfeitos em ordem reversa quando um passo posterior do mesmo workflow falha.
type sagaStep struct {
	name          string
	productID     string
	quantityDelta int
	compensate    func(ctx context.Context) error
}

// SagaCoordinator orquestra os workflows de pedido que precisam manter o
// pedido local e o estoque remoto consistentes. Invariante central: uma linha
// de pedido só existe no storage se o ajuste remoto correspondente já foi
// confirmado (write-after-confirm).
type SagaCoordinator struct {
	store     Repository
	inventory InventoryClient
	debts     DebtRecorder
}

// NewSagaCoordinator cria uma nova instância de SagaCoordinator
func NewSagaCoordinator(store Repository, inventory InventoryClient, debts DebtRecorder) *SagaCoordinator {
	return &SagaCoordinator{
		store:     store,
		inventory: inventory,
		debts:     debts,
	}
}

// CreateOrder reserva estoque, congela o preço unitário e persiste o pedido.
// Falha de persistência depois da reserva dispara exatamente uma compensação
// de release antes do erro subir.
func (sc *SagaCoordinator) CreateOrder(ctx context.Context, productID string, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	log.Printf("➡️ [CREATE ORDER] ProductID: %s | Quantity: %d", productID, quantity)

	level, err := sc.inventory.Reserve(ctx, productID, quantity)
	if err != nil {
		// Nada aplicado ainda; o caller pode re-tentar o workflow inteiro.
		log.Printf("❌ [CREATE ORDER] Reserve failed: %v", err)
		return nil, err
	}

	steps := []sagaStep{{
		name:          "release_reservation",
		productID:     productID,
		quantityDelta: quantity,
		compensate: func(ctx context.Context) error {
			_, err := sc.inventory.Release(ctx, productID, quantity)
			return err
		},
	}}

	order := NewOrder(uuid.New().String(), productID, quantity, level.UnitPriceCents)

	if err := sc.store.CreateOrder(ctx, order); err != nil {
		log.Printf("❌ [CREATE ORDER] Persist failed for OrderID=%s: %v", order.ID, err)
		sc.unwind(ctx, steps, order.ID)
		return nil, fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
	}

	log.Printf("✅ [CREATE ORDER] OrderID: %s | TotalPriceCents: %d", order.ID, order.TotalPriceCents)
	return order, nil
}

// UpdateOrderQuantity ajusta o estoque remoto pela diferença e persiste a nova
// quantidade com checagem de versão. Em conflito, o ajuste já aplicado é
// desfeito e o workflow re-executa a partir da leitura, até
// maxConflictRetries tentativas.
func (sc *SagaCoordinator) UpdateOrderQuantity(ctx context.Context, orderID string, newQuantity int) (*Order, error) {
	if newQuantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		order, err := sc.store.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}

		diff := newQuantity - order.Quantity
		if diff == 0 {
			// No-op idempotente: nenhuma chamada remota.
			return order, nil
		}

		log.Printf("➡️ [UPDATE ORDER] OrderID: %s | Quantity: %d -> %d (attempt %d)",
			orderID, order.Quantity, newQuantity, attempt)

		// Delta positivo no pedido = reservar mais = delta negativo no estoque.
		if _, err := sc.inventory.Adjust(ctx, order.ProductID, -diff); err != nil {
			log.Printf("❌ [UPDATE ORDER] Adjust failed for OrderID=%s: %v", orderID, err)
			return nil, err
		}

		steps := []sagaStep{{
			name:          "revert_adjustment",
			productID:     order.ProductID,
			quantityDelta: diff,
			compensate: func(ctx context.Context) error {
				_, err := sc.inventory.Adjust(ctx, order.ProductID, diff)
				return err
			},
		}}

		if err := order.ChangeQuantity(newQuantity); err != nil {
			sc.unwind(ctx, steps, orderID)
			return nil, err
		}

		if err := sc.store.UpdateOrder(ctx, order); err != nil {
			sc.unwind(ctx, steps, orderID)

			if errors.Is(err, ErrConflict) {
				log.Printf("ℹ️ [UPDATE ORDER] Version conflict for OrderID=%s, re-reading", orderID)
				continue
			}
			if errors.Is(err, ErrOrderNotFound) {
				return nil, ErrOrderNotFound
			}
			log.Printf("❌ [UPDATE ORDER] Persist failed for OrderID=%s: %v", orderID, err)
			return nil, fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
		}

		log.Printf("✅ [UPDATE ORDER] OrderID: %s | TotalPriceCents: %d", orderID, order.TotalPriceCents)
		return order, nil
	}

	log.Printf("❌ [UPDATE ORDER] Gave up after %d conflicts for OrderID=%s", maxConflictRetries, orderID)
	return nil, ErrConcurrentModification
}

// DeleteOrder devolve o estoque antes de destruir a linha. A ordem é
// deliberada: falhar o delete com o estoque já devolvido é recuperável
// re-tentando, enquanto perder a linha com o release falhado vazaria estoque
// para sempre. A quantidade devolvida vem sempre da linha persistida, nunca
// do caller.
func (sc *SagaCoordinator) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := sc.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	log.Printf("➡️ [DELETE ORDER] OrderID: %s | Releasing %d units of %s", orderID, order.Quantity, order.ProductID)

	if _, err := sc.inventory.Release(ctx, order.ProductID, order.Quantity); err != nil {
		// Linha intacta, nada a compensar.
		log.Printf("❌ [DELETE ORDER] Release failed for OrderID=%s: %v", orderID, err)
		return fmt.Errorf("%w: %v", ErrInventoryUpdateFailed, err)
	}

	if err := sc.store.DeleteOrder(ctx, orderID); err != nil {
		// Estoque já devolvido e a linha ainda existe: inconsistência registrada
		// como débito; o caller pode re-tentar o delete.
		sc.debts.Record(ctx, ReconciliationDebt{
			ID:            uuid.New().String(),
			OrderID:       orderID,
			ProductID:     order.ProductID,
			QuantityDelta: order.Quantity,
			Step:          "delete_order_row",
			Cause:         err,
			OccurredAt:    time.Now(),
		})
		return fmt.Errorf("%w: %v", ErrOrderPersistFailed, err)
	}

	log.Printf("✅ [DELETE ORDER] OrderID: %s", orderID)
	return nil
}

// unwind desfaz os passos aplicados em ordem reversa. Toda compensação é
// best-effort: uma falha vira débito de reconciliação, nunca um retry inline.
func (sc *SagaCoordinator) unwind(ctx context.Context, steps []sagaStep, orderID string) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		log.Printf("↩️ [COMPENSATE] %s | OrderID: %s", step.name, orderID)

		if err := step.compensate(ctx); err != nil {
			sc.debts.Record(ctx, ReconciliationDebt{
				ID:            uuid.New().String(),
				OrderID:       orderID,
				ProductID:     step.productID,
				QuantityDelta: step.quantityDelta,
				Step:          step.name,
				Cause:         err,
				OccurredAt:    time.Now(),
			})
		}
	}
}
