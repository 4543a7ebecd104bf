package main

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReconciliationDebt registra uma inconsistência entre o pedido local e o
// estoque remoto que uma compensação não conseguiu resolver. O débito nunca é
// devolvido ao caller; ele fica registrado com detalhe suficiente para o
// replay manual.
type ReconciliationDebt struct {
	ID            string
	OrderID       string
	ProductID     string
	QuantityDelta int
	Step          string
	Cause         error
	OccurredAt    time.Time
}

// DebtRecorder abstrai o destino dos débitos de reconciliação
type DebtRecorder interface {
	Record(ctx context.Context, debt ReconciliationDebt)
}

// LogDebtRecorder registra débitos no log e em um contador OpenTelemetry
type LogDebtRecorder struct {
	counter metric.Int64Counter
}

// NewLogDebtRecorder cria uma nova instância de LogDebtRecorder
func NewLogDebtRecorder() *LogDebtRecorder {
	meter := otel.Meter("orders-service")
	counter, err := meter.Int64Counter(
		"reconciliation_debt_total",
		metric.WithDescription("Compensations or follow-up inventory calls that failed after a local commit/rollback"),
	)
	if err != nil {
		log.Printf("❌ Failed to create reconciliation debt counter: %v", err)
	}

	return &LogDebtRecorder{counter: counter}
}

// Record registra o débito. Nunca falha e nunca bloqueia o workflow.
func (r *LogDebtRecorder) Record(ctx context.Context, debt ReconciliationDebt) {
	log.Printf("⚠️ [RECONCILIATION DEBT] ID=%s | OrderID=%s | ProductID=%s | Delta=%d | Step=%s | Cause=%v",
		debt.ID, debt.OrderID, debt.ProductID, debt.QuantityDelta, debt.Step, debt.Cause)

	if r.counter != nil {
		r.counter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("step", debt.Step),
		))
	}
}
