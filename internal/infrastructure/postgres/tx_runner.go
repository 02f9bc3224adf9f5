package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-pedidos/internal/application/inventory"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool. maxRetries acota los reintentos ante 40001/40P01.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log *logger.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si la base aborta por serialización o deadlock, repite la unidad de trabajo completa.
func (r *TxRunner) Run(ctx context.Context, fn func(s *inventory.Scope) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("conflicto de transacción, reintentando")
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(s *inventory.Scope) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	scope := inventory.NewScope(
		NewProductRepository(tx),
		NewStockRepository(tx),
		NewStockMovementRepository(tx),
		NewOrderRepository(tx),
		NewClientRepository(tx),
	)
	if err := fn(scope); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
