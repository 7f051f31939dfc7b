package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

var tracer = otel.Tracer("stock-ledger/postgres")

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxOptions nivel de aislamiento y timeout por sentencia de cada transacción.
type TxOptions struct {
	IsoLevel         pgx.TxIsoLevel
	StatementTimeout time.Duration
}

// TxOptionsFromConfig traduce DB_TX_ISOLATION y DB_STATEMENT_TIMEOUT_SECONDS.
func TxOptionsFromConfig(cfg config.DBConfig) TxOptions {
	iso := pgx.ReadCommitted
	switch cfg.TxIsolation {
	case "repeatable_read":
		iso = pgx.RepeatableRead
	case "serializable":
		iso = pgx.Serializable
	}
	return TxOptions{IsoLevel: iso, StatementTimeout: cfg.StatementTimeout}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions) *TxRunner {
	return &TxRunner{pool: pool, opts: opts}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	ctx, span := tracer.Start(ctx, "ledger.transaction",
		trace.WithAttributes(attribute.String("db.tx.isolation", string(r.opts.IsoLevel))))
	defer span.End()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.opts.IsoLevel})
	if err != nil {
		span.SetStatus(codes.Error, "begin")
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback tras Commit es no-op; con contexto propio para completar aunque ctx se cancele.
	defer func() { _ = tx.Rollback(context.Background()) }()

	if r.opts.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", r.opts.StatementTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			span.SetStatus(codes.Error, "statement_timeout")
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(ctx, ReposFor(tx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rollback")
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		span.SetStatus(codes.Error, "commit")
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ReposFor construye los repositorios sobre un pool o una tx.
func ReposFor(q Querier) inventory.Repos {
	return inventory.Repos{
		Products:      NewProductRepository(q),
		Locations:     NewLocationRepository(q),
		Movements:     NewMovementRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}
