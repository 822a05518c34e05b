package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage uses; tests substitute a
// pgxmock pool through it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

// newPgxPool is swapped out in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// NewWithPool wraps an existing pool without schema initialization.
func NewWithPool(pool Pool, logger *slog.Logger) *Storage {
	return &Storage{pool: pool, logger: logger}
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Orders returns the order repository bound to this storage.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            ref TEXT UNIQUE NOT NULL,
            payment_status TEXT NOT NULL,
            fulfillment_status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            gateway_order_ref TEXT NOT NULL DEFAULT '',
            payment_ref TEXT NOT NULL DEFAULT '',
            shipment_ref TEXT NOT NULL DEFAULT '',
            awb_code TEXT NOT NULL DEFAULT '',
            courier_name TEXT NOT NULL DEFAULT '',
            tracking_url TEXT NOT NULL DEFAULT '',
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            customer_email TEXT NOT NULL DEFAULT '',
            address_line TEXT NOT NULL,
            city TEXT NOT NULL,
            state TEXT NOT NULL,
            pincode TEXT NOT NULL,
            landmark TEXT NOT NULL DEFAULT '',
            subtotal DOUBLE PRECISION NOT NULL,
            shipping_cost DOUBLE PRECISION NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            customer_note TEXT NOT NULL DEFAULT '',
            delivered_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_ref TEXT NOT NULL REFERENCES orders(ref),
            product_id BIGINT NOT NULL,
            product_name TEXT NOT NULL,
            size TEXT NOT NULL DEFAULT '',
            unit TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            total DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_history (
            id BIGSERIAL PRIMARY KEY,
            order_ref TEXT NOT NULL REFERENCES orders(ref),
            actor TEXT NOT NULL,
            from_state TEXT NOT NULL,
            to_state TEXT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_fulfillment ON orders(fulfillment_status, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_order_history_ref ON order_history(order_ref, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, ref, payment_status, fulfillment_status, payment_method,
                      gateway_order_ref, payment_ref, shipment_ref, awb_code, courier_name, tracking_url,
                      customer_name, customer_phone, customer_email, address_line, city, state, pincode, landmark,
                      subtotal, shipping_cost, total, customer_note, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.Ref, &o.PaymentStatus, &o.FulfillmentStatus, &o.PaymentMethod,
		&o.GatewayOrderRef, &o.PaymentRef, &o.ShipmentRef, &o.AWBCode, &o.CourierName, &o.TrackingURL,
		&o.Address.Name, &o.Address.Phone, &o.Address.Email, &o.Address.Line, &o.Address.City, &o.Address.State, &o.Address.Pincode, &o.Address.Landmark,
		&o.Subtotal, &o.ShippingCost, &o.Total, &o.CustomerNote, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, entry model.HistoryEntry) (*model.Order, error) {
	const insertOrder = `INSERT INTO orders (
            ref, payment_status, fulfillment_status, payment_method,
            gateway_order_ref, payment_ref, shipment_ref, awb_code, courier_name, tracking_url,
            customer_name, customer_phone, customer_email, address_line, city, state, pincode, landmark,
            subtotal, shipping_cost, total, customer_note)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
        RETURNING id, created_at, updated_at`
	const insertItem = `INSERT INTO order_items (order_ref, product_id, product_name, size, unit, quantity, price, total)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	created := *order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrder,
			order.Ref, order.PaymentStatus, order.FulfillmentStatus, order.PaymentMethod,
			order.GatewayOrderRef, order.PaymentRef, order.ShipmentRef, order.AWBCode, order.CourierName, order.TrackingURL,
			order.Address.Name, order.Address.Phone, order.Address.Email, order.Address.Line, order.Address.City, order.Address.State, order.Address.Pincode, order.Address.Landmark,
			order.Subtotal, order.ShippingCost, order.Total, order.CustomerNote,
		).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.Ref, item.ProductID, item.ProductName, item.Size, item.Unit, item.Quantity, item.Price, item.Total); err != nil {
				return err
			}
		}

		return insertHistory(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByRef(ctx context.Context, ref string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ref=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT id, product_id, product_name, size, unit, quantity, price, total
                        FROM order_items WHERE order_ref=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, itemsQuery, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Size, &item.Unit, &item.Quantity, &item.Price, &item.Total); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) History(ctx context.Context, ref string) ([]model.HistoryEntry, error) {
	const query = `SELECT id, order_ref, actor, from_state, to_state, note, created_at
                   FROM order_history WHERE order_ref=$1 ORDER BY created_at, id`
	rows, err := r.storage.pool.Query(ctx, query, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderRef, &e.Actor, &e.FromState, &e.ToState, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) SelectShipmentPending(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE fulfillment_status IN ('confirmed', 'processing') AND shipment_ref=''
              ORDER BY updated_at
              LIMIT $1
              FOR UPDATE SKIP LOCKED`
	return r.selectBatch(ctx, query, limit)
}

func (r *orderRepository) SelectForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE fulfillment_status IN ('processing', 'shipped') AND shipment_ref<>''
              ORDER BY updated_at
              LIMIT $1
              FOR UPDATE SKIP LOCKED`
	return r.selectBatch(ctx, query, limit)
}

func (r *orderRepository) selectBatch(ctx context.Context, query string, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ApplyTransition(ctx context.Context, ref string, update repository.StatusUpdate, entries []model.HistoryEntry) error {
	const updateQuery = `UPDATE orders SET
            payment_status=$1,
            fulfillment_status=$2,
            gateway_order_ref=COALESCE($3, gateway_order_ref),
            payment_ref=COALESCE($4, payment_ref),
            shipment_ref=COALESCE($5, shipment_ref),
            awb_code=COALESCE($6, awb_code),
            courier_name=COALESCE($7, courier_name),
            tracking_url=COALESCE($8, tracking_url),
            delivered_at=COALESCE($9, delivered_at),
            updated_at=NOW()
        WHERE ref=$10`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateQuery,
			update.PaymentStatus, update.FulfillmentStatus,
			update.GatewayOrderRef, update.PaymentRef, update.ShipmentRef,
			update.AWBCode, update.CourierName, update.TrackingURL,
			update.DeliveredAt, ref,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}

		for _, entry := range entries {
			if err := insertHistory(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertHistory(ctx context.Context, tx pgx.Tx, entry model.HistoryEntry) error {
	const query = `INSERT INTO order_history (order_ref, actor, from_state, to_state, note, created_at)
                   VALUES ($1,$2,$3,$4,$5,$6)`
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := tx.Exec(ctx, query, entry.OrderRef, entry.Actor, entry.FromState, entry.ToState, entry.Note, createdAt)
	return err
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
