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

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool used by the storage. Kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
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

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            supplier_id BIGINT NOT NULL,
            name TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            stock INTEGER NOT NULL CHECK (stock >= 0)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL,
            supplier_id BIGINT NOT NULL,
            subtotal NUMERIC(12,2) NOT NULL,
            tax NUMERIC(12,2) NOT NULL,
            shipping_cost NUMERIC(12,2) NOT NULL,
            total NUMERIC(12,2) NOT NULL,
            shipping_full_name TEXT NOT NULL,
            shipping_email TEXT NOT NULL,
            shipping_phone TEXT NOT NULL,
            shipping_address TEXT NOT NULL,
            shipping_city TEXT NOT NULL,
            shipping_region TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id),
            supplier_id BIGINT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            unit_price NUMERIC(12,2) NOT NULL,
            line_total NUMERIC(12,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            provider TEXT NOT NULL,
            tx_ref TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL,
            checkout_url TEXT NOT NULL DEFAULT '',
            payload JSONB,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_supplier ON orders(supplier_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- ProductRepository implementation ---

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, supplier_id, name, price, stock FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SupplierID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// --- OrderRepository implementation ---

// reserveStockTx decrements stock only when enough is available. The
// guard and the decrement are one statement, so concurrent checkouts for
// the same product serialize on the row and can never oversell.
func reserveStockTx(ctx context.Context, tx pgx.Tx, productID int64, quantity int32) error {
	const query = `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`
	tag, err := tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInsufficientStock
	}
	return nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, item := range order.Items {
			if err := reserveStockTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		const insertOrder = `INSERT INTO orders
            (customer_id, supplier_id, subtotal, tax, shipping_cost, total,
             shipping_full_name, shipping_email, shipping_phone, shipping_address, shipping_city, shipping_region,
             status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.CustomerID, order.SupplierID,
			order.Subtotal, order.Tax, order.ShippingCost, order.Total,
			order.Shipping.FullName, order.Shipping.Email, order.Shipping.Phone,
			order.Shipping.Address, order.Shipping.City, order.Shipping.Region,
			order.Status,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items
            (order_id, product_id, supplier_id, quantity, unit_price, line_total)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id`
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.QueryRow(ctx, insertItem,
				order.ID, item.ProductID, item.SupplierID,
				item.Quantity, item.UnitPrice, item.LineTotal,
			).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT id, customer_id, supplier_id, subtotal, tax, shipping_cost, total,
                          shipping_full_name, shipping_email, shipping_phone, shipping_address, shipping_city, shipping_region,
                          status, created_at, updated_at
                   FROM orders WHERE id=$1`
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.SupplierID, &o.Subtotal, &o.Tax, &o.ShippingCost, &o.Total,
		&o.Shipping.FullName, &o.Shipping.Email, &o.Shipping.Phone, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.Region,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	o.Shipping.Cost = o.ShippingCost

	items, err := r.storage.itemsForOrders(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	const query = `SELECT id, customer_id, supplier_id, subtotal, tax, shipping_cost, total,
                          shipping_full_name, shipping_email, shipping_phone, shipping_address, shipping_city, shipping_region,
                          status, created_at, updated_at
                   FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`
	return r.storage.listOrders(ctx, query, customerID)
}

func (r *orderRepository) ListBySupplier(ctx context.Context, supplierID int64) ([]model.Order, error) {
	const query = `SELECT id, customer_id, supplier_id, subtotal, tax, shipping_cost, total,
                          shipping_full_name, shipping_email, shipping_phone, shipping_address, shipping_city, shipping_region,
                          status, created_at, updated_at
                   FROM orders WHERE supplier_id=$1 ORDER BY created_at DESC`
	return r.storage.listOrders(ctx, query, supplierID)
}

func (s *Storage) listOrders(ctx context.Context, query string, ownerID int64) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	var ids []int64
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.SupplierID, &o.Subtotal, &o.Tax, &o.ShippingCost, &o.Total,
			&o.Shipping.FullName, &o.Shipping.Email, &o.Shipping.Phone, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.Region,
			&o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		o.Shipping.Cost = o.ShippingCost
		result = append(result, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return result, nil
	}

	items, err := s.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (s *Storage) itemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, supplier_id, quantity, unit_price, line_total
                   FROM order_items WHERE order_id = ANY($1) ORDER BY id`
	rows, err := s.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]model.OrderItem)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SupplierID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updateQuery = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
		tag, err := tx.Exec(ctx, updateQuery, to, orderID, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var current model.OrderStatus
			err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			if err != nil {
				return err
			}
			return domainErrors.ErrStatusConflict
		}

		// A pending order is the reservation handle; cancelling it gives
		// the stock back in the same transaction.
		if from == model.OrderStatusPending && to == model.OrderStatusCancelled {
			const restock = `UPDATE products p SET stock = p.stock + i.quantity
                             FROM order_items i
                             WHERE i.order_id = $1 AND i.product_id = p.id`
			if _, err := tx.Exec(ctx, restock, orderID); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	const query = `INSERT INTO payments (order_id, provider, tx_ref, status, checkout_url, payload)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		payment.OrderID, payment.Provider, payment.TxRef, payment.Status, payment.CheckoutURL, payment.Payload,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) SupersedeInitiated(ctx context.Context, orderID int64) error {
	const query = `UPDATE payments SET status=$1, updated_at=NOW() WHERE order_id=$2 AND status=$3`
	_, err := r.storage.pool.Exec(ctx, query, model.PaymentStatusFailed, orderID, model.PaymentStatusInitiated)
	return err
}

func (r *paymentRepository) GetByTxRef(ctx context.Context, txRef string) (*model.Payment, error) {
	const query = `SELECT id, order_id, provider, tx_ref, status, checkout_url, payload, created_at, updated_at
                   FROM payments WHERE tx_ref=$1`
	var p model.Payment
	err := r.storage.pool.QueryRow(ctx, query, txRef).Scan(
		&p.ID, &p.OrderID, &p.Provider, &p.TxRef, &p.Status, &p.CheckoutURL, &p.Payload, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) RecordOutcome(ctx context.Context, verification model.PaymentVerification) (*model.Payment, bool, error) {
	var payment model.Payment
	applied := false

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Row lock serializes duplicate callbacks for the same tx ref.
		const selectQuery = `SELECT id, order_id, provider, tx_ref, status, checkout_url, payload, created_at, updated_at
                             FROM payments WHERE tx_ref=$1 FOR UPDATE`
		err := tx.QueryRow(ctx, selectQuery, verification.TxRef).Scan(
			&payment.ID, &payment.OrderID, &payment.Provider, &payment.TxRef,
			&payment.Status, &payment.CheckoutURL, &payment.Payload, &payment.CreatedAt, &payment.UpdatedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		if err != nil {
			return err
		}

		if payment.Status != model.PaymentStatusInitiated {
			return nil
		}

		status := model.PaymentStatusFailed
		if verification.Succeeded {
			status = model.PaymentStatusSuccess
		}

		const updatePayment = `UPDATE payments SET status=$1, payload=$2, updated_at=NOW() WHERE id=$3`
		if _, err := tx.Exec(ctx, updatePayment, status, verification.RawPayload, payment.ID); err != nil {
			return err
		}
		payment.Status = status
		payment.Payload = verification.RawPayload

		if verification.Succeeded {
			// Advance only while still pending; a cancelled order stays
			// cancelled even if the payment later verifies.
			const advanceOrder = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
			if _, err := tx.Exec(ctx, advanceOrder, model.OrderStatusPaid, payment.OrderID, model.OrderStatusPending); err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &payment, applied, nil
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
