package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS payments",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_supplier ON orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_payments_order ON payments").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func orderColumns() []string {
	return []string{
		"id", "customer_id", "supplier_id", "subtotal", "tax", "shipping_cost", "total",
		"shipping_full_name", "shipping_email", "shipping_phone", "shipping_address", "shipping_city", "shipping_region",
		"status", "created_at", "updated_at",
	}
}

func sampleOrderRow(rows *pgxmockv3.Rows, id int64, status model.OrderStatus, now time.Time) *pgxmockv3.Rows {
	return rows.AddRow(
		id, int64(3), int64(7),
		decimal.NewFromInt(250), decimal.RequireFromString("37.5"), decimal.NewFromInt(20), decimal.RequireFromString("307.5"),
		"Abebe Kebede", "abebe@example.com", "+251911000000", "Bole Road 12", "Addis Ababa", "Addis Ababa",
		status, now, now,
	)
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("parse error", func(t *testing.T) {
		if _, err := New(context.Background(), ":://bad", logger); err == nil {
			t.Fatal("expected error for malformed dsn")
		}
	})

	t.Run("connect error", func(t *testing.T) {
		original := newPgxPool
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) {
			return nil, errors.New("refused")
		}
		defer func() { newPgxPool = original }()

		if _, err := New(context.Background(), "postgres://localhost/commerce", logger); err == nil {
			t.Fatal("expected connect error")
		}
	})

	t.Run("schema error closes pool", func(t *testing.T) {
		mock, err := pgxmockv3.NewPool()
		if err != nil {
			t.Fatalf("mock pool: %v", err)
		}
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS products").WillReturnError(errors.New("boom"))
		mock.ExpectClose()

		original := newPgxPool
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) {
			return mock, nil
		}
		defer func() { newPgxPool = original }()

		if _, err := New(context.Background(), "postgres://localhost/commerce", logger); err == nil {
			t.Fatal("expected schema error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmockv3.NewPool()
		if err != nil {
			t.Fatalf("mock pool: %v", err)
		}
		expectSchema(mock)

		original := newPgxPool
		newPgxPool = func(context.Context, *pgxpool.Config) (pgxPool, error) {
			return mock, nil
		}
		defer func() { newPgxPool = original }()

		storage, err := New(context.Background(), "postgres://localhost/commerce", logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if storage == nil {
			t.Fatal("expected storage")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestRepositoryFactories(t *testing.T) {
	storage, _ := newMockStorage(t)
	if storage.Products() == nil || storage.Orders() == nil || storage.Payments() == nil {
		t.Fatal("factories must return repositories")
	}
	if storage.Logger() == nil {
		t.Fatal("logger must be set")
	}
}

func TestWithinTransaction(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		if err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rollback on error", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		wantErr := errors.New("inner")
		if err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error { return wantErr }); !errors.Is(err, wantErr) {
			t.Fatalf("expected inner error, got %v", err)
		}
	})

	t.Run("commit error", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit fail"))
		if err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error { return nil }); err == nil {
			t.Fatal("expected commit error")
		}
	})

	t.Run("begin error", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectBegin().WillReturnError(errors.New("begin fail"))
		if err := storage.WithinTransaction(context.Background(), func(pgx.Tx) error { return nil }); err == nil {
			t.Fatal("expected begin error")
		}
	})
}

func TestProductRepositoryGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Products()

	mock.ExpectQuery("SELECT id, supplier_id, name, price, stock FROM products WHERE id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "supplier_id", "name", "price", "stock"}).
			AddRow(int64(1), int64(7), "Cement 50kg", decimal.NewFromInt(100), int32(50)))

	product, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.SupplierID != 7 || !product.Price.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected product %+v", product)
	}

	mock.ExpectQuery("SELECT id, supplier_id, name, price, stock FROM products WHERE id=").WithArgs(int64(2)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 2); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, supplier_id, name, price, stock FROM products WHERE id=").WithArgs(int64(3)).WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}
}

func sampleNewOrder() *model.Order {
	return &model.Order{
		CustomerID:   3,
		SupplierID:   7,
		Subtotal:     decimal.NewFromInt(250),
		Tax:          decimal.RequireFromString("37.5"),
		ShippingCost: decimal.NewFromInt(20),
		Total:        decimal.RequireFromString("307.5"),
		Shipping: model.ShippingInfo{
			FullName: "Abebe Kebede",
			Email:    "abebe@example.com",
			Phone:    "+251911000000",
			Address:  "Bole Road 12",
			City:     "Addis Ababa",
			Region:   "Addis Ababa",
			Cost:     decimal.NewFromInt(20),
		},
		Status: model.OrderStatusPending,
		Items: []model.OrderItem{
			{ProductID: 1, SupplierID: 7, Quantity: 2, UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(200)},
			{ProductID: 2, SupplierID: 7, Quantity: 1, UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(50)},
		},
	}
}

func orderInsertArgs() []any {
	return []any{
		int64(3), int64(7),
		decimal.NewFromInt(250), decimal.RequireFromString("37.5"), decimal.NewFromInt(20), decimal.RequireFromString("307.5"),
		"Abebe Kebede", "abebe@example.com", "+251911000000", "Bole Road 12", "Addis Ababa", "Addis Ababa",
		model.OrderStatusPending,
	}
}

func TestOrderRepositoryCreate(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()
		order := sampleNewOrder()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(2), int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(1), int64(2)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO orders").WithArgs(orderInsertArgs()...).WillReturnRows(
			pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(int64(10), int64(1), int64(7), int32(2), decimal.NewFromInt(100), decimal.NewFromInt(200)).
			WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(int64(10), int64(2), int64(7), int32(1), decimal.NewFromInt(50), decimal.NewFromInt(50)).
			WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(101)))
		mock.ExpectCommit()

		created, err := repo.Create(context.Background(), order)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != 10 {
			t.Fatalf("order id = %d, want 10", created.ID)
		}
		if created.Items[0].ID != 100 || created.Items[0].OrderID != 10 {
			t.Fatalf("unexpected first item %+v", created.Items[0])
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("insufficient stock rolls back", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()
		order := sampleNewOrder()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(2), int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(1), int64(2)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		if _, err := repo.Create(context.Background(), order); !errors.Is(err, domainErrors.ErrInsufficientStock) {
			t.Fatalf("expected insufficient stock, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("reserve error rolls back", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(2), int64(1)).WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		if _, err := repo.Create(context.Background(), sampleNewOrder()); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(2), int64(1)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectExec("UPDATE products SET stock").WithArgs(int32(1), int64(2)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO orders").WithArgs(orderInsertArgs()...).WillReturnError(errors.New("insert"))
		mock.ExpectRollback()

		if _, err := repo.Create(context.Background(), sampleNewOrder()); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestOrderRepositoryGetByID(t *testing.T) {
	now := time.Now()
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectQuery("SELECT id, customer_id, supplier_id").WithArgs(int64(10)).WillReturnRows(
		sampleOrderRow(pgxmockv3.NewRows(orderColumns()), 10, model.OrderStatusPending, now))
	mock.ExpectQuery("SELECT id, order_id, product_id").WithArgs([]int64{10}).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "order_id", "product_id", "supplier_id", "quantity", "unit_price", "line_total"}).
			AddRow(int64(100), int64(10), int64(1), int64(7), int32(2), decimal.NewFromInt(100), decimal.NewFromInt(200)))

	order, err := repo.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPending || len(order.Items) != 1 {
		t.Fatalf("unexpected order %+v", order)
	}
	if !order.Shipping.Cost.Equal(order.ShippingCost) {
		t.Fatal("shipping cost must be mirrored into the snapshot")
	}

	mock.ExpectQuery("SELECT id, customer_id, supplier_id").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderRepositoryLists(t *testing.T) {
	now := time.Now()
	storage, mock := newMockStorage(t)
	repo := storage.Orders()

	mock.ExpectQuery("SELECT id, customer_id, supplier_id").WithArgs(int64(3)).WillReturnRows(
		sampleOrderRow(sampleOrderRow(pgxmockv3.NewRows(orderColumns()), 10, model.OrderStatusPending, now), 11, model.OrderStatusPaid, now))
	mock.ExpectQuery("SELECT id, order_id, product_id").WithArgs([]int64{10, 11}).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "order_id", "product_id", "supplier_id", "quantity", "unit_price", "line_total"}).
			AddRow(int64(100), int64(10), int64(1), int64(7), int32(2), decimal.NewFromInt(100), decimal.NewFromInt(200)).
			AddRow(int64(101), int64(11), int64(2), int64(7), int32(1), decimal.NewFromInt(50), decimal.NewFromInt(50)))

	orders, err := repo.ListByCustomer(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].OrderID != 10 {
		t.Fatalf("items not attached: %+v", orders[0].Items)
	}

	mock.ExpectQuery("SELECT id, customer_id, supplier_id").WithArgs(int64(7)).WillReturnRows(pgxmockv3.NewRows(orderColumns()))
	orders, err = repo.ListBySupplier(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty listing, got %d", len(orders))
	}
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(model.OrderStatusApproved, int64(10), model.OrderStatusPending).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		if err := repo.UpdateStatus(context.Background(), 10, model.OrderStatusPending, model.OrderStatusApproved); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("pending cancel restocks", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(model.OrderStatusCancelled, int64(10), model.OrderStatusPending).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectExec("UPDATE products p SET stock").WithArgs(int64(10)).WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))
		mock.ExpectCommit()

		if err := repo.UpdateStatus(context.Background(), 10, model.OrderStatusPending, model.OrderStatusCancelled); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("non-pending cancel does not restock", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(model.OrderStatusShipped, int64(10), model.OrderStatusApproved).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		if err := repo.UpdateStatus(context.Background(), 10, model.OrderStatusApproved, model.OrderStatusShipped); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(model.OrderStatusApproved, int64(10), model.OrderStatusPending).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT status FROM orders WHERE id=").WithArgs(int64(10)).WillReturnRows(
			pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusCancelled))
		mock.ExpectRollback()

		if err := repo.UpdateStatus(context.Background(), 10, model.OrderStatusPending, model.OrderStatusApproved); !errors.Is(err, domainErrors.ErrStatusConflict) {
			t.Fatalf("expected status conflict, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Orders()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(model.OrderStatusApproved, int64(99), model.OrderStatusPending).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
		mock.ExpectQuery("SELECT status FROM orders WHERE id=").WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		if err := repo.UpdateStatus(context.Background(), 99, model.OrderStatusPending, model.OrderStatusApproved); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func paymentColumns() []string {
	return []string{"id", "order_id", "provider", "tx_ref", "status", "checkout_url", "payload", "created_at", "updated_at"}
}

func TestPaymentRepositoryCreateAndGet(t *testing.T) {
	now := time.Now()
	storage, mock := newMockStorage(t)
	repo := storage.Payments()

	payment := &model.Payment{
		OrderID:     10,
		Provider:    "chapa",
		TxRef:       "b2b_ref",
		Status:      model.PaymentStatusInitiated,
		CheckoutURL: "https://pay.example/session",
		Payload:     []byte(`{"status":"success"}`),
	}

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(int64(10), "chapa", "b2b_ref", model.PaymentStatusInitiated, "https://pay.example/session", payment.Payload).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	created, err := repo.Create(context.Background(), payment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("payment id = %d, want 5", created.ID)
	}

	mock.ExpectQuery("SELECT id, order_id, provider").WithArgs("b2b_ref").WillReturnRows(
		pgxmockv3.NewRows(paymentColumns()).
			AddRow(int64(5), int64(10), "chapa", "b2b_ref", model.PaymentStatusInitiated, "https://pay.example/session", payment.Payload, now, now))

	fetched, err := repo.GetByTxRef(context.Background(), "b2b_ref")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.OrderID != 10 || fetched.Status != model.PaymentStatusInitiated {
		t.Fatalf("unexpected payment %+v", fetched)
	}

	mock.ExpectQuery("SELECT id, order_id, provider").WithArgs("b2b_missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByTxRef(context.Background(), "b2b_missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPaymentRepositorySupersedeInitiated(t *testing.T) {
	storage, mock := newMockStorage(t)
	repo := storage.Payments()

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(model.PaymentStatusFailed, int64(10), model.PaymentStatusInitiated).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	if err := repo.SupersedeInitiated(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(model.PaymentStatusFailed, int64(11), model.PaymentStatusInitiated).
		WillReturnError(errors.New("boom"))
	if err := repo.SupersedeInitiated(context.Background(), 11); err == nil {
		t.Fatal("expected error")
	}
}

func TestPaymentRepositoryRecordOutcome(t *testing.T) {
	now := time.Now()
	raw := []byte(`{"status":"success","data":{"status":"success"}}`)

	t.Run("success advances order", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Payments()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, order_id, provider").WithArgs("b2b_ref").WillReturnRows(
			pgxmockv3.NewRows(paymentColumns()).
				AddRow(int64(5), int64(10), "chapa", "b2b_ref", model.PaymentStatusInitiated, "", []byte(nil), now, now))
		mock.ExpectExec("UPDATE payments SET status").
			WithArgs(model.PaymentStatusSuccess, raw, int64(5)).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(model.OrderStatusPaid, int64(10), model.OrderStatusPending).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		payment, applied, err := repo.RecordOutcome(context.Background(), model.PaymentVerification{TxRef: "b2b_ref", Succeeded: true, RawPayload: raw})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !applied {
			t.Fatal("expected outcome to be applied")
		}
		if payment.Status != model.PaymentStatusSuccess {
			t.Fatalf("payment status = %s, want success", payment.Status)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("failed verdict leaves order alone", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Payments()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, order_id, provider").WithArgs("b2b_ref").WillReturnRows(
			pgxmockv3.NewRows(paymentColumns()).
				AddRow(int64(5), int64(10), "chapa", "b2b_ref", model.PaymentStatusInitiated, "", []byte(nil), now, now))
		mock.ExpectExec("UPDATE payments SET status").
			WithArgs(model.PaymentStatusFailed, raw, int64(5)).
			WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		payment, applied, err := repo.RecordOutcome(context.Background(), model.PaymentVerification{TxRef: "b2b_ref", Succeeded: false, RawPayload: raw})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !applied || payment.Status != model.PaymentStatusFailed {
			t.Fatalf("unexpected result applied=%v status=%s", applied, payment.Status)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("replay is not reapplied", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Payments()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, order_id, provider").WithArgs("b2b_ref").WillReturnRows(
			pgxmockv3.NewRows(paymentColumns()).
				AddRow(int64(5), int64(10), "chapa", "b2b_ref", model.PaymentStatusSuccess, "", raw, now, now))
		mock.ExpectCommit()

		payment, applied, err := repo.RecordOutcome(context.Background(), model.PaymentVerification{TxRef: "b2b_ref", Succeeded: true, RawPayload: raw})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if applied {
			t.Fatal("replay must not be applied")
		}
		if payment.Status != model.PaymentStatusSuccess {
			t.Fatalf("stored status = %s, want success", payment.Status)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		repo := storage.Payments()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, order_id, provider").WithArgs("b2b_missing").WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		if _, _, err := repo.RecordOutcome(context.Background(), model.PaymentVerification{TxRef: "b2b_missing"}); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("down"))
	if err := storage.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStorageClose(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectClose()
	storage.Close()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
