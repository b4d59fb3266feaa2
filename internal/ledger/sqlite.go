package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"

	"github.com/mattn/go-sqlite3"

	"spiceshop/internal/domain"
)

type sqliteRepo struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLite returns a Repository backed by the orders table. Appends run in
// a transaction and the primary key on order_id enforces write-once.
func NewSQLite(db *sql.DB, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &sqliteRepo{db: db, logger: logger}
}

const orderColumns = `order_id, payment_id, lines, delivery_paise, buyer_name, buyer_phone, buyer_email, buyer_address, total_paise, invoice_file, created_at`

func (r *sqliteRepo) Append(ctx context.Context, order domain.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("marshal order lines: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO orders (` + orderColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err = tx.ExecContext(ctx, q,
		order.GatewayOrderID,
		order.GatewayPaymentID,
		string(lines),
		order.DeliveryPaise,
		order.Buyer.Name,
		order.Buyer.Phone,
		order.Buyer.Email,
		order.Buyer.Address,
		order.TotalPaise,
		order.InvoiceFile,
		order.CreatedAt.UTC(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			r.logger.Printf("ledger: duplicate append rejected order_id=%s", order.GatewayOrderID)
			return domain.ErrDuplicateOrder
		}
		r.logger.Printf("ledger: append order_id=%s error=%v", order.GatewayOrderID, err)
		return fmt.Errorf("append order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	r.logger.Printf("ledger: appended order_id=%s total_paise=%d", order.GatewayOrderID, order.TotalPaise)
	return nil
}

func (r *sqliteRepo) FindByID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE order_id = ?`
	row := r.db.QueryRowContext(ctx, q, gatewayOrderID)
	order, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("ledger: find order_id=%s error=%v", gatewayOrderID, err)
		return nil, err
	}
	return order, nil
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Order, error) {
	var result []domain.Order
	for order, err := range r.Orders(ctx) {
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, nil
}

// Orders yields ledger records most-recent-first. Each range loop runs a
// fresh query, so the sequence is restartable and rows are decoded lazily.
func (r *sqliteRepo) Orders(ctx context.Context) iter.Seq2[domain.Order, error] {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, order_id DESC`
	return func(yield func(domain.Order, error) bool) {
		rows, err := r.db.QueryContext(ctx, q)
		if err != nil {
			r.logger.Printf("ledger: list error=%v", err)
			yield(domain.Order{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows.Scan)
			if err != nil {
				yield(domain.Order{}, err)
				return
			}
			if !yield(*order, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			r.logger.Printf("ledger: list rows error=%v", err)
			yield(domain.Order{}, err)
		}
	}
}

func (r *sqliteRepo) Aggregate(ctx context.Context) (domain.LedgerStats, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(total_paise), 0) FROM orders`
	var stats domain.LedgerStats
	if err := r.db.QueryRowContext(ctx, q).Scan(&stats.Count, &stats.RevenuePaise); err != nil {
		r.logger.Printf("ledger: aggregate error=%v", err)
		return domain.LedgerStats{}, err
	}
	return stats, nil
}

func scanOrder(scan func(dest ...any) error) (*domain.Order, error) {
	var (
		order    domain.Order
		rawLines string
	)
	err := scan(
		&order.GatewayOrderID,
		&order.GatewayPaymentID,
		&rawLines,
		&order.DeliveryPaise,
		&order.Buyer.Name,
		&order.Buyer.Phone,
		&order.Buyer.Email,
		&order.Buyer.Address,
		&order.TotalPaise,
		&order.InvoiceFile,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rawLines), &order.Lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	return &order, nil
}
