package ledger

import (
	"context"
	"iter"

	"spiceshop/internal/domain"
)

// Repository is the append-only store of verified transactions. Records are
// written once and never updated; the administrative invoice purge does not
// touch them.
type Repository interface {
	Append(ctx context.Context, order domain.Order) error
	FindByID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Orders(ctx context.Context) iter.Seq2[domain.Order, error]
	Aggregate(ctx context.Context) (domain.LedgerStats, error)
}
