package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

// Querier is the subset of pgxpool.Pool the stores need; it lets tests and
// transactions substitute the pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Storage struct {
	Payments interface {
		Upsert(ctx context.Context, p *Payment) (*Payment, error)
		GetByReference(ctx context.Context, reference string) (*Payment, error)
		List(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error)
	}
	BillingPlans interface {
		Create(ctx context.Context, p *BillingPlan) error
		Update(ctx context.Context, uuid string, fields map[string]any) (bool, error)
		Disable(ctx context.Context, uuid string) (bool, error)
		List(ctx context.Context, f BillingPlanFilter) ([]*BillingPlan, error)
	}
	Invoices interface {
		Create(ctx context.Context, inv *Invoice) error
		MarkPaid(ctx context.Context, uuid string, paidAt time.Time) (bool, error)
		Cancel(ctx context.Context, uuid string) (bool, error)
		List(ctx context.Context, f InvoiceFilter) ([]*Invoice, error)
	}
}

func NewStorage(q Querier) Storage {
	return Storage{
		Payments:     &PaymentsStore{q},
		BillingPlans: &BillingPlansStore{q},
		Invoices:     &InvoicesStore{q},
	}
}
