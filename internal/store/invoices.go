package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID              int64          `json:"id"`
	UUID            string         `json:"uuid"`
	UserRef         *string        `json:"user_uuid,omitempty"`
	BillingPlanUUID *string        `json:"billing_plan_uuid,omitempty"`
	PayableType     *string        `json:"payable_type,omitempty"`
	PayableID       *string        `json:"payable_id,omitempty"`
	Number          string         `json:"number"`
	Amount          float64        `json:"amount"`
	Currency        string         `json:"currency"`
	Status          string         `json:"status"`
	DueAt           *time.Time     `json:"due_at,omitempty"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type InvoiceFilter struct {
	Status          string
	UserRef         string
	BillingPlanUUID string
	PayableType     string
	PayableID       string
	// MetadataKey/MetadataValue filter on one key of the metadata JSON.
	MetadataKey   string
	MetadataValue string
}

type InvoicesStore struct {
	q Querier
}

func (s *InvoicesStore) Create(ctx context.Context, inv *Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	metadata, err := marshalNullable(inv.Metadata, len(inv.Metadata) > 0)
	if err != nil {
		return fmt.Errorf("encode invoice metadata: %w", err)
	}

	inv.UUID = uuid.New().String()
	if inv.Number == "" {
		// Timestamp plus a slice of the uuid keeps numbers readable and unique.
		inv.Number = fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102-150405"), inv.UUID[:4])
	}
	if inv.Currency == "" {
		inv.Currency = "GHS"
	}
	if inv.Status == "" {
		inv.Status = "draft"
	}

	err = s.q.QueryRow(ctx, `
		INSERT INTO invoices (
			uuid, user_uuid, billing_plan_uuid, payable_type, payable_id,
			number, amount, currency, status, due_at, metadata
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`,
		inv.UUID, inv.UserRef, inv.BillingPlanUUID, inv.PayableType, inv.PayableID,
		inv.Number, inv.Amount, inv.Currency, inv.Status, inv.DueAt, metadata,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

func (s *InvoicesStore) MarkPaid(ctx context.Context, invoiceUUID string, paidAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.q.Exec(ctx, `
		UPDATE invoices
		   SET status = 'paid', paid_at = $2, updated_at = now()
		 WHERE uuid = $1
	`, invoiceUUID, paidAt)
	if err != nil {
		return false, fmt.Errorf("mark invoice paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *InvoicesStore) Cancel(ctx context.Context, invoiceUUID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.q.Exec(ctx, `
		UPDATE invoices SET status = 'canceled', updated_at = now() WHERE uuid = $1
	`, invoiceUUID)
	if err != nil {
		return false, fmt.Errorf("cancel invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *InvoicesStore) List(ctx context.Context, f InvoiceFilter) ([]*Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.q.Query(ctx, `
		SELECT id, uuid, user_uuid, billing_plan_uuid, payable_type, payable_id,
		       number, amount, currency, status, due_at, paid_at, metadata,
		       created_at, updated_at
		FROM invoices
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR user_uuid = $2)
		  AND ($3 = '' OR billing_plan_uuid = $3)
		  AND ($4 = '' OR payable_type = $4)
		  AND ($5 = '' OR payable_id = $5)
		  AND ($6 = '' OR metadata ->> $6 = $7)
		ORDER BY created_at DESC
	`, f.Status, f.UserRef, f.BillingPlanUUID, f.PayableType, f.PayableID,
		f.MetadataKey, f.MetadataValue)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*Invoice
	for rows.Next() {
		var (
			inv      Invoice
			metadata []byte
		)
		if err := rows.Scan(
			&inv.ID, &inv.UUID, &inv.UserRef, &inv.BillingPlanUUID, &inv.PayableType,
			&inv.PayableID, &inv.Number, &inv.Amount, &inv.Currency, &inv.Status,
			&inv.DueAt, &inv.PaidAt, &metadata, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &inv.Metadata); err != nil {
				return nil, fmt.Errorf("decode invoice metadata: %w", err)
			}
		}
		out = append(out, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
