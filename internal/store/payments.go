package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Payment is one reconciled gateway transaction. Reference is the natural
// key: the unique constraint on it is what makes Upsert race-safe.
type Payment struct {
	ID                   int64           `json:"id"`
	UUID                 string          `json:"uuid"`
	UserRef              *string         `json:"user_uuid,omitempty"`
	PayableType          *string         `json:"payable_type,omitempty"`
	PayableID            *string         `json:"payable_id,omitempty"`
	Gateway              string          `json:"gateway"`
	GatewayTransactionID *string         `json:"gateway_transaction_id,omitempty"`
	Reference            string          `json:"reference"`
	Amount               float64         `json:"amount"`
	Currency             string          `json:"currency"`
	Status               string          `json:"status"`
	Message              *string         `json:"message,omitempty"`
	Metadata             map[string]any  `json:"metadata,omitempty"`
	RawPayload           json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type PaymentFilter struct {
	Status  string
	Gateway string
	UserRef string
}

type PaymentsStore struct {
	q Querier
}

// Upsert inserts a payment record, or refreshes the mutable fields of the
// existing record with the same reference. uuid and created_at survive the
// update path. The single ON CONFLICT statement guarantees at most one row
// per reference even under concurrent confirmations.
func (s *PaymentsStore) Upsert(ctx context.Context, p *Payment) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	metadata, err := marshalNullable(p.Metadata, len(p.Metadata) > 0)
	if err != nil {
		return nil, fmt.Errorf("encode payment metadata: %w", err)
	}

	var rawPayload []byte
	if len(p.RawPayload) > 0 {
		rawPayload = p.RawPayload
	}

	newUUID := uuid.New().String()

	err = s.q.QueryRow(ctx, `
		INSERT INTO payments (
			uuid, user_uuid, payable_type, payable_id, gateway,
			gateway_transaction_id, reference, amount, currency, status,
			message, metadata, raw_payload
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (reference) DO UPDATE SET
			user_uuid              = EXCLUDED.user_uuid,
			payable_type           = EXCLUDED.payable_type,
			payable_id             = EXCLUDED.payable_id,
			gateway                = EXCLUDED.gateway,
			gateway_transaction_id = EXCLUDED.gateway_transaction_id,
			amount                 = EXCLUDED.amount,
			currency               = EXCLUDED.currency,
			status                 = EXCLUDED.status,
			message                = EXCLUDED.message,
			metadata               = EXCLUDED.metadata,
			raw_payload            = EXCLUDED.raw_payload,
			updated_at             = now()
		RETURNING id, uuid, created_at, updated_at
	`,
		newUUID, p.UserRef, p.PayableType, p.PayableID, p.Gateway,
		p.GatewayTransactionID, p.Reference, p.Amount, p.Currency, p.Status,
		p.Message, metadata, rawPayload,
	).Scan(&p.ID, &p.UUID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert payment: %w", err)
	}
	return p, nil
}

func (s *PaymentsStore) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var (
		p        Payment
		metadata []byte
	)
	err := s.q.QueryRow(ctx, `
		SELECT id, uuid, user_uuid, payable_type, payable_id, gateway,
		       gateway_transaction_id, reference, amount, currency, status,
		       message, metadata, raw_payload, created_at, updated_at
		FROM payments
		WHERE reference = $1
	`, reference).Scan(
		&p.ID, &p.UUID, &p.UserRef, &p.PayableType, &p.PayableID, &p.Gateway,
		&p.GatewayTransactionID, &p.Reference, &p.Amount, &p.Currency, &p.Status,
		&p.Message, &metadata, &p.RawPayload, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment by reference: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return nil, fmt.Errorf("decode payment metadata: %w", err)
		}
	}
	return &p, nil
}

// List returns payments matching the filter, newest first, with the total
// match count for pagination.
func (s *PaymentsStore) List(ctx context.Context, f PaymentFilter, limit, offset int) ([]*Payment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.q.Query(ctx, `
		SELECT id, uuid, user_uuid, payable_type, payable_id, gateway,
		       gateway_transaction_id, reference, amount, currency, status,
		       message, metadata, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM payments
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR gateway = $2)
		  AND ($3 = '' OR user_uuid = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`, f.Status, f.Gateway, f.UserRef, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Payment
		total int
	)
	for rows.Next() {
		var (
			p        Payment
			metadata []byte
			t        int
		)
		if err := rows.Scan(
			&p.ID, &p.UUID, &p.UserRef, &p.PayableType, &p.PayableID, &p.Gateway,
			&p.GatewayTransactionID, &p.Reference, &p.Amount, &p.Currency, &p.Status,
			&p.Message, &metadata, &p.CreatedAt, &p.UpdatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
				return nil, 0, fmt.Errorf("decode payment metadata: %w", err)
			}
		}
		if total == 0 {
			total = t
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// marshalNullable encodes v to JSON, or returns nil (SQL NULL) when the
// value is absent.
func marshalNullable(v any, present bool) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}
