package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BillingPlan struct {
	ID          int64          `json:"id"`
	UUID        string         `json:"uuid"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Interval    string         `json:"interval"`
	TrialDays   *int           `json:"trial_days,omitempty"`
	Features    map[string]any `json:"features,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type BillingPlanFilter struct {
	Status   string
	Interval string
	Currency string
}

type BillingPlansStore struct {
	q Querier
}

func (s *BillingPlansStore) Create(ctx context.Context, p *BillingPlan) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	features, err := marshalNullable(p.Features, len(p.Features) > 0)
	if err != nil {
		return fmt.Errorf("encode plan features: %w", err)
	}
	metadata, err := marshalNullable(p.Metadata, len(p.Metadata) > 0)
	if err != nil {
		return fmt.Errorf("encode plan metadata: %w", err)
	}

	if p.Currency == "" {
		p.Currency = "GHS"
	}
	if p.Interval == "" {
		p.Interval = "monthly"
	}
	if p.Status == "" {
		p.Status = "active"
	}
	p.UUID = uuid.New().String()

	err = s.q.QueryRow(ctx, `
		INSERT INTO billing_plans (
			uuid, name, description, amount, currency, "interval",
			trial_days, features, metadata, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`,
		p.UUID, p.Name, p.Description, p.Amount, p.Currency, p.Interval,
		p.TrialDays, features, metadata, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create billing plan: %w", err)
	}
	return nil
}

// planColumns whitelists the columns a partial update may touch.
var planColumns = map[string]bool{
	"name":        true,
	"description": true,
	"amount":      true,
	"currency":    true,
	"interval":    true,
	"trial_days":  true,
	"features":    true,
	"metadata":    true,
	"status":      true,
}

// Update applies a partial update by uuid. JSON-valued fields are encoded
// before writing. Returns false when no plan matched.
func (s *BillingPlansStore) Update(ctx context.Context, planUUID string, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	args = append(args, planUUID)

	for col, val := range fields {
		if !planColumns[col] {
			return false, fmt.Errorf("billing plan column %q is not updatable", col)
		}
		if col == "features" || col == "metadata" {
			b, err := json.Marshal(val)
			if err != nil {
				return false, fmt.Errorf("encode plan %s: %w", col, err)
			}
			val = b
		}
		args = append(args, val)
		// Double-quoted identifiers keep "interval" usable as a column.
		setClauses = append(setClauses, fmt.Sprintf("%q = $%d", col, len(args)))
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE billing_plans SET %s WHERE uuid = $1`, strings.Join(setClauses, ", "))
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update billing plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *BillingPlansStore) Disable(ctx context.Context, planUUID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.q.Exec(ctx, `
		UPDATE billing_plans SET status = 'inactive', updated_at = now() WHERE uuid = $1
	`, planUUID)
	if err != nil {
		return false, fmt.Errorf("disable billing plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *BillingPlansStore) List(ctx context.Context, f BillingPlanFilter) ([]*BillingPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.q.Query(ctx, `
		SELECT id, uuid, name, description, amount, currency, "interval",
		       trial_days, features, metadata, status, created_at, updated_at
		FROM billing_plans
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR "interval" = $2)
		  AND ($3 = '' OR currency = $3)
		ORDER BY created_at DESC
	`, f.Status, f.Interval, f.Currency)
	if err != nil {
		return nil, fmt.Errorf("list billing plans: %w", err)
	}
	defer rows.Close()

	var out []*BillingPlan
	for rows.Next() {
		var (
			p        BillingPlan
			features []byte
			metadata []byte
		)
		if err := rows.Scan(
			&p.ID, &p.UUID, &p.Name, &p.Description, &p.Amount, &p.Currency,
			&p.Interval, &p.TrialDays, &features, &metadata, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan billing plan: %w", err)
		}
		if len(features) > 0 {
			if err := json.Unmarshal(features, &p.Features); err != nil {
				return nil, fmt.Errorf("decode plan features: %w", err)
			}
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
				return nil, fmt.Errorf("decode plan metadata: %w", err)
			}
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
