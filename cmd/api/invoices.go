package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/glueful/payvia/internal/store"
)

type CreateInvoicePayload struct {
	Amount          float64        `json:"amount" validate:"required,gt=0"`
	Currency        string         `json:"currency,omitempty" validate:"omitempty,max=10"`
	UserUUID        string         `json:"user_uuid,omitempty" validate:"omitempty,max=100"`
	BillingPlanUUID string         `json:"billing_plan_uuid,omitempty" validate:"omitempty,max=100"`
	PayableType     string         `json:"payable_type,omitempty" validate:"omitempty,max=100"`
	PayableID       string         `json:"payable_id,omitempty" validate:"omitempty,max=255"`
	Number          string         `json:"number,omitempty" validate:"omitempty,max=50"`
	DueAt           string         `json:"due_at,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

func (app *application) createInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateInvoicePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	inv := &store.Invoice{
		Amount:   payload.Amount,
		Currency: payload.Currency,
		Number:   payload.Number,
		Metadata: payload.Metadata,
	}
	if payload.UserUUID != "" {
		inv.UserRef = &payload.UserUUID
	}
	if payload.BillingPlanUUID != "" {
		inv.BillingPlanUUID = &payload.BillingPlanUUID
	}
	if payload.PayableType != "" {
		inv.PayableType = &payload.PayableType
	}
	if payload.PayableID != "" {
		inv.PayableID = &payload.PayableID
	}
	if payload.DueAt != "" {
		dueAt, err := time.Parse(time.RFC3339, payload.DueAt)
		if err != nil {
			app.unprocessableEntityResponse(w, r, fmt.Errorf("due_at must be RFC3339: %w", err))
			return
		}
		inv.DueAt = &dueAt
	}

	if err := app.store.Invoices.Create(r.Context(), inv); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, inv); err != nil {
		app.internalServerError(w, r, err)
	}
}

type MarkInvoicePaidPayload struct {
	InvoiceUUID string `json:"invoice_uuid" validate:"required"`
	PaidAt      string `json:"paid_at,omitempty"`
}

// markInvoicePaidHandler marks an invoice paid. An omitted paid_at defaults
// to now; a malformed one is rejected rather than silently replaced.
func (app *application) markInvoicePaidHandler(w http.ResponseWriter, r *http.Request) {
	var payload MarkInvoicePaidPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	paidAt := time.Now()
	if payload.PaidAt != "" {
		parsed, err := time.Parse(time.RFC3339, payload.PaidAt)
		if err != nil {
			app.unprocessableEntityResponse(w, r, fmt.Errorf("paid_at must be RFC3339: %w", err))
			return
		}
		paidAt = parsed
	}

	matched, err := app.store.Invoices.MarkPaid(r.Context(), payload.InvoiceUUID, paidAt)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !matched {
		app.notFoundResponse(w, r, fmt.Errorf("invoice %s not found", payload.InvoiceUUID))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"invoice_uuid": payload.InvoiceUUID, "status": "paid"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CancelInvoicePayload struct {
	InvoiceUUID string `json:"invoice_uuid" validate:"required"`
}

func (app *application) cancelInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CancelInvoicePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	matched, err := app.store.Invoices.Cancel(r.Context(), payload.InvoiceUUID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !matched {
		app.notFoundResponse(w, r, fmt.Errorf("invoice %s not found", payload.InvoiceUUID))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"invoice_uuid": payload.InvoiceUUID, "status": "canceled"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	invoices, err := app.store.Invoices.List(r.Context(), store.InvoiceFilter{
		Status:          q.Get("status"),
		UserRef:         q.Get("user_uuid"),
		BillingPlanUUID: q.Get("billing_plan_uuid"),
		PayableType:     q.Get("payable_type"),
		PayableID:       q.Get("payable_id"),
		MetadataKey:     q.Get("metadata_key"),
		MetadataValue:   q.Get("metadata_value"),
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, invoices); err != nil {
		app.internalServerError(w, r, err)
	}
}
