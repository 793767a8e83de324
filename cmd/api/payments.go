package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/glueful/payvia/internal/gateway"
	"github.com/glueful/payvia/internal/payments"
	"github.com/glueful/payvia/internal/store"
)

type ConfirmPaymentPayload struct {
	Reference   string            `json:"reference" validate:"required,max=100"`
	Gateway     string            `json:"gateway,omitempty" validate:"omitempty,max=50"`
	UserUUID    string            `json:"user_uuid,omitempty" validate:"omitempty,max=100"`
	PayableType string            `json:"payable_type,omitempty" validate:"omitempty,max=100"`
	PayableID   string            `json:"payable_id,omitempty" validate:"omitempty,max=255"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
}

// confirmPaymentHandler verifies a gateway transaction reference and
// upserts the ledger record for it. A provider-side failure is still a 200:
// the confirmation request succeeded, the payment did not verify.
func (app *application) confirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload ConfirmPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	outcome, err := app.engine.Confirm(r.Context(), payload.Reference, payload.Gateway, payments.ConfirmContext{
		UserRef:     payload.UserUUID,
		PayableType: payload.PayableType,
		PayableID:   payload.PayableID,
		Metadata:    payload.Metadata,
		Options:     payload.Options,
	})
	if err != nil {
		var validationErr *payments.ValidationError
		switch {
		case errors.As(err, &validationErr):
			app.unprocessableEntityResponse(w, r, validationErr)
		case errors.Is(err, gateway.ErrGatewayNotConfigured),
			errors.Is(err, gateway.ErrDriverNotRegistered):
			app.unprocessableEntityResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, outcome); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	payment, err := app.store.Payments.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, payment); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := app.store.Payments.List(r.Context(), store.PaymentFilter{
		Status:  q.Get("status"),
		Gateway: q.Get("gateway"),
		UserRef: q.Get("user_uuid"),
	}, limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]any{
		"items": items,
		"total": total,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
