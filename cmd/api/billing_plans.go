package main

import (
	"fmt"
	"net/http"

	"github.com/glueful/payvia/internal/store"
)

type CreateBillingPlanPayload struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Description string         `json:"description,omitempty"`
	Amount      float64        `json:"amount" validate:"required,gt=0"`
	Currency    string         `json:"currency,omitempty" validate:"omitempty,max=10"`
	Interval    string         `json:"interval,omitempty" validate:"omitempty,oneof=monthly yearly one_time"`
	TrialDays   *int           `json:"trial_days,omitempty" validate:"omitempty,gte=0"`
	Features    map[string]any `json:"features,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Status      string         `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (app *application) createBillingPlanHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateBillingPlanPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	plan := &store.BillingPlan{
		Name:      payload.Name,
		Amount:    payload.Amount,
		Currency:  payload.Currency,
		Interval:  payload.Interval,
		TrialDays: payload.TrialDays,
		Features:  payload.Features,
		Metadata:  payload.Metadata,
		Status:    payload.Status,
	}
	if payload.Description != "" {
		plan.Description = &payload.Description
	}

	if err := app.store.BillingPlans.Create(r.Context(), plan); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, plan); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateBillingPlanPayload struct {
	PlanUUID    string          `json:"plan_uuid" validate:"required"`
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Amount      *float64        `json:"amount,omitempty"`
	Currency    *string         `json:"currency,omitempty"`
	Interval    *string         `json:"interval,omitempty"`
	TrialDays   *int            `json:"trial_days,omitempty"`
	Features    *map[string]any `json:"features,omitempty"`
	Metadata    *map[string]any `json:"metadata,omitempty"`
	Status      *string         `json:"status,omitempty"`
}

func (app *application) updateBillingPlanHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateBillingPlanPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	fields := map[string]any{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.Amount != nil {
		fields["amount"] = *payload.Amount
	}
	if payload.Currency != nil {
		fields["currency"] = *payload.Currency
	}
	if payload.Interval != nil {
		fields["interval"] = *payload.Interval
	}
	if payload.TrialDays != nil {
		fields["trial_days"] = *payload.TrialDays
	}
	if payload.Features != nil {
		fields["features"] = *payload.Features
	}
	if payload.Metadata != nil {
		fields["metadata"] = *payload.Metadata
	}
	if payload.Status != nil {
		fields["status"] = *payload.Status
	}
	if len(fields) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	matched, err := app.store.BillingPlans.Update(r.Context(), payload.PlanUUID, fields)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !matched {
		app.notFoundResponse(w, r, fmt.Errorf("billing plan %s not found", payload.PlanUUID))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"plan_uuid": payload.PlanUUID}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type DisableBillingPlanPayload struct {
	PlanUUID string `json:"plan_uuid" validate:"required"`
}

func (app *application) disableBillingPlanHandler(w http.ResponseWriter, r *http.Request) {
	var payload DisableBillingPlanPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.unprocessableEntityResponse(w, r, err)
		return
	}

	matched, err := app.store.BillingPlans.Disable(r.Context(), payload.PlanUUID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !matched {
		app.notFoundResponse(w, r, fmt.Errorf("billing plan %s not found", payload.PlanUUID))
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"plan_uuid": payload.PlanUUID, "status": "inactive"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listBillingPlansHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	plans, err := app.store.BillingPlans.List(r.Context(), store.BillingPlanFilter{
		Status:   q.Get("status"),
		Interval: q.Get("interval"),
		Currency: q.Get("currency"),
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, plans); err != nil {
		app.internalServerError(w, r, err)
	}
}
