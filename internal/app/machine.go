/**
 * @description
 * This file implements the checkout funnel state machine. The machine owns a
 * single CheckoutSession and enforces step ordering: forward transitions are
 * gated by the step validators, backward transitions are always permitted,
 * and submission is only reachable from the payment step. It has no
 * dependency on transport or storage so it can be exercised directly in
 * tests.
 */
package app

import (
	"time"

	"github.com/ashva/checkout-service/internal/domain"
)

// forwardTransitions is the explicit transition table for validated advances.
// Payment -> Confirmed is excluded here: it only happens through Submit.
var forwardTransitions = map[domain.Step]domain.Step{
	domain.StepDetails:  domain.StepSchedule,
	domain.StepSchedule: domain.StepPayment,
}

// backwardTransitions move to already-validated or less-constrained steps and
// therefore need no re-validation.
var backwardTransitions = map[domain.Step]domain.Step{
	domain.StepSchedule: domain.StepDetails,
	domain.StepPayment:  domain.StepSchedule,
}

// Machine drives one checkout session through the funnel.
type Machine struct {
	session *domain.CheckoutSession
}

// NewMachine wraps an existing session. The zero step is normalized to the
// details step so a fresh session always starts at the beginning.
func NewMachine(session *domain.CheckoutSession) *Machine {
	if !session.Step.IsValid() {
		session.Step = domain.StepDetails
	}
	return &Machine{session: session}
}

// Session returns the machine's session record.
func (m *Machine) Session() *domain.CheckoutSession {
	return m.session
}

// ApplyDetails copies customer and address fields into the session. Fields
// are committed regardless of validity; validation happens on Advance.
func (m *Machine) ApplyDetails(customer domain.Customer, address domain.Address) {
	m.session.Form.Customer = customer
	m.session.Form.Address = address
}

// ApplySchedule copies the chosen installation slot into the session.
func (m *Machine) ApplySchedule(slot domain.InstallationSlot) {
	m.session.Form.Slot = slot
}

// Advance validates the current step and moves one step forward. When
// validation fails the errors are recorded on the session, the step is left
// unchanged, and a ValidationError is returned.
func (m *Machine) Advance(now time.Time) error {
	next, ok := forwardTransitions[m.session.Step]
	if !ok {
		// Payment advances only via Submit; terminal steps do not advance.
		return nil
	}
	if errs := ValidateStep(m.session.Step, m.session, now); len(errs) > 0 {
		m.session.FieldErrors = errs
		return &domain.ValidationError{Fields: errs}
	}
	m.session.FieldErrors = nil
	m.session.Step = next
	return nil
}

// Back moves one step backward without re-validation. On the first step it is
// a no-op.
func (m *Machine) Back() {
	if prev, ok := backwardTransitions[m.session.Step]; ok {
		m.session.FieldErrors = nil
		m.session.Step = prev
	}
}

// CanSubmit reports whether the session has reached the payment step.
func (m *Machine) CanSubmit() bool {
	return m.session.Step == domain.StepPayment
}

// ValidateForSubmit re-checks every data-collection step. Fields can be edited
// after their step's gate has passed (the payment step is a review gate), so
// the payload is re-validated in full before it leaves for the gateway.
func (m *Machine) ValidateForSubmit(now time.Time) map[string]string {
	errs := ValidateStep(domain.StepDetails, m.session, now)
	for field, msg := range ValidateStep(domain.StepSchedule, m.session, now) {
		errs[field] = msg
	}
	return errs
}

// Confirm marks the session terminal after a direct (non-redirect) order
// confirmation.
func (m *Machine) Confirm() {
	m.session.Step = domain.StepConfirmed
}

// OrderRequest assembles the finalized gateway payload from the session.
func (m *Machine) OrderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		PlanID:       m.session.PlanID,
		TenureMonths: m.session.TenureMonths,
		Customer:     m.session.Form.Customer,
		Address:      m.session.Form.Address,
		Slot:         m.session.Form.Slot,
	}
}
