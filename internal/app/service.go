/**
 * @description
 * This file contains the core business logic for the checkout-service. The
 * Service layer drives the funnel state machine, snapshots the session after
 * every committed change, and hands a finalized order to the payment gateway.
 *
 * Snapshot persistence is best-effort throughout: a failing store falls back
 * to process-local memory and is never surfaced to the buyer.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ashva/checkout-service/internal/domain"
	"github.com/ashva/checkout-service/internal/store"
	"github.com/ashva/checkout-service/pkg/rabbitmq"
)

// ErrSessionNotAtPayment rejects a submit for a session that has not reached
// the payment step. The machine only advances one validated step at a time,
// so this is only reachable by calling submit out of order.
var ErrSessionNotAtPayment = errors.New("checkout session is not at the payment step")

// Gateway finalizes a submitted checkout with the external payment system.
type Gateway interface {
	CreateOrder(ctx context.Context, order domain.OrderRequest) (*domain.OrderResponse, error)
}

// SessionView is the caller-facing projection of a checkout session.
type SessionView struct {
	PlanID       string            `json:"plan_id"`
	PlanName     string            `json:"plan_name"`
	TenureMonths int               `json:"tenure_months"`
	Step         domain.Step       `json:"step"`
	Form         domain.FormData   `json:"form"`
	Restored     bool              `json:"restored"`
	FieldErrors  map[string]string `json:"field_errors,omitempty"`
	Pricing      PricingQuote      `json:"pricing"`
}

// SubmitResult reports the outcome of a successful gateway submission. A
// non-empty PaymentURL means the caller must redirect to the hosted payment
// page; otherwise the order is confirmed and OrderID is final.
type SubmitResult struct {
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url,omitempty"`
	Confirmed  bool   `json:"confirmed"`
}

// Service provides the business logic for the checkout funnel.
type Service struct {
	catalog   *Catalog
	snapshots store.SnapshotStore
	fallback  *store.MemorySnapshotStore
	gateway   Gateway
	events    rabbitmq.Publisher
	clock     Clock
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewService creates a new checkout service. The snapshot store may be nil or
// failing; sessions then live in the process-local fallback store, which keeps
// the funnel completable but loses durability across restarts.
func NewService(catalog *Catalog, snapshots store.SnapshotStore, gateway Gateway, events rabbitmq.Publisher, clock Clock, logger *slog.Logger) *Service {
	return &Service{
		catalog:   catalog,
		snapshots: snapshots,
		fallback:  store.NewMemorySnapshotStore(),
		gateway:   gateway,
		events:    events,
		clock:     clock,
		logger:    logger,
		inFlight:  make(map[string]bool),
	}
}

// NormalizeTenure clamps a requested tenure to a sane positive value; 1 means
// rolling monthly billing.
func NormalizeTenure(tenureMonths int) int {
	if tenureMonths < 1 {
		return 1
	}
	return tenureMonths
}

// StartSession begins or resumes a checkout for the given plan + tenure. A
// persisted snapshot that has not expired restores the session at its
// recorded step; the restored step is re-validated against today's
// constraints and any errors are surfaced so the caller can prompt
// correction rather than silently amending stale data.
func (s *Service) StartSession(ctx context.Context, planID string, tenureMonths int, pincode string) *SessionView {
	tenureMonths = NormalizeTenure(tenureMonths)
	plan := s.catalog.PlanOrDefault(ctx, planID)

	session, restored := s.loadOrCreate(ctx, plan.ID, tenureMonths)
	if !restored && pincode != "" {
		session.Form.Address.Pincode = pincode
	}

	var fieldErrors map[string]string
	if restored {
		if errs := ValidateStep(session.Step, session, s.clock.Now()); len(errs) > 0 {
			fieldErrors = errs
		}
	}

	s.saveSnapshot(ctx, session)
	return s.view(plan, session, restored, fieldErrors)
}

// ApplyDetails commits the buyer's contact and address fields and attempts to
// advance past the details step. On validation failure the fields stay
// committed, the step is unchanged, and the returned view carries the field
// errors alongside a ValidationError.
func (s *Service) ApplyDetails(ctx context.Context, planID string, tenureMonths int, customer domain.Customer, address domain.Address) (*SessionView, error) {
	tenureMonths = NormalizeTenure(tenureMonths)
	plan := s.catalog.PlanOrDefault(ctx, planID)
	session, _ := s.loadOrCreate(ctx, plan.ID, tenureMonths)

	m := NewMachine(session)
	m.ApplyDetails(customer, address)
	err := m.Advance(s.clock.Now())

	s.saveSnapshot(ctx, session)
	return s.view(plan, session, false, session.FieldErrors), err
}

// ApplySchedule commits the chosen installation slot and attempts to advance
// past the schedule step.
func (s *Service) ApplySchedule(ctx context.Context, planID string, tenureMonths int, slot domain.InstallationSlot) (*SessionView, error) {
	tenureMonths = NormalizeTenure(tenureMonths)
	plan := s.catalog.PlanOrDefault(ctx, planID)
	session, _ := s.loadOrCreate(ctx, plan.ID, tenureMonths)

	m := NewMachine(session)
	m.ApplySchedule(slot)
	err := m.Advance(s.clock.Now())

	s.saveSnapshot(ctx, session)
	return s.view(plan, session, false, session.FieldErrors), err
}

// Back moves the session one step backward. Backward moves need no
// re-validation since they land on already-validated steps.
func (s *Service) Back(ctx context.Context, planID string, tenureMonths int) *SessionView {
	tenureMonths = NormalizeTenure(tenureMonths)
	plan := s.catalog.PlanOrDefault(ctx, planID)
	session, _ := s.loadOrCreate(ctx, plan.ID, tenureMonths)

	NewMachine(session).Back()
	s.saveSnapshot(ctx, session)
	return s.view(plan, session, false, nil)
}

// Submit finalizes the checkout with the payment gateway. The full payload is
// re-validated first, so fields edited after their step's gate passed cannot
// reach the gateway invalid. On success the snapshot is evicted; on gateway
// failure the session and its snapshot are left untouched so the buyer can
// retry without re-entering anything. A second submit for the same session
// while one is in flight is rejected to prevent duplicate orders.
func (s *Service) Submit(ctx context.Context, planID string, tenureMonths int) (*SubmitResult, error) {
	tenureMonths = NormalizeTenure(tenureMonths)
	plan := s.catalog.PlanOrDefault(ctx, planID)
	session, _ := s.loadOrCreate(ctx, plan.ID, tenureMonths)

	m := NewMachine(session)
	if !m.CanSubmit() {
		return nil, ErrSessionNotAtPayment
	}
	if errs := m.ValidateForSubmit(s.clock.Now()); len(errs) > 0 {
		session.FieldErrors = errs
		return nil, &domain.ValidationError{Fields: errs}
	}

	key := store.SnapshotKey(session.PlanID, session.TenureMonths)
	if !s.acquire(key) {
		return nil, domain.ErrSessionBusy
	}
	defer s.release(key)

	resp, err := s.gateway.CreateOrder(ctx, m.OrderRequest())
	if err != nil {
		s.logger.Warn("gateway submission failed", "plan_id", session.PlanID, "error", err)
		return nil, err
	}

	s.evictSnapshot(ctx, key)

	if resp.PaymentURL != "" {
		// Hosted payment page takes over from here; post-redirect outcome is
		// the gateway's to track.
		return &SubmitResult{OrderID: resp.OrderID, PaymentURL: resp.PaymentURL}, nil
	}

	m.Confirm()
	s.publishConfirmed(ctx, session, resp.OrderID)
	return &SubmitResult{OrderID: resp.OrderID, Confirmed: true}, nil
}

// OfferableDates lists the installation dates currently offered.
func (s *Service) OfferableDates() []string {
	return OfferableDates(s.clock.Now())
}

func (s *Service) loadOrCreate(ctx context.Context, planID string, tenureMonths int) (*domain.CheckoutSession, bool) {
	session := &domain.CheckoutSession{
		PlanID:       planID,
		TenureMonths: tenureMonths,
		Step:         domain.StepDetails,
	}

	key := store.SnapshotKey(planID, tenureMonths)
	snap, ok, err := s.loadSnapshot(ctx, key)
	if err != nil || !ok {
		return session, false
	}

	session.Step = snap.Step
	session.Form = snap.FormData
	if !session.Step.IsValid() || session.Step == domain.StepConfirmed {
		session.Step = domain.StepDetails
	}
	return session, true
}

// loadSnapshot reads from the configured store, falling back to the
// process-local store when the configured one is absent or failing. The
// session state between requests lives in these snapshots, so a broken store
// degrades durability, never the funnel itself.
func (s *Service) loadSnapshot(ctx context.Context, key string) (domain.Snapshot, bool, error) {
	if s.snapshots == nil {
		return s.fallback.Load(ctx, key, s.clock.Now())
	}
	snap, ok, err := s.snapshots.Load(ctx, key, s.clock.Now())
	if err != nil {
		s.logger.Warn("snapshot load failed, using process-local fallback", "key", key, "error", err)
		return s.fallback.Load(ctx, key, s.clock.Now())
	}
	return snap, ok, nil
}

func (s *Service) saveSnapshot(ctx context.Context, session *domain.CheckoutSession) {
	key := store.SnapshotKey(session.PlanID, session.TenureMonths)
	snap := store.NewSnapshot(session.Step, session.Form, s.clock.Now())
	if s.snapshots == nil {
		_ = s.fallback.Save(ctx, key, snap)
		return
	}
	if err := s.snapshots.Save(ctx, key, snap); err != nil {
		s.logger.Warn("snapshot save failed, using process-local fallback", "key", key, "error", err)
		_ = s.fallback.Save(ctx, key, snap)
	}
}

func (s *Service) evictSnapshot(ctx context.Context, key string) {
	_ = s.fallback.Evict(ctx, key)
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Evict(ctx, key); err != nil {
		s.logger.Warn("snapshot evict failed", "key", key, "error", err)
	}
}

func (s *Service) publishConfirmed(ctx context.Context, session *domain.CheckoutSession, orderID string) {
	if s.events == nil {
		return
	}
	event := rabbitmq.OrderConfirmedEvent{
		EventID:       uuid.New(),
		OrderID:       orderID,
		PlanID:        session.PlanID,
		TenureMonths:  session.TenureMonths,
		CustomerPhone: session.Form.Customer.Phone,
		CustomerEmail: session.Form.Customer.Email,
		Timestamp:     s.clock.Now(),
	}
	if err := s.events.PublishOrderConfirmed(ctx, event); err != nil {
		s.logger.Warn("order confirmed event publish failed", "order_id", orderID, "error", err)
	}
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *Service) view(plan domain.Plan, session *domain.CheckoutSession, restored bool, fieldErrors map[string]string) *SessionView {
	mode := BillingMonthly
	if session.TenureMonths > 1 {
		mode = BillingPrepaid
	}
	return &SessionView{
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		TenureMonths: session.TenureMonths,
		Step:         session.Step,
		Form:         session.Form,
		Restored:     restored,
		FieldErrors:  fieldErrors,
		Pricing:      Quote(plan, mode, session.TenureMonths),
	}
}
