/**
 * @description
 * This file defines the checkout funnel domain models: the step enumeration,
 * the mutable checkout session, and the durable snapshot projection that is
 * persisted between visits.
 */
package domain

// Step identifies a stage of the checkout funnel.
type Step string

const (
	StepDetails   Step = "details"
	StepSchedule  Step = "schedule"
	StepPayment   Step = "payment"
	StepConfirmed Step = "confirmed"
)

// stepOrder is the forward sequence of the funnel. Confirmed is terminal and
// never persisted.
var stepOrder = []Step{StepDetails, StepSchedule, StepPayment, StepConfirmed}

// IsValid reports whether s is a known funnel step.
func (s Step) IsValid() bool {
	for _, known := range stepOrder {
		if s == known {
			return true
		}
	}
	return false
}

func (s Step) String() string {
	return string(s)
}

// TimeSlot is an installation visit window.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// IsValid reports whether t is one of the offered installation windows.
func (t TimeSlot) IsValid() bool {
	return t == SlotMorning || t == SlotAfternoon || t == SlotEvening
}

// Customer holds the buyer's contact details collected on the details step.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Address is the installation address.
type Address struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// InstallationSlot is the chosen installation date and time window.
// Date is an ISO calendar date (YYYY-MM-DD).
type InstallationSlot struct {
	Date     string   `json:"date"`
	TimeSlot TimeSlot `json:"timeSlot"`
}

// FormData is the persistable portion of a checkout session.
type FormData struct {
	Customer Customer         `json:"customer"`
	Address  Address          `json:"address"`
	Slot     InstallationSlot `json:"installationSlot"`
}

// CheckoutSession is the mutable record for one purchase attempt. It is owned
// by exactly one caller at a time; field errors are transient and never
// persisted.
type CheckoutSession struct {
	PlanID       string            `json:"plan_id"`
	TenureMonths int               `json:"tenure_months"`
	Step         Step              `json:"step"`
	Form         FormData          `json:"form"`
	FieldErrors  map[string]string `json:"-"`
}

// Snapshot is the durable projection of an in-progress checkout session.
// Timestamps are epoch milliseconds; ExpiresAt is fixed at SavedAt + 24h on
// every write.
type Snapshot struct {
	SavedAt   int64    `json:"savedAt"`
	ExpiresAt int64    `json:"expiresAt"`
	Step      Step     `json:"step"`
	FormData  FormData `json:"formData"`
}

// OrderRequest is the finalized payload submitted to the payment gateway.
type OrderRequest struct {
	PlanID       string           `json:"planId"`
	TenureMonths int              `json:"tenureMonths"`
	Customer     Customer         `json:"customer"`
	Address      Address          `json:"address"`
	Slot         InstallationSlot `json:"installationSlot"`
}

// OrderResponse is the gateway's answer to a submitted checkout. A non-empty
// PaymentURL means the caller must redirect to the hosted payment page;
// otherwise OrderID is final.
type OrderResponse struct {
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}
