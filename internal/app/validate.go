/**
 * @description
 * This file contains the per-step field validators that gate checkout
 * transitions. Validators return a field -> message map; an empty map means
 * the current step may advance.
 */
package app

import (
	"strings"
	"time"

	"github.com/ashva/checkout-service/internal/domain"
)

const (
	// Installation visits are offered on a rolling window of dates, from two
	// to eight days out. Same-day and next-day installs are not offered.
	offerWindowStart = 2
	offerWindowEnd   = 8

	dateLayout = "2006-01-02"
)

// OfferableDates returns the rolling set of calendar dates on which an
// installation slot can be booked, relative to now.
func OfferableDates(now time.Time) []string {
	dates := make([]string, 0, offerWindowEnd-offerWindowStart+1)
	for i := offerWindowStart; i <= offerWindowEnd; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(dateLayout))
	}
	return dates
}

// ValidateStep checks the session fields required by the given step and
// returns per-field error messages. The payment step is a review gate and has
// no field validation of its own.
func ValidateStep(step domain.Step, session *domain.CheckoutSession, now time.Time) map[string]string {
	errs := map[string]string{}

	switch step {
	case domain.StepDetails:
		form := session.Form
		if strings.TrimSpace(form.Customer.Name) == "" {
			errs["name"] = "Name is required"
		}
		if !isDigits(form.Customer.Phone) || len(form.Customer.Phone) != 10 {
			errs["phone"] = "Valid 10-digit phone required"
		}
		if !isEmail(form.Customer.Email) {
			errs["email"] = "Valid email required"
		}
		if strings.TrimSpace(form.Address.Line1) == "" {
			errs["address"] = "Address is required"
		}
		if !isDigits(form.Address.Pincode) || len(form.Address.Pincode) != 6 {
			errs["pincode"] = "Valid pincode required"
		}
	case domain.StepSchedule:
		slot := session.Form.Slot
		if slot.Date == "" || slot.TimeSlot == "" {
			errs["schedule"] = "Please select date and time"
			break
		}
		if !slot.TimeSlot.IsValid() {
			errs["schedule"] = "Please select a valid time slot"
			break
		}
		if !dateOfferable(slot.Date, now) {
			errs["schedule"] = "Selected date is no longer available, please pick another"
		}
	}

	return errs
}

func dateOfferable(date string, now time.Time) bool {
	for _, d := range OfferableDates(now) {
		if d == date {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isEmail applies the funnel's lightweight check: an @ with a non-empty local
// part and a domain segment containing a dot.
func isEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	dom := s[at+1:]
	dot := strings.Index(dom, ".")
	return dot > 0 && dot < len(dom)-1
}
