// Package draft models the in-progress expense form and gates its
// submission.
package draft

import (
	"errors"
	"strings"

	"github.com/socialbudget/backend/internal/calculator"
)

// Validation failures. All are recoverable by editing the draft.
var (
	// ErrMissingReceipt means neither an uploaded file nor a receipt URL
	// was provided. Either form satisfies the requirement; both are never
	// required together.
	ErrMissingReceipt = errors.New("receipt upload or receipt URL is required")

	ErrMissingDate        = errors.New("date is required")
	ErrMissingDescription = errors.New("description is required")
	ErrInvalidAmount      = errors.New("amount must be a number greater than 0")
	ErrNoAttendees        = errors.New("at least one attendee is required")
)

// Draft is the unsubmitted expense form state. It lives only while the form
// is being filled; after a successful submission it is reset to defaults,
// and after a failed one it is preserved untouched so the user can retry.
type Draft struct {
	Date        string
	Description string
	AmountRaw   string

	// AttendeeIDs is the ordered attendee selection, typically taken from
	// selector.Selection().
	AttendeeIDs []string

	// ReceiptFilename is the name of an uploaded receipt file, empty when
	// none was attached.
	ReceiptFilename string

	// ReceiptURL is an external link to the receipt, used when no file
	// was uploaded.
	ReceiptURL string
}

// HasReceipt reports whether the draft carries a receipt in either form.
func (d Draft) HasReceipt() bool {
	return d.ReceiptFilename != "" || strings.TrimSpace(d.ReceiptURL) != ""
}

// CostPerPerson previews the even split for the current amount and
// selection; zero while the draft is incomplete.
func (d Draft) CostPerPerson() float64 {
	return calculator.Split(d.AmountRaw, len(d.AttendeeIDs))
}

// Reset clears the draft back to defaults, keeping only the given date.
func (d *Draft) Reset(date string) {
	*d = Draft{Date: date}
}

// Validate gates submission. It checks every rule and joins the failures,
// so callers can surface all problems at once and test for individual ones
// with errors.Is. The receipt rule spans two alternative fields and is
// checked explicitly rather than as a per-field presence check.
func Validate(d Draft) error {
	var errs []error

	if strings.TrimSpace(d.Date) == "" {
		errs = append(errs, ErrMissingDate)
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, ErrMissingDescription)
	}
	if calculator.Split(d.AmountRaw, 1) <= 0 {
		errs = append(errs, ErrInvalidAmount)
	}
	if len(d.AttendeeIDs) == 0 {
		errs = append(errs, ErrNoAttendees)
	}
	if !d.HasReceipt() {
		errs = append(errs, ErrMissingReceipt)
	}

	return errors.Join(errs...)
}
