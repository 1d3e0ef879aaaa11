package draft

import (
	"errors"
	"testing"
)

func validDraft() Draft {
	return Draft{
		Date:        "2026-02-14",
		Description: "Team lunch",
		AmountRaw:   "90",
		AttendeeIDs: []string{"ana", "ben"},
		ReceiptURL:  "https://receipts.example/123",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
	}{
		{name: "complete draft passes", mutate: func(*Draft) {}},
		{
			name:    "no receipt at all",
			mutate:  func(d *Draft) { d.ReceiptURL = ""; d.ReceiptFilename = "" },
			wantErr: ErrMissingReceipt,
		},
		{
			name:    "whitespace-only receipt URL",
			mutate:  func(d *Draft) { d.ReceiptURL = "   " },
			wantErr: ErrMissingReceipt,
		},
		{
			name:   "file without URL passes the receipt check",
			mutate: func(d *Draft) { d.ReceiptURL = ""; d.ReceiptFilename = "lunch.pdf" },
		},
		{
			name:   "URL without file passes the receipt check",
			mutate: func(d *Draft) { d.ReceiptFilename = "" },
		},
		{
			name:    "missing date",
			mutate:  func(d *Draft) { d.Date = " " },
			wantErr: ErrMissingDate,
		},
		{
			name:    "missing description",
			mutate:  func(d *Draft) { d.Description = "" },
			wantErr: ErrMissingDescription,
		},
		{
			name:    "unparsable amount",
			mutate:  func(d *Draft) { d.AmountRaw = "lots" },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			mutate:  func(d *Draft) { d.AmountRaw = "0" },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "no attendees",
			mutate:  func(d *Draft) { d.AttendeeIDs = nil },
			wantErr: ErrNoAttendees,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := Validate(d)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsAllFailures(t *testing.T) {
	err := Validate(Draft{})
	for _, want := range []error{
		ErrMissingDate, ErrMissingDescription, ErrInvalidAmount, ErrNoAttendees, ErrMissingReceipt,
	} {
		if !errors.Is(err, want) {
			t.Errorf("empty draft missing %v in joined error", want)
		}
	}
}

func TestCostPerPersonPreview(t *testing.T) {
	d := validDraft()
	if got := d.CostPerPerson(); got != 45 {
		t.Errorf("CostPerPerson = %v, want 45", got)
	}

	d.AttendeeIDs = nil
	if got := d.CostPerPerson(); got != 0 {
		t.Errorf("CostPerPerson with no attendees = %v, want 0", got)
	}
}

func TestReset(t *testing.T) {
	d := validDraft()
	d.Reset("2026-02-15")
	if d.Date != "2026-02-15" || d.Description != "" || d.AmountRaw != "" ||
		len(d.AttendeeIDs) != 0 || d.ReceiptFilename != "" || d.ReceiptURL != "" {
		t.Errorf("Reset left fields behind: %+v", d)
	}
}
