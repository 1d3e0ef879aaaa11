package models

// Expense is a stored shared expense. Attendees are referenced by employee
// ID in the order they were added to the draft.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Date is the day the expense occurred, in YYYY-MM-DD format.
	Date string

	// Description is the human-readable purpose, e.g. "Team lunch".
	Description string

	// Amount is the full receipt amount.
	Amount float64

	// AttendeeIDs lists the employees sharing the cost, insertion order
	// preserved.
	AttendeeIDs []string

	// ReceiptURL points at the stored receipt, either an uploaded file
	// under /uploads or an external link.
	ReceiptURL string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseResponse is an expense as served over the API: attendees resolved
// to full employee records and the evenly split per-person cost attached.
type ExpenseResponse struct {
	ID            string     `json:"id"`
	Date          string     `json:"date"`
	Description   string     `json:"description"`
	Amount        float64    `json:"amount"`
	CostPerPerson float64    `json:"cost_per_person"`
	Attendees     []Employee `json:"attendees"`
	ReceiptURL    string     `json:"receipt_url,omitempty"`
}

// ExpensesResponse wraps the expense list for a quarter.
type ExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}
