// Package service orchestrates storage, validation and the calculation
// engine behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/socialbudget/backend/internal/calculator"
	"github.com/socialbudget/backend/internal/draft"
	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/roster"
	"github.com/socialbudget/backend/internal/storage"
)

const dateLayout = "2006-01-02"

// Input problems the caller can fix, as opposed to storage failures.
var (
	ErrBadDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrUnknownAttendee = errors.New("unknown attendee id")
)

// Receipt is an uploaded receipt file accompanying a draft.
type Receipt struct {
	Filename string
	Data     io.Reader
}

// ExpenseService creates and lists expenses.
type ExpenseService struct {
	store      storage.Store
	uploadsDir string
}

// NewExpenseService creates an ExpenseService that saves uploaded receipts
// under uploadsDir.
func NewExpenseService(store storage.Store, uploadsDir string) (*ExpenseService, error) {
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &ExpenseService{store: store, uploadsDir: uploadsDir}, nil
}

// RosterIndex loads the roster and builds its lookup index. An empty
// roster is logged and served as-is; the UI must still render.
func (s *ExpenseService) RosterIndex(ctx context.Context) (*roster.Index, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	idx, err := roster.Build(employees)
	if errors.Is(err, roster.ErrEmptyRoster) {
		slog.Warn("roster is empty, serving empty index")
		return idx, nil
	}
	return idx, err
}

// Create validates the draft, stores the receipt, and persists the
// expense. On any error the caller's draft is untouched so the user can
// correct and resubmit.
func (s *ExpenseService) Create(ctx context.Context, d draft.Draft, receipt *Receipt) (models.ExpenseResponse, error) {
	if receipt != nil {
		d.ReceiptFilename = receipt.Filename
	}
	if err := draft.Validate(d); err != nil {
		return models.ExpenseResponse{}, err
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(d.Date)); err != nil {
		return models.ExpenseResponse{}, ErrBadDate
	}

	idx, err := s.RosterIndex(ctx)
	if err != nil {
		return models.ExpenseResponse{}, err
	}
	for _, id := range d.AttendeeIDs {
		if _, ok := idx.Lookup(id); !ok {
			return models.ExpenseResponse{}, fmt.Errorf("%w: %s", ErrUnknownAttendee, id)
		}
	}

	receiptURL := strings.TrimSpace(d.ReceiptURL)
	if receipt != nil {
		receiptURL, err = s.saveReceipt(receipt)
		if err != nil {
			return models.ExpenseResponse{}, err
		}
	}

	amount, _ := strconv.ParseFloat(strings.TrimSpace(d.AmountRaw), 64)
	expense := &models.Expense{
		Date:        strings.TrimSpace(d.Date),
		Description: strings.TrimSpace(d.Description),
		Amount:      amount,
		AttendeeIDs: d.AttendeeIDs,
		ReceiptURL:  receiptURL,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return models.ExpenseResponse{}, fmt.Errorf("failed to save expense: %w", err)
	}

	slog.Info("expense created",
		"id", expense.ID,
		"amount", expense.Amount,
		"attendees", len(expense.AttendeeIDs),
	)
	return buildResponse(*expense, idx), nil
}

// ListQuarter returns the expenses for one fiscal quarter, newest date
// first, with attendees resolved and per-person cost attached.
func (s *ExpenseService) ListQuarter(ctx context.Context, year, quarter int) ([]models.ExpenseResponse, error) {
	idx, err := s.RosterIndex(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	responses := make([]models.ExpenseResponse, 0)
	for _, expense := range expenses {
		date, err := time.Parse(dateLayout, expense.Date)
		if err != nil {
			continue
		}
		if date.Year() != year || QuarterOf(date) != quarter {
			continue
		}
		if len(expense.AttendeeIDs) == 0 {
			continue
		}
		responses = append(responses, buildResponse(expense, idx))
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Date > responses[j].Date
	})
	return responses, nil
}

// saveReceipt writes the uploaded file under the uploads dir with a
// sanitized, timestamp-prefixed name and returns its serving path.
func (s *ExpenseService) saveReceipt(receipt *Receipt) (string, error) {
	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), SanitizeFilename(receipt.Filename))
	savePath := filepath.Join(s.uploadsDir, filename)

	out, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("failed to save receipt: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, receipt.Data); err != nil {
		return "", fmt.Errorf("failed to save receipt: %w", err)
	}
	return "/uploads/" + filename, nil
}

// buildResponse resolves attendee IDs against the roster. Attendees the
// roster no longer knows are kept with a placeholder record rather than
// dropped, so historical expenses stay renderable.
func buildResponse(expense models.Expense, idx *roster.Index) models.ExpenseResponse {
	attendees := make([]models.Employee, 0, len(expense.AttendeeIDs))
	for _, id := range expense.AttendeeIDs {
		employee, ok := idx.Lookup(id)
		if !ok {
			employee = models.Employee{
				ID:   id,
				Name: "Unknown",
				Team: calculator.UnassignedTeam,
			}
		}
		attendees = append(attendees, employee)
	}

	return models.ExpenseResponse{
		ID:            expense.ID,
		Date:          expense.Date,
		Description:   expense.Description,
		Amount:        expense.Amount,
		CostPerPerson: calculator.RoundCurrency(expense.Amount / float64(len(expense.AttendeeIDs))),
		Attendees:     attendees,
		ReceiptURL:    expense.ReceiptURL,
	}
}

// QuarterOf maps a date to its fiscal quarter (1-4).
func QuarterOf(date time.Time) int {
	return (int(date.Month())-1)/3 + 1
}

// SanitizeFilename strips path separators and normalizes an uploaded
// filename so it is safe to store on disk.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ToLower(name)
	replacer := strings.NewReplacer("..", "", "/", "", "\\", "")
	name = replacer.Replace(name)
	if name == "" {
		return "receipt"
	}
	return name
}
