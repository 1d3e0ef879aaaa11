package service

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/socialbudget/backend/internal/draft"
	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/storage/sqlite"
)

// setupServices creates expense and budget services over a temp-file
// SQLite store seeded with a small roster.
func setupServices(t *testing.T) (*ExpenseService, *BudgetService) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	err = store.ReplaceEmployees(context.Background(), []models.Employee{
		{ID: "ana", Name: "Ana", Team: "Platform", Department: "Engineering"},
		{ID: "ben", Name: "Ben", Team: "Platform", Department: "Engineering"},
		{ID: "cid", Name: "Cid", Team: "Design", Department: "Product"},
	})
	if err != nil {
		t.Fatalf("failed to seed employees: %v", err)
	}

	expenses, err := NewExpenseService(store, filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("failed to create expense service: %v", err)
	}
	budgets := NewBudgetService(store, expenses, BudgetPolicy{QuarterlyPerPerson: 60})
	return expenses, budgets
}

func validTestDraft() draft.Draft {
	return draft.Draft{
		Date:        "2026-02-14",
		Description: "Team lunch",
		AmountRaw:   "90",
		AttendeeIDs: []string{"ana", "ben", "cid"},
		ReceiptURL:  "https://receipts.example/123",
	}
}

func TestExpenseServiceCreate(t *testing.T) {
	expenses, _ := setupServices(t)
	ctx := context.Background()

	t.Run("valid draft", func(t *testing.T) {
		resp, err := expenses.Create(ctx, validTestDraft(), nil)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if resp.ID == "" {
			t.Error("expected generated expense ID")
		}
		if resp.CostPerPerson != 30 {
			t.Errorf("CostPerPerson = %v, want 30", resp.CostPerPerson)
		}
		if len(resp.Attendees) != 3 || resp.Attendees[0].Name != "Ana" {
			t.Errorf("Attendees = %+v", resp.Attendees)
		}
	})

	t.Run("missing receipt rejected", func(t *testing.T) {
		d := validTestDraft()
		d.ReceiptURL = "  "
		_, err := expenses.Create(ctx, d, nil)
		if !errors.Is(err, draft.ErrMissingReceipt) {
			t.Fatalf("Create = %v, want ErrMissingReceipt", err)
		}
	})

	t.Run("uploaded file satisfies the receipt requirement", func(t *testing.T) {
		d := validTestDraft()
		d.ReceiptURL = ""
		receipt := &Receipt{Filename: "My Lunch_Receipt.PDF", Data: strings.NewReader("%PDF-fake")}
		resp, err := expenses.Create(ctx, d, receipt)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !strings.HasPrefix(resp.ReceiptURL, "/uploads/") {
			t.Errorf("ReceiptURL = %q, want /uploads/ path", resp.ReceiptURL)
		}
		if !strings.HasSuffix(resp.ReceiptURL, "my-lunch-receipt.pdf") {
			t.Errorf("ReceiptURL = %q, want sanitized filename suffix", resp.ReceiptURL)
		}
	})

	t.Run("bad date rejected", func(t *testing.T) {
		d := validTestDraft()
		d.Date = "14/02/2026"
		if _, err := expenses.Create(ctx, d, nil); !errors.Is(err, ErrBadDate) {
			t.Fatalf("Create = %v, want ErrBadDate", err)
		}
	})

	t.Run("unknown attendee rejected", func(t *testing.T) {
		d := validTestDraft()
		d.AttendeeIDs = append(d.AttendeeIDs, "ghost")
		if _, err := expenses.Create(ctx, d, nil); !errors.Is(err, ErrUnknownAttendee) {
			t.Fatalf("Create = %v, want ErrUnknownAttendee", err)
		}
	})
}

func TestExpenseServiceListQuarter(t *testing.T) {
	expenses, _ := setupServices(t)
	ctx := context.Background()

	for _, d := range []draft.Draft{
		{Date: "2026-01-10", Description: "Q1 lunch", AmountRaw: "30", AttendeeIDs: []string{"ana"}, ReceiptURL: "u"},
		{Date: "2026-04-02", Description: "Q2 lunch", AmountRaw: "40", AttendeeIDs: []string{"ben"}, ReceiptURL: "u"},
		{Date: "2026-03-01", Description: "Q1 dinner", AmountRaw: "50", AttendeeIDs: []string{"cid"}, ReceiptURL: "u"},
	} {
		if _, err := expenses.Create(ctx, d, nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	q1, err := expenses.ListQuarter(ctx, 2026, 1)
	if err != nil {
		t.Fatalf("ListQuarter failed: %v", err)
	}
	if len(q1) != 2 {
		t.Fatalf("Q1 expenses = %d, want 2", len(q1))
	}
	// Date-descending within the quarter.
	if q1[0].Description != "Q1 dinner" || q1[1].Description != "Q1 lunch" {
		t.Errorf("Q1 order = %s, %s", q1[0].Description, q1[1].Description)
	}

	q3, err := expenses.ListQuarter(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("ListQuarter failed: %v", err)
	}
	if len(q3) != 0 {
		t.Errorf("Q3 expenses = %d, want 0", len(q3))
	}
}

func TestBudgetServiceBuild(t *testing.T) {
	expenses, budgets := setupServices(t)
	ctx := context.Background()

	// Q1 expense counts toward Q2 as well (cumulative year-to-quarter).
	q1 := validTestDraft()
	q1.Date = "2026-02-14"
	if _, err := expenses.Create(ctx, q1, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := budgets.Build(ctx, 2026, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resp.Year != 2026 || resp.Quarter != 2 {
		t.Errorf("year/quarter = %d/Q%d", resp.Year, resp.Quarter)
	}

	var platform models.BudgetTeam
	for _, team := range resp.TeamTotals {
		if team.Team == "Platform" {
			platform = team
		}
	}
	// 2 members x 60 per quarter x 2 quarters.
	if platform.Allocated != 240 {
		t.Errorf("Platform allocated = %v, want 240", platform.Allocated)
	}
	if platform.Headcount != 2 {
		t.Errorf("Platform headcount = %d, want 2", platform.Headcount)
	}
	// Ana and Ben each carry a 30 share of the 90 lunch.
	if platform.Spent != 60 {
		t.Errorf("Platform spent = %v, want 60", platform.Spent)
	}
	if math.Abs(platform.Remaining-(platform.Allocated-platform.Spent)) > 1e-9 {
		t.Errorf("remaining invariant broken: %+v", platform)
	}

	if len(resp.DepartmentTotals) != 2 {
		t.Fatalf("departments = %+v", resp.DepartmentTotals)
	}
	for _, dept := range resp.DepartmentTotals {
		if math.Abs(dept.Remaining-(dept.Allocated-dept.Spent)) > 1e-9 {
			t.Errorf("department remaining invariant broken: %+v", dept)
		}
	}

	// An expense dated next quarter is excluded.
	q3 := validTestDraft()
	q3.Date = "2026-08-01"
	if _, err := expenses.Create(ctx, q3, nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	resp, err = budgets.Build(ctx, 2026, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, team := range resp.TeamTotals {
		if team.Team == "Platform" && team.Spent != 60 {
			t.Errorf("Platform spent after Q3 expense = %v, want still 60", team.Spent)
		}
	}
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-01-01", 1}, {"2026-03-31", 1}, {"2026-04-01", 2},
		{"2026-09-30", 3}, {"2026-12-31", 4},
	}
	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := QuarterOf(date); got != tt.want {
			t.Errorf("QuarterOf(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}
