package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialbudget/backend/internal/draft"
	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/roster"
	"github.com/socialbudget/backend/internal/selector"
	"github.com/socialbudget/backend/internal/server"
	"github.com/socialbudget/backend/internal/service"
	"github.com/socialbudget/backend/internal/storage/sqlite"
)

func setupBackend(t *testing.T, employees []models.Employee) *Client {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.ReplaceEmployees(context.Background(), employees))

	uploadsDir := filepath.Join(t.TempDir(), "uploads")
	expenses, err := service.NewExpenseService(store, uploadsDir)
	require.NoError(t, err)
	budgets := service.NewBudgetService(store, expenses, service.BudgetPolicy{QuarterlyPerPerson: 60})

	api := server.New(
		server.Config{Addr: ":0", UploadsDir: uploadsDir, ShutdownTimeout: time.Second},
		server.Dependencies{Expenses: expenses, Budgets: budgets},
	)
	ts := httptest.NewServer(api.Router())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

// TestSubmitWorkflow walks the full path a user takes: load the roster,
// pick attendees through the selector, preview the split, submit, and see
// the rollup move.
func TestSubmitWorkflow(t *testing.T) {
	ctx := context.Background()
	c := setupBackend(t, []models.Employee{
		{ID: "a", Name: "Ana", Team: "X", Department: "Engineering"},
		{ID: "b", Name: "Ben", Team: "X", Department: "Engineering"},
		{ID: "c", Name: "Cid", Team: "Y", Department: "Engineering"},
	})

	employees, err := c.Employees(ctx)
	require.NoError(t, err)
	idx, err := roster.Build(employees)
	require.NoError(t, err)

	// Pick team X by exact name, then Cid individually.
	sel := selector.New(idx)
	sel.Focus()
	sel.SetQuery("x")
	sel.Enter()
	sel.SetQuery("cid")
	sel.Enter()
	require.Equal(t, []string{"a", "b", "c"}, sel.Selection())

	d := draft.Draft{
		Date:        "2026-02-14",
		Description: "Team offsite dinner",
		AmountRaw:   "90",
		AttendeeIDs: sel.Selection(),
		ReceiptURL:  "https://receipts.example/dinner",
	}
	assert.Equal(t, 30.0, d.CostPerPerson())

	created, err := c.SubmitExpense(ctx, d, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, created.CostPerPerson)

	list, err := c.Expenses(ctx, 2026, 1)
	require.NoError(t, err)
	require.Len(t, list.Expenses, 1)

	budgets, err := c.Budgets(ctx, 2026, 1)
	require.NoError(t, err)
	byTeam := map[string]models.BudgetTeam{}
	for _, team := range budgets.TeamTotals {
		byTeam[team.Team] = team
	}
	// Ana and Ben each attribute 30 to X; Cid attributes 30 to Y.
	assert.Equal(t, 60.0, byTeam["X"].Spent)
	assert.Equal(t, 30.0, byTeam["Y"].Spent)
	require.Len(t, budgets.DepartmentTotals, 1)
	assert.Equal(t, 90.0, budgets.DepartmentTotals[0].Spent)
}

func TestSubmitWithReceiptUpload(t *testing.T) {
	ctx := context.Background()
	c := setupBackend(t, []models.Employee{
		{ID: "a", Name: "Ana", Team: "X", Department: "Engineering"},
	})

	d := draft.Draft{
		Date:            "2026-02-14",
		Description:     "Solo lunch with visitor",
		AmountRaw:       "15",
		AttendeeIDs:     []string{"a"},
		ReceiptFilename: "lunch.pdf",
	}
	created, err := c.SubmitExpense(ctx, d, strings.NewReader("%PDF-fake"))
	require.NoError(t, err)
	assert.Contains(t, created.ReceiptURL, "/uploads/")
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	ctx := context.Background()
	c := setupBackend(t, []models.Employee{
		{ID: "a", Name: "Ana", Team: "X", Department: "Engineering"},
	})

	d := draft.Draft{
		Date:        "2026-02-14",
		Description: "Ghost dinner",
		AmountRaw:   "40",
		AttendeeIDs: []string{"a", "ghost"},
		ReceiptURL:  "https://receipts.example/x",
	}
	_, err := c.SubmitExpense(ctx, d, nil)
	require.Error(t, err)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 400, subErr.Status)
	// The server's message is surfaced verbatim.
	assert.Contains(t, subErr.Message, "unknown attendee")

	// The draft is untouched; fixing the one bad field is enough.
	assert.Equal(t, "Ghost dinner", d.Description)
	assert.Equal(t, []string{"a", "ghost"}, d.AttendeeIDs)
	d.AttendeeIDs = []string{"a"}
	_, err = c.SubmitExpense(ctx, d, nil)
	require.NoError(t, err)
}

func TestLocalValidationBlocksSubmission(t *testing.T) {
	ctx := context.Background()
	c := setupBackend(t, []models.Employee{
		{ID: "a", Name: "Ana", Team: "X", Department: "Engineering"},
	})

	d := draft.Draft{
		Date:        "2026-02-14",
		Description: "No receipt",
		AmountRaw:   "10",
		AttendeeIDs: []string{"a"},
	}
	_, err := c.SubmitExpense(ctx, d, nil)
	require.ErrorIs(t, err, draft.ErrMissingReceipt)
}
