package service

import (
	"context"
	"fmt"
	"time"

	"github.com/socialbudget/backend/internal/calculator"
	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/storage"
)

// BudgetPolicy is the allocation rule: every team gets a fixed amount per
// member per quarter, cumulative over the fiscal year (a team's Q2 budget
// is two quarters' worth).
type BudgetPolicy struct {
	QuarterlyPerPerson float64
}

// BudgetService derives quarterly budget figures from stored expenses and
// the allocation policy.
type BudgetService struct {
	store  storage.Store
	policy BudgetPolicy

	expenses *ExpenseService
}

// NewBudgetService creates a BudgetService. The expense service supplies
// the roster index and response building.
func NewBudgetService(store storage.Store, expenses *ExpenseService, policy BudgetPolicy) *BudgetService {
	return &BudgetService{store: store, policy: policy, expenses: expenses}
}

// Build computes the budget view for one quarter. Spent figures cover the
// fiscal year up to and including the requested quarter, matching the
// cumulative allocation. Each request recomputes from storage, so rapid
// year/quarter flips always settle on the latest request's answer.
func (s *BudgetService) Build(ctx context.Context, year, quarter int) (models.BudgetResponse, error) {
	idx, err := s.expenses.RosterIndex(ctx)
	if err != nil {
		return models.BudgetResponse{}, err
	}

	stored, err := s.store.ListExpenses(ctx)
	if err != nil {
		return models.BudgetResponse{}, fmt.Errorf("failed to load expenses: %w", err)
	}

	inWindow := make([]models.ExpenseResponse, 0)
	for _, expense := range stored {
		date, err := time.Parse(dateLayout, expense.Date)
		if err != nil {
			continue
		}
		if date.Year() != year || QuarterOf(date) > quarter {
			continue
		}
		if len(expense.AttendeeIDs) == 0 {
			continue
		}
		inWindow = append(inWindow, buildResponse(expense, idx))
	}

	allocations := make([]calculator.TeamAllocation, 0, len(idx.TeamNames()))
	for _, team := range idx.TeamNames() {
		headcount := len(idx.MembersOf(team))
		dept, _ := idx.Department(team)
		allocations = append(allocations, calculator.TeamAllocation{
			Team:       team,
			Department: dept,
			Headcount:  headcount,
			Allocated:  s.policy.QuarterlyPerPerson * float64(headcount) * float64(quarter),
		})
	}

	result := calculator.Rollup(inWindow, idx, allocations)

	// Round at the API boundary only. Remaining is recomputed from the
	// rounded figures so the allocated-minus-spent invariant survives the
	// rounding.
	teams := make([]models.BudgetTeam, len(result.TeamTotals))
	for i, row := range result.TeamTotals {
		row.Allocated = calculator.RoundCurrency(row.Allocated)
		row.Spent = calculator.RoundCurrency(row.Spent)
		if row.Remaining != 0 || row.Allocated != 0 {
			row.Remaining = row.Allocated - row.Spent
		}
		teams[i] = row
	}
	departments := make([]models.BudgetDepartment, len(result.DepartmentTotals))
	for i, row := range result.DepartmentTotals {
		row.Allocated = calculator.RoundCurrency(row.Allocated)
		row.Spent = calculator.RoundCurrency(row.Spent)
		if row.Remaining != 0 || row.Allocated != 0 {
			row.Remaining = row.Allocated - row.Spent
		}
		departments[i] = row
	}

	return models.BudgetResponse{
		Year:             year,
		Quarter:          quarter,
		DepartmentTotals: departments,
		TeamTotals:       teams,
	}, nil
}
