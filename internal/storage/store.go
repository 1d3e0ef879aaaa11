// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/socialbudget/backend/internal/models"
)

// Store defines the interface for roster and expense persistence. The
// abstraction keeps the service layer independent of the backing database
// (SQLite today, anything else tomorrow).
type Store interface {
	// ListEmployees returns all employees in roster order.
	ListEmployees(ctx context.Context) ([]models.Employee, error)

	// ReplaceEmployees atomically replaces the roster with the given
	// employees, preserving their order. Used by seeding/import.
	ReplaceEmployees(ctx context.Context, employees []models.Employee) error

	// CreateExpense persists a new expense. The expense.ID and CreatedAt
	// fields are populated by the store when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns all stored expenses, attendee order preserved,
	// newest first by creation time.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
