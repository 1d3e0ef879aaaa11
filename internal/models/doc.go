// Package models defines the core domain models for the social budget
// backend.
//
// # Models
//
//   - Employee: a person on the roster, belonging to exactly one team and
//     optionally a department
//   - Expense: a stored shared expense, referencing attendees by employee ID
//   - ExpenseResponse: an expense as served over the API, with attendees
//     resolved to full Employee records and the per-person cost attached
//   - BudgetTeam / BudgetDepartment: allocated/spent/remaining rollups per
//     organizational scope for one fiscal quarter
//
// # Design Principles
//
//  1. Employees are immutable once loaded for a session; everything that
//     needs lookup structures derives them (see internal/roster)
//  2. Stored expenses keep attendee IDs in insertion order; that order is
//     meaningful (it drives display and LIFO correction in the selector)
//  3. Rollup figures are always derived, never stored; remaining is defined
//     as allocated minus spent with no independent source of truth
package models
