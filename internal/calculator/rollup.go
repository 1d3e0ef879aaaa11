package calculator

import (
	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/roster"
)

// UnassignedTeam is the bucket for attendees the roster does not know.
const UnassignedTeam = "Unassigned"

// TeamAllocation is externally supplied budget policy for one team:
// headcount and the allocated amount for the quarter. The rollup only
// merges these figures, it never fabricates them.
type TeamAllocation struct {
	Team       string
	Department string
	Headcount  int
	Allocated  float64
}

// RollupResult carries the derived team and department totals.
type RollupResult struct {
	TeamTotals       []models.BudgetTeam
	DepartmentTotals []models.BudgetDepartment
}

// Rollup aggregates expenses into per-team and per-department figures.
//
// Cost is attributed per attendee, not per expense: each attendee on an
// expense adds that expense's CostPerPerson to their team (and, through the
// team, to its department). An expense whose attendees span teams therefore
// contributes its per-person share to each team independently; the teams
// collectively own their employees' shares even when that sums past the raw
// amount.
//
// Teams and departments without allocation data report allocated and
// remaining as zero rather than inventing figures; where allocation data is
// present, remaining is exactly allocated minus spent.
//
// Output order is stable: scopes appear in the order they are first seen in
// the expense list, followed by allocation-only scopes in allocation order.
func Rollup(expenses []models.ExpenseResponse, idx *roster.Index, allocations []TeamAllocation) RollupResult {
	var teamOrder []string
	teamSpent := make(map[string]float64)
	teamDept := make(map[string]string)
	seen := func(team, dept string) {
		if _, ok := teamSpent[team]; !ok {
			teamOrder = append(teamOrder, team)
			teamSpent[team] = 0
		}
		if teamDept[team] == "" {
			teamDept[team] = dept
		}
	}

	for _, expense := range expenses {
		for _, attendee := range expense.Attendees {
			team, dept := scopeFor(attendee, idx)
			seen(team, dept)
			teamSpent[team] += expense.CostPerPerson
		}
	}

	allocated := make(map[string]TeamAllocation, len(allocations))
	for _, alloc := range allocations {
		dept := alloc.Department
		if dept == "" {
			dept, _ = idx.Department(alloc.Team)
		}
		seen(alloc.Team, dept)
		allocated[alloc.Team] = alloc
	}

	teams := make([]models.BudgetTeam, 0, len(teamOrder))
	var deptOrder []string
	deptTotals := make(map[string]*models.BudgetDepartment)
	deptFunded := make(map[string]bool)

	for _, team := range teamOrder {
		spent := teamSpent[team]
		row := models.BudgetTeam{
			Team:       team,
			Department: teamDept[team],
			Spent:      spent,
		}
		alloc, funded := allocated[team]
		if funded {
			row.Headcount = alloc.Headcount
			row.Allocated = alloc.Allocated
			row.Remaining = alloc.Allocated - spent
		}
		teams = append(teams, row)

		// Teams without a department stay out of department rollups.
		dept := row.Department
		if dept == "" {
			continue
		}
		totals, ok := deptTotals[dept]
		if !ok {
			totals = &models.BudgetDepartment{Department: dept}
			deptTotals[dept] = totals
			deptOrder = append(deptOrder, dept)
		}
		totals.Allocated += row.Allocated
		totals.Spent += row.Spent
		if funded {
			deptFunded[dept] = true
		}
	}

	departments := make([]models.BudgetDepartment, 0, len(deptOrder))
	for _, dept := range deptOrder {
		totals := *deptTotals[dept]
		if deptFunded[dept] {
			totals.Remaining = totals.Allocated - totals.Spent
		}
		departments = append(departments, totals)
	}

	return RollupResult{TeamTotals: teams, DepartmentTotals: departments}
}

// scopeFor resolves the team and department an attendee's share belongs to.
// The roster is authoritative; attendees it does not know fall back to the
// employee record embedded in the expense, then to the Unassigned bucket.
func scopeFor(attendee models.Employee, idx *roster.Index) (team, dept string) {
	if employee, ok := idx.Lookup(attendee.ID); ok {
		dept, _ := idx.Department(employee.Team)
		return employee.Team, dept
	}
	if attendee.Team != "" {
		return attendee.Team, attendee.Department
	}
	return UnassignedTeam, ""
}
