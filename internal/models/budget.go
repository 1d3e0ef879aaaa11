package models

// BudgetTeam is the quarterly rollup for one team.
type BudgetTeam struct {
	Team       string  `json:"team"`
	Department string  `json:"department"`
	Headcount  int     `json:"headcount"`
	Allocated  float64 `json:"allocated"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
}

// BudgetDepartment is the quarterly rollup for one department, aggregated
// over its teams.
type BudgetDepartment struct {
	Department string  `json:"department"`
	Allocated  float64 `json:"allocated"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
}

// BudgetResponse is the full budget view for a fiscal quarter.
type BudgetResponse struct {
	Year             int                `json:"year"`
	Quarter          int                `json:"quarter"`
	DepartmentTotals []BudgetDepartment `json:"department_totals"`
	TeamTotals       []BudgetTeam       `json:"team_totals"`
}
