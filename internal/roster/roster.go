// Package roster builds read-only lookup structures over the employee list.
package roster

import (
	"errors"

	"github.com/socialbudget/backend/internal/models"
)

// ErrEmptyRoster signals that the index was built from an empty employee
// list. It is non-fatal: the returned index is usable and simply empty, so
// callers should log and continue rather than abort.
var ErrEmptyRoster = errors.New("roster is empty")

// Index is a derived, read-only view over the employee list. Team names
// keep first-appearance order; members keep roster order.
type Index struct {
	employees []models.Employee
	byID      map[string]models.Employee
	teamNames []string
	members   map[string][]string
	teamDept  map[string]string
}

// Build constructs an Index from the flat employee list. Deterministic and
// O(n). An empty input returns a usable empty index together with
// ErrEmptyRoster.
func Build(employees []models.Employee) (*Index, error) {
	idx := &Index{
		employees: make([]models.Employee, len(employees)),
		byID:      make(map[string]models.Employee, len(employees)),
		members:   make(map[string][]string),
		teamDept:  make(map[string]string),
	}
	copy(idx.employees, employees)

	for _, employee := range idx.employees {
		idx.byID[employee.ID] = employee
		if _, seen := idx.members[employee.Team]; !seen {
			idx.teamNames = append(idx.teamNames, employee.Team)
		}
		idx.members[employee.Team] = append(idx.members[employee.Team], employee.ID)
		if idx.teamDept[employee.Team] == "" {
			idx.teamDept[employee.Team] = employee.Department
		}
	}

	if len(idx.employees) == 0 {
		return idx, ErrEmptyRoster
	}
	return idx, nil
}

// Lookup returns the employee with the given ID.
func (idx *Index) Lookup(id string) (models.Employee, bool) {
	employee, ok := idx.byID[id]
	return employee, ok
}

// Employees returns all employees in roster order.
func (idx *Index) Employees() []models.Employee {
	return idx.employees
}

// Len returns the number of employees in the index.
func (idx *Index) Len() int {
	return len(idx.employees)
}

// TeamNames returns the distinct team names in first-appearance order.
func (idx *Index) TeamNames() []string {
	return idx.teamNames
}

// MembersOf returns the employee IDs belonging to the team, in roster
// order. Unknown teams yield an empty slice.
func (idx *Index) MembersOf(team string) []string {
	return idx.members[team]
}

// Department returns the department a team rolls up into. The second
// return is false when the team has no department set.
func (idx *Index) Department(team string) (string, bool) {
	dept := idx.teamDept[team]
	return dept, dept != ""
}
