package roster

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/socialbudget/backend/internal/models"
)

// RawEmployee is the shape of employee seed data on disk. HR exports are
// messy: ids and teams may be blank, and older exports carry a manager
// column instead of a team.
type RawEmployee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Team       string `json:"team"`
	Manager    string `json:"manager"`
	Department string `json:"department"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9-]+`)

// Normalize cleans raw seed records into roster employees: blank teams fall
// back to the manager column, then to "Unassigned"; blank IDs get a slug
// derived from name and team, with a numeric suffix on collision.
func Normalize(raw []RawEmployee) []models.Employee {
	employees := make([]models.Employee, 0, len(raw))
	idCounts := make(map[string]int)

	for _, r := range raw {
		team := strings.TrimSpace(r.Team)
		if team == "" {
			team = strings.TrimSpace(r.Manager)
		}
		if team == "" {
			team = "Unassigned"
		}

		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = Slugify(fmt.Sprintf("%s-%s", r.Name, team))
		}
		idCounts[id]++
		if idCounts[id] > 1 {
			id = fmt.Sprintf("%s-%d", id, idCounts[id])
		}

		employees = append(employees, models.Employee{
			ID:         id,
			Name:       strings.TrimSpace(r.Name),
			Team:       team,
			Department: strings.TrimSpace(r.Department),
		})
	}

	return employees
}

// Slugify lowercases the value and strips everything but letters, digits
// and hyphens, so it can serve as a stable employee ID.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "_", "-")
	value = strings.ReplaceAll(value, " ", "-")
	value = slugPattern.ReplaceAllString(value, "")
	value = strings.Trim(value, "-")
	if value == "" {
		return "employee"
	}
	return value
}
