package models

// Employee represents one person on the roster.
type Employee struct {
	// ID is the unique identifier for the employee. Seed data without an
	// ID gets a slug derived from name and team on import.
	ID string `json:"id"`

	// Name is the employee's display name.
	Name string `json:"name"`

	// Team is the name of the employee's team. Every employee belongs to
	// exactly one team.
	Team string `json:"team"`

	// Department is the department the team rolls up into. Optional;
	// employees without a department are excluded from department rollups
	// but still counted in team rollups.
	Department string `json:"department,omitempty"`
}
