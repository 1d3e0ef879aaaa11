package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/socialbudget/backend/internal/roster"
)

// SeedEmployees loads the roster from a JSON seed file when the employees
// table is empty. Records pass through roster.Normalize, so messy HR
// exports (blank ids, manager-instead-of-team) come out clean. An already
// populated table is left alone.
func (s *SQLiteStore) SeedEmployees(ctx context.Context, path string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read employee seed: %w", err)
	}

	var raw []roster.RawEmployee
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse employee seed: %w", err)
	}

	employees := roster.Normalize(raw)
	if err := s.ReplaceEmployees(ctx, employees); err != nil {
		return 0, err
	}
	return len(employees), nil
}
