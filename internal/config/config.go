// Package config loads the server configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server settings, loadable from a YAML file with
// SOCIALBUDGET_* environment overrides.
type Config struct {
	Addr         string       `mapstructure:"addr"`
	DBPath       string       `mapstructure:"db_path"`
	UploadsDir   string       `mapstructure:"uploads_dir"`
	EmployeeSeed string       `mapstructure:"employee_seed"`
	Budget       BudgetConfig `mapstructure:"budget"`
}

// BudgetConfig is the allocation policy knob.
type BudgetConfig struct {
	// QuarterlyPerPerson is the budget every team member earns their team
	// per fiscal quarter.
	QuarterlyPerPerson float64 `mapstructure:"quarterly_per_person"`
}

// Load reads the configuration. A missing path is fine: defaults plus
// environment overrides apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8082")
	v.SetDefault("db_path", "./data/socialbudget.db")
	v.SetDefault("uploads_dir", "./data/uploads")
	v.SetDefault("employee_seed", "./data/employees.json")
	v.SetDefault("budget.quarterly_per_person", 60.0)

	v.SetEnvPrefix("SOCIALBUDGET")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
