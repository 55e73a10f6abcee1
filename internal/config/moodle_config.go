package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// MoodleConfig represents the complete LMS integration configuration
type MoodleConfig struct {
	Moodle MoodleIntegration `toml:"moodle"`
	Roles  RoleConfig        `toml:"roles"`
	Calls  CallConfig        `toml:"calls"`
}

// MoodleIntegration contains endpoint and credential settings for the LMS
type MoodleIntegration struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
}

// RoleConfig maps the LMS role ids used by the assignment flows
type RoleConfig struct {
	StudentRoleID int64 `toml:"student_role_id"`
	TrainerRoleID int64 `toml:"trainer_role_id"`
}

// CallConfig contains timeout settings for web service calls
type CallConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// LoadMoodleConfig loads configuration from a TOML file. The token may be
// supplied via the MOODLE_TOKEN environment variable instead of the file so
// that credentials stay out of checked-in configuration.
func LoadMoodleConfig(filename string) (*MoodleConfig, error) {
	config := &MoodleConfig{}
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if token := os.Getenv("MOODLE_TOKEN"); token != "" {
		config.Moodle.Token = token
	}
	if config.Moodle.Token == "" {
		return nil, fmt.Errorf("moodle token is required (set MOODLE_TOKEN or moodle.token)")
	}
	if config.Moodle.BaseURL == "" {
		return nil, fmt.Errorf("moodle base_url is required")
	}

	if config.Calls.TimeoutSeconds <= 0 {
		config.Calls.TimeoutSeconds = 30
	}
	if config.Roles.StudentRoleID == 0 {
		config.Roles.StudentRoleID = 5 // Moodle's default student role
	}
	if config.Roles.TrainerRoleID == 0 {
		config.Roles.TrainerRoleID = 3 // editingteacher
	}

	return config, nil
}
