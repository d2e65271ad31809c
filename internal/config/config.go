// Package config loads action inputs and runner settings from the environment.
package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration.
// Action inputs arrive as INPUT_<NAME> environment variables.
type Config struct {
	GithubToken    string `env:"INPUT_GITHUB_TOKEN"`
	APIEndpoint    string `env:"INPUT_API_ENDPOINT"`
	TeamPulseToken string `env:"INPUT_TEAMPULSE_TOKEN"`
	Runner         Runner
}

// Runner holds the variables the Actions runner sets for every step
type Runner struct {
	EventName  string `env:"GITHUB_EVENT_NAME"`
	EventPath  string `env:"GITHUB_EVENT_PATH"`
	Repository string `env:"GITHUB_REPOSITORY"`
	ServerURL  string `env:"GITHUB_SERVER_URL" envDefault:"https://github.com"`
	OutputPath string `env:"GITHUB_OUTPUT"`
	Debug      bool   `env:"RUNNER_DEBUG"`
}

// Load loads configuration from the process environment
func Load() (Config, error) {
	return Parse(nil)
}

// Parse loads configuration from environment; nil means the process environment
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the inputs the action needs
func (c Config) Validate() error {
	if c.GithubToken == "" {
		return &MissingInputError{Name: "github_token"}
	}
	return c.ValidateDestination()
}

// ValidateDestination checks the inputs needed to submit a payload
func (c Config) ValidateDestination() error {
	if c.APIEndpoint == "" {
		return &MissingInputError{Name: "api_endpoint"}
	}
	if c.TeamPulseToken == "" {
		return &MissingInputError{Name: "teampulse_token"}
	}
	return nil
}

// APIHost returns the GitHub host derived from GITHUB_SERVER_URL
func (r Runner) APIHost() string {
	u, err := url.Parse(r.ServerURL)
	if err != nil || u.Host == "" {
		return "github.com"
	}
	return u.Host
}

// MissingInputError is a required input that was not supplied
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("Input required and not supplied: %s", e.Name)
}
