// Package tracker talks to a Jira-compatible issue tracker through its REST
// v3 API and turns Markdown ticket templates into Atlassian Document Format.
package tracker

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL  string
	Email    string
	APIToken string
}

// MissingConfigError lists the environment variables that were not set.
type MissingConfigError struct {
	Vars []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// LoadConfig reads JIRA_BASE_URL, JIRA_EMAIL and JIRA_API_TOKEN from the
// environment, loading .env first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("JIRA_BASE_URL")), "/"),
		Email:    strings.TrimSpace(os.Getenv("JIRA_EMAIL")),
		APIToken: strings.TrimSpace(os.Getenv("JIRA_API_TOKEN")),
	}

	var missing []string
	if cfg.BaseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if cfg.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if cfg.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return nil, &MissingConfigError{Vars: missing}
	}
	return cfg, nil
}

// BrowseURL is the web page of an issue or, with a project key, its board.
func (c *Config) BrowseURL(key string) string {
	return c.BaseURL + "/browse/" + key
}
