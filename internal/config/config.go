// Package config loads the harness settings: URLs, per-role credentials
// and the test-data document. Settings are read once at session start and
// are immutable afterwards; the value is threaded through the TestContext
// instead of living in a package-level singleton.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Role names a credential bundle in the credentials document.
type Role string

const (
	RoleRegular Role = "regular_user"
	RoleAdmin   Role = "admin_user"
	RoleTest    Role = "test_user"
)

// Credentials is one login identity for the application under test.
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Settings is the immutable configuration bundle for one test session.
type Settings struct {
	FrontendURL string
	APIURL      string
	APIKey      string

	Browser     string // chromium, firefox or webkit
	Headless    bool
	SlowMo      time.Duration
	ViewportW   int
	ViewportH   int
	RecordVideo bool

	ArtifactDir    string
	DefaultTimeout time.Duration
	NavTimeout     time.Duration
	TestTimeout    time.Duration

	// LoginVia selects how the logged-in fixture authenticates: "ui"
	// drives the login form, "api" uses the HTTP client.
	LoginVia string

	// ConfirmationToken is the string destructive flows ask the user to
	// type (locale dependent, so configurable).
	ConfirmationToken string

	MarkerFilter string

	creds map[Role]Credentials
	data  map[string]map[string]any
}

// NewStatic builds an empty settings bundle from explicit field values,
// bypassing the environment. Used by tooling and the framework's own
// tests.
func NewStatic() *Settings {
	return &Settings{
		creds: map[Role]Credentials{},
		data:  map[string]map[string]any{},
	}
}

// SetCredentials installs a role's credentials in place.
func (s *Settings) SetCredentials(role Role, c Credentials) {
	s.creds[role] = c
}

// Load reads settings from the environment (after an optional .env
// preload) and the credentials / test-data YAML documents.
func Load() (*Settings, error) {
	_ = godotenv.Load() // missing .env is fine; real env always wins

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("API_URL", "http://localhost:8000/api")
	v.SetDefault("BROWSER", "chromium")
	v.SetDefault("HEADLESS", true)
	v.SetDefault("SLOW_MO_MS", 0)
	v.SetDefault("VIEWPORT_WIDTH", 1280)
	v.SetDefault("VIEWPORT_HEIGHT", 720)
	v.SetDefault("RECORD_VIDEO", false)
	v.SetDefault("ARTIFACT_DIR", "./test-results")
	v.SetDefault("WAIT_TIMEOUT", "10s")
	v.SetDefault("NAV_TIMEOUT", "30s")
	v.SetDefault("TEST_TIMEOUT", "5m")
	v.SetDefault("LOGIN_VIA", "ui")
	v.SetDefault("CONFIRM_TOKEN", "DELETE")
	v.SetDefault("CREDENTIALS_FILE", "config/credentials.yaml")
	v.SetDefault("TEST_DATA_FILE", "config/test_data.yaml")

	s := &Settings{
		FrontendURL:       strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		APIURL:            strings.TrimRight(v.GetString("API_URL"), "/"),
		APIKey:            v.GetString("API_KEY"),
		Browser:           v.GetString("BROWSER"),
		Headless:          v.GetBool("HEADLESS"),
		SlowMo:            time.Duration(v.GetInt("SLOW_MO_MS")) * time.Millisecond,
		ViewportW:         v.GetInt("VIEWPORT_WIDTH"),
		ViewportH:         v.GetInt("VIEWPORT_HEIGHT"),
		RecordVideo:       v.GetBool("RECORD_VIDEO"),
		ArtifactDir:       v.GetString("ARTIFACT_DIR"),
		DefaultTimeout:    v.GetDuration("WAIT_TIMEOUT"),
		NavTimeout:        v.GetDuration("NAV_TIMEOUT"),
		TestTimeout:       v.GetDuration("TEST_TIMEOUT"),
		LoginVia:          v.GetString("LOGIN_VIA"),
		ConfirmationToken: v.GetString("CONFIRM_TOKEN"),
		MarkerFilter:      v.GetString("E2E_MARKERS"),
		creds:             map[Role]Credentials{},
		data:              map[string]map[string]any{},
	}

	if err := s.loadCredentials(v.GetString("CREDENTIALS_FILE")); err != nil {
		return nil, err
	}
	if err := s.loadTestData(v.GetString("TEST_DATA_FILE")); err != nil {
		return nil, err
	}

	// Per-role env overrides beat the credentials file, the same way the
	// demo deployments inject accounts.
	for role, prefix := range map[Role]string{
		RoleRegular: "REGULAR_USER",
		RoleAdmin:   "ADMIN_USER",
		RoleTest:    "TEST_USER",
	} {
		email := v.GetString(prefix + "_EMAIL")
		password := v.GetString(prefix + "_PASSWORD")
		if email != "" || password != "" {
			c := s.creds[role]
			if email != "" {
				c.Email = email
			}
			if password != "" {
				c.Password = password
			}
			s.creds[role] = c
		}
	}

	return s, nil
}

func (s *Settings) loadCredentials(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read credentials file %s: %w", path, err)
	}
	var doc struct {
		Users map[Role]Credentials `yaml:"users"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse credentials file %s: %w", path, err)
	}
	for role, c := range doc.Users {
		s.creds[role] = c
	}
	return nil
}

func (s *Settings) loadTestData(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read test data file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return fmt.Errorf("parse test data file %s: %w", path, err)
	}
	return nil
}

// Credentials returns the login identity for a role.
func (s *Settings) Credentials(role Role) (Credentials, error) {
	c, ok := s.creds[role]
	if !ok || c.Email == "" {
		return Credentials{}, fmt.Errorf("no credentials configured for role %q", role)
	}
	return c, nil
}

// HasCredentials reports whether a role is configured, for skip checks.
func (s *Settings) HasCredentials(role Role) bool {
	c, ok := s.creds[role]
	return ok && c.Email != "" && c.Password != ""
}

// TestData returns the named blob from the test-data document.
func (s *Settings) TestData(domain string) (map[string]any, error) {
	blob, ok := s.data[domain]
	if !ok {
		return nil, fmt.Errorf("no test data blob %q", domain)
	}
	return blob, nil
}

// TestDataString digs a dotted path out of a blob, e.g.
// TestDataString("products", "default.name").
func (s *Settings) TestDataString(domain, path string) string {
	blob, err := s.TestData(domain)
	if err != nil {
		return ""
	}
	cur := any(blob)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[part]
	}
	str, _ := cur.(string)
	return str
}
