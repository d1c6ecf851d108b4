// Package config loads server settings: built-in defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alanyang/shift-router/internal/domain/policy"
)

type Config struct {
	DatabaseURL     string        `yaml:"database_url"`
	Port            string        `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	JanitorInterval time.Duration `yaml:"-"`

	Pyrus     PyrusConfig    `yaml:"pyrus"`
	Policy    PolicyConfig   `yaml:"policy"`
	Operators []OperatorSeed `yaml:"operators"`
}

type PyrusConfig struct {
	BaseURL        string   `yaml:"base_url"`
	AuthURL        string   `yaml:"auth_url"`
	Login          string   `yaml:"login"`
	SecurityKey    string   `yaml:"security_key"`
	AccessToken    string   `yaml:"access_token"`
	FormID         int      `yaml:"form_id"`
	Step           int      `yaml:"step"`
	OwnerFieldID   int      `yaml:"owner_field_id"`
	OwnerFieldName string   `yaml:"owner_field_name"`
	NestedPath     []string `yaml:"nested_path"`
}

// PolicyConfig is the YAML shape of policy.Policy: clock times as "HH:MM", durations as
// Go duration strings.
type PolicyConfig struct {
	Timezone         string `yaml:"timezone"`
	WindowStart      string `yaml:"window_start"`
	WindowEnd        string `yaml:"window_end"`
	ShiftEndBuffer   string `yaml:"shift_end_buffer"`
	DailyQuota       int    `yaml:"daily_quota"`
	Cadence          string `yaml:"cadence"`
	CallTimeout      string `yaml:"call_timeout"`
	OutcomeRetention string `yaml:"outcome_retention"`
	RecentOutcomes   int    `yaml:"recent_outcomes"`
}

type OperatorSeed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

func Default() Config {
	p := policy.Default()
	return Config{
		Port:            "8080",
		LogLevel:        "info",
		JanitorInterval: time.Hour,
		Pyrus: PyrusConfig{
			BaseURL:        "https://api.pyrus.com/v4",
			AuthURL:        "https://api.pyrus.com/v4/auth",
			FormID:         607869,
			Step:           4,
			OwnerFieldID:   106,
			OwnerFieldName: "Ответственный технолог",
			NestedPath: []string{
				"Создание запроса Специалистом КС",
				"Тип запроса",
				"Обработка запроса Технологом",
			},
		},
		Policy: PolicyConfig{
			Timezone:         policy.DefaultTimezone,
			WindowStart:      policy.FormatOffset(p.WindowStart),
			WindowEnd:        policy.FormatOffset(p.WindowEnd),
			ShiftEndBuffer:   p.ShiftEndBuffer.String(),
			DailyQuota:       p.DailyQuota,
			Cadence:          p.Cadence.String(),
			CallTimeout:      p.CallTimeout.String(),
			OutcomeRetention: p.OutcomeRetention.String(),
			RecentOutcomes:   p.RecentOutcomes,
		},
	}
}

// Load starts from Default, overlays the YAML file at path (skipped when path is empty)
// and then the environment. ${VAR_NAME} in the file is replaced by the variable's value.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	envString("DATABASE_URL", &c.DatabaseURL)
	envString("PORT", &c.Port)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("PYRUS_LOGIN", &c.Pyrus.Login)
	envString("PYRUS_SECURITY_KEY", &c.Pyrus.SecurityKey)
	envString("PYRUS_ACCESS_TOKEN", &c.Pyrus.AccessToken)
	envString("TIMEZONE", &c.Policy.Timezone)

	if v := os.Getenv("DAILY_QUOTA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Policy.DailyQuota = n
		}
	}
	if d := envDuration("PASS_CADENCE_SECONDS", 0); d > 0 {
		c.Policy.Cadence = d.String()
	}
	c.JanitorInterval = envDuration("JANITOR_INTERVAL_SECONDS", c.JanitorInterval)
}

// Validate checks the settings that would otherwise fail at first use.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Pyrus.BaseURL == "" || c.Pyrus.AuthURL == "" {
		return fmt.Errorf("pyrus.base_url and pyrus.auth_url are required")
	}
	if c.Pyrus.AccessToken == "" && (c.Pyrus.Login == "" || c.Pyrus.SecurityKey == "") {
		return fmt.Errorf("pyrus credentials are required: set PYRUS_LOGIN and PYRUS_SECURITY_KEY, or PYRUS_ACCESS_TOKEN")
	}
	if c.Pyrus.OwnerFieldName == "" || c.Pyrus.OwnerFieldID <= 0 {
		return fmt.Errorf("pyrus.owner_field_id and pyrus.owner_field_name are required")
	}
	for i, op := range c.Operators {
		if op.Email == "" {
			return fmt.Errorf("operators[%d].email is required", i)
		}
	}
	if _, err := c.PolicyValue(); err != nil {
		return err
	}
	return nil
}

// PolicyValue converts the YAML policy block into a validated policy.Policy.
func (c Config) PolicyValue() (policy.Policy, error) {
	p := policy.Default()
	pc := c.Policy

	loc, err := time.LoadLocation(pc.Timezone)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("loading timezone %q: %w", pc.Timezone, err)
	}
	p.Timezone = loc

	if p.WindowStart, err = policy.ParseOffset(pc.WindowStart); err != nil {
		return policy.Policy{}, fmt.Errorf("policy.window_start: %w", err)
	}
	// "24:00" is not a valid clock time but is accepted as end of day.
	if pc.WindowEnd == "24:00" {
		p.WindowEnd = 24 * time.Hour
	} else if p.WindowEnd, err = policy.ParseOffset(pc.WindowEnd); err != nil {
		return policy.Policy{}, fmt.Errorf("policy.window_end: %w", err)
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"policy.shift_end_buffer", pc.ShiftEndBuffer, &p.ShiftEndBuffer},
		{"policy.cadence", pc.Cadence, &p.Cadence},
		{"policy.call_timeout", pc.CallTimeout, &p.CallTimeout},
		{"policy.outcome_retention", pc.OutcomeRetention, &p.OutcomeRetention},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(d.raw); err != nil {
			return policy.Policy{}, fmt.Errorf("%s: %w", d.name, err)
		}
	}

	p.DailyQuota = pc.DailyQuota
	if pc.RecentOutcomes > 0 {
		p.RecentOutcomes = pc.RecentOutcomes
	}

	if err := p.Validate(); err != nil {
		return policy.Policy{}, err
	}
	return p, nil
}

func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or "" when unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// envDuration reads an integer-seconds env var and returns a Duration.
// Falls back to defaultVal if the var is unset or invalid.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
