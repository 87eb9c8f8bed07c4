// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jeranaias/icewarden/internal/logging"
	"github.com/jeranaias/icewarden/internal/util"
	"github.com/jeranaias/icewarden/internal/warehouse/snowflake"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete icewarden configuration.
type Config struct {
	Snowflake   SnowflakeConfig   `toml:"snowflake"`
	Intel       IntelConfig       `toml:"intel"`
	Remediation RemediationConfig `toml:"remediation"`
	Watch       WatchConfig       `toml:"watch"`
	Output      OutputConfig      `toml:"output"`
	Logging     LoggingConfig     `toml:"logging"`
	Audit       AuditConfig       `toml:"audit"`
}

// SnowflakeConfig holds the account and credentials of the administrative user.
type SnowflakeConfig struct {
	Account    string        `toml:"account" env:"SNOWFLAKE_ACCOUNT"`
	User       string        `toml:"user" env:"SNOWFLAKE_USER"`
	Password   string        `toml:"password" env:"SNOWFLAKE_PASSWORD"`
	Role       string        `toml:"role" env:"SNOWFLAKE_ROLE"`
	Warehouse  string        `toml:"warehouse" env:"SNOWFLAKE_WAREHOUSE"`
	Host       string        `toml:"host" env:"SNOWFLAKE_HOST"`
	TOTPSecret string        `toml:"totp_secret" env:"SNOWFLAKE_TOTP_SECRET"`
	Timeout    time.Duration `toml:"timeout" env:"SNOWFLAKE_TIMEOUT"`
}

// IntelConfig points at an optional operator threat-intelligence file.
type IntelConfig struct {
	File string `toml:"file" env:"ICEWARDEN_INTEL_FILE"`
}

// RemediationConfig tunes bulk actions.
type RemediationConfig struct {
	// InactiveDays is how long an account may go without a login before
	// --inactive selects it.
	InactiveDays int `toml:"inactive_days" env:"ICEWARDEN_INACTIVE_DAYS"`

	// Pause is the minimum spacing between remote actions.
	Pause time.Duration `toml:"pause" env:"ICEWARDEN_PAUSE"`
}

// WatchConfig tunes the live session view.
type WatchConfig struct {
	Interval time.Duration `toml:"interval" env:"ICEWARDEN_WATCH_INTERVAL"`
}

// OutputConfig tunes listings.
type OutputConfig struct {
	// Limit is the default number of rows in a listing. Zero fits the terminal.
	Limit int `toml:"limit" env:"ICEWARDEN_LIMIT"`
}

// LoggingConfig selects the log level and sink.
type LoggingConfig struct {
	Level string `toml:"level" env:"ICEWARDEN_LOG_LEVEL"`
	File  string `toml:"file" env:"ICEWARDEN_LOG_FILE"`
}

// AuditConfig controls the remediation audit trail.
type AuditConfig struct {
	// File defaults to audit.log in the configuration directory.
	File     string `toml:"file" env:"ICEWARDEN_AUDIT_FILE"`
	Disabled bool   `toml:"disabled" env:"ICEWARDEN_AUDIT_DISABLED"`
}

// Path returns the audit trail location, or "" when auditing is disabled.
func (a AuditConfig) Path() (string, error) {
	if a.Disabled {
		return "", nil
	}
	if a.File != "" {
		return a.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.log"), nil
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Snowflake: SnowflakeConfig{
			Timeout: snowflake.DefaultTimeout,
		},
		Remediation: RemediationConfig{
			InactiveDays: 90,
			Pause:        50 * time.Millisecond,
		},
		Watch: WatchConfig{
			Interval: 500 * time.Millisecond,
		},
		Output: OutputConfig{
			Limit: 25,
		},
		Logging: LoggingConfig{
			Level: logging.DefaultLevel,
		},
	}
}

// Dial returns the connection settings for the Snowflake dialer.
func (s SnowflakeConfig) Dial() snowflake.Config {
	return snowflake.Config{
		Account:    s.Account,
		User:       s.User,
		Password:   s.Password,
		Role:       s.Role,
		Warehouse:  s.Warehouse,
		Host:       s.Host,
		TOTPSecret: s.TOTPSecret,
		Timeout:    s.Timeout,
	}
}

// InactiveThreshold returns InactiveDays as a duration.
func (r RemediationConfig) InactiveThreshold() time.Duration {
	return time.Duration(r.InactiveDays) * 24 * time.Hour
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Snowflake.Password != "" {
		out.Snowflake.Password = "********"
	}
	if out.Snowflake.TOTPSecret != "" {
		out.Snowflake.TOTPSecret = "********"
	}
	return &out
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the icewarden configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".icewarden"), nil
}

// DefaultPath returns the path to the default TOML config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ensureSecurePermissions tightens a config file to 0600; it holds credentials.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the TOML file, a .env file in
// the working directory and the environment, then validates it.
//
// With an empty path the default file is used if it exists. A path given
// explicitly must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg, DotEnvFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Unknown keys are rejected.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Not fixable on every filesystem; loading continues.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overlays environment variables on cfg. When dotenv names an
// existing file its variables are loaded first.
func ApplyEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := cleanenv.ReadConfig(dotenv, cfg); err != nil {
				return fmt.Errorf("failed to read %s: %w", dotenv, err)
			}
			return nil
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// WriteTOML writes cfg as a commented TOML file readable only by its owner.
func WriteTOML(cfg *Config, path string) error {
	return util.WriteFileAtomic(path, 0600, func(w io.Writer) error {
		fmt.Fprintln(w, "# icewarden configuration file")
		fmt.Fprintln(w, "# Environment variables (SNOWFLAKE_*, ICEWARDEN_*) override these values.")
		fmt.Fprintln(w, "")
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	})
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks value ranges. Credentials are checked when connecting so
// that offline commands work without them.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Remediation.InactiveDays < 1 {
		errs = append(errs, ValidationError{Field: "remediation.inactive_days", Message: "must be at least 1"})
	}
	if c.Remediation.Pause < 0 {
		errs = append(errs, ValidationError{Field: "remediation.pause", Message: "must not be negative"})
	}
	if c.Watch.Interval <= 0 {
		errs = append(errs, ValidationError{Field: "watch.interval", Message: "must be positive"})
	}
	if c.Output.Limit < 0 {
		errs = append(errs, ValidationError{Field: "output.limit", Message: "must not be negative"})
	}
	if c.Snowflake.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "snowflake.timeout", Message: "must not be negative"})
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{Field: "logging.level", Message: err.Error()})
	}
	if c.Snowflake.Host != "" && strings.ContainsAny(c.Snowflake.Host, " \t\n") {
		errs = append(errs, ValidationError{Field: "snowflake.host", Message: "must not contain whitespace"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var ve ValidateErrors
	return errors.As(err, &ve)
}
