// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package snowflake implements the warehouse contract against Snowflake.
//
// Statements go through database/sql with the gosnowflake driver. Active
// sessions are only exposed by the account monitoring endpoint, so session
// listing uses a separate REST login against the same account.
package snowflake

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// DefaultTimeout bounds logins and individual REST calls.
const DefaultTimeout = 60 * time.Second

// Config holds what is needed to open an administrative session.
type Config struct {
	Account   string
	User      string
	Password  string
	Role      string
	Warehouse string

	// Host overrides <account>.snowflakecomputing.com. It may carry a scheme
	// (http://localhost:8080) for private endpoints and tests.
	Host string

	// TOTPSecret is the base32 seed of the account's MFA authenticator.
	// When set, a passcode is generated for every login.
	TOTPSecret string

	Timeout time.Duration
}

// Validate checks the settings a login cannot do without.
func (c Config) Validate() error {
	var missing []string
	if c.Account == "" {
		missing = append(missing, "account")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("snowflake: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// BaseURL returns the REST endpoint root of the account.
func (c Config) BaseURL() string {
	host := c.Host
	if host == "" {
		host = c.Account + ".snowflakecomputing.com"
	}
	if strings.Contains(host, "://") {
		return strings.TrimRight(host, "/")
	}
	return "https://" + strings.TrimRight(host, "/")
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// passcode returns the current MFA passcode, or "" when MFA is not configured.
func (c Config) passcode(now time.Time) (string, error) {
	if c.TOTPSecret == "" {
		return "", nil
	}
	code, err := totp.GenerateCode(c.TOTPSecret, now)
	if err != nil {
		return "", errors.New("snowflake: invalid TOTP secret")
	}
	return code, nil
}
