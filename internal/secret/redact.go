// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secret

import "regexp"

// Mask replaces a redacted value.
const Mask = "[REDACTED]"

// secretPatterns match credentials that statement text may carry. Driver
// errors can echo the failing statement.
var secretPatterns = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`(?i)(password\s*=\s*)'(?:[^']|'')*'`), "${1}'" + Mask + "'"},
	{regexp.MustCompile(`(?i)(rsa_public_key(?:_2)?\s*=\s*)'[^']*'`), "${1}'" + Mask + "'"},
	{regexp.MustCompile(`(?i)(passcode|totp)=\S+`), "${1}=" + Mask},
}

// Redact masks credentials in s.
func Redact(s string) string {
	for _, sp := range secretPatterns {
		s = sp.pattern.ReplaceAllString(s, sp.replace)
	}
	return s
}

// redactedError keeps the chain of the wrapped error for errors.Is and
// errors.As but never prints a credential.
type redactedError struct {
	err error
}

func (e *redactedError) Error() string {
	return Redact(e.err.Error())
}

func (e *redactedError) Unwrap() error {
	return e.err
}

// RedactError wraps err so that its message is redacted. Nil stays nil.
func RedactError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*redactedError); ok {
		return err
	}
	return &redactedError{err: err}
}
