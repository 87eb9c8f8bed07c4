// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secret

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   `ALTER USER "BOB" SET PASSWORD = 'a''b c'`,
			want: `ALTER USER "BOB" SET PASSWORD = '[REDACTED]'`,
		},
		{
			in:   `alter user x set rsa_public_key_2 = 'MIIB'`,
			want: `alter user x set rsa_public_key_2 = '[REDACTED]'`,
		},
		{in: "login passcode=123456 failed", want: "login passcode=[REDACTED] failed"},
		{in: "abort session: not confirmed", want: "abort session: not confirmed"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stepError struct{ msg string }

func (e *stepError) Error() string { return e.msg }

func TestRedactError(t *testing.T) {
	if RedactError(nil) != nil {
		t.Fatal("RedactError(nil) != nil")
	}

	inner := &stepError{msg: "002003: SQL compilation error near PASSWORD = 'hunter2'"}
	err := RedactError(fmt.Errorf("set password BOB: %w", inner))

	if strings.Contains(err.Error(), "hunter2") {
		t.Errorf("message leaks the password: %s", err)
	}
	var target *stepError
	if !errors.As(err, &target) || target != inner {
		t.Error("wrapped error is no longer reachable with errors.As")
	}
	if RedactError(err) != err {
		t.Error("already redacted error wrapped twice")
	}
}
