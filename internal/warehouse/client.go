// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package warehouse defines the contract icewarden needs from the data
// warehouse it protects, and the errors that contract reports.
//
// Implementations live in sub-packages (see warehouse/snowflake). Everything
// above this package works against Client and Dialer only, which is what the
// tests mock.
package warehouse

import (
	"context"

	"github.com/jeranaias/icewarden/internal/model"
)

//go:generate mockgen -destination=../mocks/warehouse_mock.go -package=mocks github.com/jeranaias/icewarden/internal/warehouse Client,Dialer

// KeySlot names one of the two public-key credentials an account can hold.
type KeySlot int

const (
	// PrimaryKey is the account's first RSA public key.
	PrimaryKey KeySlot = iota
	// SecondaryKey is the account's second RSA public key, used for rotation.
	SecondaryKey
)

func (k KeySlot) String() string {
	switch k {
	case PrimaryKey:
		return "RSA_PUBLIC_KEY"
	case SecondaryKey:
		return "RSA_PUBLIC_KEY_2"
	default:
		return "unknown"
	}
}

// DelegatedAuthorizations are the authorization categories revoked from an
// account on every credential reset, before its security integrations.
var DelegatedAuthorizations = []string{"NUMERACY", "SNOWSCOPE", "APPLICA", "CLEANROOM"}

// Client is an open administrative session against the warehouse.
//
// Connection-level failures are reported as *ConnectionError and failures of
// a single call as *CallError. Calls are not retried.
type Client interface {
	// FetchSessions returns every currently active session.
	FetchSessions(ctx context.Context) ([]model.Session, error)

	// FetchUsers returns every account.
	FetchUsers(ctx context.Context) ([]model.User, error)

	// AbortSession terminates a session. It reports false when the warehouse
	// did not confirm the kill.
	AbortSession(ctx context.Context, id int64) (bool, error)

	// DisableUser marks an account disabled.
	DisableUser(ctx context.Context, name string) error

	// AbortUserQueries aborts every running query of an account.
	AbortUserQueries(ctx context.Context, name string) error

	// RevokeDelegatedAuthorization removes every delegated authorization of
	// the given scope (an authorization category or security integration).
	RevokeDelegatedAuthorization(ctx context.Context, name, scope string) error

	// ListSecurityIntegrations returns the names of all security integrations.
	ListSecurityIntegrations(ctx context.Context) ([]string, error)

	// SetPassword replaces an account's password.
	SetPassword(ctx context.Context, name, secret string) error

	// ClearPublicKey removes one of an account's public keys.
	ClearPublicKey(ctx context.Context, name string, slot KeySlot) error

	// Close releases the session.
	Close() error
}

// Dialer opens Clients. Each logical operation opens its own Client and
// closes it when done.
type Dialer interface {
	Connect(ctx context.Context) (Client, error)
}
