// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remediate

import (
	"context"

	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/warehouse"
)

var (
	sessionHeaders = []string{"User", "ID", "IP"}
	userHeaders    = []string{"User", "Email"}
)

func sessionOutcomes(sessions []model.Session) []Outcome {
	out := make([]Outcome, len(sessions))
	for i, s := range sessions {
		out[i] = Outcome{
			Target: s.IDString(),
			Fields: []string{s.UserName, s.IDString(), s.ClientNetAddress},
			Status: Active,
		}
	}
	return out
}

func userOutcomes(users []model.User) []Outcome {
	out := make([]Outcome, len(users))
	for i, u := range users {
		out[i] = Outcome{
			Target: u.Name,
			Fields: []string{u.Name, u.Email},
			Status: Active,
		}
	}
	return out
}

// itemLevel turns a call failure into an item failure. Connection failures
// pass through and stop the batch.
func itemLevel(target, step string, err error) error {
	if warehouse.IsConnectionError(err) {
		return err
	}
	return &ItemError{Target: target, Step: step, Err: err}
}

// Kill aborts each session in order. A confirmed abort is Killed, an
// unconfirmed one Failed.
func (e *Engine) Kill(ctx context.Context, sessions []model.Session) ([]Outcome, error) {
	b := &batch{title: "Killing sessions", headers: sessionHeaders, outcomes: sessionOutcomes(sessions)}
	ids := make(map[string]int64, len(sessions))
	for _, s := range sessions {
		ids[s.IDString()] = s.ID
	}

	return e.run(ctx, b, func(ctx context.Context, o *Outcome, _ func(string)) (Status, error) {
		ok, err := e.client.AbortSession(ctx, ids[o.Target])
		if err != nil {
			return Failed, itemLevel(o.Target, "abort session", err)
		}
		if !ok {
			return Failed, &ItemError{Target: o.Target, Step: "abort session", Err: ErrNotConfirmed}
		}
		return Killed, nil
	})
}

// Disable disables each account in order. Any failure stops the batch.
func (e *Engine) Disable(ctx context.Context, users []model.User) ([]Outcome, error) {
	b := &batch{title: "Disabling users", headers: userHeaders, outcomes: userOutcomes(users)}

	return e.run(ctx, b, func(ctx context.Context, o *Outcome, _ func(string)) (Status, error) {
		if err := e.client.DisableUser(ctx, o.Target); err != nil {
			return Failed, err
		}
		return Disabled, nil
	})
}

// Reset replaces every credential of each account in order:
// running queries are aborted, delegated authorizations and security
// integration authorizations are revoked, the password is replaced and both
// public keys are removed. The first failing step abandons the account.
func (e *Engine) Reset(ctx context.Context, users []model.User) ([]Outcome, error) {
	b := &batch{title: "Resetting credentials", headers: userHeaders, outcomes: userOutcomes(users)}

	return e.run(ctx, b, func(ctx context.Context, o *Outcome, report func(string)) (Status, error) {
		name := o.Target

		if err := e.client.AbortUserQueries(ctx, name); err != nil {
			return Failed, itemLevel(name, "abort queries", err)
		}
		report(" » Aborted all queries")

		for _, scope := range warehouse.DelegatedAuthorizations {
			if err := e.client.RevokeDelegatedAuthorization(ctx, name, scope); err != nil {
				return Failed, itemLevel(name, "revoke delegated authorization "+scope, err)
			}
			report(" » Revoked delegated authorization " + scope)
		}

		integrations, err := e.client.ListSecurityIntegrations(ctx)
		if err != nil {
			return Failed, itemLevel(name, "list security integrations", err)
		}
		for _, integration := range integrations {
			if err := e.client.RevokeDelegatedAuthorization(ctx, name, integration); err != nil {
				return Failed, itemLevel(name, "revoke security authorization "+integration, err)
			}
			report(" » Revoked security authorization " + integration)
		}

		password, err := e.newSecret()
		if err != nil {
			return Failed, itemLevel(name, "generate password", err)
		}
		if err := e.client.SetPassword(ctx, name, password); err != nil {
			return Failed, itemLevel(name, "set password", err)
		}
		report(" » Reset password")

		if err := e.client.ClearPublicKey(ctx, name, warehouse.PrimaryKey); err != nil {
			return Failed, itemLevel(name, "clear RSA public key", err)
		}
		report(" » Reset RSA public key")

		if err := e.client.ClearPublicKey(ctx, name, warehouse.SecondaryKey); err != nil {
			return Failed, itemLevel(name, "clear RSA public key 2", err)
		}
		report(" » Reset RSA public key 2")

		return Reset, nil
	})
}
