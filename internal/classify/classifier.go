// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package classify decides which sessions and users are suspicious or
// inactive. All decisions are pure functions of the records, the injected
// threat-intelligence store and the injected clock.
package classify

import (
	"time"

	"golang.org/x/text/cases"

	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/model"
)

// DefaultInactiveThreshold is how long an account may go without a successful
// login before it is considered inactive.
const DefaultInactiveThreshold = 90 * 24 * time.Hour

// Classifier applies threat intelligence to sessions and users.
type Classifier struct {
	store     *intel.Store
	now       func() time.Time
	threshold time.Duration
}

// Option is a functional option for configuring a Classifier.
type Option func(*Classifier)

// WithClock sets the time source used for inactivity decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// WithInactiveThreshold sets the inactivity threshold. Non-positive values are ignored.
func WithInactiveThreshold(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.threshold = d
		}
	}
}

// New creates a Classifier over the given store.
func New(store *intel.Store, opts ...Option) *Classifier {
	c := &Classifier{
		store:     store,
		now:       time.Now,
		threshold: DefaultInactiveThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the threat-intelligence store the classifier uses.
func (c *Classifier) Store() *intel.Store {
	return c.store
}

// Threshold returns the inactivity threshold.
func (c *Classifier) Threshold() time.Duration {
	return c.threshold
}

// =============================================================================
// SESSIONS
// =============================================================================

// IsSuspiciousSession reports whether s comes from a flagged address or a
// flagged client environment. The environment is only decoded when the
// address is clean; a decode failure is returned as an error.
func (c *Classifier) IsSuspiciousSession(s model.Session) (bool, error) {
	if c.store.IsFlaggedAddress(s.ClientNetAddress) {
		return true, nil
	}
	env, err := s.Environment()
	if err != nil {
		return false, err
	}
	return c.store.MatchesEnvironment(env), nil
}

// SuspiciousSessions returns the suspicious subset of sessions in input order.
// The first decode failure aborts the filter.
func (c *Classifier) SuspiciousSessions(sessions []model.Session) ([]model.Session, error) {
	var out []model.Session
	for _, s := range sessions {
		ok, err := c.IsSuspiciousSession(s)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// =============================================================================
// USERS
// =============================================================================

// SuspiciousUsers returns the users that own at least one suspicious session,
// in the order of users.
func (c *Classifier) SuspiciousUsers(users []model.User, sessions []model.Session) ([]model.User, error) {
	flagged, err := c.SuspiciousSessions(sessions)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]struct{}, len(flagged))
	for _, s := range flagged {
		owners[foldName(s.UserName)] = struct{}{}
	}

	var out []model.User
	for _, u := range users {
		if _, ok := owners[foldName(u.Name)]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// IsInactive reports whether u has never logged in or last logged in before
// now minus the threshold.
func (c *Classifier) IsInactive(u model.User) bool {
	if u.NeverLoggedIn() {
		return true
	}
	return u.LastSuccessLogin.Before(c.now().Add(-c.threshold))
}

// InactiveUsers returns the inactive subset of users in input order.
func (c *Classifier) InactiveUsers(users []model.User) []model.User {
	var out []model.User
	for _, u := range users {
		if c.IsInactive(u) {
			out = append(out, u)
		}
	}
	return out
}

// UsersNamed returns the users whose name matches name under SameUser.
func UsersNamed(users []model.User, name string) []model.User {
	var out []model.User
	for _, u := range users {
		if SameUser(u.Name, name) {
			out = append(out, u)
		}
	}
	return out
}

// SessionsOf returns the sessions owned by name under SameUser.
// An empty name returns sessions unchanged.
func SessionsOf(sessions []model.Session, name string) []model.Session {
	if name == "" {
		return sessions
	}
	var out []model.Session
	for _, s := range sessions {
		if SameUser(s.UserName, name) {
			out = append(out, s)
		}
	}
	return out
}

// =============================================================================
// NAME POLICY
// =============================================================================

// SameUser reports whether a and b name the same warehouse account.
// Account names are compared case-insensitively with Unicode case folding.
func SameUser(a, b string) bool {
	return foldName(a) == foldName(b)
}

func foldName(name string) string {
	// Caser is not safe for concurrent use.
	return cases.Fold().String(name)
}
