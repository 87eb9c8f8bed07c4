// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package intel holds the static threat intelligence icewarden classifies
// sessions against: a set of flagged client addresses and a set of flagged
// client environment rules.
//
// A Store is immutable once built. It is created at startup from the built-in
// data set, optionally merged with an operator file, and injected into every
// consumer. Lists are never refreshed while the process runs.
package intel

import (
	"sort"

	"github.com/jeranaias/icewarden/internal/model"
)

// =============================================================================
// RULES
// =============================================================================

// Rule is a set of required environment field/value pairs.
// An environment matches when every field is present with an equal value;
// fields the rule does not name are ignored.
type Rule map[string]string

// Matches reports whether env satisfies every pair of the rule.
// An empty rule matches nothing.
func (r Rule) Matches(env model.Environment) bool {
	if len(r) == 0 {
		return false
	}
	for field, want := range r {
		got, ok := env.String(field)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// key returns a canonical form of the rule for deduplication.
func (r Rule) key() string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var k []byte
	for _, f := range fields {
		k = append(k, f...)
		k = append(k, 0)
		k = append(k, r[f]...)
		k = append(k, 0)
	}
	return string(k)
}

// =============================================================================
// STORE
// =============================================================================

// Store answers the two threat-intelligence questions icewarden asks.
type Store struct {
	addresses map[string]struct{}
	rules     []Rule
}

// New builds a store from the given addresses and rules.
// Duplicate addresses and duplicate rules are collapsed; empty rules are dropped.
func New(addresses []string, rules []Rule) *Store {
	s := &Store{addresses: make(map[string]struct{}, len(addresses))}
	for _, a := range addresses {
		if a == "" {
			continue
		}
		s.addresses[a] = struct{}{}
	}

	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if len(r) == 0 {
			continue
		}
		k := r.key()
		if seen[k] {
			continue
		}
		seen[k] = true

		clone := make(Rule, len(r))
		for f, v := range r {
			clone[f] = v
		}
		s.rules = append(s.rules, clone)
	}
	return s
}

// Default returns a store holding the built-in data set.
func Default() *Store {
	return New(defaultAddresses, defaultRules)
}

// Merge returns a new store holding the union of s and other.
func (s *Store) Merge(other *Store) *Store {
	addresses := s.Addresses()
	addresses = append(addresses, other.Addresses()...)
	rules := append(append([]Rule{}, s.rules...), other.rules...)
	return New(addresses, rules)
}

// IsFlaggedAddress reports whether addr is on the flagged address list.
// The comparison is an exact string match; no normalisation is applied.
func (s *Store) IsFlaggedAddress(addr string) bool {
	_, ok := s.addresses[addr]
	return ok
}

// MatchesEnvironment reports whether env satisfies at least one rule.
func (s *Store) MatchesEnvironment(env model.Environment) bool {
	for _, r := range s.rules {
		if r.Matches(env) {
			return true
		}
	}
	return false
}

// MatchesRawEnvironment decodes raw and matches it against the rules.
// An undecodable blob is reported as an error, never as a non-match.
func (s *Store) MatchesRawEnvironment(raw string) (bool, error) {
	env, err := model.DecodeEnvironment(raw)
	if err != nil {
		return false, err
	}
	return s.MatchesEnvironment(env), nil
}

// Addresses returns the flagged addresses in sorted order.
func (s *Store) Addresses() []string {
	out := make([]string, 0, len(s.addresses))
	for a := range s.addresses {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Rules returns a copy of the environment rules.
func (s *Store) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		clone := make(Rule, len(r))
		for f, v := range r {
			clone[f] = v
		}
		out[i] = clone
	}
	return out
}

// Len returns the number of flagged addresses and environment rules.
func (s *Store) Len() (addresses, rules int) {
	return len(s.addresses), len(s.rules)
}
