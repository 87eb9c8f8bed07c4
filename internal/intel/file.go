// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intel

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileFormat is the on-disk layout of an operator threat-intelligence file:
//
//	addresses = ["203.0.113.7", "198.51.100.23"]
//
//	[[environment]]
//	APPLICATION = "SuspiciousClient"
//
//	[[environment]]
//	APPLICATION = "DBeaver_DBeaverUltimate"
//	OS = "Windows Server 2022"
type fileFormat struct {
	Addresses   []string            `toml:"addresses"`
	Environment []map[string]string `toml:"environment"`
}

// LoadFile reads an operator threat-intelligence file.
// Unknown keys are rejected so that a typo cannot silently drop a rule.
func LoadFile(path string) (*Store, error) {
	var f fileFormat
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode threat intel file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("threat intel file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	rules := make([]Rule, 0, len(f.Environment))
	for i, r := range f.Environment {
		if len(r) == 0 {
			return nil, fmt.Errorf("threat intel file %s: environment rule %d is empty", path, i+1)
		}
		rules = append(rules, Rule(r))
	}
	return New(f.Addresses, rules), nil
}

// Load returns the built-in store, merged with the operator file when path is set.
func Load(path string) (*Store, error) {
	store := Default()
	if path == "" {
		return store, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return store.Merge(extra), nil
}
