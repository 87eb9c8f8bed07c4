// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"time"

	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/model"
)

// SessionColumns is the column selection for session listings.
var SessionColumns = []Column[model.Session]{
	{Name: "userName", Value: func(s model.Session) any { return s.UserName }, MaxWidth: 32},
	{Name: "id", Value: func(s model.Session) any { return s.ID }},
	{Name: "isActive", Value: func(s model.Session) any { return s.IsActive }},
	{Name: "startTime", Value: func(s model.Session) any { return s.StartTime }},
	{Name: "clientEnvironment", Value: func(s model.Session) any { return s.ClientEnvironment }, MaxWidth: 32},
	{Name: "clientApplication", Value: func(s model.Session) any { return s.ClientApplication }, MaxWidth: 24},
	{Name: "clientNetAddress", Value: func(s model.Session) any { return s.ClientNetAddress }},
	{Name: "authnMethod", Value: func(s model.Session) any { return s.AuthnMethod }},
}

// SessionTransforms flags threat-intelligence matches and renders start times as ages.
func SessionTransforms(store *intel.Store, now func() time.Time) map[string]Transform {
	return map[string]Transform{
		"startTime":         Age(now),
		"clientEnvironment": FlagEnvironment(store),
		"clientNetAddress":  FlagAddress(store),
	}
}

// SessionFieldColumns selects every session field, for CSV export.
func SessionFieldColumns() []Column[model.Session] {
	cols := make([]Column[model.Session], len(model.SessionFields))
	for i, name := range model.SessionFields {
		i := i
		cols[i] = Column[model.Session]{
			Name:  name,
			Value: func(s model.Session) any { return s.Fields()[i] },
		}
	}
	return cols
}

// UserColumns is the column selection for user listings.
var UserColumns = []Column[model.User]{
	{Name: "name", Value: func(u model.User) any { return u.Name }, MaxWidth: 32},
	{Name: "email", Value: func(u model.User) any { return u.Email }, MaxWidth: 32},
	{Name: "disabled", Value: func(u model.User) any { return u.Disabled }},
	{Name: "last_success_login", Value: func(u model.User) any { return u.LastSuccessLogin }},
	{Name: "has_password", Value: func(u model.User) any { return u.HasPassword }},
	{Name: "has_rsa_public_key", Value: func(u model.User) any { return u.HasRSAPublicKey }},
}

// UserTransforms renders last logins as ages.
func UserTransforms(now func() time.Time) map[string]Transform {
	return map[string]Transform{
		"last_success_login": Age(now),
	}
}
