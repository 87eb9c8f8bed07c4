// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// User is one warehouse account. Name identifies the account for every
// remediation action; icewarden only ever mutates Disabled and credentials.
type User struct {
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Disabled         bool       `json:"disabled"`
	LastSuccessLogin *time.Time `json:"last_success_login"`
	HasPassword      bool       `json:"has_password"`
	HasRSAPublicKey  bool       `json:"has_rsa_public_key"`
}

// NeverLoggedIn reports whether the account has no recorded successful login.
func (u User) NeverLoggedIn() bool {
	return u.LastSuccessLogin == nil || u.LastSuccessLogin.IsZero()
}
