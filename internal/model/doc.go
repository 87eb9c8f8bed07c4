// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the warehouse records icewarden reads and acts on.
//
// Every value in this package is a read-only snapshot returned by the
// warehouse. Nothing here is persisted or cached across actions; a fresh
// fetch is always treated as the current truth.
//
// # Key Types
//
//   - Session: One live client connection to the warehouse
//   - User: One warehouse account
//   - Environment: The decoded client fingerprint attached to a session
//   - DecodeError: A client environment blob that could not be decoded
//
// # Usage
//
// Decode the client environment of a session before inspecting it:
//
//	env, err := session.Environment()
//	if err != nil {
//	    return err // never treat an undecodable blob as clean
//	}
//	app, _ := env.String("APPLICATION")
package model
