// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one active warehouse connection as reported by the monitoring
// endpoint. ID is stable for the lifetime of the session and unique among
// concurrently active sessions.
type Session struct {
	ID                int64  `json:"id"`
	UserName          string `json:"userName"`
	ClientNetAddress  string `json:"clientNetAddress"`
	ClientEnvironment string `json:"clientEnvironment"`
	ClientApplication string `json:"clientApplication"`
	StartTime         int64  `json:"startTime"` // epoch milliseconds
	EndTime           int64  `json:"endTime"`   // epoch milliseconds, 0 while open
	AuthnMethod       string `json:"authnMethod"`
	IsActive          bool   `json:"isActive"`
}

// Environment decodes the client environment blob.
// A blob that is not a JSON object yields a *DecodeError.
func (s Session) Environment() (Environment, error) {
	env, err := DecodeEnvironment(s.ClientEnvironment)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.SessionID = s.ID
		}
		return nil, err
	}
	return env, nil
}

// CheckEnvironments decodes the environment of every session in order and
// returns the first *DecodeError.
func CheckEnvironments(sessions []Session) error {
	for _, s := range sessions {
		if _, err := s.Environment(); err != nil {
			return err
		}
	}
	return nil
}

// Started returns StartTime as a time.Time.
func (s Session) Started() time.Time {
	return time.UnixMilli(s.StartTime)
}

// Ended returns EndTime as a time.Time, or the zero time if the session is open.
func (s Session) Ended() time.Time {
	if s.EndTime == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.EndTime)
}

// IDString returns the session ID in decimal form.
func (s Session) IDString() string {
	return strconv.FormatInt(s.ID, 10)
}

// SessionFields lists the CSV/JSON field names of a session in display order.
var SessionFields = []string{
	"id",
	"userName",
	"clientNetAddress",
	"clientEnvironment",
	"clientApplication",
	"startTime",
	"endTime",
	"authnMethod",
	"isActive",
}

// Fields returns the session as strings in SessionFields order.
func (s Session) Fields() []string {
	return []string{
		s.IDString(),
		s.UserName,
		s.ClientNetAddress,
		s.ClientEnvironment,
		s.ClientApplication,
		strconv.FormatInt(s.StartTime, 10),
		strconv.FormatInt(s.EndTime, 10),
		s.AuthnMethod,
		strconv.FormatBool(s.IsActive),
	}
}
