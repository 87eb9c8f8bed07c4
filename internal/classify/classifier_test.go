// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/model"
)

const (
	badAddr  = "104.223.91.28"
	goodAddr = "10.0.0.1"
	cleanEnv = `{"APPLICATION":"SnowSQL","OS":"Linux"}`
	badEnv   = `{"APPLICATION":"rapeflake"}`
)

func testStore() *intel.Store {
	return intel.New([]string{badAddr}, []intel.Rule{{"APPLICATION": "rapeflake"}})
}

func TestIsSuspiciousSession(t *testing.T) {
	c := New(testStore())

	tests := []struct {
		name    string
		session model.Session
		want    bool
		wantErr bool
	}{
		{"clean", model.Session{ClientNetAddress: goodAddr, ClientEnvironment: cleanEnv}, false, false},
		{"flagged address", model.Session{ClientNetAddress: badAddr, ClientEnvironment: cleanEnv}, true, false},
		{"flagged environment", model.Session{ClientNetAddress: goodAddr, ClientEnvironment: badEnv}, true, false},
		{"both", model.Session{ClientNetAddress: badAddr, ClientEnvironment: badEnv}, true, false},
		{"flagged address short-circuits bad blob", model.Session{ClientNetAddress: badAddr, ClientEnvironment: "{"}, true, false},
		{"bad blob on clean address", model.Session{ID: 9, ClientNetAddress: goodAddr, ClientEnvironment: "{"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.IsSuspiciousSession(tt.session)
			if tt.wantErr {
				var de *model.DecodeError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.session.ID, de.SessionID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuspiciousSessions_KeepsOrder(t *testing.T) {
	c := New(testStore())
	sessions := []model.Session{
		{ID: 1, ClientNetAddress: badAddr, ClientEnvironment: cleanEnv},
		{ID: 2, ClientNetAddress: goodAddr, ClientEnvironment: cleanEnv},
		{ID: 3, ClientNetAddress: goodAddr, ClientEnvironment: badEnv},
		{ID: 4, ClientNetAddress: badAddr, ClientEnvironment: badEnv},
	}

	got, err := c.SuspiciousSessions(sessions)
	require.NoError(t, err)

	ids := make([]int64, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)
}

func TestSuspiciousSessions_DecodeErrorAborts(t *testing.T) {
	c := New(testStore())
	_, err := c.SuspiciousSessions([]model.Session{
		{ID: 1, ClientNetAddress: goodAddr, ClientEnvironment: cleanEnv},
		{ID: 2, ClientNetAddress: goodAddr, ClientEnvironment: "[1,2]"},
	})
	require.Error(t, err)
}

func TestSuspiciousUsers_ThreeUsersTwoFlagged(t *testing.T) {
	c := New(testStore())
	users := []model.User{{Name: "ALICE"}, {Name: "BOB"}, {Name: "CAROL"}}
	sessions := []model.Session{
		{ID: 1, UserName: "CAROL", ClientNetAddress: badAddr, ClientEnvironment: cleanEnv},
		{ID: 2, UserName: "BOB", ClientNetAddress: goodAddr, ClientEnvironment: cleanEnv},
		{ID: 3, UserName: "alice", ClientNetAddress: goodAddr, ClientEnvironment: badEnv},
		{ID: 4, UserName: "CAROL", ClientNetAddress: goodAddr, ClientEnvironment: badEnv},
	}

	got, err := c.SuspiciousUsers(users, sessions)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ALICE", got[0].Name, "order follows the user list")
	assert.Equal(t, "CAROL", got[1].Name)
}

func TestInactiveUsers(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-24 * time.Hour)
	edge := now.Add(-DefaultInactiveThreshold)
	old := now.Add(-DefaultInactiveThreshold - time.Second)

	c := New(testStore(), WithClock(func() time.Time { return now }))
	users := []model.User{
		{Name: "NEVER"},
		{Name: "RECENT", LastSuccessLogin: &recent},
		{Name: "EDGE", LastSuccessLogin: &edge},
		{Name: "OLD", LastSuccessLogin: &old},
	}

	got := c.InactiveUsers(users)
	names := make([]string, len(got))
	for i, u := range got {
		names[i] = u.Name
	}
	assert.Equal(t, []string{"NEVER", "OLD"}, names)
}

func TestWithInactiveThreshold(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	last := now.Add(-10 * 24 * time.Hour)
	u := model.User{Name: "U", LastSuccessLogin: &last}

	c := New(testStore(), WithClock(func() time.Time { return now }), WithInactiveThreshold(7*24*time.Hour))
	assert.True(t, c.IsInactive(u))

	c = New(testStore(), WithClock(func() time.Time { return now }), WithInactiveThreshold(0))
	assert.Equal(t, DefaultInactiveThreshold, c.Threshold(), "non-positive threshold is ignored")
	assert.False(t, c.IsInactive(u))
}

func TestSameUser(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ALICE", "alice", true},
		{"Alice", "ALICE", true},
		{"ALICE", "ALICE2", false},
		{"", "", true},
		{"ALICE", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SameUser(tt.a, tt.b), "SameUser(%q, %q)", tt.a, tt.b)
	}
}

func TestSessionsOfAndUsersNamed(t *testing.T) {
	sessions := []model.Session{{ID: 1, UserName: "ALICE"}, {ID: 2, UserName: "bob"}, {ID: 3, UserName: "alice"}}
	assert.Len(t, SessionsOf(sessions, "Alice"), 2)
	assert.Len(t, SessionsOf(sessions, ""), 3)

	users := []model.User{{Name: "ALICE"}, {Name: "BOB"}}
	got := UsersNamed(users, "bob")
	require.Len(t, got, 1)
	assert.Equal(t, "BOB", got[0].Name)
}
