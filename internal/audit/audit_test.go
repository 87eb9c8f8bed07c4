// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/icewarden/internal/remediate"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.log")
	l, err := Open(path, WithIdentity("ADMIN", "xy12345"), WithClock(fixedNow))
	require.NoError(t, err)
	defer l.Close()

	outcomes := []remediate.Outcome{
		{Target: "ALICE", Status: remediate.Reset},
		{Target: "BOB", Status: remediate.Failed, Error: `set password BOB: PASSWORD = 'hunter2' rejected`},
		{Target: "CAROL", Status: remediate.Active},
	}
	require.NoError(t, l.Record("reset", outcomes, errors.New("connection lost")))

	events := readEvents(t, path)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, events[0].BatchID, e.BatchID)
		assert.Equal(t, "reset", e.Action)
		assert.Equal(t, "ADMIN", e.Operator)
		assert.Equal(t, "xy12345", e.Account)
		assert.True(t, e.Timestamp.Equal(fixedNow()))
	}
	assert.Empty(t, events[0].Interrupted)
	assert.NotContains(t, events[1].Error, "hunter2")
	assert.Equal(t, "connection lost", events[2].Interrupted)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestRecord_AppendsBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, l.Record("kill", []remediate.Outcome{{Target: "1", Status: remediate.Killed}}, nil))
	require.NoError(t, l.Record("kill", []remediate.Outcome{{Target: "2", Status: remediate.Killed}}, nil))
	require.NoError(t, l.Close())

	events := readEvents(t, path)
	require.Len(t, events, 2)
	assert.NotEqual(t, events[0].BatchID, events[1].BatchID)

	assert.Error(t, l.Record("kill", []remediate.Outcome{{Target: "3"}}, nil), "closed logger")
}

func TestRecord_Rotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	l, err := Open(path, WithMaxSize(1), WithClock(fixedNow))
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Record("disable", []remediate.Outcome{{Target: "A", Status: remediate.Disabled}}, nil))
	require.NoError(t, l.Record("disable", []remediate.Outcome{{Target: "B", Status: remediate.Disabled}}, nil))

	_, err = os.Stat(filepath.Join(dir, "audit_20240601_120000.log"))
	assert.NoError(t, err)
	events := readEvents(t, path)
	require.Len(t, events, 1)
	assert.Equal(t, "B", events[0].Target)
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NoError(t, l.Record("kill", []remediate.Outcome{{Target: "1"}}, nil))
	assert.NoError(t, l.Close())
	assert.Empty(t, l.Path())
}
