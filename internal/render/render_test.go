// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/model"
)

type rec struct {
	name string
	n    int
}

var recColumns = []Column[rec]{
	{Name: "name", Value: func(r rec) any { return r.name }},
	{Name: "n", Value: func(r rec) any { return r.n }},
	{Name: "status", Value: func(r rec) any { return "Active" }},
}

func recs(n int) []rec {
	out := make([]rec, n)
	for i := range out {
		out[i] = rec{name: fmt.Sprintf("r%d", i), n: i}
	}
	return out
}

func TestRender_NoSyntheticRowsAtOrUnderLimit(t *testing.T) {
	for _, n := range []int{0, 1, 24, 25} {
		v := Render(recs(n), recColumns, nil, 25)
		assert.Len(t, v.Rows, n, "n=%d", n)
		assert.Zero(t, v.Omitted)
	}
}

func TestRender_ThirtyAtTwentyFive(t *testing.T) {
	v := Render(recs(30), recColumns, nil, 25)

	require.Len(t, v.Rows, 27)
	assert.Equal(t, 5, v.Omitted)
	assert.Equal(t, []string{"r24", "24", "Active"}, v.Rows[24])
	assert.Equal(t, []string{"…", "…", "…"}, v.Rows[25])
	assert.Equal(t, []string{"And 5 more", "", ""}, v.Rows[26])
	assert.Len(t, v.Records(), 25)
}

func TestRender_OverLimitShape(t *testing.T) {
	for total := 2; total < 12; total++ {
		for limit := 1; limit < total; limit++ {
			v := Render(recs(total), recColumns, nil, limit)
			require.Len(t, v.Rows, limit+2)
			assert.Equal(t, fmt.Sprintf("And %d more", total-limit), v.Rows[limit+1][0])
		}
	}
}

func TestRender_UnboundedWhenLimitNotPositive(t *testing.T) {
	v := Render(recs(100), recColumns, nil, 0)
	assert.Len(t, v.Rows, 100)
}

func TestRender_TransformsByColumnName(t *testing.T) {
	tf := map[string]Transform{
		"n": func(v any) string { return fmt.Sprintf("#%v", v) },
	}
	v := Render(recs(2), recColumns, tf, 0)
	assert.Equal(t, []string{"r1", "#1", "Active"}, v.Rows[1])
}

func TestRender_MaxWidth(t *testing.T) {
	cols := []Column[rec]{{Name: "name", Value: func(r rec) any { return r.name }, MaxWidth: 4}}
	v := Render([]rec{{name: "DBeaver_DBeaverUltimate"}}, cols, nil, 0)
	assert.Equal(t, "DBe…", v.Rows[0][0])
}

func TestRowLimit(t *testing.T) {
	assert.Equal(t, 19, RowLimit(24))
	assert.Equal(t, 1, RowLimit(6))
	assert.Equal(t, 1, RowLimit(5))
	assert.Equal(t, 1, RowLimit(0))
}

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "just now"},
		{999 * time.Millisecond, "just now"},
		{-5 * time.Second, "just now"},
		{time.Second, "1 second ago"},
		{59 * time.Second, "59 seconds ago"},
		{61 * time.Second, "1 minute ago"},
		{5400 * time.Second, "1 hour ago"},
		{2 * time.Hour, "2 hours ago"},
		{90000 * time.Second, "1 day ago"},
		{30 * 24 * time.Hour, "1 month ago"},
		{364 * 24 * time.Hour, "12 months ago"},
		{365 * 24 * time.Hour, "1 year ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeAgo(tt.d), "TimeAgo(%v)", tt.d)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	age := Age(func() time.Time { return now })

	then := now.Add(-3 * time.Hour)
	assert.Equal(t, "3 hours ago", age(then))
	assert.Equal(t, "3 hours ago", age(&then))
	assert.Equal(t, "3 hours ago", age(then.UnixMilli()))
	assert.Equal(t, "never", age((*time.Time)(nil)))
	assert.Equal(t, "never", age(int64(0)))
}

func TestFlagTransforms(t *testing.T) {
	store := intel.New([]string{"104.223.91.28"}, []intel.Rule{{"APPLICATION": "rapeflake"}})

	addr := FlagAddress(store)
	assert.Equal(t, "*** 104.223.91.28", addr("104.223.91.28"))
	assert.Equal(t, "10.0.0.1", addr("10.0.0.1"))

	env := FlagEnvironment(store)
	assert.Equal(t, "*** rapeflake", env(`{"APPLICATION":"rapeflake"}`))
	assert.Equal(t, "SnowSQL", env(`{"APPLICATION":"SnowSQL"}`))
	assert.Equal(t, "", env(`{}`))
	assert.Equal(t, "*** <invalid environment>", env(`not json`))
}

func TestSessionColumns(t *testing.T) {
	store := intel.Default()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions := []model.Session{{
		ID:                7,
		UserName:          "ALICE",
		ClientNetAddress:  "104.223.91.28",
		ClientEnvironment: `{"APPLICATION":"DBeaver_DBeaverUltimate","OS":"Windows Server 2022"}`,
		ClientApplication: "JDBC",
		StartTime:         now.Add(-2 * time.Minute).UnixMilli(),
		AuthnMethod:       "PASSWORD",
		IsActive:          true,
	}}

	v := Render(sessions, SessionColumns, SessionTransforms(store, func() time.Time { return now }), 25)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, []string{
		"ALICE", "7", "true", "2 minutes ago",
		"*** DBeaver_DBeaverUltimate", "JDBC", "*** 104.223.91.28", "PASSWORD",
	}, v.Rows[0])
}

func TestView_CSV(t *testing.T) {
	sessions := []model.Session{
		{ID: 1, UserName: "ALICE", ClientEnvironment: `{"APPLICATION":"a,b"}`},
		{ID: 2, UserName: "BOB"},
	}
	v := Render(sessions, SessionFieldColumns(), nil, 0)

	var buf bytes.Buffer
	require.NoError(t, v.CSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(model.SessionFields, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `1,ALICE,,"{""APPLICATION"":""a,b""}"`), lines[1])
}

func TestView_CSVSkipsSyntheticRows(t *testing.T) {
	v := Render(recs(5), recColumns, nil, 2)

	var buf bytes.Buffer
	require.NoError(t, v.CSV(&buf))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
	assert.NotContains(t, buf.String(), "more")
}

func TestView_String(t *testing.T) {
	v := Render(recs(4), recColumns, nil, 2)
	v.Title = "Records"
	v.Footer = []string{" » Reset password"}

	out := v.String()
	for _, want := range []string{"Records", "name", "r0", "r1", "…", "And 2 more", " » Reset password"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "r2")
}
