// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remediate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/icewarden/internal/mocks"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/warehouse"
)

type recordingScreen struct {
	frames []string
}

func (s *recordingScreen) Draw(frame string) error {
	s.frames = append(s.frames, frame)
	return nil
}

func (s *recordingScreen) last() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1]
}

func engineTest(t *testing.T, opts ...remediate.Option) (*remediate.Engine, *mocks.MockClient, *recordingScreen) {
	t.Helper()

	mockCtl := gomock.NewController(t)
	client := mocks.NewMockClient(mockCtl)
	screen := &recordingScreen{}

	base := []remediate.Option{
		remediate.WithScreen(screen),
		remediate.WithPause(0),
		remediate.WithLogger(zaptest.NewLogger(t)),
		remediate.WithSecretGenerator(func() (string, error) { return "generated", nil }),
	}
	return remediate.New(client, append(base, opts...)...), client, screen
}

func sessions(ids ...int64) []model.Session {
	out := make([]model.Session, len(ids))
	for i, id := range ids {
		out[i] = model.Session{ID: id, UserName: "ALICE", ClientNetAddress: "10.0.0.1"}
	}
	return out
}

func statuses(outcomes []remediate.Outcome) []remediate.Status {
	out := make([]remediate.Status, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Status
	}
	return out
}

func targets(outcomes []remediate.Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Target
	}
	return out
}

// =============================================================================
// KILL
// =============================================================================

func TestKill_ConfirmedAndUnconfirmed(t *testing.T) {
	e, client, screen := engineTest(t)

	gomock.InOrder(
		client.EXPECT().AbortSession(gomock.Any(), int64(3)).Return(true, nil),
		client.EXPECT().AbortSession(gomock.Any(), int64(1)).Return(false, nil),
		client.EXPECT().AbortSession(gomock.Any(), int64(2)).Return(true, nil),
	)

	out, err := e.Kill(context.Background(), sessions(3, 1, 2))
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "1", "2"}, targets(out), "outcome order follows input order")
	assert.Equal(t, []remediate.Status{remediate.Killed, remediate.Failed, remediate.Killed}, statuses(out))
	assert.ErrorIs(t, out[1].Err, remediate.ErrNotConfirmed)

	var itemErr *remediate.ItemError
	require.ErrorAs(t, out[1].Err, &itemErr)
	assert.Equal(t, "1", itemErr.Target)

	require.NotEmpty(t, screen.frames)
	assert.Contains(t, screen.frames[0], "Active")
	assert.NotContains(t, screen.last(), "Active")
	assert.Contains(t, screen.last(), "Killed")
}

func TestKill_CallErrorIsItemLevel(t *testing.T) {
	e, client, _ := engineTest(t)

	gomock.InOrder(
		client.EXPECT().AbortSession(gomock.Any(), int64(1)).Return(false, &warehouse.CallError{Op: "abort session", Err: errors.New("no such session")}),
		client.EXPECT().AbortSession(gomock.Any(), int64(2)).Return(true, nil),
	)

	out, err := e.Kill(context.Background(), sessions(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []remediate.Status{remediate.Failed, remediate.Killed}, statuses(out))
	assert.Equal(t, 1, remediate.Summarize(out).Failed())
}

func TestKill_ConnectionErrorStopsBatch(t *testing.T) {
	e, client, screen := engineTest(t)
	lost := &warehouse.ConnectionError{Op: "abort session", Err: errors.New("connection reset")}

	gomock.InOrder(
		client.EXPECT().AbortSession(gomock.Any(), int64(1)).Return(true, nil),
		client.EXPECT().AbortSession(gomock.Any(), int64(2)).Return(false, lost),
	)

	out, err := e.Kill(context.Background(), sessions(1, 2, 3, 4))
	require.ErrorIs(t, err, lost)
	assert.Equal(t, []remediate.Status{remediate.Killed, remediate.Failed, remediate.Active, remediate.Active}, statuses(out))
	assert.Contains(t, screen.last(), "Active", "final frame shows unprocessed items")
}

func TestKill_Empty(t *testing.T) {
	e, _, _ := engineTest(t)

	out, err := e.Kill(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestKill_CancelledBetweenItems(t *testing.T) {
	e, client, _ := engineTest(t)
	ctx, cancel := context.WithCancel(context.Background())

	client.EXPECT().AbortSession(gomock.Any(), int64(1)).DoAndReturn(func(ctx context.Context, _ int64) (bool, error) {
		cancel()
		assert.NoError(t, ctx.Err(), "in-flight step must not see cancellation")
		return true, nil
	})

	out, err := e.Kill(ctx, sessions(1, 2, 3))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []remediate.Status{remediate.Killed, remediate.Active, remediate.Active}, statuses(out))
}

func TestKill_CancelledBeforeStart(t *testing.T) {
	e, _, screen := engineTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := e.Kill(ctx, sessions(1, 2))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []remediate.Status{remediate.Active, remediate.Active}, statuses(out))
	assert.NotEmpty(t, screen.frames, "a final frame is drawn")
}

func TestKill_FrameIsBounded(t *testing.T) {
	e, client, screen := engineTest(t, remediate.WithRowLimit(2))
	client.EXPECT().AbortSession(gomock.Any(), gomock.Any()).Return(true, nil).Times(5)

	_, err := e.Kill(context.Background(), sessions(1, 2, 3, 4, 5))
	require.NoError(t, err)
	assert.Contains(t, screen.last(), "And 3 more")
}

// =============================================================================
// DISABLE
// =============================================================================

func TestDisable_InOrder(t *testing.T) {
	e, client, _ := engineTest(t)
	users := []model.User{{Name: "CAROL"}, {Name: "ALICE"}}

	gomock.InOrder(
		client.EXPECT().DisableUser(gomock.Any(), "CAROL").Return(nil),
		client.EXPECT().DisableUser(gomock.Any(), "ALICE").Return(nil),
	)

	out, err := e.Disable(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAROL", "ALICE"}, targets(out))
	assert.Equal(t, []remediate.Status{remediate.Disabled, remediate.Disabled}, statuses(out))
}

func TestDisable_AnyErrorStopsBatch(t *testing.T) {
	e, client, _ := engineTest(t)
	users := []model.User{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	denied := &warehouse.CallError{Op: "disable user", Target: "B", Err: errors.New("insufficient privileges")}

	gomock.InOrder(
		client.EXPECT().DisableUser(gomock.Any(), "A").Return(nil),
		client.EXPECT().DisableUser(gomock.Any(), "B").Return(denied),
	)

	out, err := e.Disable(context.Background(), users)
	require.ErrorIs(t, err, denied)
	assert.Equal(t, []remediate.Status{remediate.Disabled, remediate.Failed, remediate.Active}, statuses(out))
}

// =============================================================================
// RESET
// =============================================================================

func expectFullReset(client *mocks.MockClient, name string, integrations []string) {
	calls := []any{
		client.EXPECT().AbortUserQueries(gomock.Any(), name).Return(nil),
	}
	for _, scope := range warehouse.DelegatedAuthorizations {
		calls = append(calls, client.EXPECT().RevokeDelegatedAuthorization(gomock.Any(), name, scope).Return(nil))
	}
	calls = append(calls, client.EXPECT().ListSecurityIntegrations(gomock.Any()).Return(integrations, nil))
	for _, in := range integrations {
		calls = append(calls, client.EXPECT().RevokeDelegatedAuthorization(gomock.Any(), name, in).Return(nil))
	}
	calls = append(calls,
		client.EXPECT().SetPassword(gomock.Any(), name, "generated").Return(nil),
		client.EXPECT().ClearPublicKey(gomock.Any(), name, warehouse.PrimaryKey).Return(nil),
	)
	calls = append(calls, client.EXPECT().ClearPublicKey(gomock.Any(), name, warehouse.SecondaryKey).Return(nil))
	gomock.InOrder(calls...)
}

func TestReset_StepOrderAndProgress(t *testing.T) {
	e, client, screen := engineTest(t)
	expectFullReset(client, "ALICE", []string{"OKTA_SSO", "TABLEAU"})

	out, err := e.Reset(context.Background(), []model.User{{Name: "ALICE", Email: "alice@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, []remediate.Status{remediate.Reset}, statuses(out))

	last := screen.last()
	want := []string{
		" » Aborted all queries",
		" » Revoked delegated authorization NUMERACY",
		" » Revoked delegated authorization SNOWSCOPE",
		" » Revoked delegated authorization APPLICA",
		" » Revoked delegated authorization CLEANROOM",
		" » Revoked security authorization OKTA_SSO",
		" » Revoked security authorization TABLEAU",
		" » Reset password",
		" » Reset RSA public key",
		" » Reset RSA public key 2",
	}
	pos := -1
	for _, line := range want {
		i := strings.Index(last, line)
		require.GreaterOrEqual(t, i, 0, "missing progress line %q", line)
		assert.Greater(t, i, pos, "progress line %q out of order", line)
		pos = i
	}
}

func TestReset_StopsAtFirstFailingStep(t *testing.T) {
	e, client, _ := engineTest(t)
	refused := &warehouse.CallError{Op: "set password", Target: "ALICE", Err: errors.New("password policy")}

	gomock.InOrder(
		client.EXPECT().AbortUserQueries(gomock.Any(), "ALICE").Return(nil),
		client.EXPECT().RevokeDelegatedAuthorization(gomock.Any(), "ALICE", gomock.Any()).Return(nil).Times(4),
		client.EXPECT().ListSecurityIntegrations(gomock.Any()).Return(nil, nil),
		client.EXPECT().SetPassword(gomock.Any(), "ALICE", "generated").Return(refused),
	)
	// No ClearPublicKey expected for ALICE; BOB continues.
	expectFullReset(client, "BOB", nil)

	out, err := e.Reset(context.Background(), []model.User{{Name: "ALICE"}, {Name: "BOB"}})
	require.NoError(t, err)
	assert.Equal(t, []remediate.Status{remediate.Failed, remediate.Reset}, statuses(out))

	var itemErr *remediate.ItemError
	require.ErrorAs(t, out[0].Err, &itemErr)
	assert.Equal(t, "set password", itemErr.Step)
	assert.ErrorIs(t, out[0].Err, refused)
}

func TestReset_ErrorTextIsRedacted(t *testing.T) {
	e, client, screen := engineTest(t)
	echoed := &warehouse.CallError{
		Op:     "set password",
		Target: "ALICE",
		Err:    errors.New(`SQL compilation error: ALTER USER IDENTIFIER(?) SET PASSWORD = 'generated' failed`),
	}

	gomock.InOrder(
		client.EXPECT().AbortUserQueries(gomock.Any(), "ALICE").Return(nil),
		client.EXPECT().RevokeDelegatedAuthorization(gomock.Any(), "ALICE", gomock.Any()).Return(nil).Times(4),
		client.EXPECT().ListSecurityIntegrations(gomock.Any()).Return(nil, nil),
		client.EXPECT().SetPassword(gomock.Any(), "ALICE", "generated").Return(echoed),
	)

	out, err := e.Reset(context.Background(), []model.User{{Name: "ALICE"}})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.NotContains(t, out[0].Error, "'generated'")
	assert.Contains(t, out[0].Error, "[REDACTED]")
	assert.NotContains(t, out[0].Err.Error(), "'generated'")
	assert.ErrorIs(t, out[0].Err, echoed)
	assert.NotContains(t, screen.last(), "'generated'")
}

func TestReset_ConnectionErrorStopsBatch(t *testing.T) {
	e, client, _ := engineTest(t)
	lost := &warehouse.ConnectionError{Op: "abort queries", Err: errors.New("broken pipe")}

	client.EXPECT().AbortUserQueries(gomock.Any(), "ALICE").Return(lost)

	out, err := e.Reset(context.Background(), []model.User{{Name: "ALICE"}, {Name: "BOB"}})
	require.ErrorIs(t, err, lost)
	assert.Equal(t, []remediate.Status{remediate.Failed, remediate.Active}, statuses(out))
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummary(t *testing.T) {
	out := []remediate.Outcome{
		{Status: remediate.Killed}, {Status: remediate.Killed}, {Status: remediate.Failed}, {Status: remediate.Active},
	}
	s := remediate.Summarize(out)
	assert.Equal(t, 2, s[remediate.Killed])
	assert.Equal(t, 1, s.Failed())
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, "1 failed, 1 not processed, 2 killed", s.String())
	assert.Equal(t, "nothing to do", remediate.Summarize(nil).String())
}
