// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin exposes the operations the CLI offers. Every operation opens
// one warehouse connection and closes it before returning.
package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/classify"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/warehouse"
	"github.com/jeranaias/icewarden/internal/watch"
)

// Service runs administrative operations against one warehouse account.
type Service struct {
	dialer     warehouse.Dialer
	classifier *classify.Classifier
	engineOpts []remediate.Option
	watchOpts  []watch.Option
	log        *zap.Logger
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithLogger sets the logger. It is also handed to the engine and watcher.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEngineOptions configures every remediation engine the service creates.
func WithEngineOptions(opts ...remediate.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithWatchOptions configures every watcher the service creates.
func WithWatchOptions(opts ...watch.Option) Option {
	return func(s *Service) {
		s.watchOpts = append(s.watchOpts, opts...)
	}
}

// New creates a Service.
func New(dialer warehouse.Dialer, classifier *classify.Classifier, opts ...Option) *Service {
	s := &Service{
		dialer:     dialer,
		classifier: classifier,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classifier returns the classifier used for filtering.
func (s *Service) Classifier() *classify.Classifier {
	return s.classifier
}

// withClient connects, runs fn and closes the connection on every path.
func (s *Service) withClient(ctx context.Context, fn func(warehouse.Client) error) (err error) {
	client, err := s.dialer.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			s.log.Warn("closing warehouse connection", zap.Error(cerr))
			if err == nil {
				err = fmt.Errorf("close connection: %w", cerr)
			}
		}
	}()
	return fn(client)
}

func (s *Service) engine(client warehouse.Client) *remediate.Engine {
	opts := append([]remediate.Option{remediate.WithLogger(s.log)}, s.engineOpts...)
	return remediate.New(client, opts...)
}

// =============================================================================
// SESSIONS
// =============================================================================

// SessionFilter selects sessions. Zero value selects all.
type SessionFilter struct {
	User           string
	SuspiciousOnly bool
}

// ListSessions returns the sessions matching f in warehouse order. A listed
// session whose client environment cannot be decoded fails the listing with
// a *model.DecodeError.
func (s *Service) ListSessions(ctx context.Context, f SessionFilter) ([]model.Session, error) {
	var out []model.Session
	err := s.withClient(ctx, func(c warehouse.Client) error {
		sessions, err := s.selectSessions(ctx, c, f)
		if err != nil {
			return err
		}
		if err := model.CheckEnvironments(sessions); err != nil {
			return err
		}
		out = sessions
		return nil
	})
	return out, err
}

func (s *Service) selectSessions(ctx context.Context, c warehouse.Client, f SessionFilter) ([]model.Session, error) {
	sessions, err := c.FetchSessions(ctx)
	if err != nil {
		return nil, err
	}
	sessions = classify.SessionsOf(sessions, f.User)
	if f.SuspiciousOnly {
		return s.classifier.SuspiciousSessions(sessions)
	}
	return sessions, nil
}

// Watch builds a watcher over a fresh connection and hands it to run. The
// connection is closed once run returns.
func (s *Service) Watch(ctx context.Context, user string, run func(context.Context, *watch.Watcher) error) error {
	return s.withClient(ctx, func(c warehouse.Client) error {
		opts := append([]watch.Option{watch.WithLogger(s.log)}, s.watchOpts...)
		opts = append(opts, watch.WithUser(user))
		return run(ctx, watch.New(c, s.classifier.Store(), opts...))
	})
}

// KillAll kills every active session.
func (s *Service) KillAll(ctx context.Context) ([]remediate.Outcome, error) {
	return s.kill(ctx, SessionFilter{})
}

// KillByUser kills the sessions of one account.
func (s *Service) KillByUser(ctx context.Context, name string) ([]remediate.Outcome, error) {
	if name == "" {
		return nil, fmt.Errorf("kill by user: empty user name")
	}
	return s.kill(ctx, SessionFilter{User: name})
}

// KillSuspicious kills every suspicious session.
func (s *Service) KillSuspicious(ctx context.Context) ([]remediate.Outcome, error) {
	return s.kill(ctx, SessionFilter{SuspiciousOnly: true})
}

// KillByID kills one session without listing sessions first.
func (s *Service) KillByID(ctx context.Context, id int64) ([]remediate.Outcome, error) {
	var out []remediate.Outcome
	err := s.withClient(ctx, func(c warehouse.Client) error {
		var err error
		out, err = s.engine(c).Kill(ctx, []model.Session{{ID: id}})
		return err
	})
	return out, err
}

func (s *Service) kill(ctx context.Context, f SessionFilter) ([]remediate.Outcome, error) {
	var out []remediate.Outcome
	err := s.withClient(ctx, func(c warehouse.Client) error {
		targets, err := s.selectSessions(ctx, c, f)
		if err != nil {
			return err
		}
		s.log.Info("killing sessions", zap.Int("count", len(targets)))
		out, err = s.engine(c).Kill(ctx, targets)
		return err
	})
	return out, err
}

// =============================================================================
// USERS
// =============================================================================

// UserFilter selects accounts. Both flags together select accounts that are
// suspicious and inactive.
type UserFilter struct {
	SuspiciousOnly bool
	InactiveOnly   bool
}

// Target names the accounts a remediation applies to. Exactly one field is set.
type Target struct {
	User       string
	Suspicious bool
	Inactive   bool
}

// Validate checks that exactly one selector is set.
func (t Target) Validate() error {
	n := 0
	if t.User != "" {
		n++
	}
	if t.Suspicious {
		n++
	}
	if t.Inactive {
		n++
	}
	if n != 1 {
		return fmt.Errorf("exactly one of user, suspicious or inactive must be selected")
	}
	return nil
}

func (t Target) String() string {
	switch {
	case t.User != "":
		return "user " + t.User
	case t.Suspicious:
		return "suspicious users"
	case t.Inactive:
		return "inactive users"
	}
	return "no users"
}

// ListUsers returns the accounts matching f in warehouse order.
func (s *Service) ListUsers(ctx context.Context, f UserFilter) ([]model.User, error) {
	var out []model.User
	err := s.withClient(ctx, func(c warehouse.Client) error {
		users, err := c.FetchUsers(ctx)
		if err != nil {
			return err
		}
		if f.SuspiciousOnly {
			if users, err = s.suspiciousUsers(ctx, c, users); err != nil {
				return err
			}
		}
		if f.InactiveOnly {
			users = s.classifier.InactiveUsers(users)
		}
		out = users
		return nil
	})
	return out, err
}

// Disable disables the accounts named by t.
func (s *Service) Disable(ctx context.Context, t Target) ([]remediate.Outcome, error) {
	return s.remediateUsers(ctx, t, (*remediate.Engine).Disable)
}

// ResetCredentials resets the credentials of the accounts named by t.
func (s *Service) ResetCredentials(ctx context.Context, t Target) ([]remediate.Outcome, error) {
	return s.remediateUsers(ctx, t, (*remediate.Engine).Reset)
}

type userAction func(*remediate.Engine, context.Context, []model.User) ([]remediate.Outcome, error)

func (s *Service) remediateUsers(ctx context.Context, t Target, action userAction) ([]remediate.Outcome, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var out []remediate.Outcome
	err := s.withClient(ctx, func(c warehouse.Client) error {
		targets, err := s.selectUsers(ctx, c, t)
		if err != nil {
			return err
		}
		s.log.Info("remediating accounts", zap.Stringer("target", t), zap.Int("count", len(targets)))
		out, err = action(s.engine(c), ctx, targets)
		return err
	})
	return out, err
}

func (s *Service) selectUsers(ctx context.Context, c warehouse.Client, t Target) ([]model.User, error) {
	users, err := c.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case t.User != "":
		return classify.UsersNamed(users, t.User), nil
	case t.Suspicious:
		return s.suspiciousUsers(ctx, c, users)
	default:
		return s.classifier.InactiveUsers(users), nil
	}
}

func (s *Service) suspiciousUsers(ctx context.Context, c warehouse.Client, users []model.User) ([]model.User, error) {
	sessions, err := c.FetchSessions(ctx)
	if err != nil {
		return nil, err
	}
	return s.classifier.SuspiciousUsers(users, sessions)
}

// =============================================================================
// THREAT INTELLIGENCE
// =============================================================================

// IntelSummary counts the loaded threat intelligence.
type IntelSummary struct {
	Addresses int `json:"addresses"`
	Rules     int `json:"rules"`
}

// IntelSummary reports the size of the loaded threat intelligence. It does
// not connect.
func (s *Service) IntelSummary() IntelSummary {
	a, r := s.classifier.Store().Len()
	return IntelSummary{Addresses: a, Rules: r}
}
