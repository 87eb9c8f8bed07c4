// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch redraws the active-session table on a fixed interval until
// cancelled. Each cycle fetches fresh sessions; nothing is carried between
// cycles except the optional user filter.
package watch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/classify"
	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/render"
)

// DefaultInterval is the pause between two frames.
const DefaultInterval = 500 * time.Millisecond

// Source provides the current sessions.
type Source interface {
	FetchSessions(ctx context.Context) ([]model.Session, error)
}

// Screen displays frames. Each Draw replaces the previous frame.
type Screen interface {
	Draw(frame string) error
}

// Watcher produces session frames.
type Watcher struct {
	src      Source
	store    *intel.Store
	user     string
	interval time.Duration
	rowLimit func() int
	now      func() time.Time
	log      *zap.Logger
}

// Option is a functional option for configuring a Watcher.
type Option func(*Watcher)

// WithUser restricts frames to the sessions of one account.
func WithUser(name string) Option {
	return func(w *Watcher) {
		w.user = name
	}
}

// WithInterval sets the pause between frames.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithRowLimit sets how many sessions fit a frame. It is asked every frame so
// terminal resizes are picked up.
func WithRowLimit(f func() int) Option {
	return func(w *Watcher) {
		if f != nil {
			w.rowLimit = f
		}
	}
}

// WithClock sets the time source for session ages.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a Watcher over src.
func New(src Source, store *intel.Store, opts ...Option) *Watcher {
	w := &Watcher{
		src:      src,
		store:    store,
		interval: DefaultInterval,
		rowLimit: func() int { return render.RowLimit(24) },
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Named("watch")
	return w
}

// Interval returns the pause between frames.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Frame fetches sessions and renders one frame.
func (w *Watcher) Frame(ctx context.Context) (string, error) {
	return w.frame(ctx, w.rowLimit())
}

func (w *Watcher) frame(ctx context.Context, rowLimit int) (string, error) {
	sessions, err := w.src.FetchSessions(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch sessions: %w", err)
	}
	sessions = classify.SessionsOf(sessions, w.user)
	if err := model.CheckEnvironments(sessions); err != nil {
		return "", err
	}

	v := render.Render(sessions, render.SessionColumns, render.SessionTransforms(w.store, w.now), rowLimit)
	v.Title = w.title(len(sessions))
	return v.String(), nil
}

func (w *Watcher) title(n int) string {
	stamp := w.now().Format(time.TimeOnly)
	if w.user != "" {
		return fmt.Sprintf("Active sessions of %s: %d (updated %s)", w.user, n, stamp)
	}
	return fmt.Sprintf("Active sessions: %d (updated %s)", n, stamp)
}

// Run draws a frame every interval until ctx is cancelled. A fetch failure
// ends the loop and is returned; cancellation returns nil.
func (w *Watcher) Run(ctx context.Context, screen Screen) error {
	for {
		frame, err := w.Frame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Error("watch stopped", zap.Error(err))
			return err
		}
		if err := screen.Draw(frame); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
