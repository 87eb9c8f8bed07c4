// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package remediate applies one remediation action to an ordered batch of
// sessions or accounts and reports progress as it goes.
//
// Items are processed strictly in input order, one at a time. Every item
// ends Killed, Disabled, Reset or Failed; items the batch never reached stay
// Active. A failure of a single item is recorded and the batch moves on; a
// lost warehouse connection, a failed disable or cancellation stops it.
package remediate

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/icewarden/internal/render"
	"github.com/jeranaias/icewarden/internal/secret"
	"github.com/jeranaias/icewarden/internal/warehouse"
)

// DefaultPause is the minimum spacing between remote actions.
const DefaultPause = 50 * time.Millisecond

// Screen displays frames. Each Draw replaces the previous frame.
type Screen interface {
	Draw(frame string) error
}

// Engine runs remediation batches against one warehouse client.
type Engine struct {
	client    warehouse.Client
	screen    Screen
	limiter   *rate.Limiter
	rowLimit  int
	newSecret func() (string, error)
	log       *zap.Logger
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithScreen sets where frames are drawn. Without one no frames are drawn.
func WithScreen(s Screen) Option {
	return func(e *Engine) {
		e.screen = s
	}
}

// WithPause sets the minimum spacing between remote actions.
func WithPause(d time.Duration) Option {
	return func(e *Engine) {
		if d <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRowLimit bounds the number of items shown in a frame.
func WithRowLimit(n int) Option {
	return func(e *Engine) {
		e.rowLimit = n
	}
}

// WithSecretGenerator replaces the password generator used by Reset.
func WithSecretGenerator(f func() (string, error)) Option {
	return func(e *Engine) {
		if f != nil {
			e.newSecret = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Engine over client.
func New(client warehouse.Client, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		limiter:   rate.NewLimiter(rate.Every(DefaultPause), 1),
		newSecret: secret.Generate,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("remediate")
	return e
}

// step processes one item. report publishes a completed sub-step.
// A nil error returns the item's terminal status; an *ItemError marks the
// item Failed and the batch continues; any other error marks the item Failed
// and stops the batch.
type step func(ctx context.Context, o *Outcome, report func(string)) (Status, error)

// batch is one run of the engine.
type batch struct {
	e        *Engine
	title    string
	headers  []string
	outcomes []Outcome
	progress []string
}

func (e *Engine) run(ctx context.Context, b *batch, do step) ([]Outcome, error) {
	b.e = e
	b.draw()

	var runErr error
	for i := range b.outcomes {
		if err := e.limiter.Wait(ctx); err != nil {
			runErr = ctx.Err()
			if runErr == nil {
				runErr = err
			}
			break
		}

		o := &b.outcomes[i]
		b.progress = nil

		// An action already sent is never abandoned half way.
		status, err := do(context.WithoutCancel(ctx), o, b.report)
		if err != nil {
			err = secret.RedactError(err)
			o.finish(Failed, err)
			b.draw()
			var itemErr *ItemError
			if errors.As(err, &itemErr) {
				e.log.Warn("item failed", zap.String("target", o.Target), zap.Error(err))
				continue
			}
			e.log.Error("batch stopped", zap.String("target", o.Target), zap.Error(err))
			runErr = err
			break
		}
		o.finish(status, nil)
		e.log.Info("item done", zap.String("target", o.Target), zap.String("status", string(status)))
		b.draw()
	}

	b.draw()
	return b.outcomes, runErr
}

func (b *batch) report(line string) {
	b.progress = append(b.progress, line)
	b.e.log.Info("step done", zap.String("step", line))
	b.draw()
}

func (b *batch) draw() {
	if b.e.screen == nil {
		return
	}
	if err := b.e.screen.Draw(b.frame()); err != nil {
		b.e.log.Warn("failed to draw frame", zap.Error(err))
	}
}

// frame renders the batch table with progress lines of the current item below it.
func (b *batch) frame() string {
	columns := make([]render.Column[Outcome], 0, len(b.headers)+1)
	for i, h := range b.headers {
		i := i
		columns = append(columns, render.Column[Outcome]{
			Name: h,
			Value: func(o Outcome) any {
				if i < len(o.Fields) {
					return o.Fields[i]
				}
				return ""
			},
		})
	}
	columns = append(columns, render.Column[Outcome]{
		Name:  "Status",
		Value: func(o Outcome) any { return string(o.Status) },
	})

	v := render.Render(b.outcomes, columns, nil, b.e.rowLimit)
	v.Title = b.title
	v.Footer = b.progress
	return v.String()
}
