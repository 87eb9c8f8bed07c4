// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit keeps an append-only trail of remediation actions.
//
// Every processed item of a kill, disable or reset batch becomes one JSON
// line. Lines of one batch share a batch ID. Error text is redacted before
// it is written.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/secret"
)

// DefaultMaxFileSize is the size at which the trail is rotated (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Event is one line of the trail.
type Event struct {
	Timestamp time.Time        `json:"timestamp"`
	BatchID   string           `json:"batch_id"`
	Action    string           `json:"action"`
	Operator  string           `json:"operator,omitempty"`
	Account   string           `json:"account,omitempty"`
	Target    string           `json:"target"`
	Status    remediate.Status `json:"status"`
	Error     string           `json:"error,omitempty"`
	// Interrupted is set on items the batch never reached.
	Interrupted string `json:"interrupted,omitempty"`
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger appends events to a file. A nil *Logger records nothing.
type Logger struct {
	path     string
	file     *os.File
	mu       sync.Mutex
	maxSize  int64
	operator string
	account  string
	now      func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithIdentity stamps every event with the operator and account.
func WithIdentity(operator, account string) Option {
	return func(l *Logger) {
		l.operator = operator
		l.account = account
	}
}

// WithMaxSize sets the rotation threshold. Zero disables rotation.
func WithMaxSize(n int64) Option {
	return func(l *Logger) {
		l.maxSize = n
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// Open opens the trail at path for appending, creating it with owner-only
// permissions.
func Open(path string, opts ...Option) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	file, err := openAppend(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	l := &Logger{
		path:    path,
		file:    file,
		maxSize: DefaultMaxFileSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}

// Path returns the trail location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record writes one event per outcome of a batch. interrupted is the error
// that stopped the batch, if any; it is attached to the items left Active.
func (l *Logger) Record(action string, outcomes []remediate.Outcome, interrupted error) error {
	if l == nil || len(outcomes) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("audit log %s is closed", l.path)
	}
	if err := l.checkRotationLocked(); err != nil {
		return err
	}

	batch := uuid.NewString()
	ts := l.now().UTC()
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	for _, o := range outcomes {
		e := Event{
			Timestamp: ts,
			BatchID:   batch,
			Action:    action,
			Operator:  l.operator,
			Account:   l.account,
			Target:    o.Target,
			Status:    o.Status,
			Error:     secret.Redact(o.Error),
		}
		if !o.Status.Done() && interrupted != nil {
			e.Interrupted = secret.Redact(interrupted.Error())
		}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to encode audit event: %w", err)
		}
	}

	if _, err := l.file.WriteString(buf.String()); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}
	return nil
}

func (l *Logger) checkRotationLocked() error {
	if l.maxSize <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil || info.Size() < l.maxSize {
		return nil
	}
	return l.rotateLocked()
}

// rotateLocked moves the current file aside under a timestamped name.
func (l *Logger) rotateLocked() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close audit log for rotation: %w", err)
	}

	ext := filepath.Ext(l.path)
	base := strings.TrimSuffix(l.path, ext)
	rotated := fmt.Sprintf("%s_%s%s", base, l.now().Format("20060102_150405"), ext)

	if err := os.Rename(l.path, rotated); err != nil {
		l.file, _ = openAppend(l.path)
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}
	file, err := openAppend(l.path)
	if err != nil {
		l.file = nil
		return fmt.Errorf("failed to create audit log after rotation: %w", err)
	}
	l.file = file
	return nil
}

// Close closes the trail. Later calls to Record fail.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
