// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remediate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Status is the display label of an item in a batch.
type Status string

const (
	// Active marks an item that has not been processed yet.
	Active Status = "Active"
	// Killed marks a session whose abort was confirmed.
	Killed Status = "Killed"
	// Disabled marks a disabled account.
	Disabled Status = "Disabled"
	// Reset marks an account whose credentials were all replaced.
	Reset Status = "Reset"
	// Failed marks an item whose action did not complete.
	Failed Status = "Failed"
)

// Done reports whether the status is terminal.
func (s Status) Done() bool {
	return s != Active
}

// ErrNotConfirmed is recorded when the warehouse did not confirm a session kill.
var ErrNotConfirmed = errors.New("abort was not confirmed")

// ItemError records why one item failed. The batch continues past it.
type ItemError struct {
	Target string
	Step   string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Target, e.Step, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one item of a batch.
type Outcome struct {
	// Target identifies the item: a session ID or an account name.
	Target string `json:"target"`
	// Fields are the display values shown before the status column.
	Fields []string `json:"fields"`
	Status Status   `json:"status"`
	Err    error    `json:"-"`
	// Error is Err as text, for JSON output.
	Error string `json:"error,omitempty"`
}

func (o *Outcome) finish(status Status, err error) {
	o.Status = status
	o.Err = err
	if err != nil {
		o.Error = err.Error()
	}
}

// Summary counts outcomes per status.
type Summary map[Status]int

// Summarize counts outcomes per status.
func Summarize(outcomes []Outcome) Summary {
	s := make(Summary)
	for _, o := range outcomes {
		s[o.Status]++
	}
	return s
}

// Failed returns the number of failed items.
func (s Summary) Failed() int {
	return s[Failed]
}

// Pending returns the number of items that were never processed.
func (s Summary) Pending() int {
	return s[Active]
}

func (s Summary) String() string {
	if len(s) == 0 {
		return "nothing to do"
	}
	parts := make([]string, 0, len(s))
	for status, n := range s {
		label := strings.ToLower(string(status))
		if status == Active {
			label = "not processed"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
