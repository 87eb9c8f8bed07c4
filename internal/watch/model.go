// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/icewarden/internal/render"
	"github.com/jeranaias/icewarden/internal/ui/styles"
)

// headerLines is the number of lines the model draws above the frame.
const headerLines = 2

type frameMsg struct {
	frame string
	err   error
}

type tickMsg time.Time

// Model drives a Watcher as a full-screen terminal program.
type Model struct {
	w       *Watcher
	ctx     context.Context
	spinner spinner.Model
	frame   string
	height  int
	err     error
}

// NewModel creates a Model. ctx bounds every fetch.
func NewModel(ctx context.Context, w *Watcher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Header
	return Model{w: w, ctx: ctx, spinner: s}
}

// Err returns the fetch error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	limit := m.w.rowLimit()
	if m.height > 0 {
		limit = render.RowLimit(m.height - headerLines)
	}
	return func() tea.Msg {
		frame, err := m.w.frame(m.ctx, limit)
		return frameMsg{frame: frame, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height

	case frameMsg:
		if msg.err != nil {
			if m.ctx.Err() == nil {
				m.err = msg.err
			}
			return m, tea.Quit
		}
		m.frame = msg.frame
		return m, tea.Tick(m.w.interval, func(t time.Time) tea.Msg { return tickMsg(t) })

	case tickMsg:
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	header := m.spinner.View() + " " + styles.Muted.Render("watching sessions, q to quit")
	if m.frame == "" {
		return header + "\n"
	}
	return header + "\n\n" + m.frame
}

// RunTUI runs the watcher as a full-screen program until the user quits or
// ctx is cancelled. A fetch failure is returned.
func RunTUI(ctx context.Context, w *Watcher, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(ctx, w), opts...)

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
