// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/admin"
	"github.com/jeranaias/icewarden/internal/classify"
	"github.com/jeranaias/icewarden/internal/config"
	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/warehouse"
	"github.com/jeranaias/icewarden/internal/watch"
)

// App carries everything a command handler needs.
type App struct {
	Config *config.Config
	Log    *zap.Logger
	Intel  *intel.Store
	Dialer warehouse.Dialer

	Stdout io.Writer
	Stderr io.Writer

	// Interactive reports whether prompts and in-place redrawing are possible.
	Interactive bool
	Prompter    Prompter
	Now         func() time.Time
	RowLimit    func() int
}

// NewApp creates an App on the process's standard streams.
func NewApp(cfg *config.Config, log *zap.Logger, store *intel.Store, dialer warehouse.Dialer) *App {
	return &App{
		Config:      cfg,
		Log:         log,
		Intel:       store,
		Dialer:      dialer,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: CanPrompt(),
		Now:         time.Now,
		RowLimit:    TerminalRowLimit,
	}
}

// Run dispatches a parsed command. Errors are returned undisplayed.
func (a *App) Run(ctx context.Context, cmd Command, args Args) error {
	switch cmd {
	case CmdSessions:
		return a.HandleSessions(ctx, args)
	case CmdUsers:
		return a.HandleUsers(ctx, args)
	case CmdIntel:
		return a.HandleIntel(args)
	case CmdConfig:
		return a.HandleConfig(args)
	case CmdVersion:
		return HandleVersion(args)
	default:
		return HandleHelp(args)
	}
}

// service builds the operations facade. A positive inactiveDays overrides
// the configured threshold; a nil screen draws no frames.
func (a *App) service(inactiveDays int, screen remediate.Screen, extra ...admin.Option) *admin.Service {
	days := a.Config.Remediation.InactiveDays
	if inactiveDays > 0 {
		days = inactiveDays
	}
	classifier := classify.New(a.Intel,
		classify.WithClock(a.Now),
		classify.WithInactiveThreshold(time.Duration(days)*24*time.Hour),
	)

	engineOpts := []remediate.Option{
		remediate.WithPause(a.Config.Remediation.Pause),
		remediate.WithRowLimit(a.RowLimit()),
	}
	if screen != nil {
		engineOpts = append(engineOpts, remediate.WithScreen(screen))
	}

	opts := []admin.Option{
		admin.WithLogger(a.Log),
		admin.WithEngineOptions(engineOpts...),
		admin.WithWatchOptions(
			watch.WithClock(a.Now),
			watch.WithRowLimit(a.RowLimit),
		),
	}
	return admin.New(a.Dialer, classifier, append(opts, extra...)...)
}

// respond writes data as a JSON envelope or calls text.
func (a *App) respond(args Args, cmd Command, data any, text func(io.Writer) error) error {
	if args.JSON {
		return NewJSONResponse(args.Name(cmd), data).Write(a.Stdout, a.Interactive && ColorsEnabled())
	}
	return text(a.Stdout)
}

func (a *App) limit(p *ArgParser) (int, error) {
	n, err := p.FlagIntOrDefault("limit", a.Config.Output.Limit)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrInvalidFormat("limit", p.Flag("limit"), "a non-negative integer; 0 fits the terminal")
	}
	if n == 0 {
		return a.RowLimit(), nil
	}
	return n, nil
}

func (a *App) days(p *ArgParser) (int, error) {
	n, err := p.FlagIntOrDefault("days", 0)
	if err != nil {
		return 0, err
	}
	if n < 0 || (p.HasFlag("days") && n == 0) {
		return 0, ErrInvalidFormat("days", p.Flag("days"), "a positive number of days, e.g. --days 90")
	}
	return n, nil
}

// LogLevel picks the log level for one invocation. --verbose selects debug.
// The watch TUI owns the terminal, so without a log file only errors are
// logged there.
func LogLevel(cmd Command, args Args, cfg *config.Config) string {
	if args.Verbose {
		return "debug"
	}
	if cmd == CmdSessions && args.Subcommand == "watch" && cfg.Logging.File == "" && CanPrompt() {
		return "error"
	}
	return cfg.Logging.Level
}
