// icewarden - Snowflake account administration from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/cli"
	"github.com/jeranaias/icewarden/internal/config"
	"github.com/jeranaias/icewarden/internal/intel"
	"github.com/jeranaias/icewarden/internal/logging"
	"github.com/jeranaias/icewarden/internal/secret"
	"github.com/jeranaias/icewarden/internal/warehouse/snowflake"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	os.Exit(run(cmd, args))
}

func run(cmd cli.Command, args cli.Args) int {
	name := args.Name(cmd)

	// Commands that need neither configuration nor a connection.
	switch {
	case cmd == cli.CmdHelp:
		return exit(cli.HandleHelp(args), name, args)
	case cmd == cli.CmdVersion:
		return exit(cli.HandleVersion(args), name, args)
	case cmd == cli.CmdConfig && args.Subcommand == "init":
		return exit(cli.HandleConfigInit(args), name, args)
	}

	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return exit(err, name, args)
	}

	log, closeLog, err := logging.New(cli.LogLevel(cmd, args, cfg), cfg.Logging.File)
	if err != nil {
		return exit(fmt.Errorf("logging: %w", err), name, args)
	}
	defer closeLog()

	store, err := intel.Load(cfg.Intel.File)
	if err != nil {
		return exit(err, name, args)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialer := snowflake.NewDialer(cfg.Snowflake.Dial(), log)
	app := cli.NewApp(cfg, log, store, dialer)

	log.Debug("running command", zap.String("command", name))
	err = app.Run(ctx, cmd, args)
	if err != nil {
		log.Debug("command failed", zap.String("command", name), zap.Error(secret.RedactError(err)))
	}
	return exit(err, name, args)
}

func exit(err error, name string, args cli.Args) int {
	cli.DisplayError(err, name, args.JSON)
	return cli.GetExitCode(err)
}
