// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/icewarden/internal/config"
)

// HandleConfig handles "icewarden config show". "config init" runs before
// the configuration is loaded; see HandleConfigInit.
func (a *App) HandleConfig(args Args) error {
	p := NewArgParser(args.Raw)
	switch p.Subcommand() {
	case "", "show":
		if unknown := p.Unknown(); len(unknown) > 0 {
			return ErrUnknownFlags("config show", unknown)
		}
		return a.configShow(args)
	case "init":
		return HandleConfigInit(args)
	default:
		return ErrUnknownSubcommand("config", p.Subcommand(), []string{"show", "init"})
	}
}

func (a *App) configShow(args Args) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	data := ConfigData{Path: path, Exists: statErr == nil, Config: a.Config.Redacted()}

	return a.respond(args, CmdConfig, data, func(w io.Writer) error {
		status := DimStyle.Render("(not present, defaults and environment only)")
		if data.Exists {
			status = ""
		}
		fmt.Fprintf(w, "%s %s\n\n", TitleStyle.Render("# "+path), status)
		return toml.NewEncoder(w).Encode(a.Config.Redacted())
	})
}

// HandleConfigInit writes a default config file. An existing file is only
// replaced with --force.
func HandleConfigInit(args Args) error {
	p := NewArgParser(args.Raw)
	if unknown := p.Unknown("force"); len(unknown) > 0 {
		return ErrUnknownFlags("config init", unknown)
	}
	path, err := configPath(args)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !p.BoolFlag("force") {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return NewCommandError("config", "init", "could not create config directory", err)
	}
	if err := config.WriteTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "could not write "+path, err)
	}

	if args.JSON {
		return NewJSONResponse("config init", ConfigData{Path: path, Exists: true}).Print()
	}
	fmt.Println(SuccessStyle.Render("Wrote " + path))
	fmt.Println(DimStyle.Render("Fill in [snowflake] or set SNOWFLAKE_* environment variables."))
	return nil
}

func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", NewCommandError("config", "path", "could not locate config directory", err)
	}
	return path, nil
}
