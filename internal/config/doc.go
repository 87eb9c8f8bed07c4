// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads icewarden's settings once at startup.
//
// # Configuration Precedence
//
// Later sources override earlier ones:
//   - Built-in defaults
//   - ~/.icewarden/config.toml, or the file given with --config
//   - a .env file in the working directory, when present
//   - Environment variables (SNOWFLAKE_*, ICEWARDEN_*)
//
// Remediation batches are recorded in ~/.icewarden/audit.log unless
// [audit] disabled is set or another file is named.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	dialer := snowflake.NewDialer(cfg.Snowflake.Dial(), log)
package config
