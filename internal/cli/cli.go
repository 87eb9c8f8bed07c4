// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdSessions
	CmdUsers
	CmdIntel
	CmdConfig
	CmdVersion
)

func (c Command) String() string {
	switch c {
	case CmdSessions:
		return "sessions"
	case CmdUsers:
		return "users"
	case CmdIntel:
		return "intel"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Verbose    bool
	ConfigPath string

	// Subcommand is the first word after the command, lower-cased.
	Subcommand string

	// Raw holds the arguments after the command, subcommand included.
	Raw []string

	// Unknown is set when the command word was not recognised.
	Unknown string
}

// Name returns "command subcommand" for JSON envelopes and logs.
func (a Args) Name(cmd Command) string {
	if a.Subcommand == "" {
		return cmd.String()
	}
	return cmd.String() + " " + a.Subcommand
}

const usageText = `# icewarden

Administrative CLI for a Snowflake account: inspect sessions and users, flag
the ones matching threat intelligence and remediate them in bulk.

## Usage

    icewarden sessions list   [--format table|csv] [--output FILE] [--limit N] [--user U] [--suspicious]
    icewarden sessions watch  [--user U] [--interval 500ms]
    icewarden sessions kill   --all | --id N | --user U | --suspicious  [--confirm]
    icewarden users list      [--suspicious] [--inactive] [--days N] [--limit N]
    icewarden users disable   --user U | --suspicious | --inactive [--days N] [--confirm]
    icewarden users reset     --user U | --suspicious | --inactive [--days N] [--confirm]
    icewarden intel           Show the loaded threat intelligence
    icewarden intel addresses List the flagged client addresses
    icewarden intel rules     List the client environment rules
    icewarden config init     Write a default config file
    icewarden config show     Show the effective configuration
    icewarden version
    icewarden help

## Global flags

    --json          Machine-readable output
    -v, --verbose   Debug logging
    --config PATH   Config file (default ~/.icewarden/config.toml)

## Environment

    SNOWFLAKE_ACCOUNT  SNOWFLAKE_USER  SNOWFLAKE_PASSWORD  SNOWFLAKE_ROLE
    SNOWFLAKE_WAREHOUSE  SNOWFLAKE_HOST  SNOWFLAKE_TOTP_SECRET
    ICEWARDEN_INTEL_FILE  ICEWARDEN_LOG_LEVEL  ICEWARDEN_LOG_FILE
    ICEWARDEN_AUDIT_FILE  ICEWARDEN_AUDIT_DISABLED

A .env file in the working directory is read when present. Every kill,
disable and reset is appended to ~/.icewarden/audit.log.

## Examples

    icewarden sessions list --suspicious
    icewarden sessions list --format csv --output sessions.csv
    icewarden sessions kill --suspicious --confirm
    icewarden users disable --inactive --days 120
    icewarden users reset --user ALICE
`

// Usage returns the markdown usage text.
func Usage() string {
	return usageText
}

// PrintUsage prints the usage text, rendered on a terminal.
func PrintUsage() {
	fmt.Println(RenderMarkdown(usageText))
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("icewarden %s (%s, built %s, %s)\n", Version, GitCommit, BuildDate, runtime.Version())
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the arguments after the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdHelp, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		parsedArgs.Subcommand = strings.ToLower(remaining[0])
	}

	switch cmd {
	case "sessions", "session", "s":
		return CmdSessions, parsedArgs
	case "users", "user", "u":
		return CmdUsers, parsedArgs
	case "intel", "threats":
		return CmdIntel, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "version", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command and unknown commands.
func HandleHelp(args Args) error {
	if args.Unknown != "" {
		return &ValidationError{
			Field:   "command",
			Value:   args.Unknown,
			Reason:  "unknown command",
			Example: "icewarden help",
		}
	}
	if args.JSON {
		return NewJSONResponse("help", map[string]string{"usage": usageText}).Print()
	}
	PrintUsage()
	return nil
}
