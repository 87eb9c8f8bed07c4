// json_output.go - JSON output for scripting and SIEM ingestion.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/secret"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data any `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// ErrorType classifies Error, e.g. "connection_error"
	ErrorType string `json:"error_type,omitempty"`

	// Timestamp is the RFC 3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := secret.Redact(err.Error())
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		ErrorType: ErrorType(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response to stdout, highlighted on a terminal.
func (r *JSONResponse) Print() error {
	return r.Write(os.Stdout, ColorsEnabled())
}

// Write writes the indented response to w.
func (r *JSONResponse) Write(w io.Writer, highlight bool) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	text := string(data)
	if highlight {
		text = highlightJSON(text)
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

// highlightJSON colours JSON for the terminal. It returns the input on failure.
func highlightJSON(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// RemediationData is returned by kill, disable and reset.
type RemediationData struct {
	Action   string              `json:"action"`
	Outcomes []remediate.Outcome `json:"outcomes"`
	Summary  remediate.Summary   `json:"summary"`
	// Interrupted is set when the batch stopped before the last item.
	Interrupted string `json:"interrupted,omitempty"`
}

// IntelData is returned by the intel command.
type IntelData struct {
	Source    string   `json:"source"`
	Addresses int      `json:"addresses"`
	Rules     int      `json:"rules"`
	Sample    []string `json:"sample_addresses,omitempty"`
}

// ConfigData is returned by config show and config init.
type ConfigData struct {
	Path   string `json:"config_path"`
	Exists bool   `json:"exists"`
	Config any    `json:"config,omitempty"`
}
