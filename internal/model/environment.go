// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Environment is the decoded client fingerprint of a session: a free-form
// string-keyed mapping (APPLICATION, OS, OS_VERSION, ...). Numbers are kept
// as json.Number so they compare by their literal text.
type Environment map[string]any

// DecodeEnvironment decodes a client environment blob.
// Anything other than a JSON object is rejected with a *DecodeError.
func DecodeEnvironment(raw string) (Environment, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var env Environment
	if err := dec.Decode(&env); err != nil {
		return nil, &DecodeError{Raw: raw, Err: err}
	}
	if env == nil {
		return nil, &DecodeError{Raw: raw, Err: fmt.Errorf("environment is not an object")}
	}
	if dec.More() {
		return nil, &DecodeError{Raw: raw, Err: fmt.Errorf("trailing data after environment object")}
	}
	return env, nil
}

// String returns the scalar value of key in its string form.
// Nested objects, arrays and null report ok=false.
func (e Environment) String(key string) (string, bool) {
	v, ok := e[key]
	if !ok {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// Application returns the APPLICATION field, or "" when absent.
func (e Environment) Application() string {
	app, _ := e.String("APPLICATION")
	return app
}

// DecodeError reports a client environment blob that could not be decoded.
// It is never a "not suspicious" verdict.
type DecodeError struct {
	SessionID int64
	Raw       string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.SessionID != 0 {
		return fmt.Sprintf("decode client environment of session %d: %v", e.SessionID, e.Err)
	}
	return fmt.Sprintf("decode client environment: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
