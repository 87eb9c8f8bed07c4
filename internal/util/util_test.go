// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "ALICE", 10, "ALICE"},
		{"exact", "ALICE", 5, "ALICE"},
		{"cut", "DBeaver_DBeaverUltimate", 8, "DBeaver…"},
		{"disabled", "DBeaver_DBeaverUltimate", 0, "DBeaver_DBeaverUltimate"},
		{"wide runes", "日本語テキスト", 7, "日本語…"},
		{"empty", "", 3, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if tt.maxWidth > 0 && Width(got) > tt.maxWidth {
				t.Errorf("Truncate(%q, %d) width = %d, exceeds limit", tt.input, tt.maxWidth, Width(got))
			}
		})
	}
}

func TestWidth(t *testing.T) {
	if got := Width("abc"); got != 3 {
		t.Errorf("Width(abc) = %d, want 3", got)
	}
	if got := Width("日本"); got != 4 {
		t.Errorf("Width(日本) = %d, want 4", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("a\nb\r\nc\td"); got != "a b c d" {
		t.Errorf("SingleLine = %q", got)
	}
	if got := SingleLine("plain"); got != "plain" {
		t.Errorf("SingleLine = %q", got)
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteFileAtomic_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.csv")

	if err := WriteFileAtomic(path, 0600, writeString("id,userName\n")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "id,userName\n" {
		t.Errorf("Content mismatch: got %q", content)
	}
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteFileAtomic(path, 0600, writeString("first")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := WriteFileAtomic(path, 0600, writeString("second")); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("Content = %q, want second", content)
	}
}

func TestWriteFileAtomic_WriterErrorKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteFileAtomic(path, 0600, func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "old" {
		t.Errorf("Content = %q, want old", content)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}
