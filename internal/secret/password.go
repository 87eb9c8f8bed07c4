// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secret generates replacement credentials.
package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Alphabet is the character set random password characters are drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_!@#$%^&*()"

	// RandomLength is the number of random characters in a generated password.
	RandomLength = 60

	// Suffix guarantees an upper-case letter, a digit and a symbol regardless
	// of what was drawn, for password policies that demand them.
	Suffix = "aA1@"

	// Length is the total length of a generated password.
	Length = RandomLength + len(Suffix)
)

// Generate returns a new random password. Nobody is told the value; a reset
// account has to be recovered by an administrator.
func Generate() (string, error) {
	buf := make([]byte, RandomLength, Length)
	limit := big.NewInt(int64(len(Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(append(buf, Suffix...)), nil
}
