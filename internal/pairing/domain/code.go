package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CodeLength is the fixed length of a pairing code.
const CodeLength = 8

// codeAlphabet excludes ambiguous characters (0/O, 1/I) so codes survive
// being read aloud or retyped from a screenshot.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Code is an 8-character pairing code one user shares so another can link
// accounts. It is a value object: immutable once created.
type Code struct {
	value string
}

// GenerateCode produces a new random pairing code.
func GenerateCode() (Code, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return Code{}, fmt.Errorf("%w: %v", ErrCodeGeneration, err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return Code{value: string(buf)}, nil
}

// ParseCode validates a raw string as a pairing code. The check is local:
// exactly 8 characters from the code alphabet, no network call involved.
// Lowercase input is accepted and normalized.
func ParseCode(raw string) (Code, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if len(raw) != CodeLength {
		return Code{}, ErrInvalidCodeFormat
	}
	for _, r := range raw {
		if !strings.ContainsRune(codeAlphabet, r) {
			return Code{}, ErrInvalidCodeFormat
		}
	}
	return Code{value: raw}, nil
}

// String returns the code text.
func (c Code) String() string {
	return c.value
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// ShareText composes the message a user sends their partner along with
// the code.
func (c Code) ShareText() string {
	return fmt.Sprintf("Join me on Duet! Use my partner code: %s", c.value)
}

// IssuedCode records a code issued to a user. Immutable once issued; a
// re-generation supersedes it rather than mutating it.
type IssuedCode struct {
	Code      Code
	OwnerID   uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the code has passed its expiry.
func (i IssuedCode) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
