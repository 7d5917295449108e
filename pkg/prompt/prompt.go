// Package prompt acquires the client secret from the controlling terminal
// without echoing it, and wraps it in a single-use container so the value
// cannot linger after the token request is built.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when standard input is not an interactive
// terminal. The secret is never read from a pipe or echoed in the clear.
var ErrNoTerminal = errors.New("standard input is not an interactive terminal")

// ErrSecretConsumed is returned when a Secret is revealed more than once.
var ErrSecretConsumed = errors.New("secret already consumed")

// Secret is a write-once-read-once credential. Reveal returns the value
// exactly once and wipes the backing storage; it must not be logged.
type Secret struct {
	mu       sync.Mutex
	value    []byte
	consumed bool
}

// NewSecret wraps raw credential bytes. The Secret takes ownership of the
// slice; callers must not retain it.
func NewSecret(value []byte) *Secret {
	return &Secret{value: value}
}

// Reveal returns the secret value and wipes it. A second call fails with
// ErrSecretConsumed.
func (s *Secret) Reveal() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return "", ErrSecretConsumed
	}
	s.consumed = true
	v := string(s.value)
	for i := range s.value {
		s.value[i] = 0
	}
	s.value = nil
	return v, nil
}

// ReadSecret writes label to w, then reads one line from the terminal with
// echo suppressed. It fails fast with ErrNoTerminal rather than blocking on a
// non-interactive stdin.
func ReadSecret(w io.Writer, label string) (*Secret, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}

	fmt.Fprint(w, label)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	return NewSecret(value), nil
}
