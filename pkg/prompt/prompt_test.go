package prompt

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/term"
)

func TestSecretRevealExactlyOnce(t *testing.T) {
	s := NewSecret([]byte("hunter2"))

	v, err := s.Reveal()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)

	_, err = s.Reveal()
	assert.ErrorIs(t, err, ErrSecretConsumed)
}

func TestSecretWipesBackingStorage(t *testing.T) {
	raw := []byte("hunter2")
	s := NewSecret(raw)

	_, err := s.Reveal()
	require.NoError(t, err)

	assert.Equal(t, make([]byte, len(raw)), raw)
}

func TestReadSecretFailsWithoutTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("test requires a non-interactive stdin")
	}

	var out bytes.Buffer
	_, err := ReadSecret(&out, "Enter client secret: ")
	assert.ErrorIs(t, err, ErrNoTerminal)
	assert.Empty(t, out.String())
}
