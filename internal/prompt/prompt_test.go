package prompt

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminal_PromptSecret(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline", "secret123\nignored\n", "secret123"},
		{"crlf", "pa ss\r\n", "pa ss"},
		{"no trailing newline", "last", "last"},
		{"empty line", "\n", ""},
		{"digits stay text", "000123\n", "000123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := &Terminal{In: strings.NewReader(tt.input), Out: out}

			got, err := p.PromptSecret()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, DefaultLabel+"\n", out.String())
		})
	}
}

func TestTerminal_ClosedInput(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	p := &Terminal{In: strings.NewReader(""), Out: out, Label: "DB password: "}

	_, err := p.PromptSecret()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "DB password: \n", out.String())
}

func TestTerminal_NonTerminalFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	out := &bytes.Buffer{}
	got, err := (&Terminal{In: f, Out: out}).PromptSecret()
	require.NoError(t, err)
	require.Equal(t, "from-file", got)
}
