// Package prompt reads secrets from the controlling terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const DefaultLabel = "Password: "

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// Terminal prompts on Out and reads a single line from In. When In is a
// terminal the typed characters are not echoed.
type Terminal struct {
	In    io.Reader
	Out   io.Writer
	Label string
}

// PromptSecret writes the label, reads one line and always finishes the
// prompt line with a newline.
func (t *Terminal) PromptSecret() (string, error) {
	label := t.Label
	if label == "" {
		label = DefaultLabel
	}
	if _, err := fmt.Fprint(t.Out, label); err != nil {
		return "", err
	}
	defer fmt.Fprintln(t.Out)

	if f, ok := t.In.(fder); ok && isatty.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	return readLine(t.In)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
