package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoInput = errors.New("no input")

type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, reader: bufio.NewReader(in), out: cmd.OutOrStdout()}
}

// ask repeats the question until a non-empty answer is given. Secret answers
// are read without echo when the input is a terminal.
func (p *prompter) ask(label string, secret bool) (string, error) {
	for {
		_, _ = fmt.Fprint(p.out, label)

		value, err := p.readLine(secret)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		_, _ = fmt.Fprintln(p.out, "Please, insert a valid value.")
	}
}

func (p *prompter) readLine(secret bool) (string, error) {
	if file, ok := p.in.(*os.File); ok && secret && term.IsTerminal(int(file.Fd())) {
		raw, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read hidden input: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
		return "", errNoInput
	}
	return strings.TrimSpace(line), nil
}
