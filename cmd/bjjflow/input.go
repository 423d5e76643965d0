package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

type lineInput interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type basicLineInput struct {
	reader *bufio.Reader
	out    io.Writer
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(b.out, prompt)
	line, err := b.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Close() error { return nil }

type readlineInput struct {
	instance *readline.Instance
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Close() error { return r.instance.Close() }

// newLineInput uses readline on an interactive terminal and a plain line
// reader otherwise, so piped answers and tests work the same way.
func newLineInput(in io.Reader, out io.Writer) lineInput {
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		instance, err := readline.NewEx(&readline.Config{Stdout: out})
		if err == nil {
			return &readlineInput{instance: instance}
		}
	}
	return &basicLineInput{reader: bufio.NewReader(in), out: out}
}

// confirm asks a yes/no question. Anything but y or yes declines, and so does
// an interrupt or end of input.
func confirm(input lineInput, question string) (bool, error) {
	line, err := input.ReadLine(question + " [y/N]: ")
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
