package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform"
)

const maxPromptAttempts = 3

// Prompter asks the operator for values missing from flags and config
type Prompter struct {
	in           *bufio.Reader
	out          io.Writer
	readPassword func() ([]byte, error)
}

// NewPrompter reads answers from in. Passwords are read without echo when
// in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.readPassword = func() ([]byte, error) {
			return term.ReadPassword(fd)
		}
	}
	return p
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prompts until a non-empty answer is given
func (p *Prompter) Ask(label string) (string, error) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		fmt.Fprintf(p.out, "%s: ", label)
		answer, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("no input for %s: %v", strings.ToLower(label), err)
		}
		if answer != "" {
			return answer, nil
		}
	}
	return "", fmt.Errorf("no input for %s", strings.ToLower(label))
}

// Password prompts for a secret without echoing it on a terminal
func (p *Prompter) Password(label string) (string, error) {
	if p.readPassword == nil {
		return p.Ask(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	secret, err := p.readPassword()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %v", strings.ToLower(label), err)
	}
	return string(secret), nil
}

// Platform shows the numbered vendor menu and returns the canonical id.
// Names and aliases are accepted as well as numbers.
func (p *Prompter) Platform() (string, error) {
	drivers := platform.Available()
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		fmt.Fprintln(p.out, "Select the switch vendor:")
		for i, driver := range drivers {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, driver.DisplayName())
		}
		fmt.Fprint(p.out, "Choice: ")

		answer, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("no vendor selected: %v", err)
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(drivers) {
			return drivers[n-1].Name(), nil
		}
		if driver, err := platform.Get(answer); err == nil {
			return driver.Name(), nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q\n", answer)
	}
	return "", fmt.Errorf("%w: no valid vendor selected", entities.ErrUnsupportedPlatform)
}
