package transport

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

const (
	DefaultTimeout = 60 * time.Second
	BufferSize     = 4096
	// maxPreLoginKeys bounds how many banners we acknowledge before giving up.
	maxPreLoginKeys = 3
	// failureLines is how much of the post-login text is searched for a
	// rejection message.
	failureLines = 3
)

var (
	ansiRegex      = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\x1b[()][A-Za-z0-9]|\x1b[=>EM78]`)
	backspaceRegex = regexp.MustCompile(`\x08+ *\x08*`)
	// A prompt has no spaces and starts with a letter or digit, which keeps
	// "#####" banner lines from being taken for one.
	promptRegex      = regexp.MustCompile(`^[A-Za-z0-9][\w.\-@:/()\[\]~+]*$`)
	authFailureHints = []string{
		"authentication failed",
		"login incorrect",
		"login invalid",
		"access denied",
		"bad password",
		"invalid password",
		"permission denied",
	}
)

// shell drives an interactive switch CLI over any byte stream
type shell struct {
	target  entities.Target
	dialect entities.Dialect
	w       io.Writer
	chunks  chan []byte
	readErr chan error
	done    chan struct{}
	once    sync.Once
	prompt  string
}

func newShell(target entities.Target, dialect entities.Dialect, r io.Reader, w io.Writer) *shell {
	s := &shell{
		target:  target,
		dialect: dialect,
		w:       w,
		chunks:  make(chan []byte, 64),
		readErr: make(chan error, 1),
		done:    make(chan struct{}),
	}
	go s.pump(r)
	return s
}

// pump copies the device stream into chunks until the reader fails or the
// shell is closed.
func (s *shell) pump(r io.Reader) {
	buffer := make([]byte, BufferSize)
	for {
		n, err := r.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.readErr <- err
			return
		}
	}
}

func (s *shell) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *shell) timeout() time.Duration {
	if s.target.Timeout > 0 {
		return s.target.Timeout
	}
	return DefaultTimeout
}

func (s *shell) send(data string) error {
	_, err := io.WriteString(s.w, data)
	return err
}

// readUntil accumulates cleaned output until match reports true. Pager
// markers are answered with a space and dropped from the text.
func (s *shell) readUntil(match func(text string) bool, what string) (string, error) {
	var output strings.Builder
	output.Grow(BufferSize)
	timer := time.NewTimer(s.timeout())
	defer timer.Stop()

	for {
		select {
		case chunk := <-s.chunks:
			if s.target.IsRawOutputEnabled() {
				fmt.Printf("Switch output: Read: %s\n", string(chunk))
			}
			output.WriteString(cleanOutput(string(chunk)))
			text := output.String()
			if trimmed, ok := s.stripPager(text); ok {
				output.Reset()
				output.WriteString(trimmed)
				if err := s.send(" "); err != nil {
					return trimmed, fmt.Errorf("%w: failed to answer pager: %v", entities.ErrConnection, err)
				}
				continue
			}
			if match(text) {
				return text, nil
			}
		case err := <-s.readErr:
			s.readErr <- err
			return output.String(), fmt.Errorf("%w: read error while waiting for %s: %v", entities.ErrConnection, what, err)
		case <-timer.C:
			return output.String(), fmt.Errorf("%w: timeout waiting for %s", entities.ErrConnection, what)
		}
	}
}

// stripPager removes a pager marker from the last line of text.
func (s *shell) stripPager(text string) (string, bool) {
	start := strings.LastIndex(text, "\n") + 1
	last := text[start:]
	for _, marker := range s.dialect.PagerMarkers {
		if strings.Contains(last, marker) {
			return text[:start], true
		}
	}
	return text, false
}

// isPrompt reports whether line looks like a CLI prompt for this dialect.
func (s *shell) isPrompt(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 2 || !promptRegex.MatchString(line[:len(line)-1]) {
		return false
	}
	for _, suffix := range s.dialect.PromptSuffixes {
		if strings.HasSuffix(line, suffix) {
			return true
		}
	}
	return false
}

func (s *shell) atPrompt(text string) bool {
	return s.isPrompt(lastLine(text))
}

func (s *shell) atKnownPrompt(text string) bool {
	return strings.TrimSpace(lastLine(text)) == s.prompt
}

// login walks the telnet credential prompts (if any), acknowledges banners,
// elevates to privileged mode where the dialect has one and runs the setup
// commands. A prompt that shows up ahead of its turn skips the steps before
// it, so a line asking only for a password still logs in.
func (s *shell) login(auth []entities.AuthPrompt) error {
	for i := 0; i < len(auth); i++ {
		pending := auth[i:]
		output, err := s.readUntil(func(text string) bool {
			return authPromptIndex(pending, lastLine(text)) >= 0
		}, auth[i].WaitFor)
		if err != nil {
			return fmt.Errorf("%w: failed to wait for %s: %v, output: %s", entities.ErrConnection, auth[i].WaitFor, err, output)
		}
		i += authPromptIndex(pending, lastLine(output))
		if err := s.send(auth[i].SendCmd); err != nil {
			return fmt.Errorf("%w: failed to send login for %s: %v", entities.ErrConnection, auth[i].WaitFor, err)
		}
		if s.target.IsDebugEnabled() {
			fmt.Printf("DEBUG: Answered prompt %s\n", auth[i].WaitFor)
		}
	}

	for keys := 0; ; keys++ {
		output, err := s.readUntil(func(text string) bool {
			tail := lastLine(text)
			return s.atPrompt(text) || s.hasPreLoginKey(strings.ToLower(tail)) ||
				(len(auth) > 0 && authPromptIndex(auth, tail) >= 0)
		}, "CLI prompt")
		if err != nil {
			if len(auth) > 0 && hasAuthFailure(lastLines(output, failureLines)) {
				return fmt.Errorf("%w: %s rejected the login", entities.ErrAuthentication, s.target.Address)
			}
			return fmt.Errorf("%w: no CLI prompt from %s: %v", entities.ErrConnection, s.target.Address, err)
		}
		if s.atPrompt(output) {
			s.prompt = strings.TrimSpace(lastLine(output))
			break
		}
		if len(auth) > 0 && authPromptIndex(auth, lastLine(output)) >= 0 {
			return fmt.Errorf("%w: %s rejected the login", entities.ErrAuthentication, s.target.Address)
		}
		if keys >= maxPreLoginKeys {
			return fmt.Errorf("%w: %s keeps showing a banner", entities.ErrConnection, s.target.Address)
		}
		if err := s.send("\n"); err != nil {
			return fmt.Errorf("%w: failed to acknowledge banner: %v", entities.ErrConnection, err)
		}
	}

	if err := s.elevate(); err != nil {
		return err
	}

	for _, cmd := range s.dialect.SetupCommands {
		if _, err := s.execute(cmd); err != nil {
			return fmt.Errorf("%w: failed to run %q: %v", entities.ErrConnection, cmd, err)
		}
	}
	if s.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Logged in to %s, prompt %q\n", s.target.Address, s.prompt)
	}
	return nil
}

// elevate enters privileged mode with "enable" when the prompt is not
// privileged yet.
func (s *shell) elevate() error {
	privileged := s.dialect.PrivilegedSuffix
	if privileged == "" || strings.HasSuffix(s.prompt, privileged) {
		return nil
	}
	if s.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Elevating to privileged mode on %s\n", s.target.Address)
	}
	if err := s.send("enable\n"); err != nil {
		return fmt.Errorf("%w: failed to send enable command: %v", entities.ErrConnection, err)
	}

	enablePassword := s.target.EnablePassword
	if enablePassword == "" {
		enablePassword = s.target.Password
	}
	sentUsername, sentPassword := false, false
	for {
		output, err := s.readUntil(func(text string) bool {
			tail := strings.ToLower(lastLine(text))
			return s.atPrompt(text) || strings.Contains(tail, "assword:") || strings.Contains(tail, "sername:")
		}, "enable prompt")
		if err != nil {
			return fmt.Errorf("%w: enable failed: %v", entities.ErrConnection, err)
		}
		tail := strings.ToLower(lastLine(output))
		switch {
		case s.atPrompt(output):
			prompt := strings.TrimSpace(lastLine(output))
			if !strings.HasSuffix(prompt, privileged) {
				return fmt.Errorf("%w: enable password rejected by %s", entities.ErrAuthentication, s.target.Address)
			}
			s.prompt = prompt
			return nil
		case strings.Contains(tail, "sername:") && !sentUsername:
			sentUsername = true
			if err := s.send(s.target.Username + "\n"); err != nil {
				return fmt.Errorf("%w: failed to send enable username: %v", entities.ErrConnection, err)
			}
		case strings.Contains(tail, "assword:") && !sentPassword:
			sentPassword = true
			if err := s.send(enablePassword + "\n"); err != nil {
				return fmt.Errorf("%w: failed to send enable password: %v", entities.ErrConnection, err)
			}
		default:
			return fmt.Errorf("%w: enable password rejected by %s", entities.ErrAuthentication, s.target.Address)
		}
	}
}

// execute sends one command and returns its output without the echoed
// command line and the trailing prompt.
func (s *shell) execute(cmd string) (string, error) {
	if s.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Executing: %s\n", cmd)
	}
	if err := s.send(cmd + "\n"); err != nil {
		return "", fmt.Errorf("%w: failed to send command %s: %v", entities.ErrConnection, cmd, err)
	}
	output, err := s.readUntil(s.atKnownPrompt, "prompt "+s.prompt)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %w", cmd, err)
	}

	lines := strings.Split(output, "\n")
	lines = lines[:len(lines)-1]
	if len(lines) > 0 && strings.HasSuffix(strings.TrimSpace(lines[0]), cmd) {
		lines = lines[1:]
	}
	output = strings.Join(lines, "\n")

	if s.target.IsRawOutputEnabled() {
		fmt.Printf("Switch output for '%s':\n%s\n", cmd, output)
	}
	return output, nil
}

func (s *shell) hasPreLoginKey(tail string) bool {
	for _, key := range s.dialect.PreLoginKeys {
		if strings.Contains(tail, strings.ToLower(key)) {
			return true
		}
	}
	return false
}

// hostname derives the device name from the prompt ("SW1#", "user@sw1>").
func (s *shell) hostname() string {
	name := strings.TrimSpace(s.prompt)
	if name == "" {
		return ""
	}
	name = name[:len(name)-1]
	if _, host, ok := strings.Cut(name, "@"); ok {
		name = host
	}
	if idx := strings.Index(name, "("); idx > 0 {
		name = name[:idx]
	}
	return name
}

// authPromptIndex returns the position of the first step whose prompt ends
// line, or -1. "Last login: ..." lines do not count.
func authPromptIndex(steps []entities.AuthPrompt, line string) int {
	line = strings.ToLower(strings.TrimSpace(line))
	for i, p := range steps {
		if strings.HasSuffix(line, strings.ToLower(strings.TrimSpace(p.WaitFor))) {
			return i
		}
	}
	return -1
}

func hasAuthFailure(text string) bool {
	lower := strings.ToLower(text)
	for _, hint := range authFailureHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func lastLine(text string) string {
	return text[strings.LastIndex(text, "\n")+1:]
}

// lastLines returns the final n non-blank lines of text.
func lastLines(text string, n int) string {
	var kept []string
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			kept = append([]string{lines[i]}, kept...)
		}
	}
	return strings.Join(kept, "\n")
}

// cleanOutput drops terminal control sequences, erased pager text and CRs.
func cleanOutput(text string) string {
	text = ansiRegex.ReplaceAllString(text, "")
	text = backspaceRegex.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ReplaceAll(text, "\x00", "")
}
