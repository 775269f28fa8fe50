package transport

import (
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

// legacy algorithms still offered by older switch firmware
var (
	legacyKeyExchanges = []string{"diffie-hellman-group14-sha1", "diffie-hellman-group1-sha1"}
	legacyCiphers      = []string{"aes128-cbc", "3des-cbc"}
)

// SSHClient manages an interactive SSH shell on a switch
type SSHClient struct {
	target  entities.Target
	dialect entities.Dialect
	client  *ssh.Client
	session *ssh.Session
	shell   *shell
}

// NewSSHClient creates a new SSH client for the target
func NewSSHClient(target entities.Target, dialect entities.Dialect) *SSHClient {
	return &SSHClient{target: target, dialect: dialect}
}

func (sc *SSHClient) clientConfig() *ssh.ClientConfig {
	password := sc.target.Password
	sshConfig := &ssh.ClientConfig{
		User: sc.target.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sc.timeout(),
	}
	sshConfig.SetDefaults()
	sshConfig.KeyExchanges = append(sshConfig.KeyExchanges, legacyKeyExchanges...)
	sshConfig.Ciphers = append(sshConfig.Ciphers, legacyCiphers...)
	return sshConfig
}

func (sc *SSHClient) timeout() time.Duration {
	if sc.target.Timeout > 0 {
		return sc.target.Timeout
	}
	return DefaultTimeout
}

// Connect dials the switch, authenticates, opens a PTY shell and prepares
// the CLI for scripted commands.
func (sc *SSHClient) Connect() error {
	if sc.IsConnected() {
		return nil
	}
	addr := sc.target.DialAddress()

	dialer := &net.Dialer{Timeout: sc.timeout()}
	rawConn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: failed to connect to %s via SSH: %v", entities.ErrConnection, addr, err)
	}

	_ = rawConn.SetDeadline(time.Now().Add(sc.timeout()))
	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, sc.clientConfig())
	if err != nil {
		rawConn.Close()
		if isAuthError(err) {
			return fmt.Errorf("%w: %s rejected user %s: %v", entities.ErrAuthentication, addr, sc.target.Username, err)
		}
		return fmt.Errorf("%w: failed to establish SSH client connection to %s: %v", entities.ErrConnection, addr, err)
	}
	_ = rawConn.SetDeadline(time.Time{})

	client := ssh.NewClient(clientConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return fmt.Errorf("%w: failed to create SSH session for %s: %v", entities.ErrConnection, addr, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := session.RequestPty("vt100", 80, 200, modes); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to request PTY for %s: %v", entities.ErrConnection, addr, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to get stdin pipe for %s: %v", entities.ErrConnection, addr, err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to get stdout pipe for %s: %v", entities.ErrConnection, addr, err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("%w: failed to start shell for %s: %v", entities.ErrConnection, addr, err)
	}

	sc.client = client
	sc.session = session
	sc.shell = newShell(sc.target, sc.dialect, stdout, stdin)

	if sc.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Connected to %s via SSH\n", addr)
	}

	if err := sc.shell.login(nil); err != nil {
		sc.Disconnect()
		return err
	}
	return nil
}

func (sc *SSHClient) Disconnect() {
	if sc.shell != nil {
		sc.shell.close()
	}
	if sc.session != nil {
		sc.session.Close()
		sc.session = nil
	}
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
		if sc.target.IsDebugEnabled() {
			fmt.Println("DEBUG: Disconnected")
		}
	}
}

func (sc *SSHClient) IsConnected() bool {
	return sc.session != nil && sc.client != nil
}

// ExecuteCommand sends a command to the switch and returns its output
func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	if !sc.IsConnected() {
		return "", fmt.Errorf("%w: not connected to %s", entities.ErrConnection, sc.target.Address)
	}
	return sc.shell.execute(cmd)
}

// Hostname returns the device name learned from the prompt
func (sc *SSHClient) Hostname() string {
	if sc.shell == nil {
		return ""
	}
	return sc.shell.hostname()
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "no supported methods remain")
}
