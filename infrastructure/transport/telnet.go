package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/ziutek/telnet"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

// TelnetClient manages a Telnet connection to a switch
type TelnetClient struct {
	conn         *telnet.Conn
	target       entities.Target
	dialect      entities.Dialect
	authSequence []entities.AuthPrompt
	shell        *shell
}

// NewTelnetClient creates a new Telnet client for the target
func NewTelnetClient(target entities.Target, dialect entities.Dialect) *TelnetClient {
	return &TelnetClient{target: target, dialect: dialect}
}

// SetAuthSequence configures the login prompts answered after connecting
func (tc *TelnetClient) SetAuthSequence(prompts []entities.AuthPrompt) {
	tc.authSequence = prompts
}

// Connect establishes a Telnet connection to the switch and logs in
func (tc *TelnetClient) Connect() error {
	if tc.conn != nil {
		return nil
	}
	addr := tc.target.DialAddress()
	timeout := tc.target.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rawConn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("%w: failed to connect to %s: %v", entities.ErrConnection, addr, err)
	}
	conn, err := telnet.NewConn(rawConn)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("%w: failed to negotiate telnet with %s: %v", entities.ErrConnection, addr, err)
	}
	conn.SetUnixWriteMode(true)
	tc.conn = conn
	tc.shell = newShell(tc.target, tc.dialect, conn, conn)
	if tc.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Connected to %s\n", addr)
	}

	if err := tc.shell.login(tc.authSequence); err != nil {
		tc.Disconnect()
		return err
	}
	return nil
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.shell != nil {
		tc.shell.close()
	}
	if tc.conn != nil {
		tc.conn.Close()
		if tc.target.IsDebugEnabled() {
			fmt.Println("DEBUG: Disconnected")
		}
		tc.conn = nil
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command to the switch and returns its output
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.conn == nil {
		return "", fmt.Errorf("%w: not connected to %s", entities.ErrConnection, tc.target.Address)
	}
	_ = tc.conn.SetWriteDeadline(time.Now().Add(tc.shell.timeout()))
	return tc.shell.execute(cmd)
}

// Hostname returns the device name learned from the prompt
func (tc *TelnetClient) Hostname() string {
	if tc.shell == nil {
		return ""
	}
	return tc.shell.hostname()
}
