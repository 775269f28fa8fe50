package transport

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

const pagerErase = "\b\b\b\b\b\b\b\b\b\b          \b\b\b\b\b\b\b\b\b\b"

// fakeDevice emulates a switch CLI behind a shell stream
type fakeDevice struct {
	hostname       string
	privileged     bool
	enablePassword string
	pager          bool
	silent         bool
	banner         string
	loginBanner    string
	passwordOnly   bool
	stallOn        string
	commands       map[string]string
}

func testDialect() entities.Dialect {
	return entities.Dialect{
		PromptSuffixes:   []string{"#", ">"},
		PrivilegedSuffix: "#",
		PagerMarkers:     []string{"--More--"},
		SetupCommands:    []string{"terminal length 0"},
	}
}

func (d fakeDevice) prompt() string {
	if d.privileged {
		return d.hostname + "#"
	}
	return d.hostname + ">"
}

// serve runs the CLI loop until the stream closes
func (d fakeDevice) serve(rw io.ReadWriter) {
	if d.silent {
		io.Copy(io.Discard, rw)
		return
	}
	reader := bufio.NewReader(rw)
	fmt.Fprintf(rw, "\r\n%s\r\n%s", d.banner, d.prompt())
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		fmt.Fprintf(rw, "%s\r\n", cmd)

		if d.stallOn != "" && cmd == d.stallOn {
			io.Copy(io.Discard, reader)
			return
		}
		if cmd == "enable" {
			fmt.Fprint(rw, "Password: ")
			password, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.TrimSpace(password) == d.enablePassword {
				d.privileged = true
			} else {
				fmt.Fprint(rw, "\r\n% Access denied\r\n\r\n")
			}
			fmt.Fprint(rw, d.prompt())
			continue
		}

		output, ok := d.commands[cmd]
		if !ok {
			output = "                ^\r\n% Invalid input detected at '^' marker."
		}
		lines := strings.Split(output, "\n")
		if d.pager && len(lines) > 1 {
			half := len(lines) / 2
			fmt.Fprint(rw, strings.Join(lines[:half], "\r\n")+"\r\n")
			fmt.Fprint(rw, " --More-- ")
			if b, err := reader.ReadByte(); err != nil || b != ' ' {
				return
			}
			fmt.Fprint(rw, pagerErase)
			lines = lines[half:]
		}
		fmt.Fprintf(rw, "%s\r\n%s", strings.Join(lines, "\r\n"), d.prompt())
	}
}

// startSSHDevice serves dev over SSH on a random local port, accepting
// admin/secret.
func startSSHDevice(t *testing.T, dev fakeDevice) (string, int) {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate host key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(key)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}
	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if c.User() == "admin" && string(password) == "secret" {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %s", c.User())
		},
	}
	config.AddHostKey(signer)

	return listen(t, func(conn net.Conn) {
		defer conn.Close()
		_, chans, reqs, err := ssh.NewServerConn(conn, config)
		if err != nil {
			return
		}
		go ssh.DiscardRequests(reqs)
		for newChannel := range chans {
			if newChannel.ChannelType() != "session" {
				newChannel.Reject(ssh.UnknownChannelType, "unsupported channel type")
				continue
			}
			channel, requests, err := newChannel.Accept()
			if err != nil {
				return
			}
			go func(in <-chan *ssh.Request) {
				for req := range in {
					req.Reply(req.Type == "pty-req" || req.Type == "shell", nil)
				}
			}(requests)
			go func() {
				defer channel.Close()
				dev.serve(channel)
			}()
		}
	})
}

// startTelnetDevice serves dev behind a plain login dialogue. Lines with
// passwordOnly set skip the username prompt.
func startTelnetDevice(t *testing.T, dev fakeDevice) (string, int) {
	t.Helper()
	return listen(t, func(conn net.Conn) {
		defer conn.Close()
		reader := bufio.NewReader(conn)
		fmt.Fprintf(conn, "\r\n%s\r\nUser Access Verification\r\n\r\n", dev.loginBanner)
		for {
			username := "admin"
			if !dev.passwordOnly {
				fmt.Fprint(conn, "Username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				username = strings.TrimSpace(line)
			}
			fmt.Fprint(conn, "Password: ")
			password, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if username == "admin" && strings.TrimSpace(password) == "secret" {
				break
			}
			fmt.Fprint(conn, "\r\n% Authentication failed\r\n\r\n")
		}
		dev.serve(struct {
			io.Reader
			io.Writer
		}{reader, conn})
	})
}

func listen(t *testing.T, handle func(net.Conn)) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handle(conn)
		}
	}()
	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// closedPort returns a local port with nothing listening on it
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}
