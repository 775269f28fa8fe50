package entities

import (
	"net"
	"strconv"
	"time"
)

const (
	TransportSSH    = "ssh"
	TransportTelnet = "telnet"
)

// Target defines the device and credentials for a single run
type Target struct {
	Address        string
	Port           int
	Transport      string
	Username       string
	Password       string
	EnablePassword string
	Platform       string
	Timeout        time.Duration
	VerbosityLevel int
}

// IsDebugEnabled returns true if debug logs are enabled
func (t Target) IsDebugEnabled() bool {
	return t.VerbosityLevel == 1 || t.VerbosityLevel == 3
}

// IsRawOutputEnabled returns true if raw switch output is enabled
func (t Target) IsRawOutputEnabled() bool {
	return t.VerbosityLevel == 2 || t.VerbosityLevel == 3
}

// DialAddress returns host:port, using the transport default port when none is set
func (t Target) DialAddress() string {
	port := t.Port
	if port == 0 {
		port = 22
		if t.Transport == TransportTelnet {
			port = 23
		}
	}
	return net.JoinHostPort(t.Address, strconv.Itoa(port))
}
