package transport

import (
	"github.com/carlosrabelo/portsheet/domain/entities"
)

// SwitchAdapter implements the SwitchRepository port on top of a Client
type SwitchAdapter struct {
	client Client
}

// NewSwitchAdapter creates a new switch adapter
func NewSwitchAdapter(client Client) *SwitchAdapter {
	return &SwitchAdapter{
		client: client,
	}
}

// Connect connects to the switch
func (s *SwitchAdapter) Connect() error {
	return s.client.Connect()
}

// Disconnect disconnects from the switch
func (s *SwitchAdapter) Disconnect() {
	s.client.Disconnect()
}

// ExecuteCommand executes a command on the switch
func (s *SwitchAdapter) ExecuteCommand(cmd string) (string, error) {
	return s.client.ExecuteCommand(cmd)
}

// IsConnected checks if connected
func (s *SwitchAdapter) IsConnected() bool {
	return s.client.IsConnected()
}

// Hostname returns the prompt-derived device name
func (s *SwitchAdapter) Hostname() string {
	return s.client.Hostname()
}

// Client is a remote CLI session on one switch
type Client interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
	Hostname() string
}

// AuthConfigurable allows setting authentication prompts after client creation
type AuthConfigurable interface {
	SetAuthSequence(prompts []entities.AuthPrompt)
}
