package services

import (
	"errors"
	"testing"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

// MockClient implements transport.Client for testing
type MockClient struct {
	connected       bool
	connectErr      error
	disconnectCalls int
	hostname        string
	responses       map[string]string
}

func (m *MockClient) Connect() error {
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

func (m *MockClient) Disconnect() {
	m.disconnectCalls++
	m.connected = false
}

func (m *MockClient) ExecuteCommand(cmd string) (string, error) {
	return m.responses[cmd], nil
}

func (m *MockClient) IsConnected() bool {
	return m.connected
}

func (m *MockClient) Hostname() string {
	return m.hostname
}

// MockDriver returns one interface per non-empty output line
type MockDriver struct{}

func (MockDriver) Name() string              { return "mock" }
func (MockDriver) DisplayName() string       { return "Mock" }
func (MockDriver) Dialect() entities.Dialect { return entities.Dialect{} }
func (MockDriver) Commands() []string        { return []string{"show interfaces"} }
func (MockDriver) GetAuthenticationSequence(username, password string) []entities.AuthPrompt {
	return nil
}

func (MockDriver) Parse(outputs []entities.CommandOutput) (*entities.Inventory, error) {
	inv := &entities.Inventory{}
	if entities.OutputFor(outputs, "show interfaces") != "" {
		inv.Interfaces = append(inv.Interfaces, entities.NewInterfaceRecord("1/1/1"))
	}
	return inv, nil
}

// MockWriter records the inventories it was asked to write
type MockWriter struct {
	written []*entities.Inventory
	err     error
}

func (m *MockWriter) Write(inv *entities.Inventory) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, inv)
	return nil
}

func TestInventoryApplicationService_Run(t *testing.T) {
	client := &MockClient{hostname: "SW1", responses: map[string]string{"show interfaces": "1/1/1 up"}}
	writer := &MockWriter{}
	app := NewInventoryApplicationService(entities.Target{Address: "10.0.0.1"}, client, MockDriver{}, writer)

	inv, err := app.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if inv.Hostname != "SW1" {
		t.Errorf("Hostname = %q, want SW1", inv.Hostname)
	}
	if len(writer.written) != 1 || writer.written[0] != inv {
		t.Errorf("writer got %v", writer.written)
	}
	if client.disconnectCalls != 1 || client.connected {
		t.Error("Run() did not close the session")
	}
}

func TestInventoryApplicationService_NoWriteOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		client  *MockClient
		wantErr error
	}{
		{
			name:    "connection failure",
			client:  &MockClient{connectErr: entities.ErrConnection},
			wantErr: entities.ErrConnection,
		},
		{
			name:    "authentication failure",
			client:  &MockClient{connectErr: entities.ErrAuthentication},
			wantErr: entities.ErrAuthentication,
		},
		{
			name:    "nothing parsed",
			client:  &MockClient{},
			wantErr: entities.ErrNoInterfaces,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &MockWriter{}
			app := NewInventoryApplicationService(entities.Target{Address: "10.0.0.1"}, tt.client, MockDriver{}, writer)

			_, err := app.Run()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if len(writer.written) != 0 {
				t.Error("Run() wrote a workbook after a failure")
			}
			if tt.client.disconnectCalls != 1 {
				t.Errorf("Disconnect called %d times, want 1", tt.client.disconnectCalls)
			}
		})
	}
}

func TestInventoryApplicationService_WriteError(t *testing.T) {
	client := &MockClient{responses: map[string]string{"show interfaces": "1/1/1 up"}}
	writeErr := errors.New("disk full")
	app := NewInventoryApplicationService(entities.Target{Address: "10.0.0.1"}, client, MockDriver{}, &MockWriter{err: writeErr})

	if _, err := app.Run(); !errors.Is(err, writeErr) {
		t.Errorf("Run() error = %v, want %v", err, writeErr)
	}
}

func TestInventoryApplicationService_HostnameLookup(t *testing.T) {
	tests := []struct {
		name      string
		lookupRet string
		lookupErr error
		want      string
	}{
		{name: "sysName wins", lookupRet: "core-sw.example.net", want: "core-sw.example.net"},
		{name: "empty keeps prompt name", lookupRet: "", want: "SW1"},
		{name: "failure is ignored", lookupErr: errors.New("request timeout"), want: "SW1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockClient{hostname: "SW1", responses: map[string]string{"show interfaces": "1/1/1 up"}}
			lookup := func(target entities.Target) (string, error) {
				if target.Address != "10.0.0.1" {
					t.Errorf("lookup got address %q", target.Address)
				}
				return tt.lookupRet, tt.lookupErr
			}
			app := NewInventoryApplicationService(entities.Target{Address: "10.0.0.1"}, client, MockDriver{}, &MockWriter{}, WithHostnameLookup(lookup))

			inv, err := app.Run()
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if inv.Hostname != tt.want || inv.Interfaces[0].Hostname != tt.want {
				t.Errorf("Hostname = %q / %q, want %q", inv.Hostname, inv.Interfaces[0].Hostname, tt.want)
			}
		})
	}
}
