package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

func sshTarget(address string, port int, password string) entities.Target {
	return entities.Target{
		Address:   address,
		Port:      port,
		Transport: entities.TransportSSH,
		Username:  "admin",
		Password:  password,
		Timeout:   5 * time.Second,
	}
}

func TestSSHClient_ExecuteCommand(t *testing.T) {
	address, port := startSSHDevice(t, fakeDevice{
		hostname:   "test-sw",
		privileged: true,
		commands: map[string]string{
			"terminal length 0": "",
			"show vlan brief":   "VLAN Name     Status\n---- -------- ------\n1    default  active",
		},
	})

	client := NewSSHClient(sshTarget(address, port, "secret"), testDialect())
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Disconnect()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
	if got := client.Hostname(); got != "test-sw" {
		t.Errorf("Hostname() = %q, want %q", got, "test-sw")
	}

	output, err := client.ExecuteCommand("show vlan brief")
	if err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}
	want := "VLAN Name     Status\n---- -------- ------\n1    default  active"
	if output != want {
		t.Errorf("ExecuteCommand() = %q, want %q", output, want)
	}
}

func TestSSHClient_AnswersPager(t *testing.T) {
	address, port := startSSHDevice(t, fakeDevice{
		hostname:   "test-sw",
		privileged: true,
		pager:      true,
		commands: map[string]string{
			"show interfaces description": "Interface Status Protocol Description\nGi1/0/1 up up uplink\nGi1/0/2 down down\nGi1/0/3 up up printer",
		},
	})

	client := NewSSHClient(sshTarget(address, port, "secret"), testDialect())
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Disconnect()

	output, err := client.ExecuteCommand("show interfaces description")
	if err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}
	want := "Interface Status Protocol Description\nGi1/0/1 up up uplink\nGi1/0/2 down down\nGi1/0/3 up up printer"
	if output != want {
		t.Errorf("ExecuteCommand() = %q, want %q", output, want)
	}
}

func TestSSHClient_EnableElevation(t *testing.T) {
	tests := []struct {
		name           string
		enablePassword string
		wantErr        error
	}{
		{name: "accepted", enablePassword: "topsecret"},
		{name: "rejected", enablePassword: "wrong", wantErr: entities.ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address, port := startSSHDevice(t, fakeDevice{
				hostname:       "test-sw",
				enablePassword: "topsecret",
				commands:       map[string]string{"terminal length 0": ""},
			})
			target := sshTarget(address, port, "secret")
			target.EnablePassword = tt.enablePassword

			client := NewSSHClient(target, testDialect())
			err := client.Connect()
			defer client.Disconnect()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Connect() error = %v", err)
				}
				if got := client.Hostname(); got != "test-sw" {
					t.Errorf("Hostname() = %q, want %q", got, "test-sw")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Connect() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSSHClient_ErrorKinds(t *testing.T) {
	address, port := startSSHDevice(t, fakeDevice{hostname: "test-sw", privileged: true})

	tests := []struct {
		name    string
		target  entities.Target
		wantErr error
		notErr  error
	}{
		{
			name:    "wrong password",
			target:  sshTarget(address, port, "wrong"),
			wantErr: entities.ErrAuthentication,
			notErr:  entities.ErrConnection,
		},
		{
			name:    "nothing listening",
			target:  sshTarget("127.0.0.1", closedPort(t), "secret"),
			wantErr: entities.ErrConnection,
			notErr:  entities.ErrAuthentication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewSSHClient(tt.target, testDialect())
			err := client.Connect()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Connect() error = %v, want %v", err, tt.wantErr)
			}
			if errors.Is(err, tt.notErr) {
				t.Errorf("Connect() error = %v should not be %v", err, tt.notErr)
			}
			if client.IsConnected() {
				t.Error("IsConnected() = true after failed Connect()")
			}
		})
	}
}

func TestSSHClient_PromptTimeout(t *testing.T) {
	address, port := startSSHDevice(t, fakeDevice{silent: true})
	target := sshTarget(address, port, "secret")
	target.Timeout = 300 * time.Millisecond

	client := NewSSHClient(target, testDialect())
	err := client.Connect()
	if !errors.Is(err, entities.ErrConnection) {
		t.Errorf("Connect() error = %v, want %v", err, entities.ErrConnection)
	}
}

func TestSSHClient_BannerMentioningDenial(t *testing.T) {
	address, port := startSSHDevice(t, fakeDevice{
		hostname:   "SW1",
		privileged: true,
		banner:     "*** Unauthorized access denied. All activity is logged ***\r\n",
		commands:   map[string]string{"terminal length 0": ""},
	})

	client := NewSSHClient(sshTarget(address, port, "secret"), testDialect())
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Disconnect()

	if got := client.Hostname(); got != "SW1" {
		t.Errorf("Hostname() = %q, want %q", got, "SW1")
	}
}

func TestSSHClient_DeviceStopsAnswering(t *testing.T) {
	address, port := startSSHDevice(t, fakeDevice{
		hostname:   "SW1",
		privileged: true,
		stallOn:    "show vlan brief",
		commands:   map[string]string{"terminal length 0": ""},
	})
	target := sshTarget(address, port, "secret")
	target.Timeout = 300 * time.Millisecond

	client := NewSSHClient(target, testDialect())
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Disconnect()

	_, err := client.ExecuteCommand("show vlan brief")
	if !errors.Is(err, entities.ErrConnection) {
		t.Errorf("ExecuteCommand() error = %v, want %v", err, entities.ErrConnection)
	}
}

func TestSSHClient_NotConnected(t *testing.T) {
	client := NewSSHClient(sshTarget("192.0.2.1", 22, "secret"), testDialect())

	if client.IsConnected() {
		t.Error("IsConnected() = true before Connect()")
	}
	if _, err := client.ExecuteCommand("show vlan"); !errors.Is(err, entities.ErrConnection) {
		t.Errorf("ExecuteCommand() error = %v, want %v", err, entities.ErrConnection)
	}
	if got := client.Hostname(); got != "" {
		t.Errorf("Hostname() = %q, want empty", got)
	}
	client.Disconnect()
}
