package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform"
)

type mockSwitchRepo struct {
	connected     bool
	connectErr    error
	connectCalled bool
	hostname      string
	executed      []string
	responses     map[string]string
	execErrors    map[string]error
}

func (m *mockSwitchRepo) Connect() error {
	m.connectCalled = true
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

func (m *mockSwitchRepo) Disconnect() {
	m.connected = false
}

func (m *mockSwitchRepo) ExecuteCommand(cmd string) (string, error) {
	m.executed = append(m.executed, cmd)
	if m.execErrors != nil {
		if err, ok := m.execErrors[cmd]; ok {
			return "", err
		}
	}
	if m.responses != nil {
		if resp, ok := m.responses[cmd]; ok {
			return resp, nil
		}
	}
	return "", nil
}

func (m *mockSwitchRepo) IsConnected() bool {
	return m.connected
}

func (m *mockSwitchRepo) Hostname() string {
	return m.hostname
}

type mockDriver struct {
	commands   []string
	parseErr   error
	interfaces []string
	received   []entities.CommandOutput
}

func (m *mockDriver) Name() string        { return "mock" }
func (m *mockDriver) DisplayName() string { return "Mock" }

func (m *mockDriver) Dialect() entities.Dialect {
	return entities.Dialect{PromptSuffixes: []string{"#"}}
}

func (m *mockDriver) GetAuthenticationSequence(username, password string) []entities.AuthPrompt {
	return nil
}

func (m *mockDriver) Commands() []string {
	return m.commands
}

func (m *mockDriver) Parse(outputs []entities.CommandOutput) (*entities.Inventory, error) {
	m.received = outputs
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	inv := &entities.Inventory{}
	for _, port := range m.interfaces {
		inv.Interfaces = append(inv.Interfaces, entities.NewInterfaceRecord(port))
	}
	inv.VLANs = append(inv.VLANs, entities.VLANRecord{VLANID: "1", Name: "default", Ports: entities.Placeholder})
	return inv, nil
}

var _ platform.SwitchDriver = (*mockDriver)(nil)

func TestInventoryService_Collect(t *testing.T) {
	repo := &mockSwitchRepo{
		hostname: "core-sw",
		responses: map[string]string{
			"show one": "first",
			"show two": "second",
		},
	}
	driver := &mockDriver{commands: []string{"show one", "show two"}, interfaces: []string{"1/1/1", "1/1/2"}}
	service := NewInventoryService(repo, entities.Target{Address: "10.0.0.1"}, driver)

	inv, err := service.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if !repo.connectCalled {
		t.Error("Collect() did not connect")
	}
	if !reflect.DeepEqual(repo.executed, []string{"show one", "show two"}) {
		t.Errorf("executed = %v", repo.executed)
	}
	wantOutputs := []entities.CommandOutput{
		{Command: "show one", Output: "first"},
		{Command: "show two", Output: "second"},
	}
	if !reflect.DeepEqual(driver.received, wantOutputs) {
		t.Errorf("parser received %v, want %v", driver.received, wantOutputs)
	}
	if inv.Hostname != "core-sw" || inv.Platform != "mock" {
		t.Errorf("inventory = %s/%s, want core-sw/mock", inv.Hostname, inv.Platform)
	}
	for _, rec := range inv.Interfaces {
		if rec.Hostname != "core-sw" {
			t.Errorf("interface %s hostname = %q", rec.Port, rec.Hostname)
		}
	}
	if inv.VLANs[0].Hostname != "core-sw" {
		t.Errorf("vlan hostname = %q", inv.VLANs[0].Hostname)
	}
	if !repo.IsConnected() {
		t.Error("Collect() should leave the session to the caller")
	}
}

func TestInventoryService_HostnameFallsBackToAddress(t *testing.T) {
	repo := &mockSwitchRepo{connected: true}
	driver := &mockDriver{commands: []string{"show one"}, interfaces: []string{"1/1/1"}}
	service := NewInventoryService(repo, entities.Target{Address: "10.0.0.1"}, driver)

	inv, err := service.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if repo.connectCalled {
		t.Error("Collect() reconnected an open session")
	}
	if inv.Hostname != "10.0.0.1" {
		t.Errorf("Hostname = %q, want address", inv.Hostname)
	}
}

func TestInventoryService_Errors(t *testing.T) {
	connErr := errors.New("dial tcp: connection refused")

	tests := []struct {
		name         string
		repo         *mockSwitchRepo
		driver       *mockDriver
		wantErr      error
		wantExecuted int
	}{
		{
			name:    "connect failure",
			repo:    &mockSwitchRepo{connectErr: connErr},
			driver:  &mockDriver{commands: []string{"show one"}, interfaces: []string{"1"}},
			wantErr: connErr,
		},
		{
			name: "command rejected",
			repo: &mockSwitchRepo{responses: map[string]string{
				"show one": "                ^\n% Invalid input detected at '^' marker.",
			}},
			driver:       &mockDriver{commands: []string{"show one", "show two"}, interfaces: []string{"1"}},
			wantErr:      entities.ErrCommandRejected,
			wantExecuted: 1,
		},
		{
			name:         "command failure stops the sequence",
			repo:         &mockSwitchRepo{execErrors: map[string]error{"show one": entities.ErrConnection}},
			driver:       &mockDriver{commands: []string{"show one", "show two"}, interfaces: []string{"1"}},
			wantErr:      entities.ErrConnection,
			wantExecuted: 1,
		},
		{
			name:         "no interfaces",
			repo:         &mockSwitchRepo{},
			driver:       &mockDriver{commands: []string{"show one"}},
			wantErr:      entities.ErrNoInterfaces,
			wantExecuted: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewInventoryService(tt.repo, entities.Target{Address: "10.0.0.1"}, tt.driver)
			inv, err := service.Collect()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Collect() error = %v, want %v", err, tt.wantErr)
			}
			if inv != nil {
				t.Error("Collect() returned an inventory on failure")
			}
			if len(tt.repo.executed) != tt.wantExecuted {
				t.Errorf("executed %v, want %d commands", tt.repo.executed, tt.wantExecuted)
			}
		})
	}
}

func TestInventoryService_SameSequenceForEveryDevice(t *testing.T) {
	for _, name := range platform.Names() {
		t.Run(name, func(t *testing.T) {
			driver, err := platform.Get(name)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", name, err)
			}

			first := &mockSwitchRepo{hostname: "sw-a"}
			second := &mockSwitchRepo{hostname: "sw-b"}
			NewInventoryService(first, entities.Target{Address: "10.0.0.1"}, driver).Collect()
			NewInventoryService(second, entities.Target{Address: "10.0.0.2"}, driver).Collect()

			if !reflect.DeepEqual(first.executed, driver.Commands()) {
				t.Errorf("executed %v, want %v", first.executed, driver.Commands())
			}
			if !reflect.DeepEqual(first.executed, second.executed) {
				t.Errorf("devices got different sequences: %v vs %v", first.executed, second.executed)
			}
		})
	}
}

func TestInventoryService_DeterministicParse(t *testing.T) {
	driver, err := platform.Get("cisco")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	responses := map[string]string{
		"show ip interface brief": "Interface              IP-Address      OK? Method Status                Protocol\n" +
			"Vlan10                 10.10.10.1      YES NVRAM  up                    up\n" +
			"GigabitEthernet1/0/1   unassigned      YES unset  up                    up\n",
		"show interfaces description": "Interface                      Status         Protocol Description\n" +
			"Vl10                           up             up       Users SVI\n" +
			"Gi1/0/1                        up             up       Printer\n",
		"show vlan brief": "VLAN Name                             Status    Ports\n" +
			"---- -------------------------------- --------- -------------------------------\n" +
			"10   USERS                            active    Gi1/0/1\n",
	}

	collect := func() *entities.Inventory {
		repo := &mockSwitchRepo{hostname: "SW1", responses: responses}
		inv, err := NewInventoryService(repo, entities.Target{Address: "10.0.0.1"}, driver).Collect()
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		return inv
	}

	first, second := collect(), collect()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same output parsed differently:\n%+v\n%+v", first, second)
	}
	if len(first.Interfaces) != 2 || len(first.VLANs) != 1 {
		t.Errorf("got %d interfaces, %d VLANs", len(first.Interfaces), len(first.VLANs))
	}
}
