package junos

import (
	"github.com/carlosrabelo/portsheet/domain/entities"
)

const driverName = "juniper"

const (
	cmdInterfacesTerse        = "show interfaces terse"
	cmdInterfacesDescriptions = "show interfaces descriptions"
	cmdEthernetSwitching      = "show ethernet-switching interface"
	cmdVLANs                  = "show vlans"
)

var commands = []string{
	cmdInterfacesTerse,
	cmdInterfacesDescriptions,
	cmdEthernetSwitching,
	cmdVLANs,
}

// Driver implements SwitchDriver semantics for Juniper EX switches (ELS).
type Driver struct{}

// New creates a new Junos driver.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// DisplayName returns the operator facing vendor name.
func (d *Driver) DisplayName() string {
	return "Juniper"
}

// Dialect returns the Junos operational mode session behaviour.
func (d *Driver) Dialect() entities.Dialect {
	return entities.Dialect{
		PromptSuffixes: []string{">", "#"},
		PagerMarkers:   []string{"---(more", "---(more)---"},
		SetupCommands:  []string{"set cli screen-length 0", "set cli screen-width 0"},
	}
}

// GetAuthenticationSequence returns the Junos telnet login prompts.
func (d *Driver) GetAuthenticationSequence(username, password string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: "ogin:", SendCmd: username + "\n"},
		{WaitFor: "assword:", SendCmd: password + "\n"},
	}
}

// Commands returns the show commands in execution order.
func (d *Driver) Commands() []string {
	out := make([]string, len(commands))
	copy(out, commands)
	return out
}

// Parse builds the inventory from the collected outputs.
func (d *Driver) Parse(outputs []entities.CommandOutput) (*entities.Inventory, error) {
	rows := parseInterfacesTerse(entities.OutputFor(outputs, cmdInterfacesTerse))
	records := make(map[string]*entities.InterfaceRecord, len(rows))
	order := make([]string, 0, len(rows))
	for i := range rows {
		records[rows[i].Port] = &rows[i]
		order = append(order, rows[i].Port)
	}

	for port, desc := range parseDescriptions(entities.OutputFor(outputs, cmdInterfacesDescriptions)) {
		if rec, ok := records[port]; ok {
			rec.Description = entities.OrPlaceholder(desc)
		}
	}
	for port, vlan := range parseEthernetSwitching(entities.OutputFor(outputs, cmdEthernetSwitching)) {
		if rec, ok := records[port]; ok {
			rec.VLAN = vlan
		}
	}

	inv := &entities.Inventory{Platform: driverName}
	for _, port := range order {
		inv.Interfaces = append(inv.Interfaces, *records[port])
	}
	inv.VLANs = parseVLANs(entities.OutputFor(outputs, cmdVLANs))
	return inv, nil
}
