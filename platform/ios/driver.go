package ios

import (
	"github.com/carlosrabelo/portsheet/domain/entities"
)

const driverName = "cisco"

const (
	cmdIPInterfaceBrief = "show ip interface brief"
	cmdDescription      = "show interfaces description"
	cmdSwitchport       = "show interfaces switchport"
	cmdEtherchannel     = "show etherchannel summary"
	cmdVLANBrief        = "show vlan brief"
)

var commands = []string{
	cmdIPInterfaceBrief,
	cmdDescription,
	cmdSwitchport,
	cmdEtherchannel,
	cmdVLANBrief,
}

// Driver implements the SwitchDriver behaviour for Cisco IOS switches.
type Driver struct{}

// New creates a new IOS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// DisplayName returns the operator facing vendor name.
func (d *Driver) DisplayName() string {
	return "Cisco"
}

// Dialect returns the IOS session behaviour.
func (d *Driver) Dialect() entities.Dialect {
	return entities.Dialect{
		PromptSuffixes:   []string{"#", ">"},
		PrivilegedSuffix: "#",
		PagerMarkers:     []string{"--More--"},
		SetupCommands:    []string{"terminal length 0"},
	}
}

// GetAuthenticationSequence returns the IOS telnet login prompts.
func (d *Driver) GetAuthenticationSequence(username, password string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: "sername:", SendCmd: username + "\n"},
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
	records, order := parseIPInterfaceBrief(entities.OutputFor(outputs, cmdIPInterfaceBrief))

	for port, desc := range parseDescriptions(entities.OutputFor(outputs, cmdDescription)) {
		if rec, ok := records[port]; ok {
			rec.Description = entities.OrPlaceholder(desc)
		}
	}
	for port, vlan := range parseSwitchport(entities.OutputFor(outputs, cmdSwitchport)) {
		if rec, ok := records[port]; ok {
			rec.VLAN = vlan
		}
	}
	for port, bundle := range parseEtherchannel(entities.OutputFor(outputs, cmdEtherchannel)) {
		if rec, ok := records[port]; ok {
			rec.Aggregate = bundle
		}
	}

	inv := &entities.Inventory{Platform: driverName}
	for _, port := range order {
		inv.Interfaces = append(inv.Interfaces, *records[port])
	}
	inv.VLANs = parseVLANBrief(entities.OutputFor(outputs, cmdVLANBrief))
	return inv, nil
}
