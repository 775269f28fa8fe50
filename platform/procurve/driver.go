package procurve

import (
	"github.com/carlosrabelo/portsheet/domain/entities"
)

const driverName = "hp"

const (
	cmdInterfacesBrief = "show interfaces brief"
	cmdName            = "show name"
	cmdTrunks          = "show trunks"
	cmdRunningConfig   = "show running-config"
)

var commands = []string{
	cmdInterfacesBrief,
	cmdName,
	cmdTrunks,
	cmdRunningConfig,
}

// Driver implements SwitchDriver semantics for HP ProCurve / ArubaOS-Switch.
type Driver struct{}

// New creates a new ProCurve driver.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// DisplayName returns the operator facing vendor name.
func (d *Driver) DisplayName() string {
	return "HP"
}

// Dialect returns the ProCurve session behaviour.
func (d *Driver) Dialect() entities.Dialect {
	return entities.Dialect{
		PromptSuffixes:   []string{"#", ">"},
		PrivilegedSuffix: "#",
		PagerMarkers:     []string{"-- MORE --"},
		SetupCommands:    []string{"no page"},
		PreLoginKeys:     []string{"Press any key to continue"},
	}
}

// GetAuthenticationSequence returns the ProCurve telnet login prompts.
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
	rows := parseInterfacesBrief(entities.OutputFor(outputs, cmdInterfacesBrief))
	records := make(map[string]*entities.InterfaceRecord, len(rows))
	order := make([]string, 0, len(rows))
	for i := range rows {
		records[rows[i].Port] = &rows[i]
		order = append(order, rows[i].Port)
	}

	for port, name := range parseNames(entities.OutputFor(outputs, cmdName)) {
		if rec, ok := records[port]; ok {
			rec.Description = entities.OrPlaceholder(name)
		}
	}
	for port, group := range parseTrunks(entities.OutputFor(outputs, cmdTrunks)) {
		if rec, ok := records[port]; ok {
			rec.Aggregate = group
		}
	}

	cfg := parseRunningConfig(entities.OutputFor(outputs, cmdRunningConfig))
	for _, port := range order {
		rec := records[port]
		vlan := cfg.portVLAN(port)
		if vlan == "" && rec.Aggregate != entities.Placeholder {
			vlan = cfg.portVLAN(rec.Aggregate)
		}
		rec.VLAN = entities.OrPlaceholder(vlan)
	}

	inv := &entities.Inventory{Platform: driverName}
	for _, port := range order {
		inv.Interfaces = append(inv.Interfaces, *records[port])
	}
	for _, v := range cfg.vlans {
		if v.ipAddress == "" {
			continue
		}
		svi := entities.NewInterfaceRecord("Vlan" + v.id)
		svi.IPAddress = v.ipAddress
		svi.Description = entities.OrPlaceholder(v.name)
		inv.Interfaces = append(inv.Interfaces, svi)
	}
	inv.VLANs = cfg.records()
	return inv, nil
}
