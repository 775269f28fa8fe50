package aoscx

import (
	"sort"
	"strconv"
	"strings"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

const driverName = "aruba"

const (
	cmdInterfaceBrief   = "show interface brief"
	cmdIPInterfaceBrief = "show ip interface brief"
	cmdLACPAggregates   = "show lacp aggregates"
	cmdVLAN             = "show vlan"
)

var commands = []string{
	cmdInterfaceBrief,
	cmdIPInterfaceBrief,
	cmdLACPAggregates,
	cmdVLAN,
}

// Driver implements SwitchDriver semantics for Aruba AOS-CX switches.
type Driver struct{}

// New creates a new AOS-CX driver.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// DisplayName returns the operator facing vendor name.
func (d *Driver) DisplayName() string {
	return "Aruba"
}

// Dialect returns the AOS-CX session behaviour. AOS-CX logs straight into
// the manager context, so there is no enable step.
func (d *Driver) Dialect() entities.Dialect {
	return entities.Dialect{
		PromptSuffixes: []string{"#", ">"},
		PagerMarkers:   []string{"-- MORE --"},
		SetupCommands:  []string{"no page"},
	}
}

// GetAuthenticationSequence returns the AOS-CX telnet login prompts.
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
	ports := parseInterfaceBrief(entities.OutputFor(outputs, cmdInterfaceBrief))
	records := make(map[string]*entities.InterfaceRecord, len(ports))
	order := make([]string, 0, len(ports))
	for i := range ports {
		records[ports[i].record.Port] = &ports[i].record
		order = append(order, ports[i].record.Port)
	}

	for _, l3 := range parseIPInterfaceBrief(entities.OutputFor(outputs, cmdIPInterfaceBrief)) {
		rec, ok := records[l3.Port]
		if !ok {
			added := entities.NewInterfaceRecord(l3.Port)
			added.Status = l3.Status
			rec = &added
			records[l3.Port] = rec
			order = append(order, l3.Port)
		}
		rec.IPAddress = l3.IPAddress
		rec.Protocol = l3.Protocol
	}

	for member, lag := range parseLACPAggregates(entities.OutputFor(outputs, cmdLACPAggregates)) {
		if rec, ok := records[member]; ok {
			rec.Aggregate = lag
		}
	}

	vlans, membership := parseVLANs(entities.OutputFor(outputs, cmdVLAN))
	for _, p := range ports {
		rec := records[p.record.Port]
		switch p.mode {
		case "access":
			rec.VLAN = entities.AccessVLAN(p.nativeVLAN)
		case "trunk":
			rec.VLAN = entities.TrunkVLAN(joinVLANIDs(membership[p.record.Port]))
		}
	}

	inv := &entities.Inventory{Platform: driverName, VLANs: vlans}
	for _, port := range order {
		inv.Interfaces = append(inv.Interfaces, *records[port])
	}
	return inv, nil
}

// joinVLANIDs sorts VLAN ids numerically and joins them with commas.
func joinVLANIDs(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := strconv.Atoi(sorted[i])
		b, _ := strconv.Atoi(sorted[j])
		return a < b
	})
	return strings.Join(sorted, ",")
}
