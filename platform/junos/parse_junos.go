package junos

import (
	"regexp"
	"strings"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform/textutil"
)

var (
	// Physical and logical interfaces worth reporting; internal ones
	// (bme0, jsrv, pfe-, tap, ...) are left out.
	interfaceRegex = regexp.MustCompile(`^(?:(?:ge|xe|et|mge|fe)-\d+/\d+/\d+|ae\d+|irb|vlan|lo\d+|me\d+|em\d+|vme|fxp\d+)(?:\.\d+)?$`)
)

// physicalName strips the logical unit (".0") and the active flag ("*").
func physicalName(name string) string {
	name = strings.TrimSuffix(name, "*")
	if base, _, ok := strings.Cut(name, "."); ok {
		return base
	}
	return name
}

// parseInterfacesTerse reads "show interfaces terse". Physical interfaces
// become rows; logical units contribute their LAG parent ("aenet --> ae0.0")
// or, for routed units, a row of their own carrying the inet address.
func parseInterfacesTerse(output string) []entities.InterfaceRecord {
	rows := make([]entities.InterfaceRecord, 0)
	index := make(map[string]int)
	for _, line := range textutil.Lines(output) {
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || !interfaceRegex.MatchString(fields[0]) {
			continue
		}
		name := fields[0]
		proto := ""
		if len(fields) > 3 {
			proto = fields[3]
		}

		if !strings.Contains(name, ".") {
			rec := entities.NewInterfaceRecord(name)
			rec.Status = fields[1]
			rec.Protocol = fields[2]
			index[name] = len(rows)
			rows = append(rows, rec)
			continue
		}

		switch proto {
		case "aenet":
			if len(fields) >= 6 && fields[4] == "-->" {
				if i, ok := index[physicalName(name)]; ok {
					rows[i].Aggregate = physicalName(fields[5])
				}
			}
		case "inet":
			if len(fields) < 5 {
				continue
			}
			rec := entities.NewInterfaceRecord(name)
			rec.Status = fields[1]
			rec.Protocol = fields[2]
			rec.IPAddress = fields[4]
			index[name] = len(rows)
			rows = append(rows, rec)
		}
	}
	return rows
}

// parseDescriptions reads "show interfaces descriptions".
func parseDescriptions(output string) map[string]string {
	descriptions := make(map[string]string)
	for _, line := range textutil.Lines(output) {
		fields := strings.Fields(line)
		if len(fields) < 4 || !interfaceRegex.MatchString(fields[0]) {
			continue
		}
		descriptions[fields[0]] = strings.Join(fields[3:], " ")
	}
	return descriptions
}

// parseEthernetSwitching reads "show ethernet-switching interface" and renders
// the VLAN column per physical port. Member rows are indented below their
// logical interface.
func parseEthernetSwitching(output string) map[string]string {
	type binding struct {
		port    string
		tagging string
		tags    []string
	}
	var bindings []*binding
	var current *binding
	for _, line := range textutil.Lines(output) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !strings.HasPrefix(line, " ") {
			current = nil
			if !interfaceRegex.MatchString(fields[0]) || !strings.Contains(fields[0], ".") {
				continue
			}
			current = &binding{port: physicalName(fields[0]), tagging: fields[len(fields)-1]}
			bindings = append(bindings, current)
			continue
		}
		if current == nil || len(fields) < 2 || !textutil.IsNumber(fields[1]) {
			continue
		}
		current.tags = append(current.tags, fields[1])
	}

	vlans := make(map[string]string, len(bindings))
	for _, b := range bindings {
		switch {
		case len(b.tags) == 0:
			vlans[b.port] = entities.Placeholder
		case b.tagging == "tagged" || len(b.tags) > 1:
			vlans[b.port] = entities.TrunkVLAN(strings.Join(b.tags, ","))
		default:
			vlans[b.port] = entities.AccessVLAN(b.tags[0])
		}
	}
	return vlans
}

// parseVLANs reads the ELS "show vlans" table. Interfaces are listed one per
// line under the VLAN they belong to.
func parseVLANs(output string) []entities.VLANRecord {
	vlans := make([]entities.VLANRecord, 0)
	var ports [][]string
	for _, line := range textutil.Lines(output) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !strings.HasPrefix(line, " ") {
			if len(fields) < 3 || strings.EqualFold(fields[0], "Routing") {
				continue
			}
			tag := fields[2]
			if !textutil.IsNumber(tag) {
				tag = entities.Placeholder
			}
			vlans = append(vlans, entities.VLANRecord{VLANID: tag, Name: fields[1]})
			ports = append(ports, memberPorts(fields[3:]))
			continue
		}
		if len(vlans) > 0 {
			last := len(ports) - 1
			ports[last] = append(ports[last], memberPorts(fields)...)
		}
	}
	for i := range vlans {
		vlans[i].Ports = textutil.JoinPorts(ports[i])
	}
	return vlans
}

func memberPorts(fields []string) []string {
	var out []string
	for _, f := range fields {
		for _, p := range strings.Split(f, ",") {
			if p == "" {
				continue
			}
			out = append(out, physicalName(p))
		}
	}
	return out
}
