package ios

import (
	"regexp"
	"strings"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform/textutil"
)

var (
	interfaceRegex    = regexp.MustCompile(`^[A-Za-z][A-Za-z-]*\d+(?:[/.:]\d+)*$`)
	vlanRowRegex      = regexp.MustCompile(`^(\d{1,4})\s+(\S+)\s+(\S+)\s*(.*)$`)
	channelGroupRegex = regexp.MustCompile(`^(\d+)\s+(\S+?)\([A-Za-z]+\)\s+(\S+)\s*(.*)$`)
	channelPortRegex  = regexp.MustCompile(`([A-Za-z][A-Za-z-]*\d+(?:/\d+)*)\([A-Za-z]+\)`)
	vlanIDRegex       = regexp.MustCompile(`^(\d{1,4})`)
)

// parseIPInterfaceBrief reads "show ip interface brief". It returns the rows
// keyed by normalized port and the port order as printed by the device.
func parseIPInterfaceBrief(output string) (map[string]*entities.InterfaceRecord, []string) {
	records := make(map[string]*entities.InterfaceRecord)
	order := make([]string, 0)
	for _, line := range textutil.Lines(output) {
		if textutil.IsSeparatorLine(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 || !interfaceRegex.MatchString(fields[0]) {
			continue
		}
		port := NormalizeInterfaceName(fields[0])
		if _, seen := records[port]; seen {
			continue
		}
		rec := entities.NewInterfaceRecord(port)
		rec.IPAddress = fields[1]
		rec.Status = strings.Join(fields[4:len(fields)-1], " ")
		rec.Protocol = fields[len(fields)-1]
		records[port] = &rec
		order = append(order, port)
	}
	return records, order
}

// parseDescriptions reads "show interfaces description". Status can span two
// words ("admin down"), so the description is cut at its header column.
func parseDescriptions(output string) map[string]string {
	descriptions := make(map[string]string)
	descCol := -1
	for _, line := range textutil.Lines(output) {
		if descCol < 0 {
			if starts := textutil.ColumnStarts(line, "Interface", "Status", "Protocol", "Description"); starts != nil {
				descCol = starts[3]
			}
			continue
		}
		if textutil.IsSeparatorLine(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || !interfaceRegex.MatchString(fields[0]) {
			continue
		}
		desc := ""
		if len(line) > descCol {
			desc = strings.TrimSpace(line[descCol:])
		}
		descriptions[NormalizeInterfaceName(fields[0])] = desc
	}
	return descriptions
}

// parseSwitchport reads the "Name:" blocks of "show interfaces switchport"
// and renders the VLAN column for every switched port.
func parseSwitchport(output string) map[string]string {
	type block struct {
		name, adminMode, operMode, accessVLAN, trunkVLANs string
	}
	var blocks []*block
	var current *block
	for _, line := range textutil.Lines(output) {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			current = &block{name: value}
			blocks = append(blocks, current)
		case "Administrative Mode":
			if current != nil {
				current.adminMode = value
			}
		case "Operational Mode":
			if current != nil {
				current.operMode = value
			}
		case "Access Mode VLAN":
			if current != nil {
				if m := vlanIDRegex.FindStringSubmatch(value); m != nil {
					current.accessVLAN = m[1]
				}
			}
		case "Trunking VLANs Enabled":
			if current != nil {
				current.trunkVLANs = value
			}
		}
	}

	vlans := make(map[string]string, len(blocks))
	for _, b := range blocks {
		if b.name == "" {
			continue
		}
		mode := strings.ToLower(b.operMode)
		if mode == "" || mode == "down" {
			mode = strings.ToLower(b.adminMode)
		}
		var rendered string
		switch {
		case strings.Contains(mode, "access"):
			rendered = entities.AccessVLAN(b.accessVLAN)
		case strings.Contains(mode, "trunk"):
			rendered = entities.TrunkVLAN(b.trunkVLANs)
		default:
			rendered = entities.Placeholder
		}
		vlans[NormalizeInterfaceName(b.name)] = rendered
	}
	return vlans
}

// parseEtherchannel maps member ports to their Port-channel from
// "show etherchannel summary". Member lists may wrap onto indented lines.
func parseEtherchannel(output string) map[string]string {
	members := make(map[string]string)
	bundle := ""
	for _, line := range textutil.Lines(output) {
		if textutil.IsSeparatorLine(line) {
			continue
		}
		trimmed := strings.TrimSpace(line)
		rest := ""
		if m := channelGroupRegex.FindStringSubmatch(trimmed); m != nil {
			bundle = NormalizeInterfaceName(m[2])
			rest = m[3] + " " + m[4]
		} else if bundle != "" && strings.HasPrefix(line, " ") {
			rest = trimmed
		} else {
			bundle = ""
			continue
		}
		for _, pm := range channelPortRegex.FindAllStringSubmatch(rest, -1) {
			members[NormalizeInterfaceName(pm[1])] = bundle
		}
	}
	return members
}

// parseVLANBrief reads "show vlan brief" into VLAN rows, following wrapped
// port lists on continuation lines.
func parseVLANBrief(output string) []entities.VLANRecord {
	vlans := make([]entities.VLANRecord, 0)
	var ports [][]string
	for _, line := range textutil.Lines(output) {
		if textutil.IsSeparatorLine(line) {
			continue
		}
		if m := vlanRowRegex.FindStringSubmatch(line); m != nil {
			vlans = append(vlans, entities.VLANRecord{VLANID: m[1], Name: m[2]})
			ports = append(ports, splitPorts(m[4]))
			continue
		}
		if len(vlans) > 0 && strings.HasPrefix(line, " ") {
			last := len(ports) - 1
			ports[last] = append(ports[last], splitPorts(line)...)
		}
	}
	for i := range vlans {
		vlans[i].Ports = textutil.JoinPorts(ports[i])
	}
	return vlans
}

func splitPorts(list string) []string {
	var out []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" || !interfaceRegex.MatchString(p) {
			continue
		}
		out = append(out, NormalizeInterfaceName(p))
	}
	return out
}
