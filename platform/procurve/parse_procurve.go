package procurve

import (
	"net"
	"regexp"
	"strings"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform/textutil"
)

var (
	// "23-Trk1" is how a trunk member is listed in the port status table.
	briefPortRegex = regexp.MustCompile(`^([A-Z]?\d+(?:/[A-Z]?\d+)?)(?:-(Trk\d+))?$`)
	portRegex      = regexp.MustCompile(`^(?:[A-Z]?\d+(?:/[A-Z]?\d+)?|Trk\d+)$`)
	vlanHeadRegex  = regexp.MustCompile(`^vlan\s+(\d{1,4})\s*$`)
)

// parseInterfacesBrief reads the "Status and Counters - Port Status" table.
// Left of "|" are port and type, right of it alert, enabled, status, mode.
func parseInterfacesBrief(output string) []entities.InterfaceRecord {
	rows := make([]entities.InterfaceRecord, 0)
	for _, line := range textutil.Lines(output) {
		left, right, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		leftFields := strings.Fields(left)
		rightFields := strings.Fields(right)
		if len(leftFields) == 0 || len(rightFields) < 3 {
			continue
		}
		m := briefPortRegex.FindStringSubmatch(leftFields[0])
		if m == nil {
			continue
		}
		rec := entities.NewInterfaceRecord(m[1])
		link := strings.ToLower(rightFields[2])
		rec.Protocol = link
		rec.Status = link
		if strings.EqualFold(rightFields[1], "no") {
			rec.Status = "administratively down"
		}
		if m[2] != "" {
			rec.Aggregate = m[2]
		}
		rows = append(rows, rec)
	}
	return rows
}

// parseNames reads "show name" (Port : Name).
func parseNames(output string) map[string]string {
	names := make(map[string]string)
	for _, line := range textutil.Lines(output) {
		port, name, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		port = strings.TrimSpace(port)
		if !portRegex.MatchString(port) {
			continue
		}
		names[port] = strings.TrimSpace(name)
	}
	return names
}

// parseTrunks maps ports to their trunk group from "show trunks". The last
// "|" section starts with the group name.
func parseTrunks(output string) map[string]string {
	groups := make(map[string]string)
	for _, line := range textutil.Lines(output) {
		sections := strings.Split(line, "|")
		if len(sections) < 3 {
			continue
		}
		port := strings.TrimSpace(sections[0])
		groupFields := strings.Fields(sections[len(sections)-1])
		if !portRegex.MatchString(port) || len(groupFields) == 0 {
			continue
		}
		if strings.HasPrefix(groupFields[0], "Trk") {
			groups[port] = groupFields[0]
		}
	}
	return groups
}

type vlanConfig struct {
	id        string
	name      string
	untagged  []string
	tagged    []string
	ipAddress string
}

type runningConfig struct {
	vlans    []*vlanConfig
	untagged map[string]string
	tagged   map[string][]string
}

// parseRunningConfig extracts the "vlan N" blocks of the running config.
func parseRunningConfig(output string) *runningConfig {
	cfg := &runningConfig{
		untagged: make(map[string]string),
		tagged:   make(map[string][]string),
	}
	var current *vlanConfig
	for _, line := range textutil.Lines(output) {
		trimmed := strings.TrimSpace(line)
		if m := vlanHeadRegex.FindStringSubmatch(trimmed); m != nil && !strings.HasPrefix(line, " ") {
			current = &vlanConfig{id: m[1]}
			cfg.vlans = append(cfg.vlans, current)
			continue
		}
		if current == nil {
			continue
		}
		if trimmed == "exit" || (trimmed != "" && !strings.HasPrefix(line, " ")) {
			current = nil
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "name":
			current.name = strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "name")), `"`)
		case "untagged":
			current.untagged = append(current.untagged, textutil.ExpandList(fields[1])...)
		case "tagged":
			current.tagged = append(current.tagged, textutil.ExpandList(fields[1])...)
		case "ip":
			if fields[1] == "address" && len(fields) >= 3 {
				current.ipAddress = formatAddress(fields[2:])
			}
		}
	}
	for _, v := range cfg.vlans {
		for _, p := range v.untagged {
			cfg.untagged[p] = v.id
		}
		for _, p := range v.tagged {
			cfg.tagged[p] = append(cfg.tagged[p], v.id)
		}
	}
	return cfg
}

// portVLAN renders the VLAN column for port, or "" when it has no VLAN.
func (c *runningConfig) portVLAN(port string) string {
	tagged := c.tagged[port]
	untagged := c.untagged[port]
	if len(tagged) == 0 {
		if untagged == "" {
			return ""
		}
		return entities.AccessVLAN(untagged)
	}
	ids := tagged
	if untagged != "" {
		ids = append([]string{untagged}, tagged...)
	}
	return entities.TrunkVLAN(strings.Join(ids, ","))
}

func (c *runningConfig) records() []entities.VLANRecord {
	out := make([]entities.VLANRecord, 0, len(c.vlans))
	for _, v := range c.vlans {
		ports := append(append([]string{}, v.untagged...), v.tagged...)
		out = append(out, entities.VLANRecord{
			VLANID: v.id,
			Name:   v.name,
			Ports:  textutil.JoinPorts(ports),
		})
	}
	return out
}

// formatAddress turns "10.1.1.1 255.255.255.0" into CIDR form.
func formatAddress(fields []string) string {
	if len(fields) == 1 {
		if fields[0] == "dhcp-bootp" {
			return "dhcp"
		}
		return fields[0]
	}
	ip := net.ParseIP(fields[0])
	mask := net.ParseIP(fields[1])
	if ip == nil || mask == nil || mask.To4() == nil {
		return strings.Join(fields, " ")
	}
	ones, bits := net.IPMask(mask.To4()).Size()
	if bits == 0 {
		return strings.Join(fields, " ")
	}
	return (&net.IPNet{IP: ip, Mask: net.CIDRMask(ones, bits)}).String()
}
