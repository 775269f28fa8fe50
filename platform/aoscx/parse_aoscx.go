package aoscx

import (
	"regexp"
	"strings"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform/textutil"
)

var (
	portRegex = regexp.MustCompile(`^(?:\d+/\d+/\d+|lag\d+|vlan\d+|loopback\d+|mgmt)$`)
)

type briefPort struct {
	record     entities.InterfaceRecord
	mode       string
	nativeVLAN string
}

// parseInterfaceBrief reads "show interface brief". The Reason and
// Description columns contain spaces, so rows are cut on header offsets.
func parseInterfaceBrief(output string) []briefPort {
	ports := make([]briefPort, 0)
	var starts []int
	for _, line := range textutil.Lines(output) {
		if starts == nil {
			starts = textutil.ColumnStarts(line, "Port", "Native", "Mode", "Type", "Enabled", "Status", "Reason", "Speed", "Description")
			continue
		}
		if textutil.IsSeparatorLine(line) {
			continue
		}
		port := textutil.Column(line, starts, 0)
		if !portRegex.MatchString(port) {
			continue
		}
		rec := entities.NewInterfaceRecord(port)
		status := strings.ToLower(textutil.Column(line, starts, 5))
		if strings.EqualFold(textutil.Column(line, starts, 4), "no") {
			status = "administratively down"
		}
		rec.Status = entities.OrPlaceholder(status)
		rec.Description = cleanDash(textutil.Column(line, starts, 8))
		ports = append(ports, briefPort{
			record:     rec,
			mode:       strings.ToLower(textutil.Column(line, starts, 2)),
			nativeVLAN: textutil.Column(line, starts, 1),
		})
	}
	return ports
}

// parseIPInterfaceBrief reads "show ip interface brief"; the status column
// is "link/admin".
func parseIPInterfaceBrief(output string) []entities.InterfaceRecord {
	rows := make([]entities.InterfaceRecord, 0)
	for _, line := range textutil.Lines(output) {
		fields := strings.Fields(line)
		if len(fields) < 3 || !portRegex.MatchString(fields[0]) {
			continue
		}
		rec := entities.NewInterfaceRecord(fields[0])
		rec.IPAddress = fields[1]
		link, admin, ok := strings.Cut(fields[2], "/")
		if ok {
			rec.Protocol = link
			rec.Status = admin
		} else {
			rec.Protocol = fields[2]
		}
		rows = append(rows, rec)
	}
	return rows
}

// parseLACPAggregates maps member interfaces to their LAG.
func parseLACPAggregates(output string) map[string]string {
	members := make(map[string]string)
	lag := ""
	for _, line := range textutil.Lines(output) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Aggregate name", "Aggregate-name":
			lag = value
		case "Interfaces":
			if lag == "" {
				continue
			}
			for _, iface := range strings.Fields(value) {
				members[iface] = lag
			}
		}
	}
	return members
}

// parseVLANs reads "show vlan" and also returns, per interface, the VLAN ids
// it belongs to.
func parseVLANs(output string) ([]entities.VLANRecord, map[string][]string) {
	vlans := make([]entities.VLANRecord, 0)
	membership := make(map[string][]string)
	var starts []int
	for _, line := range textutil.Lines(output) {
		if starts == nil {
			starts = textutil.ColumnStarts(line, "VLAN", "Name", "Status", "Reason", "Type", "Interfaces")
			continue
		}
		if textutil.IsSeparatorLine(line) {
			continue
		}
		id := textutil.Column(line, starts, 0)
		if !textutil.IsNumber(id) {
			continue
		}
		ports := textutil.ExpandList(textutil.Column(line, starts, 5))
		for _, p := range ports {
			membership[p] = append(membership[p], id)
		}
		vlans = append(vlans, entities.VLANRecord{
			VLANID: id,
			Name:   textutil.Column(line, starts, 1),
			Ports:  textutil.JoinPorts(ports),
		})
	}
	return vlans, membership
}

func cleanDash(value string) string {
	if value == "--" {
		return entities.Placeholder
	}
	return entities.OrPlaceholder(value)
}
