package ios

import "strings"

// interfaceTypes maps every accepted spelling to the long IOS interface name.
var interfaceTypes = []struct {
	names []string
	full  string
}{
	{[]string{"Ethernet", "Eth", "Et"}, "Ethernet"},
	{[]string{"FastEthernet", "Fa"}, "FastEthernet"},
	{[]string{"GigabitEthernet", "Gi", "Gig"}, "GigabitEthernet"},
	{[]string{"TwoGigabitEthernet", "Tw"}, "TwoGigabitEthernet"},
	{[]string{"FiveGigabitEthernet", "Fi"}, "FiveGigabitEthernet"},
	{[]string{"TenGigabitEthernet", "Te"}, "TenGigabitEthernet"},
	{[]string{"TwentyFiveGigE", "Twe"}, "TwentyFiveGigE"},
	{[]string{"FortyGigabitEthernet", "Fo"}, "FortyGigabitEthernet"},
	{[]string{"HundredGigE", "Hu"}, "HundredGigE"},
	{[]string{"Port-channel", "Po"}, "Port-channel"},
	{[]string{"Serial", "Ser", "Se"}, "Serial"},
	{[]string{"Loopback", "loopback", "Lo", "lo"}, "Loopback"},
	{[]string{"Vlan", "Vl"}, "Vlan"},
	{[]string{"Tunnel", "Tu"}, "Tunnel"},
}

// NormalizeInterfaceName expands short IOS interface names (Gi1/0/1) to
// their long form (GigabitEthernet1/0/1). Unknown names are returned as is.
func NormalizeInterfaceName(name string) string {
	name = strings.TrimSpace(name)
	idx := strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if idx < 0 {
		return name
	}
	kind, suffix := name[:idx], name[idx:]
	for _, t := range interfaceTypes {
		for _, alias := range t.names {
			if kind == alias {
				return t.full + suffix
			}
		}
	}
	return name
}
