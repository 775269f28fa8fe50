package entities

// Placeholder is written for a field the device did not report
const Placeholder = "-"

// InterfaceRecord is one row of the interface sheet
type InterfaceRecord struct {
	Hostname    string
	Port        string
	Description string
	VLAN        string
	Status      string
	Protocol    string
	IPAddress   string
	Aggregate   string
}

// VLANRecord is one row of the VLAN sheet
type VLANRecord struct {
	Hostname string
	VLANID   string
	Name     string
	Ports    string
}

// Inventory is everything collected from one device
type Inventory struct {
	Hostname   string
	Platform   string
	Interfaces []InterfaceRecord
	VLANs      []VLANRecord
}

// NewInterfaceRecord returns a record with every optional field set to the placeholder
func NewInterfaceRecord(port string) InterfaceRecord {
	return InterfaceRecord{
		Port:        port,
		Description: Placeholder,
		VLAN:        Placeholder,
		Status:      Placeholder,
		Protocol:    Placeholder,
		IPAddress:   Placeholder,
		Aggregate:   Placeholder,
	}
}

// SetHostname stamps hostname on every row
func (inv *Inventory) SetHostname(hostname string) {
	inv.Hostname = hostname
	for i := range inv.Interfaces {
		inv.Interfaces[i].Hostname = hostname
	}
	for i := range inv.VLANs {
		inv.VLANs[i].Hostname = hostname
	}
}

// AccessVLAN renders an access port membership
func AccessVLAN(vlan string) string {
	return "Access(" + vlan + ")"
}

// TrunkVLAN renders a trunk port membership
func TrunkVLAN(vlans string) string {
	return "Trunk(" + vlans + ")"
}

// OrPlaceholder returns value, or the placeholder when value is empty
func OrPlaceholder(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}
