package snmp

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

const (
	DefaultPort    = 161
	DefaultTimeout = 5 * time.Second
	// OIDSysName is SNMPv2-MIB::sysName.0
	OIDSysName = ".1.3.6.1.2.1.1.5.0"
)

// SysName reads sysName.0 from the target with an SNMPv2c GET
func SysName(target entities.Target, community string, port int) (string, error) {
	if port == 0 {
		port = DefaultPort
	}
	timeout := target.Timeout
	if timeout <= 0 || timeout > DefaultTimeout {
		timeout = DefaultTimeout
	}

	client := &gosnmp.GoSNMP{
		Target:    target.Address,
		Port:      uint16(port),
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   0,
		Transport: "udp",
	}
	if err := client.Connect(); err != nil {
		return "", fmt.Errorf("failed to open SNMP session to %s: %v", target.Address, err)
	}
	defer client.Conn.Close()

	result, err := client.Get([]string{OIDSysName})
	if err != nil {
		return "", fmt.Errorf("failed to query sysName on %s: %v", target.Address, err)
	}
	name, err := sysNameFromPDUs(result.Variables)
	if err != nil {
		return "", fmt.Errorf("%s: %v", target.Address, err)
	}
	if target.IsDebugEnabled() {
		fmt.Printf("DEBUG: sysName for %s: %s\n", target.Address, name)
	}
	return name, nil
}

// NewHostnameLookup returns a lookup bound to community and port
func NewHostnameLookup(community string, port int) func(entities.Target) (string, error) {
	return func(target entities.Target) (string, error) {
		return SysName(target, community, port)
	}
}

func sysNameFromPDUs(variables []gosnmp.SnmpPDU) (string, error) {
	for _, v := range variables {
		if v.Name != OIDSysName {
			continue
		}
		switch v.Type {
		case gosnmp.OctetString:
			value, ok := v.Value.([]byte)
			if !ok {
				return "", fmt.Errorf("sysName %v is not a string", v.Value)
			}
			return strings.TrimSpace(string(value)), nil
		case gosnmp.NoSuchObject, gosnmp.NoSuchInstance:
			return "", fmt.Errorf("sysName not available")
		default:
			return "", fmt.Errorf("unexpected sysName type %v", v.Type)
		}
	}
	return "", fmt.Errorf("sysName not found in response")
}
