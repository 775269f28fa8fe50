package platform

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/platform/aoscx"
	"github.com/carlosrabelo/portsheet/platform/ios"
	"github.com/carlosrabelo/portsheet/platform/junos"
	"github.com/carlosrabelo/portsheet/platform/procurve"
)

// SwitchDriver defines the behaviour required to support a switching platform.
type SwitchDriver interface {
	// Name returns the canonical vendor id (cisco, aruba, hp, juniper).
	Name() string
	// DisplayName is the label shown to the operator.
	DisplayName() string

	// Dialect describes prompts, pager and session setup for the transport.
	Dialect() entities.Dialect
	// GetAuthenticationSequence returns the telnet login sequence for this platform.
	GetAuthenticationSequence(username, password string) []entities.AuthPrompt

	// Commands returns the fixed, ordered list of show commands.
	Commands() []string
	// Parse turns the collected command outputs into sheet rows.
	Parse(outputs []entities.CommandOutput) (*entities.Inventory, error)
}

var registry = []SwitchDriver{
	ios.New(),
	aoscx.New(),
	procurve.New(),
	junos.New(),
}

var aliases = map[string]string{
	"ios":            "cisco",
	"cisco-ios":      "cisco",
	"aoscx":          "aruba",
	"aos-cx":         "aruba",
	"arubaos-cx":     "aruba",
	"procurve":       "hp",
	"arubaos-switch": "hp",
	"hpe":            "hp",
	"junos":          "juniper",
}

// Get returns a driver by platform name or alias.
func Get(name string) (SwitchDriver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.Name() == normalized {
			return driver, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (expected one of %s)", entities.ErrUnsupportedPlatform, name, strings.Join(Names(), ", "))
}

// Available returns all registered drivers.
func Available() []SwitchDriver {
	out := make([]SwitchDriver, len(registry))
	copy(out, registry)
	return out
}

// Names returns the canonical ids of all registered drivers, in menu order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, driver := range registry {
		names = append(names, driver.Name())
	}
	return names
}

// Canonical resolves aliases without looking the driver up.
func Canonical(name string) string {
	return normalizeName(name)
}

func normalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	return normalized
}
