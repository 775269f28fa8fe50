package services

import (
	"fmt"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/domain/ports"
	"github.com/carlosrabelo/portsheet/domain/services"
	"github.com/carlosrabelo/portsheet/infrastructure/transport"
	"github.com/carlosrabelo/portsheet/platform"
)

// HostnameLookup resolves the device name out of band (SNMP sysName)
type HostnameLookup func(target entities.Target) (string, error)

// Option customises an InventoryApplicationService
type Option func(*InventoryApplicationService)

// WithHostnameLookup replaces the prompt-derived hostname when lookup
// returns a non-empty name
func WithHostnameLookup(lookup HostnameLookup) Option {
	return func(a *InventoryApplicationService) {
		a.lookup = lookup
	}
}

// InventoryApplicationService runs one collect-and-write cycle for a device
type InventoryApplicationService struct {
	target           entities.Target
	client           transport.Client
	inventoryService ports.InventoryService
	writer           ports.InventoryWriter
	lookup           HostnameLookup
}

// NewInventoryApplicationService wires the transport client, platform driver
// and workbook writer for a single run
func NewInventoryApplicationService(target entities.Target, transportClient transport.Client, driver platform.SwitchDriver, writer ports.InventoryWriter, opts ...Option) *InventoryApplicationService {
	switchAdapter := transport.NewSwitchAdapter(transportClient)
	app := &InventoryApplicationService{
		target:           target,
		client:           transportClient,
		inventoryService: services.NewInventoryService(switchAdapter, target, driver),
		writer:           writer,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run collects the inventory and writes it. Nothing is written when
// collection fails, and the session is closed on every path.
func (a *InventoryApplicationService) Run() (*entities.Inventory, error) {
	defer a.client.Disconnect()

	inventory, err := a.inventoryService.Collect()
	if err != nil {
		return nil, err
	}

	if a.lookup != nil {
		name, err := a.lookup(a.target)
		switch {
		case err != nil:
			if a.target.IsDebugEnabled() {
				fmt.Printf("DEBUG: Hostname lookup for %s failed: %v\n", a.target.Address, err)
			}
		case name != "":
			if a.target.IsDebugEnabled() {
				fmt.Printf("DEBUG: Using hostname %s instead of %s\n", name, inventory.Hostname)
			}
			inventory.SetHostname(name)
		}
	}

	fmt.Printf("Collected %d interfaces and %d VLANs from %s\n", len(inventory.Interfaces), len(inventory.VLANs), inventory.Hostname)

	if err := a.writer.Write(inventory); err != nil {
		return nil, fmt.Errorf("failed to write inventory: %w", err)
	}
	return inventory, nil
}
