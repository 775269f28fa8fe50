package services

import (
	"fmt"

	"github.com/carlosrabelo/portsheet/domain/entities"
	"github.com/carlosrabelo/portsheet/domain/ports"
	"github.com/carlosrabelo/portsheet/platform"
	"github.com/carlosrabelo/portsheet/platform/textutil"
)

// InventoryServiceImpl dispatches the platform's show commands and hands the
// collected output to the platform parser
type InventoryServiceImpl struct {
	switchRepo ports.SwitchRepository
	target     entities.Target
	driver     platform.SwitchDriver
}

// NewInventoryService creates a new instance of the inventory service
func NewInventoryService(switchRepo ports.SwitchRepository, target entities.Target, driver platform.SwitchDriver) *InventoryServiceImpl {
	return &InventoryServiceImpl{
		switchRepo: switchRepo,
		target:     target,
		driver:     driver,
	}
}

// Collect runs the fixed command sequence and returns the parsed inventory.
// The session is left open; the caller releases it.
func (s *InventoryServiceImpl) Collect() (*entities.Inventory, error) {
	if s.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: Collecting %s inventory from %s\n", s.driver.Name(), s.target.Address)
	}

	if !s.switchRepo.IsConnected() {
		if err := s.switchRepo.Connect(); err != nil {
			return nil, err
		}
	}

	outputs, err := s.dispatch()
	if err != nil {
		return nil, err
	}

	inventory, err := s.driver.Parse(outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", s.driver.DisplayName(), err)
	}
	if len(inventory.Interfaces) == 0 {
		return nil, fmt.Errorf("%w on %s", entities.ErrNoInterfaces, s.target.Address)
	}

	hostname := s.switchRepo.Hostname()
	if hostname == "" {
		hostname = s.target.Address
	}
	inventory.Platform = s.driver.Name()
	inventory.SetHostname(hostname)

	if s.target.IsDebugEnabled() {
		fmt.Printf("DEBUG: %s: %d interfaces, %d VLANs\n", hostname, len(inventory.Interfaces), len(inventory.VLANs))
	}
	return inventory, nil
}

// dispatch sends every command in order and stops at the first failure
func (s *InventoryServiceImpl) dispatch() ([]entities.CommandOutput, error) {
	commands := s.driver.Commands()
	outputs := make([]entities.CommandOutput, 0, len(commands))
	for _, cmd := range commands {
		output, err := s.switchRepo.ExecuteCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to run %q: %w", cmd, err)
		}
		if textutil.IsCommandError(output) {
			return nil, fmt.Errorf("%w: %q on %s, is %s the right platform?", entities.ErrCommandRejected, cmd, s.target.Address, s.driver.DisplayName())
		}
		if s.target.IsRawOutputEnabled() {
			fmt.Printf("Output for '%s':\n%s\n", cmd, output)
		}
		outputs = append(outputs, entities.CommandOutput{Command: cmd, Output: output})
	}
	return outputs, nil
}
