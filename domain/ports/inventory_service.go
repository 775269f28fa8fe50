package ports

import "github.com/carlosrabelo/portsheet/domain/entities"

// InventoryService defines the port for collecting a device inventory
type InventoryService interface {
	Collect() (*entities.Inventory, error)
}

// InventoryWriter persists a collected inventory
type InventoryWriter interface {
	Write(inv *entities.Inventory) error
}
