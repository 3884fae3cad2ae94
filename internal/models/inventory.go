package models

import "time"

// InventoryItem is one catalogued stock line.
type InventoryItem struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Price       Money     `json:"price"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SeedInventory returns the catalogue the service starts with.
func SeedInventory(now time.Time) []InventoryItem {
	now = now.UTC()
	return []InventoryItem{
		{ID: 1, Name: "Widget A", Quantity: 100, Price: MustMoney("9.99"), LastUpdated: now},
		{ID: 2, Name: "Widget B", Quantity: 50, Price: MustMoney("19.99"), LastUpdated: now},
		{ID: 3, Name: "Widget C", Quantity: 75, Price: MustMoney("14.99"), LastUpdated: now},
	}
}
