package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/noah-isme/inventory-api/internal/models"
)

var (
	// ErrItemNotFound is returned when no item carries the requested id.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrDuplicateID is returned when an insert reuses an existing id.
	ErrDuplicateID = errors.New("inventory item id already exists")
)

// InventoryRepository keeps the catalogue in process memory. Its contents are
// lost on restart.
type InventoryRepository struct {
	mu    sync.RWMutex
	items map[int]models.InventoryItem
}

// NewInventoryRepository constructs a repository holding the given items.
func NewInventoryRepository(seed ...models.InventoryItem) *InventoryRepository {
	items := make(map[int]models.InventoryItem, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}
	return &InventoryRepository{items: items}
}

// List returns every item ordered by id ascending.
func (r *InventoryRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// FindByID returns a copy of the item with the given id.
func (r *InventoryRepository) FindByID(ctx context.Context, id int) (*models.InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

// Create stores item. A zero id is replaced with one past the current maximum.
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.maxIDLocked() + 1
	}
	if _, exists := r.items[item.ID]; exists {
		return ErrDuplicateID
	}
	r.items[item.ID] = *item
	return nil
}

// Count reports how many items are stored.
func (r *InventoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *InventoryRepository) maxIDLocked() int {
	highest := 0
	for id := range r.items {
		if id > highest {
			highest = id
		}
	}
	return highest
}
