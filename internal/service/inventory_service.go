package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/internal/models"
	"github.com/noah-isme/inventory-api/internal/repository"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

type inventoryRepository interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	FindByID(ctx context.Context, id int) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
}

type itemEventPublisher interface {
	ItemCreated(item models.InventoryItem)
}

// InventoryService handles catalogue reads and creates.
type InventoryService struct {
	repo      inventoryRepository
	validator *InventoryValidator
	events    itemEventPublisher
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewInventoryService creates an inventory service. events and metrics may be nil.
func NewInventoryService(repo inventoryRepository, validator *InventoryValidator, events itemEventPublisher, metrics *MetricsService, logger *zap.Logger) *InventoryService {
	if validator == nil {
		validator = NewInventoryValidator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		repo:      repo,
		validator: validator,
		events:    events,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ListAll returns the catalogue ordered by id.
func (s *InventoryService) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error retrieving inventory")
	}
	return items, nil
}

// GetByID returns a single item. Ids below 1 are rejected before any lookup.
func (s *InventoryService) GetByID(ctx context.Context, id int) (*models.InventoryItem, error) {
	if violations := s.validator.ValidateID(id); len(violations) > 0 {
		return nil, appErrors.Validation(violations...)
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Item with ID %d not found.", id))
		}
		return nil, appErrors.Internal(err, "Error retrieving inventory item")
	}
	return item, nil
}

// Create validates the candidate, stamps lastUpdated and stores it. A zero id
// is replaced with the next free one.
func (s *InventoryService) Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*models.InventoryItem, error) {
	if violations := s.validator.ValidateItem(req); len(violations) > 0 {
		return nil, appErrors.Validation(violations...)
	}

	item := &models.InventoryItem{
		ID:          req.ID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Price:       req.Price,
		LastUpdated: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("Item with ID %d already exists.", req.ID))
		}
		return nil, appErrors.Internal(err, "Error creating inventory item")
	}

	s.metrics.ItemCreated()
	if s.events != nil {
		s.events.ItemCreated(*item)
	}
	s.logger.Info("inventory item created", zap.Int("id", item.ID), zap.String("name", item.Name))
	return item, nil
}
