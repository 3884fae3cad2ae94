package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-api/internal/models"
	"github.com/noah-isme/inventory-api/pkg/events"
)

type eventDispatcher interface {
	Dispatch(ev events.Event) error
}

// ItemEventPublisher hands inventory events to the async dispatcher. A full
// or stopped dispatcher drops the event; the caller is never failed.
type ItemEventPublisher struct {
	dispatcher eventDispatcher
	subject    string
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewItemEventPublisher publishes to "<prefix>.item.created".
func NewItemEventPublisher(dispatcher eventDispatcher, prefix string, metrics *MetricsService, logger *zap.Logger) *ItemEventPublisher {
	if prefix == "" {
		prefix = "inventory"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemEventPublisher{
		dispatcher: dispatcher,
		subject:    prefix + ".item.created",
		metrics:    metrics,
		logger:     logger,
	}
}

// Subject returns the subject created events are published on.
func (p *ItemEventPublisher) Subject() string {
	return p.subject
}

// ItemCreated queues a created event for item.
func (p *ItemEventPublisher) ItemCreated(item models.InventoryItem) {
	if p == nil || p.dispatcher == nil {
		return
	}
	ev := events.Event{ID: uuid.NewString(), Subject: p.subject, Payload: item}
	err := p.dispatcher.Dispatch(ev)
	p.metrics.RecordEventDispatch(p.subject, err)
	if err != nil {
		p.logger.Warn("item event dropped", zap.String("event_id", ev.ID), zap.Int("item_id", item.ID), zap.Error(err))
	}
}
