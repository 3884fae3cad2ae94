package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/inventory-api/internal/models"
	"github.com/noah-isme/inventory-api/pkg/events"
)

type dispatcherStub struct {
	events []events.Event
	err    error
}

func (d *dispatcherStub) Dispatch(ev events.Event) error {
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, ev)
	return nil
}

func TestItemEventPublisherQueuesCreatedEvent(t *testing.T) {
	dispatcher := &dispatcherStub{}
	metrics := NewMetricsService()
	pub := NewItemEventPublisher(dispatcher, "shop", metrics, nil)

	pub.ItemCreated(models.InventoryItem{ID: 9, Name: "Widget Z"})

	require.Len(t, dispatcher.events, 1)
	ev := dispatcher.events[0]
	assert.Equal(t, "shop.item.created", ev.Subject)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, 9, ev.Payload.(models.InventoryItem).ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.eventsDispatch.WithLabelValues("shop.item.created", "queued")))
}

func TestItemEventPublisherSwallowsFullQueue(t *testing.T) {
	dispatcher := &dispatcherStub{err: events.ErrQueueFull}
	metrics := NewMetricsService()
	pub := NewItemEventPublisher(dispatcher, "", metrics, nil)
	assert.Equal(t, "inventory.item.created", pub.Subject())

	assert.NotPanics(t, func() { pub.ItemCreated(models.InventoryItem{ID: 1}) })
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.eventsDispatch.WithLabelValues("inventory.item.created", "dropped")))
}

func TestNilItemEventPublisherIsNoop(t *testing.T) {
	var pub *ItemEventPublisher
	assert.NotPanics(t, func() { pub.ItemCreated(models.InventoryItem{ID: 1}) })
}
