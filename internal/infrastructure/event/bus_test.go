package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loomworks/backend/internal/domain/shared"
)

type stockEvent struct {
	shared.BaseDomainEvent
	MaterialName string
}

func newStockEvent(eventType string) *stockEvent {
	return &stockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "RawMaterial", uuid.New()),
		MaterialName:    "Cotton Yarn",
	}
}

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	seen       []shared.DomainEvent
	err        error
	panics     bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func TestInMemoryEventBus_DeliversToTypeHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	shortages := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}}
	stockUpdates := &recordingHandler{eventTypes: []string{"inventory.stock_updated"}}
	bus.Subscribe(shortages)
	bus.Subscribe(stockUpdates)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.material_shortage")))

	assert.Equal(t, 1, shortages.count())
	assert.Zero(t, stockUpdates.count())
}

func TestInMemoryEventBus_WildcardSeesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	audit := &recordingHandler{}
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(),
		newStockEvent("inventory.material_shortage"),
		newStockEvent("sales.order_dispatched"),
	))

	assert.Equal(t, 2, audit.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}}
	bus.Subscribe(handler, "sales.order_dispatched")

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.material_shortage")))
	assert.Zero(t, handler.count())

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("sales.order_dispatched")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}, err: errors.New("boom")}
	healthy := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.material_shortage")))

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_RecoversFromHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	panicking := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}, panics: true}
	healthy := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.material_shortage")))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{eventTypes: []string{"inventory.material_shortage"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("inventory.material_shortage")))
	assert.Zero(t, handler.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
}

func TestInMemoryEventBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Subscribe(&recordingHandler{eventTypes: []string{"inventory.stock_updated"}})
		}()
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newStockEvent("inventory.stock_updated"))
		}()
	}
	wg.Wait()
}
