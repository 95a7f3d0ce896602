package notification

import (
	"context"
	"fmt"

	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/notification"
	"github.com/loomworks/backend/internal/domain/procurement"
	"github.com/loomworks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ShortageHandler turns shortage events from production planning into
// pending material_shortage notifications
type ShortageHandler struct {
	logger        *zap.Logger
	notifications notification.Repository
}

// NewShortageHandler creates a new ShortageHandler
func NewShortageHandler(logger *zap.Logger, notifications notification.Repository) *ShortageHandler {
	return &ShortageHandler{logger: logger, notifications: notifications}
}

// EventTypes returns the event types this handler is interested in
func (h *ShortageHandler) EventTypes() []string {
	return []string{procurement.EventTypeShortageDetected}
}

// Handle records a material_shortage notification for the oversubscribed line
func (h *ShortageHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	shortage, ok := event.(*procurement.ShortageDetectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypeShortageDetected, event.EventType())
	}

	h.logger.Warn("material shortage detected",
		zap.String("material_id", shortage.MaterialID.String()),
		zap.String("material_name", shortage.MaterialName),
		zap.String("requested", shortage.Requested.String()),
		zap.String("available", shortage.Available.String()),
		zap.String("shortage", shortage.Shortage.String()),
	)

	name := shortage.MaterialName
	if name == "" {
		name = shortage.MaterialID.String()
	}
	n, err := notification.NewNotification(
		notification.KindMaterialShortage,
		"Material shortage: "+name,
		fmt.Sprintf("Production requested %s but only %s %s is available; short by %s (est. cost %s)",
			shortage.Requested, shortage.Available, shortage.Unit, shortage.Shortage, shortage.EstimatedCost),
		map[string]any{
			"material_id":    shortage.MaterialID.String(),
			"material_name":  shortage.MaterialName,
			"unit":           shortage.Unit,
			"requested":      shortage.Requested.String(),
			"available":      shortage.Available.String(),
			"shortage":       shortage.Shortage.String(),
			"estimated_cost": shortage.EstimatedCost.String(),
		},
	)
	if err != nil {
		return err
	}
	return h.notifications.Save(ctx, n)
}

// StockLevelHandler watches raw-material stock changes and records a
// stock_update notification whenever a lot lands in a low or out bucket
type StockLevelHandler struct {
	logger        *zap.Logger
	notifications notification.Repository
}

// NewStockLevelHandler creates a new StockLevelHandler
func NewStockLevelHandler(logger *zap.Logger, notifications notification.Repository) *StockLevelHandler {
	return &StockLevelHandler{logger: logger, notifications: notifications}
}

// EventTypes returns the event types this handler is interested in
func (h *StockLevelHandler) EventTypes() []string {
	return []string{inventory.EventTypeRawMaterialStockChanged}
}

// Handle records a stock_update notification for low-stock and out-of-stock
// transitions. Healthy buckets pass through silently.
func (h *StockLevelHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	change, ok := event.(*inventory.RawMaterialStockChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeRawMaterialStockChanged, event.EventType())
	}

	if change.Status != inventory.StockStatusLowStock && change.Status != inventory.StockStatusOutOfStock {
		return nil
	}

	h.logger.Warn("raw material stock alert",
		zap.String("material_id", change.MaterialID.String()),
		zap.String("material_name", change.MaterialName),
		zap.String("new_stock", change.NewStock.String()),
		zap.String("status", change.Status.String()),
	)

	n, err := notification.NewNotification(
		notification.KindStockUpdate,
		fmt.Sprintf("%s is %s", change.MaterialName, change.Status),
		fmt.Sprintf("Stock moved from %s to %s %s", change.OldStock, change.NewStock, change.Unit),
		map[string]any{
			"material_id":   change.MaterialID.String(),
			"material_name": change.MaterialName,
			"unit":          change.Unit,
			"old_stock":     change.OldStock.String(),
			"new_stock":     change.NewStock.String(),
			"status":        change.Status.String(),
		},
	)
	if err != nil {
		return err
	}
	return h.notifications.Save(ctx, n)
}
