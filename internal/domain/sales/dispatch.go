package sales

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/shared"
)

// DispatchRequirement tells the guard how a product line tracks stock.
// Lines for products that track individual units need enough selected units;
// bulk products and raw materials are covered by quantity alone.
type DispatchRequirement struct {
	TracksIndividualUnits bool
}

// CheckDispatch evaluates every item's dispatch precondition and returns the
// full list of violations, not just the first. An empty slice means the
// order may dispatch.
func CheckDispatch(order *Order, requirements func(productID uuid.UUID) DispatchRequirement) []string {
	var violations []string

	for _, item := range order.Items {
		if item.ProductType != ProductTypeProduct {
			continue
		}
		req := requirements(item.ProductID)
		if !req.TracksIndividualUnits {
			continue
		}

		selected := int64(len(item.SelectedUnitIDs))
		// a fractional quantity still occupies whole physical units
		needed := item.Quantity.Ceil().IntPart()
		if selected < needed {
			violations = append(violations, fmt.Sprintf(
				"%s: %d of %d individual units selected", item.ProductName, selected, needed))
		}
	}

	return violations
}

// GuardDispatch wraps CheckDispatch into the typed rejection callers handle
func GuardDispatch(order *Order, requirements func(productID uuid.UUID) DispatchRequirement) error {
	if order.Status != OrderStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Only an accepted order can be dispatched")
	}
	if violations := CheckDispatch(order, requirements); len(violations) > 0 {
		return shared.NewDomainErrorWithDetails(shared.ErrInsufficientSelection.Code,
			shared.ErrInsufficientSelection.Message, violations)
	}
	return nil
}
