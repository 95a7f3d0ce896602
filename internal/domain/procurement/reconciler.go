package procurement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/shared"
	"github.com/loomworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReconcileResult reports what a delivery reconciliation did to inventory
type ReconcileResult struct {
	Material   *inventory.RawMaterial
	CreatedLot bool
	Policy     MatchPolicy
}

// ConsumptionRequest is one material line a planner wants to consume
type ConsumptionRequest struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
}

// ConsumptionCommit is a request that available stock fully covers
type ConsumptionCommit struct {
	Material *inventory.RawMaterial
	Quantity decimal.Decimal
}

// Shortage is a request that exceeds available stock. It is not an error:
// planning proceeds without the material and the shortfall is routed to
// inventory management instead.
type Shortage struct {
	MaterialID    uuid.UUID
	MaterialName  string
	Unit          string
	Requested     decimal.Decimal
	Available     decimal.Decimal
	Shortage      decimal.Decimal
	EstimatedCost valueobject.Money
}

// ConsumptionPlan splits a selection into committable lines and shortages
type ConsumptionPlan struct {
	Commits   []ConsumptionCommit
	Shortages []Shortage
}

// HasShortages reports whether any requested line was oversubscribed
func (p *ConsumptionPlan) HasShortages() bool {
	return len(p.Shortages) > 0
}

// Reconciler applies a delivered procurement order to the raw-material
// inventory: it either restocks an existing lot or creates a new one,
// depending on the order's match policy.
type Reconciler struct {
	materials inventory.RawMaterialRepository
}

// NewReconciler creates a new Reconciler
func NewReconciler(materials inventory.RawMaterialRepository) *Reconciler {
	return &Reconciler{materials: materials}
}

// Reconcile credits the delivered order's quantity to inventory and marks the
// order reconciled. It is idempotent per order: a second call for the same
// order returns ErrAlreadyReconciled without touching stock. The caller is
// responsible for persisting the order and running the whole thing in one
// transaction.
func (r *Reconciler) Reconcile(ctx context.Context, order *Order) (*ReconcileResult, error) {
	if order.Status != OrderStatusDelivered {
		return nil, shared.NewDomainError("INVALID_STATE", "Only delivered orders can be reconciled")
	}
	if order.IsReconciled() {
		return nil, shared.ErrAlreadyReconciled
	}

	policy := order.MatchPolicy()
	material, err := r.findLot(ctx, order, policy)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	result := &ReconcileResult{Policy: policy}

	if material != nil {
		if err := material.Receive(order.Quantity, order.CostPerUnitMoney()); err != nil {
			return nil, err
		}
		if order.IsRestock {
			// Restocks tolerate descriptive drift; the latest delivery
			// is authoritative for brand, category and quality.
			material.UpdateDetails(order.Brand, order.Category, order.Supplier, order.QualityGrade)
		}
		if err := r.materials.SaveWithLock(ctx, material); err != nil {
			return nil, err
		}
	} else {
		material, err = inventory.NewRawMaterial(
			order.MaterialName, order.Brand, order.Category, order.Supplier,
			order.QualityGrade, order.Unit,
			order.Quantity, decimal.Zero, decimal.Zero,
			order.CostPerUnitMoney(),
		)
		if err != nil {
			return nil, err
		}
		if err := r.materials.Save(ctx, material); err != nil {
			return nil, err
		}
		result.CreatedLot = true
	}

	if err := order.MarkReconciled(material.ID); err != nil {
		return nil, err
	}
	order.AddDomainEvent(NewOrderReconciledEvent(order, material, result.CreatedLot))

	result.Material = material
	return result, nil
}

func (r *Reconciler) findLot(ctx context.Context, order *Order, policy MatchPolicy) (*inventory.RawMaterial, error) {
	switch policy {
	case MatchPolicyFlexible:
		return r.materials.FindFlexibleMatch(ctx, inventory.FlexibleMatchKey{
			Name:     order.MaterialName,
			Supplier: order.Supplier,
			Unit:     order.Unit,
		})
	case MatchPolicyStrict:
		return r.materials.FindStrictMatch(ctx, inventory.StrictMatchKey{
			Name:         order.MaterialName,
			Brand:        order.Brand,
			Category:     order.Category,
			Supplier:     order.Supplier,
			QualityGrade: order.QualityGrade,
			Unit:         order.Unit,
		})
	}
	return nil, shared.NewDomainError("INVALID_POLICY", "Unknown match policy "+policy.String())
}

// PlanConsumption splits the requested lines into commits and shortages.
// A line is committed only when stock fully covers it; a partially covered
// line becomes a shortage for the uncovered remainder and is excluded from
// the commits entirely, so planning can never drive stock negative.
func PlanConsumption(requests []ConsumptionRequest, lookup func(uuid.UUID) (*inventory.RawMaterial, bool)) ConsumptionPlan {
	plan := ConsumptionPlan{}

	for _, req := range requests {
		if req.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		material, ok := lookup(req.MaterialID)
		if !ok {
			// Recipe-only materials no longer in inventory surface as a
			// full-quantity shortage rather than being dropped silently.
			plan.Shortages = append(plan.Shortages, Shortage{
				MaterialID:    req.MaterialID,
				Requested:     req.Quantity,
				Available:     decimal.Zero,
				Shortage:      req.Quantity,
				EstimatedCost: valueobject.ZeroINR(),
			})
			continue
		}

		if material.CanCover(req.Quantity) {
			plan.Commits = append(plan.Commits, ConsumptionCommit{
				Material: material,
				Quantity: req.Quantity,
			})
			continue
		}

		shortfall := material.Shortfall(req.Quantity)
		plan.Shortages = append(plan.Shortages, Shortage{
			MaterialID:    material.ID,
			MaterialName:  material.Name,
			Unit:          material.Unit,
			Requested:     req.Quantity,
			Available:     material.CurrentStock,
			Shortage:      shortfall,
			EstimatedCost: material.GetCostPerUnitMoney().Multiply(shortfall),
		})
	}

	return plan
}
