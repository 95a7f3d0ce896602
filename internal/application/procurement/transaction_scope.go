package procurement

import (
	"context"

	"github.com/loomworks/backend/internal/domain/inventory"
	"github.com/loomworks/backend/internal/domain/procurement"
)

// TransactionalRepositories exposes the repositories a delivery touches,
// all scoped to one database transaction
type TransactionalRepositories interface {
	Orders() procurement.OrderRepository
	Materials() inventory.RawMaterialRepository
}

// TransactionScope runs a function atomically. Marking an order delivered
// and reconciling it into inventory must share one transaction, so a failed
// reconciliation also rolls the status change back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
