package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rmarquezdev/supplycart-backend/internal/cart"
	"github.com/rmarquezdev/supplycart-backend/internal/records"
	pkgcheckout "github.com/rmarquezdev/supplycart-backend/pkg/checkout"
	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
	pkgerrors "github.com/rmarquezdev/supplycart-backend/pkg/errors"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox/payloads"
	"github.com/rmarquezdev/supplycart-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service converts the current cart into an immutable order.
type Service interface {
	Execute(ctx context.Context, ownerID uuid.UUID, actor *outbox.ActorRef) (*types.Order, error)
}

type service struct {
	tx      txRunner
	records records.RecordStore
	outbox  outboxPublisher
}

// NewService builds the checkout service.
func NewService(tx txRunner, store records.RecordStore, publisher outboxPublisher) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:      tx,
		records: store,
		outbox:  publisher,
	}, nil
}

// Execute validates the cart, appends the order to the owner's history,
// clears the cart and queues the order_created event. All writes share one
// transaction so a failed checkout never loses cart lines.
func (s *service) Execute(ctx context.Context, ownerID uuid.UUID, actor *outbox.ActorRef) (*types.Order, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	var placed *types.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		store := s.records.WithTx(tx)

		items, err := store.LoadCartItems(ctx, ownerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart record")
		}
		cart.Normalize(items)

		if err := pkgcheckout.ValidateNotEmpty(items); err != nil {
			return err
		}
		if err := pkgcheckout.ValidateSelections(items); err != nil {
			return err
		}
		if err := pkgcheckout.ValidateResolvable(items); err != nil {
			return err
		}

		order, orderID := buildOrder(items)

		history, err := store.LoadOrders(ctx, ownerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders record")
		}
		history = append(history, order)
		if err := store.SaveOrders(ctx, ownerID, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save orders record")
		}

		if err := store.SaveCartItems(ctx, ownerID, []types.CartItem{}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart record")
		}

		if err := s.emitOrderCreated(ctx, tx, ownerID, actor, order, orderID); err != nil {
			return err
		}

		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func buildOrder(items []types.CartItem) (types.Order, uuid.UUID) {
	orderItems := make([]types.OrderItem, 0, len(items))
	for _, item := range items {
		offer, _ := item.OfferByName(item.SelectedSupplier)
		line := offer.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		orderItems = append(orderItems, types.OrderItem{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			SupplierName:  offer.Name,
			SupplierPrice: offer.Price,
			LineTotal:     line,
		})
	}

	id := uuid.New()
	order := types.Order{
		ID:          id.String(),
		PlacedAt:    time.Now().Format(types.OrderTimestampLayout),
		Items:       orderItems,
		TotalAmount: types.OrderTotal(orderItems),
	}
	return order, id
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, actor *outbox.ActorRef, order types.Order, orderID uuid.UUID) error {
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Actor:         actor,
		Data: payloads.OrderCreatedEvent{
			OrderID:     orderID,
			UserID:      ownerID,
			ItemCount:   len(order.Items),
			TotalAmount: order.TotalAmount,
			PlacedAt:    order.PlacedAt,
		},
		Version: 1,
	}
	return s.outbox.Emit(ctx, tx, event)
}
