package router

import (
	"context"
	"fmt"

	"github.com/rmarquezdev/supplycart-backend/internal/analytics/types"
	analyticswriter "github.com/rmarquezdev/supplycart-backend/internal/analytics/writer"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	outboxpayloads "github.com/rmarquezdev/supplycart-backend/pkg/outbox/payloads"
)

type orderCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderCreatedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderCreatedHandler{writer: writer, logg: logg}
}

func (h *orderCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_created")
	}

	fields := map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"user_id":    event.UserID,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildOrderCreatedRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build order event row", err)
		return err
	}

	if err := h.writer.InsertOrderEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert order event row", err)
		return err
	}

	h.logg.Info(logCtx, "order_created handler inserted order event row")
	return nil
}

func buildOrderCreatedRow(envelope types.Envelope, event *outboxpayloads.OrderCreatedEvent) (types.OrderEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		return types.OrderEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	return types.OrderEventRow{
		EventID:     envelope.EventID,
		EventType:   string(envelope.EventType),
		OccurredAt:  envelope.OccurredAt,
		OrderID:     uuidPtr(event.OrderID),
		UserID:      uuidPtr(event.UserID),
		ItemCount:   int64Ptr(int64(event.ItemCount)),
		TotalAmount: stringPtr(event.TotalAmount.StringFixed(2)),
		PlacedAt:    stringPtr(event.PlacedAt),
		Payload:     payloadJSON,
	}, nil
}
