package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/rmarquezdev/supplycart-backend/pkg/db/models"
	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
	"github.com/rmarquezdev/supplycart-backend/pkg/logger"
	"github.com/rmarquezdev/supplycart-backend/pkg/metrics"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox/idempotency"
	"github.com/rmarquezdev/supplycart-backend/pkg/outbox/payloads"
)

const (
	userNotificationConsumer = "user-notifications"
	notificationConsumeStage = "notification_consume"
)

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and turns them into in-app notifications.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
	metrics      *metrics.PipelineMetrics
}

// NewConsumer builds a user notification consumer. The pipeline metrics may
// be nil.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger, pipeline *metrics.PipelineMetrics) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
		metrics:      pipeline,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if eventType != enums.EventOrderCreated && eventType != enums.EventUserRegistered {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, userNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	start := time.Now()
	switch eventType {
	case enums.EventOrderCreated:
		err = c.handleOrderCreated(ctx, envelope.Data, logCtx)
	case enums.EventUserRegistered:
		err = c.handleUserRegistered(ctx, envelope.Data, logCtx)
	}
	if err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		c.metrics.IncFailure(notificationConsumeStage)
		_ = c.idempotency.Delete(ctx, userNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	c.metrics.IncSuccess(notificationConsumeStage)
	c.metrics.ObserveDuration(notificationConsumeStage, time.Since(start))
	return processResult{ack: true}
}

func (c *Consumer) handleOrderCreated(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.OrderCreatedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse order created payload: %w", err)
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id missing")
	}
	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"order_id": payload.OrderID.String(),
		"user_id":  payload.UserID.String(),
	})

	link := fmt.Sprintf("/orders/%s", payload.OrderID)
	notification := &models.Notification{
		UserID:  payload.UserID,
		Type:    enums.NotificationTypeOrderAlert,
		Title:   "Order placed",
		Message: fmt.Sprintf("Order %s with %d items totaling %s has been placed.", payload.OrderID, payload.ItemCount, payload.TotalAmount.StringFixed(2)),
		Link:    stringPtr(link),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "user notified of placed order")
	return nil
}

func (c *Consumer) handleUserRegistered(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.UserRegisteredEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse user registered payload: %w", err)
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id missing")
	}
	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"user_id": payload.UserID.String(),
	})

	notification := &models.Notification{
		UserID:  payload.UserID,
		Type:    enums.NotificationTypeAccount,
		Title:   "Welcome to SupplyCart",
		Message: fmt.Sprintf("Hi %s, your account is ready. Build your first cart to get started.", payload.Name),
		Link:    stringPtr("/cart"),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "welcome notification created")
	return nil
}

func stringPtr(value string) *string {
	return &value
}
