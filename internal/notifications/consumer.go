package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/adeyemimuse/sproutvest-backend/pkg/db/models"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox/idempotency"
	"github.com/adeyemimuse/sproutvest-backend/pkg/outbox/payloads"
)

const fundedFanoutConsumer = "funded-fanout"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type investorLister interface {
	ListUserIDsByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]uuid.UUID, error)
}

// Consumer watches domain events and fans opportunity-funded notifications
// out to every investor in the round. The reconciliation pipeline only posts
// the operator alert; investor delivery happens here, off the webhook path.
type Consumer struct {
	repo         repository
	investors    investorLister
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a funded fan-out consumer.
func NewConsumer(repo repository, investors investorLister, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if investors == nil {
		return nil, fmt.Errorf("investor lister required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("notifications subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		investors:    investors,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
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
	eventType := msg.Attributes["event_type"]
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if eventType != string(enums.EventOpportunityFunded) {
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

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, fundedFanoutConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	var payload payloads.OpportunityFundedEvent
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, fundedFanoutConsumer, eventID)
		return processResult{nack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"opportunity_id": payload.OpportunityID.String(),
		"investor_count": payload.InvestorCount,
	})

	if err := c.fanOut(ctx, envelope.Data, payload); err != nil {
		c.logg.Error(logCtx, "funded fan-out failed", err)
		_ = c.idempotency.Delete(ctx, fundedFanoutConsumer, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "investors notified of funded opportunity")
	return processResult{ack: true}
}

func (c *Consumer) fanOut(ctx context.Context, data json.RawMessage, payload payloads.OpportunityFundedEvent) error {
	if payload.OpportunityID == uuid.Nil {
		return fmt.Errorf("opportunity id missing")
	}

	investorIDs, err := c.investors.ListUserIDsByOpportunity(ctx, payload.OpportunityID)
	if err != nil {
		return fmt.Errorf("listing investors: %w", err)
	}

	message := fmt.Sprintf("An opportunity you backed is fully funded with %d investors.", payload.InvestorCount)
	for _, investorID := range investorIDs {
		userID := investorID
		notification := &models.Notification{
			UserID:   &userID,
			Type:     enums.NotificationTypeOpportunityFunded,
			Priority: enums.NotificationPriorityNormal,
			Title:    "Opportunity fully funded",
			Message:  message,
			Data:     data,
		}
		if err := c.repo.Create(ctx, notification); err != nil {
			return fmt.Errorf("notifying investor %s: %w", investorID, err)
		}
	}
	return nil
}
