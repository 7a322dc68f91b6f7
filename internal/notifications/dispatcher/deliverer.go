package dispatcher

import (
	"context"
	"errors"
	"fmt"

	notificationerrors "stayhub/internal/notifications/errors"
	"stayhub/internal/notifications/repository"
	"stayhub/pkg/kafka"
	"stayhub/pkg/model"
)

const (
	EventNotificationCreated = "notification.created"
	EventSchemaVersion       = "1"
)

// Deliverer hands one notification to its transport.
type Deliverer interface {
	Deliver(ctx context.Context, n *model.Notification) error
}

// InboxDeliverer writes straight into the recipient's inbox.
type InboxDeliverer struct {
	repo repository.InboxRepository
}

func NewInboxDeliverer(repo repository.InboxRepository) *InboxDeliverer {
	return &InboxDeliverer{repo: repo}
}

func (d *InboxDeliverer) Deliver(ctx context.Context, n *model.Notification) error {
	err := d.repo.Insert(ctx, n)
	if errors.Is(err, notificationerrors.ErrDuplicate) {
		return nil
	}
	return err
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaDeliverer publishes a notification.created event keyed by recipient,
// which the notifier service writes into the inbox.
type KafkaDeliverer struct {
	publisher Publisher
	source    string
}

func NewKafkaDeliverer(publisher Publisher, source string) *KafkaDeliverer {
	return &KafkaDeliverer{publisher: publisher, source: source}
}

func (d *KafkaDeliverer) Deliver(ctx context.Context, n *model.Notification) error {
	msg, err := kafka.NewMessage().
		WithKey(n.UserID).
		WithValue(n).
		WithEventType(EventNotificationCreated).
		WithSchemaVersion(EventSchemaVersion).
		WithSource(d.source).
		WithHeader(kafka.HeaderEventID, n.ID).
		Build()
	if err != nil {
		return err
	}
	if err := d.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}
