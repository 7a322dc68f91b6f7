package consumer

import (
	"context"
	"errors"
	"fmt"

	"stayhub/internal/notifications/dispatcher"
	notificationerrors "stayhub/internal/notifications/errors"
	"stayhub/internal/notifications/repository"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

var knownTypes = map[string]bool{
	model.NotificationTypeBooking:      true,
	model.NotificationTypeCancellation: true,
	model.NotificationTypeReview:       true,
}

// NewInboxWriter returns the notifier's message handler. Malformed events
// are permanent failures; storage failures are transient and retried.
func NewInboxWriter(repo repository.InboxRepository, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if t := msg.GetEventType(); t != dispatcher.EventNotificationCreated {
			log.Debug("Skipping unrelated event", "event_type", t, "event_id", msg.GetEventID())
			return nil
		}

		var n model.Notification
		if err := msg.DecodeValue(&n); err != nil {
			return err
		}
		if err := validateEvent(&n); err != nil {
			return kafka.NewPermanentError("invalid notification event", err)
		}
		if n.ID == "" {
			n.ID = msg.GetEventID()
		}
		if !mongodb.IsValidID(n.ID) {
			n.ID = ""
		}
		n.IsRead = false

		err := repo.Insert(ctx, &n)
		switch {
		case err == nil:
			log.Info("Notification stored", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
			return nil
		case errors.Is(err, notificationerrors.ErrDuplicate):
			log.Debug("Duplicate notification event ignored", "notification_id", n.ID)
			return nil
		default:
			return kafka.NewTransientError("failed to store notification", err)
		}
	}
}

func validateEvent(n *model.Notification) error {
	if !mongodb.IsValidID(n.UserID) {
		return fmt.Errorf("invalid user id %q", n.UserID)
	}
	if n.Message == "" {
		return errors.New("message is empty")
	}
	if !knownTypes[n.Type] {
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	return nil
}
