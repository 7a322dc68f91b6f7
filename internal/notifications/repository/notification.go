package repository

import (
	"context"
	"fmt"
	"time"

	notificationerrors "stayhub/internal/notifications/errors"
	"stayhub/pkg/config"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Notifications"
)

// InboxRepository stores per-user notifications.
type InboxRepository interface {
	Insert(ctx context.Context, n *model.Notification) error
	FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type mongoInboxRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInboxRepository(cfg *config.Config) InboxRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInboxRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// Insert keeps a caller-assigned ID so a redelivered event maps to the same
// document; the second insert reports ErrDuplicate.
func (r *mongoInboxRepository) Insert(ctx context.Context, n *model.Notification) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid := primitive.NewObjectID()
	if n.ID != "" {
		var err error
		if oid, err = primitive.ObjectIDFromHex(n.ID); err != nil {
			return fmt.Errorf("%w: %s", notificationerrors.ErrInvalidID, n.ID)
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	doc := bson.M{
		"_id":        oid,
		"user_id":    n.UserID,
		"message":    n.Message,
		"type":       n.Type,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return notificationerrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	n.ID = oid.Hex()
	return nil
}

func (r *mongoInboxRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []*model.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *mongoInboxRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead only matches the recipient's own notification, so another user's
// id is indistinguishable from a missing one.
func (r *mongoInboxRepository) MarkRead(ctx context.Context, id, userID string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", notificationerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.MatchedCount == 0 {
		return notificationerrors.ErrNotFound
	}
	return nil
}
