package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayhub/pkg/config"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Booking_locks"

// Repository persists lock documents. Insert fails with ErrLockHeld while a
// document with the same id exists.
type Repository interface {
	Insert(ctx context.Context, lock *model.PropertyLock) error
	// TakeOver reassigns a lock whose expiry has passed. It reports false
	// when the lock is missing or still live.
	TakeOver(ctx context.Context, lock *model.PropertyLock, now time.Time) (bool, error)
	Delete(ctx context.Context, id, owner string) error
}

type mongoRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRepository(cfg *config.Config) Repository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRepository) Insert(ctx context.Context, lock *model.PropertyLock) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLockHeld
		}
		return fmt.Errorf("failed to insert lock %s: %w", lock.ID, err)
	}
	return nil
}

func (r *mongoRepository) TakeOver(ctx context.Context, lock *model.PropertyLock, now time.Time) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": now}}
	update := bson.M{"$set": bson.M{
		"owner":      lock.Owner,
		"expires_at": lock.ExpiresAt,
		"created_at": lock.CreatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to take over lock %s: %w", lock.ID, err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id, owner string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to delete lock %s: %w", id, err)
	}
	return nil
}
