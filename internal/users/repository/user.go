package repository

import (
	"context"
	"errors"
	"fmt"

	usererrors "stayhub/internal/users/errors"
	"stayhub/pkg/config"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Users"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Save(ctx context.Context, user *model.User) (*model.User, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", usererrors.ErrInvalidID, id)
	}

	var user model.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// Save persists the user's embedded mirrors. Profile fields are owned by the
// account service and are never written here.
func (r *mongoUserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", usererrors.ErrInvalidID, user.ID)
	}

	if user.Bookings == nil {
		user.Bookings = []model.UserBooking{}
	}
	if user.ReviewsGiven == nil {
		user.ReviewsGiven = []model.ReviewGiven{}
	}

	update := bson.M{
		"$set": bson.M{
			"bookings":      user.Bookings,
			"reviews_given": user.ReviewsGiven,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, usererrors.ErrNotFound
	}

	return user, nil
}
