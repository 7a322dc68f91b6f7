package repository

import (
	"context"
	"errors"
	"fmt"

	propertyerrors "stayhub/internal/properties/errors"
	"stayhub/pkg/config"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Properties"
)

// PropertyRepository is the property store. Save persists the embedded
// booking and review lists and always recomputes the rating aggregate.
type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
	Save(ctx context.Context, property *model.Property) (*model.Property, error)
}

type mongoPropertyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, id)
	}

	var property model.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, propertyerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	return &property, nil
}

func (r *mongoPropertyRepository) Save(ctx context.Context, property *model.Property) (*model.Property, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(property.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", propertyerrors.ErrInvalidID, property.ID)
	}

	property.AverageRating, property.ReviewCount = model.RecomputeRatings(property)
	if property.BookedDates == nil {
		property.BookedDates = []model.BookedDate{}
	}
	if property.Reviews == nil {
		property.Reviews = []model.Review{}
	}

	update := bson.M{
		"$set": bson.M{
			"booked_dates":   property.BookedDates,
			"reviews":        property.Reviews,
			"average_rating": property.AverageRating,
			"review_count":   property.ReviewCount,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to save property: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, propertyerrors.ErrNotFound
	}

	return property, nil
}
