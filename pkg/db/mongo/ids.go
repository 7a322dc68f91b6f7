package mongo

import "go.mongodb.org/mongo-driver/bson/primitive"

func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func NewID() string {
	return primitive.NewObjectID().Hex()
}
