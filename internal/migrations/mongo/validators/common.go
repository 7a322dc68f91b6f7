package validators

import "go.mongodb.org/mongo-driver/bson"

// Reference fields hold ObjectID hex strings.
var objectIDString = bson.M{
	"bsonType":  "string",
	"minLength": 24,
	"maxLength": 24,
}

var integer = []string{"int", "long"}
