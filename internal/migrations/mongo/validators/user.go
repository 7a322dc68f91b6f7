package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"username",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"username": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"bookings": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "property_id", "start_date", "end_date"},
					"properties": bson.M{
						"id":          objectIDString,
						"property_id": objectIDString,
						"start_date":  bson.M{"bsonType": "date"},
						"end_date":    bson.M{"bsonType": "date"},
					},
				},
			},

			"reviews_given": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"property_id", "rating"},
					"properties": bson.M{
						"property_id": objectIDString,
						"rating": bson.M{
							"bsonType": integer,
							"minimum":  1,
							"maximum":  5,
						},
					},
				},
			},
		},
	},
}
