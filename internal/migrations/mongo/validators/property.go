package validators

import "go.mongodb.org/mongo-driver/bson"

var PropertyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner",
			"title",
			"price_per_night",
			"max_guests",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner": objectIDString,

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"price_per_night": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"max_guests": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"availability": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"start_date": bson.M{"bsonType": "date"},
					"end_date":   bson.M{"bsonType": "date"},
				},
			},

			"booked_dates": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "check_in", "check_out", "user_id"},
					"properties": bson.M{
						"id":        objectIDString,
						"check_in":  bson.M{"bsonType": "date"},
						"check_out": bson.M{"bsonType": "date"},
						"user_id":   objectIDString,
					},
				},
			},

			"reviews": bson.M{
				"bsonType": []string{"array", "null"},
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"user_id", "rating", "comment"},
					"properties": bson.M{
						"user_id": objectIDString,
						"rating": bson.M{
							"bsonType": integer,
							"minimum":  1,
							"maximum":  5,
						},
						"comment": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 1000,
						},
					},
				},
			},

			"average_rating": bson.M{
				"bsonType": "number",
				"minimum":  0,
				"maximum":  5,
			},

			"review_count": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},
		},
	},
}
