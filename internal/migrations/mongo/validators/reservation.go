package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reservation_no",
			"customer_name",
			"state",
			"payment",
			"reservation_referent",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"reservation_no": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 20,
			},

			"siteminder_id": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"customer_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"checkin": bson.M{
				"bsonType": "date",
			},

			"checkout": bson.M{
				"bsonType": "date",
			},

			"adults": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"children": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"state": bson.M{
				"bsonType": "string",
				"enum": []string{
					"draft",
					"confirm",
					"cancel",
					"done",
				},
			},

			"payment": bson.M{
				"bsonType": "string",
				"enum": []string{
					"paid",
					"partial_paid",
					"not_paid",
				},
			},

			"reservation_lines": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"room_id", "state"},
					"properties": bson.M{
						"room_id": bson.M{
							"bsonType": "string",
						},
						"state": bson.M{
							"bsonType": "string",
							"enum": []string{
								"assigned",
								"confirm",
								"done",
							},
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
