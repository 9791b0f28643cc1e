package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"code",
			"name",
			"status",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"code": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"type_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  20,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"booked",
				},
			},
		},
	},
}

var RoomTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"code": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},
		},
	},
}
