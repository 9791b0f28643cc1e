package validators

import "go.mongodb.org/mongo-driver/bson"

var APIKeyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"key_hash",
			"user_id",
			"active",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"key_hash": bson.M{
				"bsonType":  "string",
				"minLength": 64,
				"maxLength": 64,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var AccessTokenValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"token",
			"expires_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"token": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
