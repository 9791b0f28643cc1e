package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ConnectionTimeout         = 10 * time.Second
	DefaultHealthCheckTimeout = 30 * time.Second

	ReservationsCollection = "Reservations"
	RoomsCollection        = "Rooms"
	RoomTypesCollection    = "RoomTypes"
	APIKeysCollection      = "ApiKeys"
	AccessTokensCollection = "AccessTokens"
)

// MongoHelper seeds and inspects the store behind the service under
// test.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping mongo: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
	}
}

func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	for _, name := range []string{ReservationsCollection, RoomsCollection, RoomTypesCollection, APIKeysCollection, AccessTokensCollection} {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

func (m *MongoHelper) SeedRoom(t *testing.T, code, typeName string, capacity int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if _, err := m.Database.Collection(RoomTypesCollection).UpdateOne(
		ctx,
		bson.M{"name": typeName},
		bson.M{"$setOnInsert": bson.M{"name": typeName, "code": typeName}},
		options.Update().SetUpsert(true),
	); err != nil {
		t.Fatalf("failed to seed room type: %v", err)
	}

	if _, err := m.Database.Collection(RoomsCollection).InsertOne(ctx, bson.M{
		"code":      code,
		"name":      code,
		"type_name": typeName,
		"capacity":  capacity,
		"status":    "available",
	}); err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
}

// SeedAPIKey stores the hashed key the way the service looks it up.
func (m *MongoHelper) SeedAPIKey(t *testing.T, apiKey, userID string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	sum := sha256.Sum256([]byte(apiKey))
	if _, err := m.Database.Collection(APIKeysCollection).InsertOne(ctx, bson.M{
		"key_hash": hex.EncodeToString(sum[:]),
		"user_id":  userID,
		"active":   true,
	}); err != nil {
		t.Fatalf("failed to seed api key: %v", err)
	}
}

func (m *MongoHelper) CountReservations(t *testing.T) int64 {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	count, err := m.Database.Collection(ReservationsCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count reservations: %v", err)
	}
	return count
}

func (m *MongoHelper) FindReservation(t *testing.T, siteminderID string) bson.M {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	var doc bson.M
	err := m.Database.Collection(ReservationsCollection).
		FindOne(ctx, bson.M{"siteminder_id": siteminderID}).
		Decode(&doc)
	if err != nil {
		t.Fatalf("failed to find reservation %s: %v", siteminderID, err)
	}
	return doc
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Errorf("failed to disconnect mongo client: %v", err)
	}
}
