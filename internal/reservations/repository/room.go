package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	reserrors "otabridge/internal/reservations/errors"
	"otabridge/pkg/config"
	"otabridge/pkg/model"
)

const (
	RoomsCollectionName     = "Rooms"
	RoomTypesCollectionName = "RoomTypes"
)

// RoomRepository resolves the property's room inventory. Lookups are by
// the codes and names the channel sends, which the property keeps in
// sync with its channel manager mapping.
type RoomRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Room, error)
	FindTypeByName(ctx context.Context, name string) (*model.RoomType, error)
	SetStatus(ctx context.Context, roomID string, status model.RoomStatus) error
}

type mongoRoomRepository struct {
	cfg   *config.Config
	rooms *mongo.Collection
	types *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:   cfg,
		rooms: db.Collection(RoomsCollectionName),
		types: db.Collection(RoomTypesCollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoRoomRepository) FindByCode(ctx context.Context, code string) (*model.Room, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var room model.Room
	err := r.rooms.FindOne(ctx, bson.M{"code": code}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room by code: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindTypeByName(ctx context.Context, name string) (*model.RoomType, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var roomType model.RoomType
	err := r.types.FindOne(ctx, bson.M{"name": name}).Decode(&roomType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to find room type by name: %w", err)
	}

	return &roomType, nil
}

func (r *mongoRoomRepository) SetStatus(ctx context.Context, roomID string, status model.RoomStatus) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, roomID)
	}

	result, err := r.rooms.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to set room status: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrRoomNotFound
	}
	return nil
}
