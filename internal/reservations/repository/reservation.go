package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reserrors "otabridge/internal/reservations/errors"
	"otabridge/pkg/config"
	mongotx "otabridge/pkg/db/mongo"
	"otabridge/pkg/model"
)

const (
	ReservationsCollectionName = "Reservations"
)

// ReservationRepository is the property-system reservation store. The
// bridge treats it as opaque: lookups keyed by the external channel id,
// create/update/delete commands and the draft/confirm/cancel state
// transitions.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindBySiteminderID(ctx context.Context, siteminderID string) (*model.Reservation, error)
	Update(ctx context.Context, id string, reservation *model.Reservation) error
	Delete(ctx context.Context, id string) error

	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	ResetToDraft(ctx context.Context, id string) error

	ListReservationNumbers(ctx context.Context, prefix string) ([]string, error)
	CountOverlappingLines(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationsCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction, where wrapping a SessionContext would break transaction
// semantics.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	reservation.UpdatedAt = reservation.CreatedAt

	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

// FindBySiteminderID returns the single record owning the external
// channel booking id. The siteminder_id field uniquely identifies one
// record; a unique index enforces that at the store level.
func (r *mongoReservationRepository) FindBySiteminderID(ctx context.Context, siteminderID string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"siteminder_id": siteminderID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation by siteminder id: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, id string, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"reservation_no":     reservation.ReservationNo,
			"siteminder_id":      reservation.SiteminderID,
			"customer_name":      reservation.CustomerName,
			"email":              reservation.Email,
			"phone":              reservation.Phone,
			"checkin":            reservation.CheckIn,
			"checkout":           reservation.CheckOut,
			"adults":             reservation.Adults,
			"children":           reservation.Children,
			"state":              reservation.State,
			"payment":            reservation.Payment,
			"room_price_summary": reservation.RoomPriceSummary,
			"reservation_lines":  reservation.Lines,
			"updated_at":         time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if result.DeletedCount == 0 {
		return reserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) Confirm(ctx context.Context, id string) error {
	return r.transition(ctx, id, model.StateConfirm, model.LineConfirm)
}

func (r *mongoReservationRepository) Cancel(ctx context.Context, id string) error {
	return r.transition(ctx, id, model.StateCancel, model.LineAssigned)
}

func (r *mongoReservationRepository) ResetToDraft(ctx context.Context, id string) error {
	return r.transition(ctx, id, model.StateDraft, model.LineAssigned)
}

func (r *mongoReservationRepository) transition(ctx context.Context, id string, state model.ReservationState, lineState model.LineState) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"state":                       state,
			"reservation_lines.$[].state": lineState,
			"updated_at":                  time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to transition reservation to %s: %w", state, err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrNotFound
	}
	return nil
}

// ListReservationNumbers returns every assigned number with the given
// prefix. Used by the number generator's scan-and-increment allocation.
func (r *mongoReservationRepository) ListReservationNumbers(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"reservation_no": bson.M{"$regex": "^" + prefix}}
	opts := options.Find().SetProjection(bson.M{"reservation_no": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation numbers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ReservationNo string `bson:"reservation_no"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reservation numbers: %w", err)
	}

	numbers := make([]string, 0, len(docs))
	for _, doc := range docs {
		numbers = append(numbers, doc.ReservationNo)
	}
	return numbers, nil
}

// CountOverlappingLines counts reservations other than the excluded one
// holding an active line for the room over an intersecting interval.
func (r *mongoReservationRepository) CountOverlappingLines(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeReservationID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"reservation_lines": bson.M{
			"$elemMatch": bson.M{
				"room_id":  roomID,
				"state":    bson.M{"$in": []model.LineState{model.LineConfirm, model.LineDone}},
				"checkin":  bson.M{"$lt": checkOut},
				"checkout": bson.M{"$gt": checkIn},
			},
		},
	}

	if excludeReservationID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeReservationID)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, excludeReservationID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping lines: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
