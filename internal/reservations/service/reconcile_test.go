package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reserrors "otabridge/internal/reservations/errors"
	apperrors "otabridge/pkg/errors"
	"otabridge/pkg/model"
)

func sampleCustomer() *model.Customer {
	return &model.Customer{
		Name:           "Maria Lopez",
		Email:          "maria@example.com",
		Phone:          "4930123456",
		AmountAfterTax: "450.00",
		SiteminderID:   "SM-98765",
		PaymentStatus:  model.PaymentPaid,
	}
}

func sampleStay() *model.Stay {
	return &model.Stay{
		CheckIn:      "2026-09-01",
		CheckOut:     "2026-09-04",
		Adults:       2,
		Children:     0,
		SiteminderID: "SM-98765",
		RoomTypes: []model.RoomTypeRequest{
			{TypeCode: "DLX", TypeName: "Deluxe Double", RoomCode: "101"},
		},
	}
}

func TestCreate_ConfirmsAndNumbersReservation(t *testing.T) {
	var created *model.Reservation
	var confirmedID string
	var bookedRooms []string

	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "aaaaaaaaaaaaaaaaaaaaaaaa"
			created = r
			return nil
		},
		confirmFunc: func(ctx context.Context, id string) error {
			confirmedID = id
			return nil
		},
		listNumbersFunc: func(ctx context.Context, prefix string) ([]string, error) {
			return []string{"R/00041"}, nil
		},
	}
	rooms := &mockRoomRepository{
		setStatusFunc: func(ctx context.Context, roomID string, status model.RoomStatus) error {
			assert.Equal(t, model.RoomBooked, status)
			bookedRooms = append(bookedRooms, roomID)
			return nil
		},
	}
	svc := newTestService(repo, rooms)

	result, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "R/00042", created.ReservationNo)
	assert.Equal(t, "SM-98765", created.SiteminderID)
	assert.Equal(t, model.StateDraft, created.State)
	assert.Equal(t, model.PaymentPaid, created.Payment)
	assert.Equal(t, "siteminder", created.Referent)
	assert.Equal(t, 2, created.Adults)
	assert.Equal(t, 0, created.Children)

	require.Len(t, created.Lines, 1)
	assert.Equal(t, 450.00, created.Lines[0].PromotionPrice)
	assert.Equal(t, model.LineAssigned, created.Lines[0].State)

	// Check-in carries the wall-clock time of processing.
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), created.CheckIn)
	assert.Equal(t, time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC), created.CheckOut)

	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaa", confirmedID)
	assert.Len(t, bookedRooms, 1)

	assert.Equal(t, "created", result.Action)
	assert.Equal(t, model.StateConfirm, result.State)
	assert.Equal(t, "R/00042", result.ReservationNo)
	assert.Equal(t, "Reservation created and confirmed successfully", result.Message)
}

func TestCreate_MultiRoomKeepsTrueGuestCounts(t *testing.T) {
	var created *model.Reservation
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "aaaaaaaaaaaaaaaaaaaaaaaa"
			created = r
			return nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	stay := sampleStay()
	stay.Adults = 3
	stay.Children = 1
	stay.RoomTypes = append(stay.RoomTypes, model.RoomTypeRequest{
		TypeCode: "STD", TypeName: "Standard Twin", RoomCode: "102",
	})

	_, err := svc.Create(context.Background(), sampleCustomer(), stay)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, 3, created.Adults)
	assert.Equal(t, 1, created.Children)
	require.Len(t, created.Lines, 2)
	assert.Equal(t, 450.00, created.Lines[0].PromotionPrice)
	assert.Zero(t, created.Lines[1].PromotionPrice)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{})

	stay := sampleStay()
	stay.Adults = 2
	stay.Children = 1 // single room with capacity 2

	_, err := svc.Create(context.Background(), sampleCustomer(), stay)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindCapacity, apperrors.KindOf(err))
	assert.Equal(t, "Insufficient room capacity: 3 guests require 2 total capacity", apperrors.AsAppError(err).Message)
}

func TestCreate_CapacityBoundaryFits(t *testing.T) {
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "aaaaaaaaaaaaaaaaaaaaaaaa"
			return nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	stay := sampleStay()
	stay.Adults = 2
	stay.Children = 0

	_, err := svc.Create(context.Background(), sampleCustomer(), stay)
	assert.NoError(t, err)
}

func TestCreate_ZeroCapacityUsesDefault(t *testing.T) {
	rooms := &mockRoomRepository{
		findByCodeFunc: func(ctx context.Context, code string) (*model.Room, error) {
			return &model.Room{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Code: code, Capacity: 0}, nil
		},
	}
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "bbbbbbbbbbbbbbbbbbbbbbbb"
			return nil
		},
	}
	svc := newTestService(repo, rooms)

	// Default capacity is 2, so 2 adults fit and 3 guests do not.
	_, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	assert.NoError(t, err)

	stay := sampleStay()
	stay.Children = 1
	_, err = svc.Create(context.Background(), sampleCustomer(), stay)
	assert.Equal(t, apperrors.KindCapacity, apperrors.KindOf(err))
}

func TestCreate_UnknownRoom(t *testing.T) {
	rooms := &mockRoomRepository{
		findByCodeFunc: func(ctx context.Context, code string) (*model.Room, error) {
			return nil, reserrors.ErrRoomNotFound
		},
	}
	svc := newTestService(&mockReservationRepository{}, rooms)

	_, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "Room '101' not found for capacity validation", apperrors.AsAppError(err).Message)
}

func TestCreate_UnknownRoomType(t *testing.T) {
	rooms := &mockRoomRepository{
		findTypeByNameFunc: func(ctx context.Context, name string) (*model.RoomType, error) {
			return nil, reserrors.ErrRoomTypeNotFound
		},
	}
	svc := newTestService(&mockReservationRepository{}, rooms)

	_, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "Could not find room type 'Deluxe Double' or room '101'", apperrors.AsAppError(err).Message)
}

func TestCreate_RoomAlreadyBooked(t *testing.T) {
	repo := &mockReservationRepository{
		countOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error) {
			assert.Empty(t, excludeID)
			return 1, nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	_, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAvailability, apperrors.KindOf(err))
	assert.Equal(t, "Room '101' is already booked for the requested dates", apperrors.AsAppError(err).Message)
}

func TestCreate_InvalidDates(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{})

	stay := sampleStay()
	stay.CheckIn = "soon"
	_, err := svc.Create(context.Background(), sampleCustomer(), stay)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	stay = sampleStay()
	stay.CheckOut = stay.CheckIn
	_, err = svc.Create(context.Background(), sampleCustomer(), stay)
	require.Error(t, err)
	assert.Equal(t, "Check-out date must be after check-in date", apperrors.AsAppError(err).Message)
}

func TestCreate_ConfirmationFailureRollsBack(t *testing.T) {
	var cancelled, reset, deleted bool
	var releasedRooms []string

	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "aaaaaaaaaaaaaaaaaaaaaaaa"
			return nil
		},
		confirmFunc: func(ctx context.Context, id string) error {
			return errors.New("state transition rejected")
		},
		cancelFunc: func(ctx context.Context, id string) error {
			cancelled = true
			return nil
		},
		resetToDraftFunc: func(ctx context.Context, id string) error {
			reset = true
			return nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	rooms := &mockRoomRepository{
		setStatusFunc: func(ctx context.Context, roomID string, status model.RoomStatus) error {
			if status == model.RoomAvailable {
				releasedRooms = append(releasedRooms, roomID)
			}
			return nil
		},
	}
	svc := newTestService(repo, rooms)

	_, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConfirmation, apperrors.KindOf(err))
	assert.Contains(t, apperrors.AsAppError(err).Message, "Reservation could not be confirmed")

	assert.True(t, cancelled)
	assert.True(t, reset)
	assert.True(t, deleted)
	assert.Len(t, releasedRooms, 1)
}

func TestCreate_RollbackFailureIsCleanupError(t *testing.T) {
	repo := &mockReservationRepository{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			r.ID = "aaaaaaaaaaaaaaaaaaaaaaaa"
			return nil
		},
		confirmFunc: func(ctx context.Context, id string) error {
			return errors.New("state transition rejected")
		},
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.New("record locked")
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	_, err := svc.Create(context.Background(), sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindCleanup, apperrors.KindOf(err))
	assert.Contains(t, apperrors.AsAppError(err).Message, "Reservation cleanup failed")
}

func existingReservation() *model.Reservation {
	return &model.Reservation{
		ID:            "cccccccccccccccccccccccc",
		ReservationNo: "R/00042",
		SiteminderID:  "SM-98765",
		CustomerName:  "Maria Lopez",
		Email:         "maria@example.com",
		Phone:         "4930123456",
		State:         model.StateConfirm,
		Payment:       model.PaymentPaid,
		Adults:        2,
		Children:      0,
		Lines: []model.ReservationLine{
			{RoomID: "dddddddddddddddddddddddd", RoomCode: "101", State: model.LineConfirm},
		},
	}
}

func TestUpdate_RewritesRecordInTransaction(t *testing.T) {
	var cancelled, reset bool
	var updated *model.Reservation
	var releasedRooms []string

	repo := &mockReservationRepository{
		cancelFunc: func(ctx context.Context, id string) error {
			cancelled = true
			return nil
		},
		resetToDraftFunc: func(ctx context.Context, id string) error {
			reset = true
			return nil
		},
		updateFunc: func(ctx context.Context, id string, r *model.Reservation) error {
			assert.Equal(t, "cccccccccccccccccccccccc", id)
			updated = r
			return nil
		},
	}
	rooms := &mockRoomRepository{
		setStatusFunc: func(ctx context.Context, roomID string, status model.RoomStatus) error {
			if status == model.RoomAvailable {
				releasedRooms = append(releasedRooms, roomID)
			}
			return nil
		},
	}
	svc := newTestService(repo, rooms)

	customer := sampleCustomer()
	customer.Name = "Maria Lopez-Garcia"
	stay := sampleStay()
	stay.Adults = 1
	stay.CheckIn = "2026-09-02"
	stay.CheckOut = "2026-09-05"

	result, err := svc.Update(context.Background(), existingReservation(), customer, stay)
	require.NoError(t, err)

	assert.True(t, cancelled, "confirmed record must be cancelled before rewrite")
	assert.True(t, reset)
	assert.True(t, repo.executeTransactionCalled)
	assert.Len(t, releasedRooms, 1)

	require.NotNil(t, updated)
	assert.Equal(t, "Maria Lopez-Garcia", updated.CustomerName)
	assert.Equal(t, model.StateDraft, updated.State)
	assert.Equal(t, 1, updated.Adults)
	assert.Equal(t, time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC), updated.CheckIn)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, model.LineAssigned, updated.Lines[0].State)

	assert.Equal(t, "updated", result.Action)
	assert.Equal(t, model.StateDraft, result.State)
	assert.Equal(t, "R/00042", result.ReservationNo)
	assert.Equal(t, "Reservation updated successfully", result.Message)
}

func TestUpdate_EmptyFieldsKeepExistingValues(t *testing.T) {
	var updated *model.Reservation
	repo := &mockReservationRepository{
		updateFunc: func(ctx context.Context, id string, r *model.Reservation) error {
			updated = r
			return nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	customer := sampleCustomer()
	customer.Name = ""
	customer.Email = ""
	customer.Phone = ""

	existing := existingReservation()
	existing.State = model.StateDraft

	_, err := svc.Update(context.Background(), existing, customer, sampleStay())
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, "Maria Lopez", updated.CustomerName)
	assert.Equal(t, "maria@example.com", updated.Email)
	assert.Equal(t, "4930123456", updated.Phone)
}

func TestUpdate_PaymentNeverDowngrades(t *testing.T) {
	var updated *model.Reservation
	repo := &mockReservationRepository{
		updateFunc: func(ctx context.Context, id string, r *model.Reservation) error {
			updated = r
			return nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	customer := sampleCustomer()
	customer.PaymentStatus = model.PaymentNotPaid

	existing := existingReservation()
	existing.State = model.StateDraft
	existing.Payment = model.PaymentPaid

	_, err := svc.Update(context.Background(), existing, customer, sampleStay())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, updated.Payment)
}

func TestUpdate_PaymentUpgradesForward(t *testing.T) {
	var updated *model.Reservation
	repo := &mockReservationRepository{
		updateFunc: func(ctx context.Context, id string, r *model.Reservation) error {
			updated = r
			return nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	customer := sampleCustomer()
	customer.PaymentStatus = model.PaymentPaid

	existing := existingReservation()
	existing.State = model.StateDraft
	existing.Payment = model.PaymentPartial

	_, err := svc.Update(context.Background(), existing, customer, sampleStay())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, updated.Payment)
}

func TestUpdate_AvailabilityConflictExcludesOwnRecord(t *testing.T) {
	repo := &mockReservationRepository{
		countOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error) {
			assert.Equal(t, "cccccccccccccccccccccccc", excludeID)
			return 1, nil
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	existing := existingReservation()
	existing.State = model.StateDraft

	_, err := svc.Update(context.Background(), existing, sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAvailability, apperrors.KindOf(err))
}

func TestUpdate_ForceDraftFailureIsStateError(t *testing.T) {
	repo := &mockReservationRepository{
		cancelFunc: func(ctx context.Context, id string) error {
			return errors.New("store rejected transition")
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	_, err := svc.Update(context.Background(), existingReservation(), sampleCustomer(), sampleStay())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindState, apperrors.KindOf(err))
	assert.Contains(t, apperrors.AsAppError(err).Message, "Could not reset reservation R/00042 to draft")
}

func TestFindBySiteminderID_NotFoundIsNil(t *testing.T) {
	svc := newTestService(&mockReservationRepository{}, &mockRoomRepository{})

	reservation, err := svc.FindBySiteminderID(context.Background(), "SM-unknown")
	require.NoError(t, err)
	assert.Nil(t, reservation)
}

func TestFindBySiteminderID_StoreFailure(t *testing.T) {
	repo := &mockReservationRepository{
		findBySiteminderIDFunc: func(ctx context.Context, siteminderID string) (*model.Reservation, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestService(repo, &mockRoomRepository{})

	_, err := svc.FindBySiteminderID(context.Background(), "SM-98765")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSystem, apperrors.KindOf(err))
}
