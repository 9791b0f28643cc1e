package service

import (
	"context"
	"time"

	reserrors "otabridge/internal/reservations/errors"
	"otabridge/pkg/config"
	mongotx "otabridge/pkg/db/mongo"
	"otabridge/pkg/logger"
	"otabridge/pkg/model"
)

type mockReservationRepository struct {
	createFunc               func(ctx context.Context, r *model.Reservation) error
	findBySiteminderIDFunc   func(ctx context.Context, siteminderID string) (*model.Reservation, error)
	updateFunc               func(ctx context.Context, id string, r *model.Reservation) error
	deleteFunc               func(ctx context.Context, id string) error
	confirmFunc              func(ctx context.Context, id string) error
	cancelFunc               func(ctx context.Context, id string) error
	resetToDraftFunc         func(ctx context.Context, id string) error
	listNumbersFunc          func(ctx context.Context, prefix string) ([]string, error)
	countOverlappingFunc     func(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error)
	executeTransactionCalled bool
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	r.ID = "656e6f7567682062797465732121"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, reserrors.ErrNotFound
}

func (m *mockReservationRepository) FindBySiteminderID(ctx context.Context, siteminderID string) (*model.Reservation, error) {
	if m.findBySiteminderIDFunc != nil {
		return m.findBySiteminderIDFunc(ctx, siteminderID)
	}
	return nil, reserrors.ErrNotFound
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, r *model.Reservation) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, r)
	}
	return nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) Confirm(ctx context.Context, id string) error {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) Cancel(ctx context.Context, id string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) ResetToDraft(ctx context.Context, id string) error {
	if m.resetToDraftFunc != nil {
		return m.resetToDraftFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) ListReservationNumbers(ctx context.Context, prefix string) ([]string, error) {
	if m.listNumbersFunc != nil {
		return m.listNumbersFunc(ctx, prefix)
	}
	return nil, nil
}

func (m *mockReservationRepository) CountOverlappingLines(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error) {
	if m.countOverlappingFunc != nil {
		return m.countOverlappingFunc(ctx, roomID, checkIn, checkOut, excludeID)
	}
	return 0, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.executeTransactionCalled = true
	return fn(ctx)
}

type mockRoomRepository struct {
	findByCodeFunc     func(ctx context.Context, code string) (*model.Room, error)
	findTypeByNameFunc func(ctx context.Context, name string) (*model.RoomType, error)
	setStatusFunc      func(ctx context.Context, roomID string, status model.RoomStatus) error
}

func (m *mockRoomRepository) FindByCode(ctx context.Context, code string) (*model.Room, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return &model.Room{
		ID:       "726f6f6d2d69642d627974657321",
		Code:     code,
		Name:     code,
		TypeName: "Deluxe Double",
		Capacity: 2,
		Status:   model.RoomAvailable,
	}, nil
}

func (m *mockRoomRepository) FindTypeByName(ctx context.Context, name string) (*model.RoomType, error) {
	if m.findTypeByNameFunc != nil {
		return m.findTypeByNameFunc(ctx, name)
	}
	return &model.RoomType{ID: "747970652d69642d627974657321", Name: name, Code: "DLX"}, nil
}

func (m *mockRoomRepository) SetStatus(ctx context.Context, roomID string, status model.RoomStatus) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, roomID, status)
	}
	return nil
}

func testReconcileConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		DefaultRoomCapacity: 2,
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
	}
}

func newTestService(repo *mockReservationRepository, rooms *mockRoomRepository) *reconcileService {
	cfg := testReconcileConfig()
	return &reconcileService{
		repo:    repo,
		rooms:   rooms,
		numbers: NewNumberGenerator(repo),
		cfg:     cfg,
		log:     cfg.Log,
		now: func() time.Time {
			return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
		},
	}
}
