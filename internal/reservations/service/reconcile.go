// Package service reconciles normalized channel notifications against
// the property's reservation store. The first notification for a
// booking id creates and confirms a record; later ones update it in
// place.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	reserrors "otabridge/internal/reservations/errors"
	"otabridge/internal/reservations/repository"
	"otabridge/pkg/config"
	apperrors "otabridge/pkg/errors"
	"otabridge/pkg/logger"
	"otabridge/pkg/model"
)

const (
	reservationReferent = "siteminder"
	reservationNote     = "Reservation from Siteminder XML"

	actionCreated = "created"
	actionUpdated = "updated"
)

// ReconcileService is the handler-facing reconciliation API.
type ReconcileService interface {
	// FindBySiteminderID returns (nil, nil) when no record owns the id.
	FindBySiteminderID(ctx context.Context, siteminderID string) (*model.Reservation, error)
	Create(ctx context.Context, customer *model.Customer, stay *model.Stay) (*model.ReconcileResult, error)
	Update(ctx context.Context, existing *model.Reservation, customer *model.Customer, stay *model.Stay) (*model.ReconcileResult, error)
}

type reconcileService struct {
	repo    repository.ReservationRepository
	rooms   repository.RoomRepository
	numbers *NumberGenerator
	cfg     *config.Config
	log     *logger.Logger
	now     func() time.Time
}

func NewReconcileService(repo repository.ReservationRepository, rooms repository.RoomRepository, cfg *config.Config) ReconcileService {
	return &reconcileService{
		repo:    repo,
		rooms:   rooms,
		numbers: NewNumberGenerator(repo),
		cfg:     cfg,
		log:     cfg.Log,
		now:     time.Now,
	}
}

func (s *reconcileService) FindBySiteminderID(ctx context.Context, siteminderID string) (*model.Reservation, error) {
	reservation, err := s.repo.FindBySiteminderID(ctx, siteminderID)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.System("Reservation lookup failed", err)
	}
	return reservation, nil
}

// Create builds a draft record from the notification, assigns the next
// reservation number and confirms it. A failed confirmation rolls the
// record back out of the store so a channel retry starts clean.
func (s *reconcileService) Create(ctx context.Context, customer *model.Customer, stay *model.Stay) (*model.ReconcileResult, error) {
	now := s.now()

	checkIn, err := ParseStayDate(stay.CheckIn, now)
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseStayDate(stay.CheckOut, now)
	if err != nil {
		return nil, err
	}
	if !checkOut.After(checkIn) {
		return nil, apperrors.Validation("Check-out date must be after check-in date")
	}

	if err := s.validateCapacity(ctx, stay); err != nil {
		return nil, err
	}
	if err := s.checkAvailability(ctx, stay.RoomTypes, checkIn, checkOut, ""); err != nil {
		return nil, err
	}

	lines, err := s.buildLines(ctx, stay.RoomTypes, checkIn, checkOut, customer.AmountAfterTax)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, apperrors.System("Reservation number allocation failed", err)
	}

	payment := customer.PaymentStatus
	if payment == "" {
		payment = model.PaymentNotPaid
	}

	reservation := &model.Reservation{
		ReservationNo:    number,
		SiteminderID:     customer.SiteminderID,
		CustomerName:     customer.Name,
		Email:            customer.Email,
		Phone:            customer.Phone,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		Adults:           stay.Adults,
		Children:         stay.Children,
		State:            model.StateDraft,
		Payment:          payment,
		RoomPriceSummary: customer.AmountAfterTax,
		Referent:         reservationReferent,
		Note:             reservationNote,
		Lines:            lines,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, apperrors.Reservation("Reservation creation failed", err)
	}

	if err := s.confirm(ctx, reservation); err != nil {
		return nil, err
	}

	s.log.Info("Reservation created and confirmed",
		"reservation_no", reservation.ReservationNo,
		"siteminder_id", reservation.SiteminderID,
		"rooms", len(reservation.Lines),
	)

	return s.result(reservation, stay, actionCreated, "Reservation created and confirmed successfully", model.StateConfirm), nil
}

// confirm moves the freshly created record to confirmed and marks its
// rooms booked. On any failure the record is removed again; a record
// stuck in draft would shadow the siteminder id and turn every retry
// into an update.
func (s *reconcileService) confirm(ctx context.Context, reservation *model.Reservation) error {
	confirmErr := s.repo.Confirm(ctx, reservation.ID)
	if confirmErr == nil {
		for _, line := range reservation.Lines {
			if err := s.rooms.SetStatus(ctx, line.RoomID, model.RoomBooked); err != nil {
				confirmErr = err
				break
			}
		}
	}
	if confirmErr == nil {
		return nil
	}

	s.log.Error("Reservation confirmation failed, rolling back",
		"reservation_no", reservation.ReservationNo,
		"error", confirmErr,
	)

	if err := s.rollback(ctx, reservation); err != nil {
		return apperrors.Cleanup(fmt.Sprintf("Reservation cleanup failed: %v", err), err)
	}
	return apperrors.Confirmation(fmt.Sprintf("Reservation could not be confirmed: %v", confirmErr), confirmErr)
}

// rollback walks the record back through cancel and draft before
// deleting it, so the store's own transition hooks observe a legal
// state sequence.
func (s *reconcileService) rollback(ctx context.Context, reservation *model.Reservation) error {
	for _, line := range reservation.Lines {
		if err := s.rooms.SetStatus(ctx, line.RoomID, model.RoomAvailable); err != nil {
			s.log.Warn("Failed to release room during rollback", "room_id", line.RoomID, "error", err)
		}
	}
	if err := s.repo.Cancel(ctx, reservation.ID); err != nil {
		return err
	}
	if err := s.repo.ResetToDraft(ctx, reservation.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reservation.ID)
}

// Update applies a later notification for the same booking id. The
// record is forced back to draft, lines are cleared and rebuilt from
// the payload, and the scalar fields are patched selectively. The whole
// rewrite runs in one transaction so a failed rebuild never leaves a
// record stripped of its lines.
func (s *reconcileService) Update(ctx context.Context, existing *model.Reservation, customer *model.Customer, stay *model.Stay) (*model.ReconcileResult, error) {
	now := s.now()

	checkIn, err := ParseStayDate(stay.CheckIn, now)
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseStayDate(stay.CheckOut, now)
	if err != nil {
		return nil, err
	}
	if !checkOut.After(checkIn) {
		return nil, apperrors.Validation("Check-out date must be after check-in date")
	}

	if existing.State != model.StateDraft {
		if err := s.forceDraft(ctx, existing); err != nil {
			return nil, err
		}
	}

	if err := s.validateCapacity(ctx, stay); err != nil {
		return nil, err
	}
	if err := s.checkAvailability(ctx, stay.RoomTypes, checkIn, checkOut, existing.ID); err != nil {
		return nil, err
	}

	merged := *existing
	merged.State = model.StateDraft
	merged.CheckIn = checkIn
	merged.CheckOut = checkOut
	merged.Adults = stay.Adults
	merged.Children = stay.Children

	if customer.Name != "" {
		merged.CustomerName = customer.Name
	}
	if customer.Email != "" {
		merged.Email = customer.Email
	}
	if customer.Phone != "" {
		merged.Phone = customer.Phone
	}
	if customer.AmountAfterTax != "" && customer.AmountAfterTax != "0" {
		merged.RoomPriceSummary = customer.AmountAfterTax
	}
	// Payment only moves forward. A channel resend without deposit data
	// must not downgrade a paid record.
	if customer.PaymentStatus != "" && customer.PaymentStatus.Rank() > merged.Payment.Rank() {
		merged.Payment = customer.PaymentStatus
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		for _, line := range existing.Lines {
			if !line.State.Active() {
				continue
			}
			if err := s.rooms.SetStatus(txCtx, line.RoomID, model.RoomAvailable); err != nil {
				return err
			}
		}

		lines, err := s.buildLines(txCtx, stay.RoomTypes, checkIn, checkOut, customer.AmountAfterTax)
		if err != nil {
			return err
		}
		merged.Lines = lines

		return s.repo.Update(txCtx, existing.ID, &merged)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Reservation("Reservation update failed", err)
	}

	s.log.Info("Reservation updated",
		"reservation_no", merged.ReservationNo,
		"siteminder_id", merged.SiteminderID,
		"rooms", len(merged.Lines),
	)

	result := s.result(&merged, stay, actionUpdated, "Reservation updated successfully", model.StateDraft)
	result.ReservationID = existing.ID
	return result, nil
}

// forceDraft walks a confirmed or cancelled record back to draft so it
// can be rewritten.
func (s *reconcileService) forceDraft(ctx context.Context, reservation *model.Reservation) error {
	if reservation.State == model.StateConfirm || reservation.State == model.StateDone {
		if err := s.repo.Cancel(ctx, reservation.ID); err != nil {
			return apperrors.State(fmt.Sprintf("Could not reset reservation %s to draft: %v", reservation.ReservationNo, err))
		}
	}
	if err := s.repo.ResetToDraft(ctx, reservation.ID); err != nil {
		return apperrors.State(fmt.Sprintf("Could not reset reservation %s to draft: %v", reservation.ReservationNo, err))
	}
	return nil
}

// validateCapacity sums the capacity of every requested room and
// rejects the stay when the party does not fit. Rooms with no recorded
// capacity count as the configured default.
func (s *reconcileService) validateCapacity(ctx context.Context, stay *model.Stay) error {
	if len(stay.RoomTypes) == 0 {
		return nil
	}

	totalCapacity := 0
	for _, rt := range stay.RoomTypes {
		room, err := s.rooms.FindByCode(ctx, rt.RoomCode)
		if err != nil {
			if errors.Is(err, reserrors.ErrRoomNotFound) {
				return apperrors.Validation(fmt.Sprintf("Room '%s' not found for capacity validation", rt.RoomCode))
			}
			return apperrors.System("Room lookup failed", err)
		}

		capacity := room.Capacity
		if capacity <= 0 {
			capacity = s.cfg.DefaultRoomCapacity
		}
		totalCapacity += capacity
	}

	totalGuests := stay.Adults + stay.Children
	if totalGuests > totalCapacity {
		return apperrors.Capacity(fmt.Sprintf("Insufficient room capacity: %d guests require %d total capacity", totalGuests, totalCapacity))
	}
	return nil
}

// checkAvailability rejects rooms already held by another record's
// active lines over an overlapping interval.
func (s *reconcileService) checkAvailability(ctx context.Context, roomTypes []model.RoomTypeRequest, checkIn, checkOut time.Time, excludeReservationID string) error {
	for _, rt := range roomTypes {
		room, err := s.rooms.FindByCode(ctx, rt.RoomCode)
		if err != nil {
			if errors.Is(err, reserrors.ErrRoomNotFound) {
				return apperrors.Validation(fmt.Sprintf("Room '%s' not found for capacity validation", rt.RoomCode))
			}
			return apperrors.System("Room lookup failed", err)
		}

		count, err := s.repo.CountOverlappingLines(ctx, room.ID, checkIn, checkOut, excludeReservationID)
		if err != nil {
			return apperrors.System("Availability check failed", err)
		}
		if count > 0 {
			return apperrors.Availability(fmt.Sprintf("Room '%s' is already booked for the requested dates", rt.RoomCode))
		}
	}
	return nil
}

// buildLines resolves each requested room and type to store records and
// binds them to the stay interval. The first line carries the booking's
// total as promotion price, mirroring how channel totals are priced on
// the record.
func (s *reconcileService) buildLines(ctx context.Context, roomTypes []model.RoomTypeRequest, checkIn, checkOut time.Time, amountAfterTax string) ([]model.ReservationLine, error) {
	lines := make([]model.ReservationLine, 0, len(roomTypes))

	for i, rt := range roomTypes {
		roomType, typeErr := s.rooms.FindTypeByName(ctx, rt.TypeName)
		room, roomErr := s.rooms.FindByCode(ctx, rt.RoomCode)
		if typeErr != nil || roomErr != nil {
			if errors.Is(typeErr, reserrors.ErrRoomTypeNotFound) || errors.Is(roomErr, reserrors.ErrRoomNotFound) {
				return nil, apperrors.Validation(fmt.Sprintf("Could not find room type '%s' or room '%s'", rt.TypeName, rt.RoomCode))
			}
			return nil, apperrors.System("Room lookup failed", errors.Join(typeErr, roomErr))
		}

		line := model.ReservationLine{
			RoomID:       room.ID,
			RoomCode:     room.Code,
			RoomTypeID:   roomType.ID,
			RoomTypeName: roomType.Name,
			CheckIn:      checkIn,
			CheckOut:     checkOut,
			State:        model.LineAssigned,
		}
		if i == 0 && amountAfterTax != "" {
			if price, err := strconv.ParseFloat(amountAfterTax, 64); err == nil {
				line.PromotionPrice = price
			}
		}
		lines = append(lines, line)
	}

	return lines, nil
}

func (s *reconcileService) result(reservation *model.Reservation, stay *model.Stay, action, message string, state model.ReservationState) *model.ReconcileResult {
	return &model.ReconcileResult{
		ReservationID: reservation.ID,
		ReservationNo: reservation.ReservationNo,
		SiteminderID:  reservation.SiteminderID,
		CustomerName:  reservation.CustomerName,
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		Adults:        reservation.Adults,
		Children:      reservation.Children,
		Email:         reservation.Email,
		Phone:         reservation.Phone,
		State:         state,
		Action:        action,
		Message:       message,
	}
}
