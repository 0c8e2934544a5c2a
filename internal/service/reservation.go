package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReservationService applies the booking rules
type ReservationService struct {
	reservations domain.ReservationRepository
	coworkings   domain.CoworkingRepository
	maxPerUser   int
}

// NewReservationService creates a new reservation service. maxPerUser caps
// how many reservations a non-admin may hold.
func NewReservationService(
	reservations domain.ReservationRepository,
	coworkings domain.CoworkingRepository,
	maxPerUser int,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		coworkings:   coworkings,
		maxPerUser:   maxPerUser,
	}
}

// List returns the reservations visible to caller. Non-admins only ever see
// their own; admins may narrow to one coworking.
func (s *ReservationService) List(ctx context.Context, caller domain.Identity, coworkingID primitive.ObjectID) ([]domain.ReservationDetail, error) {
	var filter domain.ReservationFilter
	switch {
	case !caller.IsAdmin():
		filter.User = caller.UserID
	case !coworkingID.IsZero():
		filter.Coworking = coworkingID
	}

	reservations, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// Get returns a single reservation with its coworking joined in
func (s *ReservationService) Get(ctx context.Context, caller domain.Identity, id primitive.ObjectID) (*domain.ReservationDetail, error) {
	detail, err := s.reservations.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !caller.Owns(detail.User) {
		return nil, domain.ErrNotAuthorized
	}
	return detail, nil
}

// CheckCoworking reports ErrNotFound when the space to book does not exist
func (s *ReservationService) CheckCoworking(ctx context.Context, coworkingID primitive.ObjectID) error {
	_, err := s.coworkings.GetByID(ctx, coworkingID)
	return err
}

// CheckAccess reports ErrNotFound or ErrNotAuthorized when caller may not
// modify the reservation
func (s *ReservationService) CheckAccess(ctx context.Context, caller domain.Identity, id primitive.ObjectID) error {
	_, err := s.authorize(ctx, caller, id)
	return err
}

// Create books a window at coworkingID for caller
func (s *ReservationService) Create(ctx context.Context, caller domain.Identity, coworkingID primitive.ObjectID, input domain.ReservationCreate) (*domain.Reservation, error) {
	coworking, err := s.coworkings.GetByID(ctx, coworkingID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		held, err := s.reservations.CountByUser(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count reservations: %w", err)
		}
		if held >= int64(s.maxPerUser) {
			return nil, &domain.LimitError{UserID: caller.UserID.Hex(), Max: s.maxPerUser}
		}
	}

	start, end := *input.Start, *input.End
	if err := coworking.CheckWindow(start, end); err != nil {
		log.Debug().
			Err(err).
			Str("user_id", caller.UserID.Hex()).
			Str("coworking_id", coworkingID.Hex()).
			Msg("Rejected reservation")
		return nil, err
	}

	reservation := &domain.Reservation{
		User:      caller.UserID,
		Coworking: coworking.ID,
		Start:     start,
		End:       end,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return reservation, nil
}

// Update moves a reservation's window. The space and owner never change;
// omitted bounds keep their stored value.
func (s *ReservationService) Update(ctx context.Context, caller domain.Identity, id primitive.ObjectID, input domain.ReservationUpdate) (*domain.Reservation, error) {
	reservation, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	coworking, err := s.coworkings.GetByID(ctx, reservation.Coworking)
	if err != nil {
		// A dangling reference is a data fault, not a missing reservation.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("coworking %s of reservation %s is gone", reservation.Coworking.Hex(), id.Hex())
		}
		return nil, err
	}

	start, end := reservation.Start, reservation.End
	if input.Start != nil {
		start = *input.Start
	}
	if input.End != nil {
		end = *input.End
	}
	if err := coworking.CheckWindow(start, end); err != nil {
		return nil, err
	}

	updated, err := s.reservations.UpdateWindow(ctx, id, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return updated, nil
}

// Delete removes a reservation owned by caller (or any, for admins)
func (s *ReservationService) Delete(ctx context.Context, caller domain.Identity, id primitive.ObjectID) error {
	if _, err := s.authorize(ctx, caller, id); err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

// authorize loads the reservation and checks that caller may modify it
func (s *ReservationService) authorize(ctx context.Context, caller domain.Identity, id primitive.ObjectID) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !caller.Owns(reservation.User) {
		return nil, domain.ErrNotAuthorized
	}
	return reservation, nil
}
