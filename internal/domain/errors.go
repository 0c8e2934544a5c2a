package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidID           = errors.New("invalid id")
	ErrDuplicate           = errors.New("duplicate key")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrReservationLimit    = errors.New("reservation limit reached")
	ErrOutsideOpeningHours = errors.New("reservation outside opening hours")
	ErrInvalidTimeRange    = errors.New("reservation start is after end")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
)

// OpeningHoursError reports the bounds a rejected booking had to fit in
type OpeningHoursError struct {
	Open  TimeOfDay
	Close TimeOfDay
}

func (e *OpeningHoursError) Error() string {
	return fmt.Sprintf("reservation must be within %s and %s", e.Open, e.Close)
}

func (e *OpeningHoursError) Unwrap() error { return ErrOutsideOpeningHours }

// LimitError reports the per-user reservation cap that was hit
type LimitError struct {
	UserID string
	Max    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("user %s already holds %d reservations", e.UserID, e.Max)
}

func (e *LimitError) Unwrap() error { return ErrReservationLimit }
