package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reservation is a user's booking of a time window at a coworking space
type Reservation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Coworking primitive.ObjectID `json:"coworking" bson:"coworking"`
	Start     TimeOfDay          `json:"start" bson:"start"`
	End       TimeOfDay          `json:"end" bson:"end"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// ReservationDetail is a reservation with its coworking space joined in
type ReservationDetail struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Coworking *CoworkingSummary  `json:"coworking" bson:"coworking"`
	Start     TimeOfDay          `json:"start" bson:"start"`
	End       TimeOfDay          `json:"end" bson:"end"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// ReservationCreate represents reservation creation data
type ReservationCreate struct {
	Start *TimeOfDay `json:"start" validate:"required"`
	End   *TimeOfDay `json:"end" validate:"required"`
}

// ReservationUpdate represents a reservation update. Omitted bounds keep
// their stored value.
type ReservationUpdate struct {
	Start *TimeOfDay `json:"start,omitempty"`
	End   *TimeOfDay `json:"end,omitempty"`
}

// ReservationFilter scopes a reservation listing. Zero values match everything.
type ReservationFilter struct {
	User      primitive.ObjectID
	Coworking primitive.ObjectID
}

// ReservationRepository is the persistence contract for reservations
type ReservationRepository interface {
	List(ctx context.Context, filter ReservationFilter) ([]ReservationDetail, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Reservation, error)
	GetDetail(ctx context.Context, id primitive.ObjectID) (*ReservationDetail, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Create(ctx context.Context, r *Reservation) error
	UpdateWindow(ctx context.Context, id primitive.ObjectID, start, end TimeOfDay) (*Reservation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
