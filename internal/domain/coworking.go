package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coworking is a bookable venue with fixed daily opening hours
type Coworking struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Address    string             `json:"address" bson:"address"`
	District   string             `json:"district" bson:"district"`
	Province   string             `json:"province" bson:"province"`
	PostalCode int                `json:"postalcode" bson:"postalcode"`
	Telephone  string             `json:"telephone,omitempty" bson:"telephone,omitempty"`
	Region     string             `json:"region" bson:"region"`
	OpenTime   TimeOfDay          `json:"opentime" bson:"opentime"`
	CloseTime  TimeOfDay          `json:"closetime" bson:"closetime"`
	Picture    string             `json:"picture" bson:"picture"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`

	// Reservations is populated from the reservations collection, never stored.
	Reservations []Reservation `json:"reservations,omitempty" bson:"reservations,omitempty"`
}

// CheckWindow validates a booking window against the opening hours
func (c *Coworking) CheckWindow(start, end TimeOfDay) error {
	if start.Before(c.OpenTime) || end.After(c.CloseTime) {
		return &OpeningHoursError{Open: c.OpenTime, Close: c.CloseTime}
	}
	if start.After(end) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Project renders c as a JSON object holding only the selected fields, or
// every field except the omitted ones. Inclusions always keep id and
// reservations, matching the database projection.
func (c Coworking) Project(selected, omitted []string) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("failed to project coworking: %w", err)
	}

	if len(selected) == 0 {
		for _, f := range omitted {
			delete(all, jsonField(f))
		}
		return all, nil
	}

	out := make(map[string]json.RawMessage, len(selected)+2)
	for _, f := range append([]string{"id", "reservations"}, selected...) {
		if v, ok := all[jsonField(f)]; ok {
			out[jsonField(f)] = v
		}
	}
	return out, nil
}

func jsonField(f string) string {
	if f == "_id" {
		return "id"
	}
	return f
}

// CoworkingCreate represents coworking creation data
type CoworkingCreate struct {
	Name       string     `json:"name" validate:"required,max=50"`
	Address    string     `json:"address" validate:"required"`
	District   string     `json:"district" validate:"required"`
	Province   string     `json:"province" validate:"required"`
	PostalCode *int       `json:"postalcode" validate:"required,min=0,max=99999"`
	Telephone  string     `json:"telephone"`
	Region     string     `json:"region" validate:"required"`
	OpenTime   *TimeOfDay `json:"opentime" validate:"required"`
	CloseTime  *TimeOfDay `json:"closetime" validate:"required"`
	Picture    string     `json:"picture" validate:"required"`
}

// CoworkingUpdate represents a partial coworking update
type CoworkingUpdate struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Address    *string    `json:"address,omitempty" validate:"omitempty,min=1"`
	District   *string    `json:"district,omitempty" validate:"omitempty,min=1"`
	Province   *string    `json:"province,omitempty" validate:"omitempty,min=1"`
	PostalCode *int       `json:"postalcode,omitempty" validate:"omitempty,min=0,max=99999"`
	Telephone  *string    `json:"telephone,omitempty"`
	Region     *string    `json:"region,omitempty" validate:"omitempty,min=1"`
	OpenTime   *TimeOfDay `json:"opentime,omitempty"`
	CloseTime  *TimeOfDay `json:"closetime,omitempty"`
	Picture    *string    `json:"picture,omitempty" validate:"omitempty,min=1"`
}

// Normalize trims the name so length rules apply to the stored value
func (in *CoworkingCreate) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

// Normalize trims the name so length rules apply to the stored value
func (u *CoworkingUpdate) Normalize() {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		u.Name = &name
	}
}

// Empty reports whether the update carries no fields
func (u CoworkingUpdate) Empty() bool {
	return u.Name == nil && u.Address == nil && u.District == nil && u.Province == nil &&
		u.PostalCode == nil && u.Telephone == nil && u.Region == nil && u.OpenTime == nil &&
		u.CloseTime == nil && u.Picture == nil
}

// CoworkingSummary is the subset of coworking fields joined into reservations
type CoworkingSummary struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Province  string             `json:"province,omitempty" bson:"province,omitempty"`
	Telephone string             `json:"telephone,omitempty" bson:"telephone,omitempty"`
}

// CoworkingRepository is the persistence contract for coworking spaces
type CoworkingRepository interface {
	List(ctx context.Context, q ListQuery) ([]Coworking, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Coworking, error)
	Create(ctx context.Context, c *Coworking) error
	Update(ctx context.Context, id primitive.ObjectID, update CoworkingUpdate) (*Coworking, error)
	// DeleteCascade removes the space and every reservation that references it.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error)
}
