package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// TimeOfDay is a wall-clock time within a day, stored as minutes since midnight.
// It serialises as a zero-padded "HH:MM" string in both JSON and BSON.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses "H:MM" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return TimeOfDay(h*60 + m), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for constants; it panics on bad input.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether t lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }
func (t TimeOfDay) After(u TimeOfDay) bool  { return t > u }

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalBSONValue keeps the stored form a fixed-width string so documents
// written by other clients stay comparable.
func (t TimeOfDay) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.String())
}

func (t *TimeOfDay) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: typ, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("time of day: unexpected bson type %s", typ)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
