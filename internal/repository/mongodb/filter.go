package mongodb

import (
	"fmt"
	"strconv"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fieldKinds tells the filter builder how to cast query-string values for
// fields that are not stored as strings.
type fieldKinds map[string]fieldKind

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindObjectID
)

var coworkingFields = fieldKinds{
	"_id":        kindObjectID,
	"postalcode": kindInt,
}

// buildFilter converts parsed list conditions into a MongoDB filter
func buildFilter(conds []domain.Condition, kinds fieldKinds) (bson.M, error) {
	filter := bson.M{}

	for _, c := range conds {
		if c.Field == "id" {
			c.Field = "_id"
		}
		ops, _ := filter[c.Field].(bson.M)
		if ops == nil {
			ops = bson.M{}
			filter[c.Field] = ops
		}

		values := make([]any, 0, len(c.Values))
		for _, raw := range c.Values {
			v, err := castValue(raw, kinds[c.Field])
			if err != nil {
				return nil, fmt.Errorf("filter %s[%s]: %w", c.Field, c.Op, err)
			}
			values = append(values, v)
		}

		if c.Op == domain.OpIn {
			ops["$in"] = values
			continue
		}
		if len(values) == 0 {
			continue
		}
		ops["$"+c.Op] = values[0]
	}

	return filter, nil
}

func castValue(raw string, kind fieldKind) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", raw)
		}
		return n, nil
	case kindObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an object id, got %q", raw)
		}
		return id, nil
	default:
		return raw, nil
	}
}

// buildSort converts sort fields into an ordered sort document. _id is
// appended as a tie-breaker so pages stay stable.
func buildSort(fields []domain.SortField) bson.D {
	sort := make(bson.D, 0, len(fields)+1)
	hasID := false
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		if f.Field == "_id" || f.Field == "id" {
			hasID = true
			sort = append(sort, bson.E{Key: "_id", Value: dir})
			continue
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: "_id", Value: -1})
	}
	return sort
}

// buildProjection converts a select list into an inclusion projection, or
// an omit list into an exclusion projection. The populated reservations are
// kept by inclusions.
func buildProjection(selected, omitted []string) bson.M {
	switch {
	case len(selected) > 0:
		proj := bson.M{"reservations": 1}
		for _, f := range selected {
			proj[storedField(f)] = 1
		}
		return proj
	case len(omitted) > 0:
		proj := bson.M{}
		for _, f := range omitted {
			proj[storedField(f)] = 0
		}
		return proj
	default:
		return nil
	}
}

func storedField(f string) string {
	if f == "id" {
		return "_id"
	}
	return f
}
