package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CoworkingRepository handles coworking data access
type CoworkingRepository struct {
	db *DB
}

// NewCoworkingRepository creates a new coworking repository
func NewCoworkingRepository(db *DB) *CoworkingRepository {
	return &CoworkingRepository{db: db}
}

func (r *CoworkingRepository) coll() *mongo.Collection {
	return r.db.Collection(coworkingsCollection)
}

// List returns one page of coworkings matching q, each with its reservations
func (r *CoworkingRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Coworking, error) {
	filter, err := buildFilter(q.Conditions, coworkingFields)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: buildSort(q.Sort)}},
		{{Key: "$skip", Value: q.Skip()}},
		{{Key: "$limit", Value: int64(q.Limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         reservationsCollection,
			"localField":   "_id",
			"foreignField": "coworking",
			"as":           "reservations",
		}}},
	}
	if proj := buildProjection(q.Select, q.Omit); proj != nil {
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: proj}})
	}

	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list coworkings: %w", err)
	}
	defer cursor.Close(ctx)

	coworkings := []domain.Coworking{}
	if err := cursor.All(ctx, &coworkings); err != nil {
		return nil, fmt.Errorf("failed to decode coworkings: %w", err)
	}

	return coworkings, nil
}

// Count returns the size of the whole collection, ignoring any filter
func (r *CoworkingRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count coworkings: %w", err)
	}
	return n, nil
}

// GetByID retrieves a coworking by ID
func (r *CoworkingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Coworking, error) {
	var c domain.Coworking
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// Create inserts a new coworking
func (r *CoworkingRepository) Create(ctx context.Context, c *domain.Coworking) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll().InsertOne(ctx, c)
	if err != nil {
		return translateError(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

// Update applies a partial update and returns the updated document
func (r *CoworkingRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.CoworkingUpdate) (*domain.Coworking, error) {
	set := coworkingSet(update)
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Coworking
	err := r.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func coworkingSet(u domain.CoworkingUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.District != nil {
		set["district"] = *u.District
	}
	if u.Province != nil {
		set["province"] = *u.Province
	}
	if u.PostalCode != nil {
		set["postalcode"] = *u.PostalCode
	}
	if u.Telephone != nil {
		set["telephone"] = *u.Telephone
	}
	if u.Region != nil {
		set["region"] = *u.Region
	}
	if u.OpenTime != nil {
		set["opentime"] = *u.OpenTime
	}
	if u.CloseTime != nil {
		set["closetime"] = *u.CloseTime
	}
	if u.Picture != nil {
		set["picture"] = *u.Picture
	}
	return set
}

// DeleteCascade removes the coworking's reservations and then the coworking.
// It returns how many reservations were removed.
func (r *CoworkingRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var removed int64

	err := r.db.withTransaction(ctx, func(ctx context.Context) error {
		res, err := r.db.Collection(reservationsCollection).DeleteMany(ctx, bson.M{"coworking": id})
		if err != nil {
			return fmt.Errorf("failed to delete reservations: %w", err)
		}
		removed = res.DeletedCount

		del, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to delete coworking: %w", err)
		}
		if del.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
