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

// Fields joined into reservations from their coworking space
var (
	listCoworkingFields   = bson.M{"name": 1, "province": 1, "telephone": 1}
	detailCoworkingFields = bson.M{"name": 1, "telephone": 1}
)

// ReservationRepository handles reservation data access
type ReservationRepository struct {
	db *DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) coll() *mongo.Collection {
	return r.db.Collection(reservationsCollection)
}

// populateCoworking joins the referenced coworking, restricted to fields
func populateCoworking(fields bson.M) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from": coworkingsCollection,
			"let":  bson.M{"cid": "$coworking"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$cid"}}}},
				bson.M{"$project": fields},
			},
			"as": "coworking",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$coworking",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// List retrieves reservations matching filter with their coworking joined in
func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationDetail, error) {
	match := bson.M{}
	if !filter.User.IsZero() {
		match["user"] = filter.User
	}
	if !filter.Coworking.IsZero() {
		match["coworking"] = filter.Coworking
	}

	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	pipeline = append(pipeline, populateCoworking(listCoworkingFields)...)

	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []domain.ReservationDetail{}
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&res); err != nil {
		return nil, translateError(err)
	}
	return &res, nil
}

// GetDetail retrieves a reservation by ID with its coworking joined in
func (r *ReservationRepository) GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.ReservationDetail, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, populateCoworking(detailCoworkingFields)...)

	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to get reservation: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	var detail domain.ReservationDetail
	if err := cursor.Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode reservation: %w", err)
	}
	return &detail, nil
}

// CountByUser counts the reservations a user currently holds
func (r *ReservationRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := r.coll().CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return n, nil
}

// Create inserts a new reservation
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	out, err := r.coll().InsertOne(ctx, res)
	if err != nil {
		return translateError(err)
	}

	if oid, ok := out.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid
	}
	return nil
}

// UpdateWindow changes the booked start and end times
func (r *ReservationRepository) UpdateWindow(ctx context.Context, id primitive.ObjectID, start, end domain.TimeOfDay) (*domain.Reservation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"start": start, "end": end}}

	var res domain.Reservation
	if err := r.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&res); err != nil {
		return nil, translateError(err)
	}
	return &res, nil
}

// Delete removes a reservation
func (r *ReservationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUser removes every reservation owned by a user
func (r *ReservationRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.coll().DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations: %w", err)
	}
	return res.DeletedCount, nil
}
