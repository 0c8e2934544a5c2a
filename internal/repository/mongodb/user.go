package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles user data access
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) coll() *mongo.Collection {
	return r.db.Collection(usersCollection)
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(u.Email)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll().InsertOne(ctx, u)
	if err != nil {
		return translateError(err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.coll().FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// List retrieves all users, newest first
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
