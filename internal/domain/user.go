package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Tel          string             `json:"tel" bson:"tel"`
	Role         string             `json:"role" bson:"role"`
	PasswordHash string             `json:"-" bson:"password"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// UserCreate represents user registration data
type UserCreate struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Tel      string `json:"tel" validate:"required,max=20"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Identity is the authenticated caller of a request
type Identity struct {
	UserID primitive.ObjectID
	Role   string

	TokenID        string
	TokenExpiresAt time.Time
}

// IsAdmin reports whether the caller bypasses ownership and cap rules
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owns reports whether the caller owns a record belonging to userID
func (i Identity) Owns(userID primitive.ObjectID) bool {
	return i.UserID == userID
}

// Session is an issued access token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`
}

// UserRepository is the persistence contract for users
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TokenRevoker tracks logged-out tokens until they would have expired anyway
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
