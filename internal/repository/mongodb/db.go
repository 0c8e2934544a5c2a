package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/coworking-reservation/internal/config"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	coworkingsCollection   = "coworkings"
	reservationsCollection = "reservations"
	usersCollection        = "users"
)

// DB wraps the MongoDB client and the application database
type DB struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// NewDB connects to MongoDB and verifies the connection
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		client:       client,
		db:           client.Database(cfg.Database),
		transactions: cfg.Transactions,
	}, nil
}

// Close disconnects the client
func (db *DB) Close(ctx context.Context) error {
	if db.client == nil {
		return nil
	}
	return db.client.Disconnect(ctx)
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

// Collection returns a handle to the named collection
func (db *DB) Collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// withTransaction runs fn inside a transaction when the deployment supports
// it, and directly otherwise.
func (db *DB) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !db.transactions {
		return fn(ctx)
	}

	session, err := db.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	default:
		return err
	}
}
