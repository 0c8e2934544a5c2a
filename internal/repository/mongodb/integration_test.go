//go:build integration

package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Rrens/coworking-reservation/internal/config"
	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run with: MONGO_TEST_URI=mongodb://localhost:27017 go test -tags integration ./internal/repository/mongodb/
func newIntegrationDB(t *testing.T) *DB {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	cfg := config.DatabaseConfig{
		URI:            uri,
		Database:       "coworking_it_" + primitive.NewObjectID().Hex(),
		ConnectTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(cfg.MigrateURL(), "file://../../../migrations"))

	t.Cleanup(func() {
		_ = db.db.Drop(context.Background())
		_ = db.Close(context.Background())
	})
	return db
}

func itCoworking(name string, postal int) *domain.Coworking {
	return &domain.Coworking{
		Name:       name,
		Address:    "1 Main Rd",
		District:   "Pathum Wan",
		Province:   "Bangkok",
		PostalCode: postal,
		Telephone:  "021234567",
		Region:     "Central",
		OpenTime:   domain.MustParseTimeOfDay("08:00"),
		CloseTime:  domain.MustParseTimeOfDay("20:00"),
		Picture:    "hub.jpg",
	}
}

func TestIntegration_CoworkingsAndReservations(t *testing.T) {
	db := newIntegrationDB(t)
	ctx := context.Background()

	coworkings := NewCoworkingRepository(db)
	reservations := NewReservationRepository(db)

	hub := itCoworking("Hub One", 10330)
	require.NoError(t, coworkings.Create(ctx, hub))
	other := itCoworking("Hub Two", 50000)
	require.NoError(t, coworkings.Create(ctx, other))

	err := coworkings.Create(ctx, itCoworking("Hub One", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate, "unique name index")

	userID := primitive.NewObjectID()
	for _, w := range [][2]string{{"09:00", "10:00"}, {"11:00", "12:00"}} {
		require.NoError(t, reservations.Create(ctx, &domain.Reservation{
			User:      userID,
			Coworking: hub.ID,
			Start:     domain.MustParseTimeOfDay(w[0]),
			End:       domain.MustParseTimeOfDay(w[1]),
		}))
	}

	t.Run("list joins reservations and honours select", func(t *testing.T) {
		items, err := coworkings.List(ctx, domain.ListQuery{
			Conditions: []domain.Condition{{Field: "postalcode", Op: domain.OpLt, Values: []string{"20000"}}},
			Select:     []string{"name"},
			Page:       1,
			Limit:      10,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Hub One", items[0].Name)
		assert.Empty(t, items[0].Address)
		assert.Len(t, items[0].Reservations, 2)
	})

	t.Run("list pages newest first", func(t *testing.T) {
		items, err := coworkings.List(ctx, domain.ListQuery{
			Sort:  []domain.SortField{{Field: "createdAt", Desc: true}},
			Page:  2,
			Limit: 1,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Hub One", items[0].Name)

		total, err := coworkings.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("reservations populate their coworking", func(t *testing.T) {
		list, err := reservations.List(ctx, domain.ReservationFilter{User: userID})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.NotNil(t, list[0].Coworking)
		assert.Equal(t, "Hub One", list[0].Coworking.Name)
		assert.Equal(t, "Bangkok", list[0].Coworking.Province)
		assert.Equal(t, "021234567", list[0].Coworking.Telephone)

		detail, err := reservations.GetDetail(ctx, list[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "021234567", detail.Coworking.Telephone)
		assert.Empty(t, detail.Coworking.Province)

		_, err = reservations.GetDetail(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, domain.ErrNotFound)

		n, err := reservations.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("update window and partial coworking update", func(t *testing.T) {
		list, err := reservations.List(ctx, domain.ReservationFilter{Coworking: hub.ID})
		require.NoError(t, err)
		require.NotEmpty(t, list)

		updated, err := reservations.UpdateWindow(ctx, list[0].ID,
			domain.MustParseTimeOfDay("13:00"), domain.MustParseTimeOfDay("14:00"))
		require.NoError(t, err)
		assert.Equal(t, "13:00", updated.Start.String())

		closeAt := domain.MustParseTimeOfDay("22:00")
		c, err := coworkings.Update(ctx, hub.ID, domain.CoworkingUpdate{CloseTime: &closeAt})
		require.NoError(t, err)
		assert.Equal(t, "22:00", c.CloseTime.String())
		assert.Equal(t, "Hub One", c.Name)
	})

	t.Run("delete cascades", func(t *testing.T) {
		removed, err := coworkings.DeleteCascade(ctx, hub.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		n, err := reservations.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = coworkings.GetByID(ctx, hub.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = coworkings.DeleteCascade(ctx, hub.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestIntegration_Users(t *testing.T) {
	db := newIntegrationDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	u := &domain.User{Name: "Ann", Email: "Ann@Example.com", Tel: "1", Role: domain.RoleUser, PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "x", got.PasswordHash)

	err = users.Create(ctx, &domain.User{Name: "Ann", Email: "ann@example.com", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
