package service

import (
	"context"
	"time"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCoworkingRepository mocks the CoworkingRepository interface
type MockCoworkingRepository struct {
	mock.Mock
}

func (m *MockCoworkingRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Coworking, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Coworking), args.Error(1)
}

func (m *MockCoworkingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCoworkingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Coworking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coworking), args.Error(1)
}

func (m *MockCoworkingRepository) Create(ctx context.Context, c *domain.Coworking) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCoworkingRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.CoworkingUpdate) (*domain.Coworking, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coworking), args.Error(1)
}

func (m *MockCoworkingRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockReservationRepository mocks the ReservationRepository interface
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationDetail, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ReservationDetail), args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetDetail(ctx context.Context, id primitive.ObjectID) (*domain.ReservationDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReservationDetail), args.Error(1)
}

func (m *MockReservationRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateWindow(ctx context.Context, id primitive.ObjectID, start, end domain.TimeOfDay) (*domain.Reservation, error) {
	args := m.Called(ctx, id, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenRevoker mocks the TokenRevoker interface
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func tod(s string) domain.TimeOfDay {
	return domain.MustParseTimeOfDay(s)
}

func todPtr(s string) *domain.TimeOfDay {
	t := tod(s)
	return &t
}

func testCoworking() *domain.Coworking {
	return &domain.Coworking{
		ID:        primitive.NewObjectID(),
		Name:      "Hub One",
		OpenTime:  tod("08:00"),
		CloseTime: tod("20:00"),
	}
}
