package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores backing the router tests

type memReservations struct {
	mu     sync.Mutex
	items  map[primitive.ObjectID]domain.Reservation
	spaces *memCoworkings
}

func (m *memReservations) detail(r domain.Reservation) domain.ReservationDetail {
	d := domain.ReservationDetail{ID: r.ID, User: r.User, Start: r.Start, End: r.End, CreatedAt: r.CreatedAt}
	if c, ok := m.spaces.items[r.Coworking]; ok {
		d.Coworking = &domain.CoworkingSummary{ID: c.ID, Name: c.Name, Province: c.Province, Telephone: c.Telephone}
	}
	return d
}

func (m *memReservations) List(_ context.Context, f domain.ReservationFilter) ([]domain.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ReservationDetail{}
	for _, r := range m.items {
		if !f.User.IsZero() && r.User != f.User {
			continue
		}
		if !f.Coworking.IsZero() && r.Coworking != f.Coworking {
			continue
		}
		out = append(out, m.detail(r))
	}
	return out, nil
}

func (m *memReservations) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *memReservations) GetDetail(_ context.Context, id primitive.ObjectID) (*domain.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d := m.detail(r)
	return &d, nil
}

func (m *memReservations) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.items {
		if r.User == userID {
			n++
		}
	}
	return n, nil
}

func (m *memReservations) Create(_ context.Context, r *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now()
	m.items[r.ID] = *r
	return nil
}

func (m *memReservations) UpdateWindow(_ context.Context, id primitive.ObjectID, start, end domain.TimeOfDay) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Start, r.End = start, end
	m.items[id] = r
	return &r, nil
}

func (m *memReservations) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memReservations) DeleteByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.items {
		if r.User == userID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

type memCoworkings struct {
	items        map[primitive.ObjectID]domain.Coworking
	reservations *memReservations
}

func (m *memCoworkings) List(_ context.Context, q domain.ListQuery) ([]domain.Coworking, error) {
	all := make([]domain.Coworking, 0, len(m.items))
	for _, c := range m.items {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	start := min(int(q.Skip()), len(all))
	end := min(start+q.Limit, len(all))
	return all[start:end], nil
}

func (m *memCoworkings) Count(context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memCoworkings) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Coworking, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memCoworkings) Create(_ context.Context, c *domain.Coworking) error {
	for _, existing := range m.items {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	m.items[c.ID] = *c
	return nil
}

func (m *memCoworkings) Update(_ context.Context, id primitive.ObjectID, u domain.CoworkingUpdate) (*domain.Coworking, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.OpenTime != nil {
		c.OpenTime = *u.OpenTime
	}
	if u.CloseTime != nil {
		c.CloseTime = *u.CloseTime
	}
	m.items[id] = c
	return &c, nil
}

func (m *memCoworkings) DeleteCascade(_ context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, domain.ErrNotFound
	}
	m.reservations.mu.Lock()
	var n int64
	for rid, r := range m.reservations.items {
		if r.Coworking == id {
			delete(m.reservations.items, rid)
			n++
		}
	}
	m.reservations.mu.Unlock()
	delete(m.items, id)
	return n, nil
}

type memUsers struct {
	items map[primitive.ObjectID]domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.items {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	m.items[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memRevoker struct {
	revoked map[string]bool
}

func (m *memRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.revoked[tokenID] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return m.revoked[tokenID], nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, int, time.Time, error) {
	return false, 0, time.Now().Add(time.Minute), nil
}

func (denyLimiter) Limit() int { return 0 }
