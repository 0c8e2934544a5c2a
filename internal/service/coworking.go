package service

import (
	"context"
	"fmt"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoworkingService handles the coworking directory
type CoworkingService struct {
	coworkings domain.CoworkingRepository
}

// NewCoworkingService creates a new coworking service
func NewCoworkingService(coworkings domain.CoworkingRepository) *CoworkingService {
	return &CoworkingService{coworkings: coworkings}
}

// CoworkingPage is one page of a coworking listing
type CoworkingPage struct {
	Items      []domain.Coworking
	Pagination domain.Pagination
}

// List returns a filtered, sorted page of coworkings. Pagination hints are
// computed against the size of the whole collection, not the filtered set.
func (s *CoworkingService) List(ctx context.Context, q domain.ListQuery) (*CoworkingPage, error) {
	total, err := s.coworkings.Count(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.coworkings.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return &CoworkingPage{
		Items:      items,
		Pagination: domain.NewPagination(q, total),
	}, nil
}

// Get retrieves a coworking by ID
func (s *CoworkingService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Coworking, error) {
	return s.coworkings.GetByID(ctx, id)
}

// Create stores a new coworking
func (s *CoworkingService) Create(ctx context.Context, input domain.CoworkingCreate) (*domain.Coworking, error) {
	input.Normalize()
	c := &domain.Coworking{
		Name:       input.Name,
		Address:    input.Address,
		District:   input.District,
		Province:   input.Province,
		PostalCode: *input.PostalCode,
		Telephone:  input.Telephone,
		Region:     input.Region,
		OpenTime:   *input.OpenTime,
		CloseTime:  *input.CloseTime,
		Picture:    input.Picture,
	}

	if err := s.coworkings.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create coworking: %w", err)
	}

	return c, nil
}

// Update applies a partial update
func (s *CoworkingService) Update(ctx context.Context, id primitive.ObjectID, input domain.CoworkingUpdate) (*domain.Coworking, error) {
	input.Normalize()

	c, err := s.coworkings.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update coworking: %w", err)
	}
	return c, nil
}

// Delete removes a coworking together with every reservation at it
func (s *CoworkingService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.coworkings.GetByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.coworkings.DeleteCascade(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete coworking: %w", err)
	}

	log.Info().
		Str("coworking_id", id.Hex()).
		Int64("reservations_removed", removed).
		Msg("Coworking deleted")
	return nil
}
