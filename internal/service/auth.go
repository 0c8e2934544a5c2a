package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/coworking-reservation/internal/domain"
	"github.com/Rrens/coworking-reservation/internal/security"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo        domain.UserRepository
	reservationRepo domain.ReservationRepository
	revoker         domain.TokenRevoker
	jwtManager      *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	reservationRepo domain.ReservationRepository,
	revoker domain.TokenRevoker,
	jwtManager *security.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
		revoker:         revoker,
		jwtManager:      jwtManager,
	}
}

// Register creates a new user account and signs them in
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.User, *domain.Session, error) {
	hashed, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Tel:          input.Tel,
		Role:         role,
		PasswordHash: hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, nil, domain.ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !security.CheckPassword(user.PasswordHash, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*domain.Session, error) {
	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &domain.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the caller's token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, caller domain.Identity) error {
	if caller.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, caller.TokenID, time.Until(caller.TokenExpiresAt))
}

// Authenticate resolves a token into the caller's identity. The role comes
// from the stored account, not the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return domain.Identity{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.Identity{}, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Redis being down should not lock every user out.
		log.Warn().Err(err).Msg("token revocation check failed")
	} else if revoked {
		return domain.Identity{}, errors.New("token revoked")
	}

	// The account may have been deleted or changed role since the token was issued
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, errors.New("user no longer exists")
		}
		return domain.Identity{}, fmt.Errorf("failed to load user: %w", err)
	}

	identity := domain.Identity{
		UserID:  user.ID,
		Role:    user.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.TokenExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, caller.UserID)
}

// ListUsers returns every account
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteMe removes the caller's reservations and account, then revokes the token
func (s *AuthService) DeleteMe(ctx context.Context, caller domain.Identity) error {
	userID := caller.UserID
	removed, err := s.reservationRepo.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.Hex()).
		Int64("reservations_removed", removed).
		Msg("User deleted")

	return s.Logout(ctx, caller)
}
