package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService provisions demo users and taxonomy for development
// environments. Disabled unless explicitly configured.
type SeedService interface {
	SeedUsers(ctx context.Context, token string, users []models.User) (int, error)
	SeedTaxonomy(ctx context.Context, token string, categories []string, difficulties []string) (int, error)
}

type seedService struct {
	users    repository.UserRepository
	taxonomy repository.TaxonomyRepository
	enabled  bool
	token    string
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, taxonomy repository.TaxonomyRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		users:    users,
		taxonomy: taxonomy,
		enabled:  enabled,
		token:    token,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedUsers(ctx context.Context, token string, users []models.User) (int, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}

	seeded := 0
	for i := range users {
		user := users[i]
		user.Email = strings.ToLower(strings.TrimSpace(user.Email))
		if user.Email == "" || strings.TrimSpace(user.Name) == "" {
			continue
		}
		switch user.Role {
		case models.RoleInstructor, models.RoleLearner, models.RoleOperator:
		default:
			user.Role = models.RoleLearner
		}
		if err := s.users.Upsert(ctx, &user); err != nil {
			return seeded, err
		}
		seeded++
	}

	s.logger.Info().Int("seeded", seeded).Msg("users seeded")
	return seeded, nil
}

func (s *seedService) SeedTaxonomy(ctx context.Context, token string, categories []string, difficulties []string) (int, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}

	existing, err := s.taxonomy.ListCategories(ctx, false)
	if err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, category := range existing {
		known[category.Name] = struct{}{}
	}

	seeded := 0
	for _, name := range categories {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := known[name]; ok {
			continue
		}
		if err := s.taxonomy.CreateCategory(ctx, &models.Category{Name: name, IsActive: true}); err != nil {
			return seeded, err
		}
		seeded++
	}

	existingDifficulties, err := s.taxonomy.ListDifficulties(ctx, false)
	if err != nil {
		return seeded, err
	}
	knownDifficulties := make(map[string]struct{}, len(existingDifficulties))
	for _, difficulty := range existingDifficulties {
		knownDifficulties[difficulty.Name] = struct{}{}
	}

	for rank, name := range difficulties {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := knownDifficulties[name]; ok {
			continue
		}
		if err := s.taxonomy.CreateDifficulty(ctx, &models.Difficulty{Name: name, Rank: rank, IsActive: true}); err != nil {
			return seeded, err
		}
		seeded++
	}

	s.logger.Info().Int("seeded", seeded).Msg("taxonomy seeded")
	return seeded, nil
}

func (s *seedService) authorize(token string) error {
	if !s.enabled {
		return ErrSeedDisabled
	}
	if s.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return ErrSeedUnauthorized
	}
	return nil
}
