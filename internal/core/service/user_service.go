package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Create registers a user. Admins may always create users. Anyone else may
// only create the first account, which becomes an Admin.
func (s *UserService) Create(ctx context.Context, caller *domain.Identity, in ports.UserInput) (*domain.User, error) {
	username, err := cleanName("username", in.Username)
	if err != nil {
		return nil, err
	}
	role, err := defaultRole(in.Role)
	if err != nil {
		return nil, err
	}

	if caller == nil || !caller.IsAdmin() {
		n, err := s.repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		if n > 0 {
			return nil, domain.ErrRegistrationClosed
		}
		role = domain.RoleAdmin
		s.logger.Warn().Str("username", username).Msg("bootstrapping first admin account")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Int64("user_id", user.ID).Str("role", role.String()).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.Invalid("id must be a positive integer")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) (*ports.PageResult[*domain.User], error) {
	filter.Page = filter.Page.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return newPage(items, total, filter.Page), nil
}

// Update replaces username and role. The password is re-hashed only when supplied.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UserInput) error {
	if err := checkPathID(id, in.ID); err != nil {
		return err
	}
	username, err := cleanName("username", in.Username)
	if err != nil {
		return err
	}
	role, err := defaultRole(in.Role)
	if err != nil {
		return err
	}

	user := &domain.User{ID: id, Username: username, Role: role, UpdatedAt: time.Now().UTC()}
	if in.Password != "" {
		if user.PasswordHash, err = s.hasher.Hash(in.Password); err != nil {
			return err
		}
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return resolveStaleWrite(ctx, err, id, s.repo.Exists, domain.ErrUserNotFound)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("id must be a positive integer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func defaultRole(r domain.Role) (domain.Role, error) {
	if r == "" {
		return domain.RoleDoctor, nil
	}
	if !r.Valid() {
		return "", domain.ErrUnknownRole
	}
	return r, nil
}
