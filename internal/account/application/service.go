package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/account/auth"
	"github.com/example/storefront/internal/account/domain"
	"github.com/example/storefront/pkg/apperror"
	"github.com/example/storefront/pkg/validate"
)

type Service struct {
	repo   UserRepository
	tokens *auth.Manager
}

func NewService(repo UserRepository, tokens *auth.Manager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// TokenTTL is exposed so the HTTP layer can align the cookie lifetime with
// the token's.
func (s *Service) TokenTTL() time.Duration { return s.tokens.TTL() }

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a user with the default role and returns it with a signed
// token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	if err := validate.Struct(in); err != nil {
		return domain.User{}, "", err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return domain.User{}, "", apperror.Conflict("email already registered")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return domain.User{}, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, "", apperror.Internal(err)
	}

	u := domain.NewUser(uuid.NewString(), in.Name, in.Email, hash)
	if err := s.repo.Create(ctx, u); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Generate(u.ID, u.Name, u.Role)
	if err != nil {
		return domain.User{}, "", apperror.Internal(err)
	}
	return u, token, nil
}

// Login verifies credentials and returns the user with a signed token. The
// same failure is reported for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, in LoginInput) (domain.User, string, error) {
	if err := validate.Struct(in); err != nil {
		return domain.User{}, "", err
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return domain.User{}, "", apperror.Unauthorized("invalid email or password")
		}
		return domain.User{}, "", err
	}
	if !auth.VerifyPassword(in.Password, u.PasswordHash) {
		return domain.User{}, "", apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(u.ID, u.Name, u.Role)
	if err != nil {
		return domain.User{}, "", apperror.Internal(err)
	}
	return u, token, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateRole changes a user's role. Only admins reach this path.
func (s *Service) UpdateRole(ctx context.Context, id string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, apperror.Validation(apperror.FieldError{Field: "role", Message: "must be one of: user seller admin"})
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return domain.User{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
