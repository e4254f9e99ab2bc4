package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicgate/portal/internal/api/metrics"
	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

// userSchema is the validation shape applied before any user write. Kept
// separate from domain.User so validation is an explicit pass, not a
// save-time side effect.
type userSchema struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"omitempty,min=6"`
	Gender     string `validate:"omitempty,oneof=Male Female Other"`
	Role       string `validate:"omitempty,oneof=Admin Officer Citizen"`
	ProfilePic string `validate:"omitempty,uri"`
}

// UserService implements user CRUD with explicit validation and hashing.
type UserService struct {
	repo     ports.UserRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (s *UserService) Create(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	schema := userSchema{
		Email:      in.Email,
		Password:   in.Password,
		Gender:     in.Gender,
		Role:       in.Role,
		ProfilePic: in.ProfilePic,
	}
	if err := s.validate.Struct(schema); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	// A credential is required unless the account authenticates through Google.
	if in.Password == "" && in.GoogleID == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		GoogleID:     in.GoogleID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       in.Gender,
		Role:         in.Role,
		ProfilePic:   in.ProfilePic,
		LoggedIn:     in.LoggedIn,
		Active:       in.Active,
		LastLoginAt:  in.LastLoginAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	domain.ApplyRolePolicy(user)

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(roleLabel(created.Role)).Inc()
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	var schema userSchema
	if in.Password != nil {
		schema.Password = *in.Password
	}
	if in.Gender != nil {
		schema.Gender = *in.Gender
	}
	if in.Role != nil {
		schema.Role = *in.Role
	}
	if in.ProfilePic != nil {
		schema.ProfilePic = *in.ProfilePic
	}
	// Email is immutable after registration, so it is excluded on updates.
	if err := s.validate.StructExcept(schema, "Email"); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	patch := ports.UserPatch{
		Gender:      in.Gender,
		Role:        in.Role,
		ProfilePic:  in.ProfilePic,
		LoggedIn:    in.LoggedIn,
		Active:      in.Active,
		LastLoginAt: in.LastLoginAt,
	}

	// Touching the password always re-hashes with a fresh salt.
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	if in.Role != nil {
		policied := domain.User{Role: *in.Role, Active: boolValue(in.Active)}
		domain.ApplyRolePolicy(&policied)
		patch.Active = &policied.Active
	}

	return s.repo.Update(ctx, id, patch)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	return s.repo.ListByRole(ctx, role)
}

// Stats returns the total user count plus per-role counts.
func (s *UserService) Stats(ctx context.Context) (*ports.UserStats, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	byRole := make(map[string]int64, 3)
	for _, role := range []string{domain.RoleAdmin, domain.RoleOfficer, domain.RoleCitizen} {
		n, err := s.repo.CountByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		byRole[role] = n
	}

	return &ports.UserStats{Total: total, ByRole: byRole}, nil
}

func hashPassword(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func roleLabel(role string) string {
	if role == "" {
		return "unset"
	}
	return role
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
