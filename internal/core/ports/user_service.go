package ports

import (
	"context"
	"time"

	"github.com/civicgate/portal/internal/core/domain"
)

// NewUserInput carries the caller-supplied fields for user creation.
// Password is plaintext here; the service hashes it before persistence.
type NewUserInput struct {
	Email       string
	Password    string
	GoogleID    string
	FirstName   string
	LastName    string
	Gender      string
	Role        string
	ProfilePic  string
	LoggedIn    bool
	Active      bool
	LastLoginAt *time.Time
}

// UpdateUserInput is a partial user update. Nil fields are not modified.
type UpdateUserInput struct {
	Password    *string
	Gender      *string
	Role        *string
	ProfilePic  *string
	LoggedIn    *bool
	Active      *bool
	LastLoginAt *time.Time
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"by_role"`
}

type UserService interface {
	Create(ctx context.Context, in NewUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	Stats(ctx context.Context) (*UserStats, error)
}
