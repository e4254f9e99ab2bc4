package ports

import (
	"context"
	"time"

	"github.com/civicgate/portal/internal/core/domain"
)

// UserPatch is a partial update applied to a stored user. Nil fields are
// left untouched. PasswordHash must already be hashed by the caller.
type UserPatch struct {
	PasswordHash       *string
	Gender             *string
	Role               *string
	ProfilePic         *string
	LoggedIn           *bool
	Active             *bool
	LastLoginAt        *time.Time
	GoogleAccessToken  *string
	GoogleRefreshToken *string
}

// UserRepository defines the persistence interface for user records.
// Find* methods return domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	CountAll(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
