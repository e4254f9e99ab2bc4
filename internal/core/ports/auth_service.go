package ports

import (
	"context"

	"github.com/civicgate/portal/internal/core/domain"
)

// ExternalIdentity is the profile returned by an OAuth provider after a
// successful code exchange.
type ExternalIdentity struct {
	Provider     string
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Picture      string
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned when a session reaches the authenticated state.
type LoginResult struct {
	User  *domain.User
	Token string
}

// GoogleLoginResult distinguishes completed logins from first logins that
// still need profile completion. Token is empty while the profile is
// incomplete; it is only issued once the session is fully authenticated.
type GoogleLoginResult struct {
	User            *domain.User
	Token           string
	ProfileComplete bool
}

type AuthService interface {
	Register(ctx context.Context, in NewUserInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GoogleLogin(ctx context.Context, ident ExternalIdentity) (*GoogleLoginResult, error)
	CompleteProfile(ctx context.Context, userID, gender, role string) (*LoginResult, error)
}
