package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicgate/portal/internal/api/metrics"
	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

const defaultProfilePic = "/images/logo.png"

// NotificationEmitter abstracts the background notification queue. Emit is
// fire-and-forget: failures never reach the login path.
type NotificationEmitter interface {
	Emit(in ports.NewNotificationInput)
}

// AuthService orchestrates local and Google login, profile completion, and
// token issuance.
type AuthService struct {
	repo      ports.UserRepository
	users     ports.UserService
	emitter   NotificationEmitter
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	users ports.UserService,
	emitter NotificationEmitter,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		repo:      repo,
		users:     users,
		emitter:   emitter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates a local account. Validation, hashing, and the admin-active
// policy all happen in the user service.
func (s *AuthService) Register(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	return s.users.Create(ctx, in)
}

// Login authenticates an email/password pair and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("local", "failure").Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("local", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err = s.markLoggedIn(ctx, user.ID, ports.UserPatch{})
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("local", "success").Inc()
	s.emitLoginNotification(user)
	return &ports.LoginResult{User: user, Token: token}, nil
}

// GoogleLogin handles the identity returned by the provider callback. First
// logins create a placeholder account and report an incomplete profile;
// repeat logins refresh the stored picture and provider tokens. A token is
// only issued once the profile is complete.
func (s *AuthService) GoogleLogin(ctx context.Context, ident ports.ExternalIdentity) (*ports.GoogleLoginResult, error) {
	patch := ports.UserPatch{}

	user, err := s.repo.FindByGoogleID(ctx, ident.ID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		pic := ident.Picture
		if pic == "" {
			pic = defaultProfilePic
		}
		user, err = s.users.Create(ctx, ports.NewUserInput{
			GoogleID:   ident.ID,
			Email:      ident.Email,
			Password:   randomPassword(),
			FirstName:  ident.FirstName,
			LastName:   ident.LastName,
			ProfilePic: pic,
		})
		if err != nil {
			metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
			return nil, err
		}
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("google", "failure").Inc()
		return nil, err
	default:
		if ident.Picture != "" {
			patch.ProfilePic = &ident.Picture
		}
		if ident.AccessToken != "" {
			patch.GoogleAccessToken = &ident.AccessToken
		}
		if ident.RefreshToken != "" {
			patch.GoogleRefreshToken = &ident.RefreshToken
		}
	}

	user, err = s.markLoggedIn(ctx, user.ID, patch)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("google", "success").Inc()

	if !user.ProfileComplete() {
		return &ports.GoogleLoginResult{User: user}, nil
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.emitLoginNotification(user)
	return &ports.GoogleLoginResult{User: user, Token: token, ProfileComplete: true}, nil
}

// CompleteProfile finishes first-login setup for a pending user: persists
// gender and role, then authenticates the session.
func (s *AuthService) CompleteProfile(ctx context.Context, userID, gender, role string) (*ports.LoginResult, error) {
	if len(userID) != 24 {
		return nil, fmt.Errorf("%w: invalid user id format", domain.ErrValidation)
	}
	if !domain.ValidGender(gender) {
		return nil, fmt.Errorf("%w: unknown gender %q", domain.ErrValidation, gender)
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	user, err := s.users.Update(ctx, userID, ports.UpdateUserInput{Gender: &gender, Role: &role})
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.emitLoginNotification(user)
	return &ports.LoginResult{User: user, Token: token}, nil
}

// markLoggedIn stamps login state on top of any pending patch.
func (s *AuthService) markLoggedIn(ctx context.Context, userID string, patch ports.UserPatch) (*domain.User, error) {
	loggedIn := true
	now := time.Now().UTC()
	patch.LoggedIn = &loggedIn
	patch.LastLoginAt = &now
	return s.repo.Update(ctx, userID, patch)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID,
		"exp":    time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// emitLoginNotification queues an Admin-visible login notification.
func (s *AuthService) emitLoginNotification(user *domain.User) {
	s.emitter.Emit(ports.NewNotificationInput{
		Message:        fmt.Sprintf("%s %s logged in successfully.", user.Role, user.FirstName),
		Icon:           "fas fa-sign-in-alt",
		CreatedByRole:  user.Role,
		VisibleToRoles: []string{domain.RoleAdmin},
		Severity:       domain.SeverityAlert,
	})
}

// randomPassword generates a placeholder credential for provider-only
// accounts. It is hashed like any other password and never used to log in.
func randomPassword() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
