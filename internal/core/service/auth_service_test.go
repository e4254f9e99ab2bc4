package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

func newAuthFixture() (*AuthService, *stubUserRepo, *stubEmitter) {
	repo := newStubUserRepo()
	users := NewUserService(repo, zerolog.Nop())
	emitter := &stubEmitter{}
	svc := NewAuthService(repo, users, emitter, "secret", time.Hour, zerolog.Nop())
	return svc, repo, emitter
}

func googleIdent() ports.ExternalIdentity {
	return ports.ExternalIdentity{
		Provider:     "google",
		ID:           "google-uid-1",
		Email:        "gina@example.com",
		FirstName:    "Gina",
		LastName:     "Example",
		Picture:      "https://lh3.example.com/photo.jpg",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, emitter := newAuthFixture()

	if _, err := svc.Register(context.Background(), ports.NewUserInput{
		Email:    "carol@example.com",
		Password: "s3cret99",
		Role:     domain.RoleAdmin,
		Gender:   domain.GenderFemale,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if !result.User.LoggedIn {
		t.Fatalf("expected loggedIn=true after login")
	}
	if result.User.LastLoginAt == nil {
		t.Fatalf("expected lastLoginAt to be stamped")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["userId"] != result.User.ID {
		t.Fatalf("expected userId claim %s, got %v", result.User.ID, claims["userId"])
	}

	if len(emitter.emitted) != 1 {
		t.Fatalf("expected one login notification, got %d", len(emitter.emitted))
	}
	n := emitter.emitted[0]
	if len(n.VisibleToRoles) != 1 || n.VisibleToRoles[0] != domain.RoleAdmin {
		t.Fatalf("expected notification visible to Admin, got %v", n.VisibleToRoles)
	}
	if n.CreatedByRole != domain.RoleAdmin {
		t.Fatalf("expected createdByRole snapshot, got %q", n.CreatedByRole)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, emitter := newAuthFixture()

	_, _ = svc.Register(context.Background(), ports.NewUserInput{Email: "dave@example.com", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(emitter.emitted) != 0 {
		t.Fatalf("no notification expected on failed login")
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.Login(context.Background(), "ghost@example.com", "whatever1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_GoogleLogin_FirstLoginCreatesPendingUser(t *testing.T) {
	svc, repo, emitter := newAuthFixture()

	result, err := svc.GoogleLogin(context.Background(), googleIdent())
	if err != nil {
		t.Fatalf("google login failed: %v", err)
	}
	if result.ProfileComplete {
		t.Fatalf("first login should report an incomplete profile")
	}
	if result.Token != "" {
		t.Fatalf("no token should be issued while the profile is incomplete")
	}

	if n, _ := repo.CountAll(context.Background()); n != 1 {
		t.Fatalf("expected exactly one user record, got %d", n)
	}
	user := result.User
	if user.Role != "" || user.Gender != "" {
		t.Fatalf("expected role and gender unset, got %q/%q", user.Role, user.Gender)
	}
	if user.GoogleID != "google-uid-1" {
		t.Fatalf("unexpected google id %q", user.GoogleID)
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected a hashed placeholder credential")
	}
	if !user.LoggedIn || user.LastLoginAt == nil {
		t.Fatalf("expected login state to be stamped on first login")
	}
	if len(emitter.emitted) != 0 {
		t.Fatalf("no notification expected before profile completion")
	}
}

func TestAuthService_GoogleLogin_RepeatLoginRefreshesProfile(t *testing.T) {
	svc, _, emitter := newAuthFixture()

	first, err := svc.GoogleLogin(context.Background(), googleIdent())
	if err != nil {
		t.Fatalf("first google login failed: %v", err)
	}
	if _, err := svc.CompleteProfile(context.Background(), first.User.ID, domain.GenderFemale, domain.RoleOfficer); err != nil {
		t.Fatalf("complete profile failed: %v", err)
	}

	ident := googleIdent()
	ident.Picture = "https://lh3.example.com/new.jpg"
	ident.AccessToken = "access-2"

	second, err := svc.GoogleLogin(context.Background(), ident)
	if err != nil {
		t.Fatalf("second google login failed: %v", err)
	}
	if !second.ProfileComplete {
		t.Fatalf("expected completed profile on repeat login")
	}
	if second.Token == "" {
		t.Fatalf("expected token on repeat login")
	}
	if second.User.ProfilePic != "https://lh3.example.com/new.jpg" {
		t.Fatalf("expected refreshed picture, got %q", second.User.ProfilePic)
	}
	if second.User.GoogleAccessToken != "access-2" {
		t.Fatalf("expected refreshed access token")
	}

	// one notification from completion, one from the repeat login
	if len(emitter.emitted) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(emitter.emitted))
	}
}

func TestAuthService_CompleteProfile_Success(t *testing.T) {
	svc, _, emitter := newAuthFixture()

	first, _ := svc.GoogleLogin(context.Background(), googleIdent())

	result, err := svc.CompleteProfile(context.Background(), first.User.ID, domain.GenderOther, domain.RoleCitizen)
	if err != nil {
		t.Fatalf("complete profile failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token after completion")
	}
	if result.User.Gender != domain.GenderOther || result.User.Role != domain.RoleCitizen {
		t.Fatalf("profile not persisted: %q/%q", result.User.Gender, result.User.Role)
	}
	if len(emitter.emitted) != 1 {
		t.Fatalf("expected a completion notification, got %d", len(emitter.emitted))
	}
}

func TestAuthService_CompleteProfile_AdminForcedActive(t *testing.T) {
	svc, _, _ := newAuthFixture()

	first, _ := svc.GoogleLogin(context.Background(), googleIdent())
	result, err := svc.CompleteProfile(context.Background(), first.User.ID, domain.GenderMale, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("complete profile failed: %v", err)
	}
	if !result.User.Active {
		t.Fatalf("expected admin to be forced active on completion")
	}
}

func TestAuthService_CompleteProfile_MalformedID(t *testing.T) {
	svc, repo, _ := newAuthFixture()

	if _, err := svc.CompleteProfile(context.Background(), "short-id", domain.GenderMale, domain.RoleCitizen); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n, _ := repo.CountAll(context.Background()); n != 0 {
		t.Fatalf("malformed id must not cause a write")
	}
}

func TestAuthService_CompleteProfile_UnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if _, err := svc.CompleteProfile(context.Background(), "0000000000000000000000ff", domain.GenderMale, domain.RoleCitizen); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_CompleteProfile_BadEnums(t *testing.T) {
	svc, _, _ := newAuthFixture()

	first, _ := svc.GoogleLogin(context.Background(), googleIdent())

	if _, err := svc.CompleteProfile(context.Background(), first.User.ID, "Unknown", domain.RoleCitizen); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad gender, got %v", err)
	}
	if _, err := svc.CompleteProfile(context.Background(), first.User.ID, domain.GenderMale, "Overlord"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	repo := newStubUserRepo()
	users := NewUserService(repo, zerolog.Nop())
	svc := NewAuthService(repo, users, &stubEmitter{}, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.NewUserInput{Email: "ttl@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	result, err := svc.Login(context.Background(), "ttl@example.com", "longenough")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	exp, _ := claims["exp"].(float64)
	remaining := time.Until(time.Unix(int64(exp), 0))
	if remaining < 55*time.Minute || remaining > 65*time.Minute {
		t.Fatalf("expected ~1h expiry, got %v", remaining)
	}
}
