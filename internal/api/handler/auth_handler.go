package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/civicgate/portal/internal/core/ports"
)

// StateStore issues and verifies OAuth state parameters (Redis-backed).
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// AuthHandler handles registration, login, the Google OAuth flow, profile
// completion, and logout.
type AuthHandler struct {
	authService ports.AuthService
	provider    ports.IdentityProvider
	states      StateStore
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, provider ports.IdentityProvider, states StateStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		provider:    provider,
		states:      states,
		log:         log,
	}
}

// Register creates a new local account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.NewUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates an email/password pair, sets the session cookies, and
// returns the token.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setSessionCookies(c, result.User, result.Token)
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// GoogleStart redirects the browser to Google's consent screen with a
// server-issued state parameter.
//
// @Summary      Begin Google OAuth login
// @Tags         auth
// @Success      302
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	state, err := h.states.Issue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// GoogleCallback completes the OAuth flow. First logins are redirected to the
// profile-completion page; complete profiles get session cookies and land on
// the dashboard.
//
// @Summary      Google OAuth callback
// @Tags         auth
// @Success      302
// @Failure      401  {object}  errorResponse
// @Router       /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	ctx := c.Request().Context()

	ok, err := h.states.Consume(ctx, c.QueryParam("state"))
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid oauth state")
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization code")
	}

	ident, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.log.Error().Err(err).Msg("google code exchange failed")
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
	}

	result, err := h.authService.GoogleLogin(ctx, *ident)
	if err != nil {
		return err
	}

	if !result.ProfileComplete {
		return c.Redirect(http.StatusFound, "/auth/complete-profile?userId="+result.User.ID)
	}

	setSessionCookies(c, result.User, result.Token)
	msg := url.QueryEscape("Authentication successful! Welcome, " + result.User.FirstName)
	return c.Redirect(http.StatusFound, "/dashboard?message="+msg)
}

// CompleteProfileForm serves the profile-completion page.
func (h *AuthHandler) CompleteProfileForm(c echo.Context) error {
	return c.File("web/pages/auth/complete-profile.html")
}

// CompleteProfile persists the pending user's gender and role, authenticates
// the session, and redirects to the dashboard.
//
// @Summary      Complete first-login profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      completeProfileRequest  true  "Pending user id, gender, and role"
// @Success      302
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/complete-profile [post]
func (h *AuthHandler) CompleteProfile(c echo.Context) error {
	var req completeProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.CompleteProfile(c.Request().Context(), req.UserID, req.Gender, req.Role)
	if err != nil {
		return err
	}

	setSessionCookies(c, result.User, result.Token)
	msg := url.QueryEscape("Profile completed! Welcome, " + result.User.FirstName)
	return c.Redirect(http.StatusFound, "/dashboard?message="+msg)
}

// Logout clears the full session cookie set. Always succeeds, even when no
// session existed.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  msgResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	clearSessionCookies(c)
	return c.JSON(http.StatusOK, msgResponse{Msg: "Logged out successfully"})
}

// Dashboard serves the dashboard shell to authenticated sessions.
func (h *AuthHandler) Dashboard(c echo.Context) error {
	return c.File("web/dashboard/dashboard.html")
}
