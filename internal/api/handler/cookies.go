package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civicgate/portal/internal/core/domain"
)

// sessionCookieNames is the full cookie set owned by the auth flow; logout
// clears every one of them regardless of which were set.
var sessionCookieNames = []string{
	"token", "email", "userId", "firstName", "lastName", "gender", "role",
	"profilePic", "totalUsersCookie", "loggedIn", "lastLoginAt",
}

// setSessionCookies materializes the authenticated session: the signed token
// (HTTP-only) plus non-sensitive profile attributes the dashboard client
// branches on without a server round-trip.
func setSessionCookies(c echo.Context, user *domain.User, token string) {
	setCookie(c, "token", token, true)
	setCookie(c, "userId", user.ID, false)
	setCookie(c, "firstName", user.FirstName, false)
	setCookie(c, "lastName", user.LastName, false)
	setCookie(c, "email", user.Email, false)
	setCookie(c, "gender", user.Gender, false)
	setCookie(c, "role", user.Role, false)
	setCookie(c, "profilePic", user.ProfilePic, false)
	setCookie(c, "loggedIn", strconv.FormatBool(user.LoggedIn), false)

	if user.LastLoginAt != nil {
		setCookie(c, "lastLoginAt", user.LastLoginAt.Format(time.RFC3339), false)
	}
}

func setCookie(c echo.Context, name, value string, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Secure:   true,
		HttpOnly: httpOnly,
	})
}

func clearSessionCookies(c echo.Context) {
	for _, name := range sessionCookieNames {
		c.SetCookie(&http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}
