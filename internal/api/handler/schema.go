package handler

import "github.com/civicgate/portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// msgResponse mirrors the original dashboard client contract ({"msg": ...}).
type msgResponse struct {
	Msg string `json:"msg"`
}

// --- Request types ---

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Role      string `json:"role"   validate:"omitempty,oneof=Admin Officer Citizen"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// completeProfileRequest accepts both the JSON API shape and the HTML form
// posted by the completion page.
type completeProfileRequest struct {
	UserID string `json:"userId" form:"userId" validate:"required,len=24"`
	Gender string `json:"gender" form:"gender" validate:"required,oneof=Male Female Other"`
	Role   string `json:"role"   form:"role"   validate:"required,oneof=Admin Officer Citizen"`
}

// --- Response types ---

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type roleResponse struct {
	Role string `json:"role"`
}
