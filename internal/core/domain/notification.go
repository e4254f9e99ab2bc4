package domain

import (
	"errors"
	"time"
)

// Severity levels for notifications.
const (
	SeverityInfo    = "Info"
	SeverityWarning = "Warning"
	SeverityAlert   = "Alert"
)

// VisibilityAll is the wildcard visibility tag matching every role.
const VisibilityAll = "All"

var ErrNotificationInvalid = errors.New("invalid notification")

// Notification is an immutable event record shown on role dashboards.
// CreatedByRole is a snapshot of the creator's role at emission time; there
// is no live link back to the user.
type Notification struct {
	ID             string    `json:"id"`
	Message        string    `json:"message"`
	Icon           string    `json:"icon,omitempty"`
	CreatedByRole  string    `json:"created_by_role,omitempty"`
	VisibleToRoles []string  `json:"visible_to_roles"`
	Severity       string    `json:"severity"`
	CreatedAt      time.Time `json:"created_at"`
}

// VisibleTo reports whether a user with the given role may see the
// notification. An empty VisibleToRoles list matches no one.
func (n *Notification) VisibleTo(role string) bool {
	for _, r := range n.VisibleToRoles {
		if r == role || r == VisibilityAll {
			return true
		}
	}
	return false
}

// ValidSeverity reports whether s is a known severity level.
func ValidSeverity(s string) bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityAlert
}
