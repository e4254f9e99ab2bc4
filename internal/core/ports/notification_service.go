package ports

import (
	"context"

	"github.com/civicgate/portal/internal/core/domain"
)

// NewNotificationInput carries the fields for notification creation.
// Severity defaults to Info when empty.
type NewNotificationInput struct {
	Message        string
	Icon           string
	CreatedByRole  string
	VisibleToRoles []string
	Severity       string
}

// NotificationFeed is a page of notifications plus the total number of
// matches, not just the number returned.
type NotificationFeed struct {
	Notifications []domain.Notification `json:"notifications"`
	TotalCount    int64                 `json:"totalCount"`
}

type NotificationService interface {
	Insert(ctx context.Context, in NewNotificationInput) (*domain.Notification, error)
	GetByUserID(ctx context.Context, userID string) (*NotificationFeed, error)
}
