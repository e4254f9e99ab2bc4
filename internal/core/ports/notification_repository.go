package ports

import (
	"context"

	"github.com/civicgate/portal/internal/core/domain"
)

// NotificationRepository defines the persistence interface for notifications.
// Visibility queries match notifications tagged with the exact role or the
// "All" wildcard.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindVisibleToRole(ctx context.Context, role string, limit int64) ([]domain.Notification, error)
	CountVisibleToRole(ctx context.Context, role string) (int64, error)
}
