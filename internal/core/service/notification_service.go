package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/civicgate/portal/internal/api/metrics"
	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

// feedLimit caps the number of notifications returned per feed query. The
// total match count is reported separately.
const feedLimit = 10

// NotificationService implements notification creation and the role-visible
// feed.
type NotificationService struct {
	repo  ports.NotificationRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, users ports.UserRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, log: log}
}

// Insert persists a notification, defaulting severity to Info when
// unspecified.
func (s *NotificationService) Insert(ctx context.Context, in ports.NewNotificationInput) (*domain.Notification, error) {
	severity := in.Severity
	if severity == "" {
		severity = domain.SeverityInfo
	}
	if !domain.ValidSeverity(severity) {
		return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrNotificationInvalid, in.Severity)
	}

	n := &domain.Notification{
		Message:        in.Message,
		Icon:           in.Icon,
		CreatedByRole:  in.CreatedByRole,
		VisibleToRoles: in.VisibleToRoles,
		Severity:       severity,
	}

	created, err := s.repo.Insert(ctx, n)
	if err != nil {
		return nil, err
	}

	metrics.NotificationsCreatedTotal.WithLabelValues(severity).Inc()
	return created, nil
}

// GetByUserID resolves the user's current role and returns the 10 newest
// notifications visible to it, plus the total number of matches.
func (s *NotificationService) GetByUserID(ctx context.Context, userID string) (*ports.NotificationFeed, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.FindVisibleToRole(ctx, user.Role, feedLimit)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountVisibleToRole(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return &ports.NotificationFeed{Notifications: notifications, TotalCount: total}, nil
}
