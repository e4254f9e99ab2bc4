package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
		if user.GoogleID != "" && u.GoogleID == user.GoogleID {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.seq++
	copy.ID = fmt.Sprintf("%024x", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Gender != nil {
		u.Gender = *patch.Gender
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.ProfilePic != nil {
		u.ProfilePic = *patch.ProfilePic
	}
	if patch.LoggedIn != nil {
		u.LoggedIn = *patch.LoggedIn
	}
	if patch.Active != nil {
		u.Active = *patch.Active
	}
	if patch.LastLoginAt != nil {
		t := *patch.LastLoginAt
		u.LastLoginAt = &t
	}
	if patch.GoogleAccessToken != nil {
		u.GoogleAccessToken = *patch.GoogleAccessToken
	}
	if patch.GoogleRefreshToken != nil {
		u.GoogleRefreshToken = *patch.GoogleRefreshToken
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, role string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type stubNotificationRepo struct {
	notifications []domain.Notification
	seq           int
	insertErr     error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{}
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.seq++
	created := *n
	created.ID = fmt.Sprintf("%024x", r.seq)
	created.CreatedAt = time.Unix(int64(r.seq), 0).UTC()
	r.notifications = append(r.notifications, created)
	return &created, nil
}

func (r *stubNotificationRepo) FindVisibleToRole(_ context.Context, role string, limit int64) ([]domain.Notification, error) {
	var matched []domain.Notification
	for _, n := range r.notifications {
		if n.VisibleTo(role) {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *stubNotificationRepo) CountVisibleToRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, notif := range r.notifications {
		if notif.VisibleTo(role) {
			n++
		}
	}
	return n, nil
}

// stubEmitter records emitted notifications synchronously.
type stubEmitter struct {
	emitted []ports.NewNotificationInput
}

func (e *stubEmitter) Emit(in ports.NewNotificationInput) {
	e.emitted = append(e.emitted, in)
}
