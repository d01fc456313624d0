package services

import (
	"context"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"
)

// NotificationService handles in-app notifications
type NotificationService struct {
	store *state.Store
}

// NewNotificationService creates a new notification service
func NewNotificationService(store *state.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns notifications, newest first
func (s *NotificationService) List(unreadOnly bool) []domain.Notification {
	snap := s.store.Snapshot()

	out := make([]domain.Notification, 0, len(snap.Notifications))
	for i := len(snap.Notifications) - 1; i >= 0; i-- {
		if unreadOnly && snap.Notifications[i].Read {
			continue
		}
		out = append(out, snap.Notifications[i])
	}
	return out
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount() int {
	snap := s.store.Snapshot()
	count := 0
	for i := range snap.Notifications {
		if !snap.Notifications[i].Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(st *domain.AppState) error {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				st.Notifications[i].Read = true
				return nil
			}
		}
		return domain.ErrNotificationNotFound
	})
	return err
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	_, err := s.store.Update(ctx, func(st *domain.AppState) error {
		for i := range st.Notifications {
			st.Notifications[i].Read = true
		}
		return nil
	})
	return err
}
