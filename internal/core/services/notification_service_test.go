package services

import (
	"context"
	"testing"

	"geomaqui-os/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T) *NotificationService {
	t.Helper()
	store, _ := newTestStore(t)

	_, err := store.Update(context.Background(), func(st *domain.AppState) error {
		st.AddNotification("n1", "Nova OS", "OS criada para Carlos", domain.NotifySchedule, "os-1", "10:00:00")
		st.AddNotification("n2", "OS Concluída", "Carlos concluiu a OS", domain.NotifySchedule, "os-1", "11:00:00")
		st.AddNotification("n3", "Venda", "Venda registrada por Ana", domain.NotifySale, "sale-1", "12:00:00")
		return nil
	})
	require.NoError(t, err)

	return NewNotificationService(store)
}

func TestListNotifications(t *testing.T) {
	svc := seedNotifications(t)

	all := svc.List(false)
	require.Len(t, all, 3)
	// Newest first
	assert.Equal(t, "n3", all[0].ID)
	assert.Equal(t, "n1", all[2].ID)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	svc := seedNotifications(t)

	assert.Equal(t, 3, svc.UnreadCount())

	require.NoError(t, svc.MarkRead(context.Background(), "n2"))
	assert.Equal(t, 2, svc.UnreadCount())

	unread := svc.List(true)
	require.Len(t, unread, 2)
	for _, n := range unread {
		assert.NotEqual(t, "n2", n.ID)
	}
}

func TestMarkReadUnknownID(t *testing.T) {
	svc := seedNotifications(t)

	err := svc.MarkRead(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestMarkAllRead(t *testing.T) {
	svc := seedNotifications(t)

	require.NoError(t, svc.MarkAllRead(context.Background()))
	assert.Equal(t, 0, svc.UnreadCount())
	assert.Empty(t, svc.List(true))
	assert.Len(t, svc.List(false), 3)
}
