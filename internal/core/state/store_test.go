package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSeedsWhenEmpty(t *testing.T) {
	p := NewMemoryPersister()
	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	snap := store.Snapshot()
	require.Len(t, snap.Users, 1)

	admin := snap.Users[0]
	assert.Equal(t, domain.SeedAdminID, admin.ID)
	assert.Equal(t, SeedAdminEmail, admin.Email)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, password.Verify(SeedAdminPassword, admin.Password))

	// The seed itself must already be persisted
	data, err := p.Load(context.Background())
	require.NoError(t, err)
	var stored domain.AppState
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Len(t, stored.Users, 1)
}

func TestOpenSeedsOnUnreadableBlob(t *testing.T) {
	p := NewMemoryPersister()
	require.NoError(t, p.Save(context.Background(), []byte("not json at all")))

	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	snap := store.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, domain.SeedAdminID, snap.Users[0].ID)
}

func TestOpenLoadsExistingState(t *testing.T) {
	seed := domain.AppState{
		Users: []domain.User{
			{ID: "admin-1", Email: "admin@click.com", Role: domain.RoleAdmin},
			{ID: "t1", Email: "tech@click.com", Role: domain.RoleTechnician},
		},
		Schedules: []domain.Schedule{
			{ID: "s1", Status: domain.StatusAccepted, TechnicianID: "t1"},
		},
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)

	p := NewMemoryPersister()
	require.NoError(t, p.Save(context.Background(), data))

	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Len(t, snap.Users, 2)
	require.Len(t, snap.Schedules, 1)
	assert.Equal(t, domain.StatusAccepted, snap.Schedules[0].Status)
}

func TestOpenRepairsDanglingCurrentUser(t *testing.T) {
	seed := domain.AppState{
		Users:         []domain.User{{ID: "admin-1", Role: domain.RoleAdmin}},
		CurrentUserID: "gone",
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)

	p := NewMemoryPersister()
	require.NoError(t, p.Save(context.Background(), data))

	store, err := Open(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, store.Snapshot().CurrentUserID)
}

func TestOpenRepairsUnknownStatus(t *testing.T) {
	seed := domain.AppState{
		Users:     []domain.User{{ID: "admin-1", Role: domain.RoleAdmin}},
		Schedules: []domain.Schedule{{ID: "s1", Status: "WAT"}},
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)

	p := NewMemoryPersister()
	require.NoError(t, p.Save(context.Background(), data))

	store, err := Open(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, store.Snapshot().Schedules[0].Status)
}

func TestUpdatePersistsWholeSnapshot(t *testing.T) {
	p := NewMemoryPersister()
	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	_, err = store.Update(context.Background(), func(st *domain.AppState) error {
		st.Schedules = append(st.Schedules, domain.Schedule{ID: "s1", Status: domain.StatusPending})
		return nil
	})
	require.NoError(t, err)

	data, err := p.Load(context.Background())
	require.NoError(t, err)
	var stored domain.AppState
	require.NoError(t, json.Unmarshal(data, &stored))

	// The blob carries every collection, not a delta
	assert.Len(t, stored.Users, 1)
	assert.Len(t, stored.Schedules, 1)
}

func TestUpdateAbortsOnPersistFailure(t *testing.T) {
	p := NewMemoryPersister()
	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	p.FailNext = true
	p.FailErr = errors.New("disk full")

	_, err = store.Update(context.Background(), func(st *domain.AppState) error {
		st.Schedules = append(st.Schedules, domain.Schedule{ID: "s1"})
		return nil
	})
	require.Error(t, err)

	// In-memory state must be untouched after a failed write
	assert.Empty(t, store.Snapshot().Schedules)
}

func TestUpdateAbortsWhenFnFails(t *testing.T) {
	p := NewMemoryPersister()
	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	boom := errors.New("validation failed")
	_, err = store.Update(context.Background(), func(st *domain.AppState) error {
		st.Schedules = append(st.Schedules, domain.Schedule{ID: "s1"})
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.Snapshot().Schedules)
}

func TestSnapshotIsIsolated(t *testing.T) {
	p := NewMemoryPersister()
	store, err := Open(context.Background(), p)
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.Users[0].Name = "hacked"
	snap.Users = append(snap.Users, domain.User{ID: "extra"})

	fresh := store.Snapshot()
	assert.NotEqual(t, "hacked", fresh.Users[0].Name)
	assert.Len(t, fresh.Users, 1)
}
