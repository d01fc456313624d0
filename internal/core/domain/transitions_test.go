package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current ScheduleStatus
		action  Action
		want    ScheduleStatus
		wantErr bool
	}{
		{"pending accept", StatusPending, ActionAccept, StatusAccepted, false},
		{"pending transfer stays pending", StatusPending, ActionTransfer, StatusPending, false},
		{"pending conclude rejected", StatusPending, ActionConclude, "", true},
		{"pending reschedule rejected", StatusPending, ActionReschedule, "", true},
		{"accepted conclude", StatusAccepted, ActionConclude, StatusConcluded, false},
		{"accepted reschedule", StatusAccepted, ActionReschedule, StatusRescheduled, false},
		{"accepted transfer rejected", StatusAccepted, ActionTransfer, "", true},
		{"accepted accept rejected", StatusAccepted, ActionAccept, "", true},
		{"rescheduled accept resumes", StatusRescheduled, ActionAccept, StatusAccepted, false},
		{"rescheduled transfer rejected", StatusRescheduled, ActionTransfer, "", true},
		{"rescheduled conclude rejected", StatusRescheduled, ActionConclude, "", true},
		{"concluded is terminal", StatusConcluded, ActionAccept, "", true},
		{"concluded transfer rejected", StatusConcluded, ActionTransfer, "", true},
		{"cancelled is terminal", StatusCancelled, ActionAccept, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStatus(tt.current, tt.action)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, Schedule{Status: StatusConcluded}.IsTerminal())
	assert.True(t, Schedule{Status: StatusCancelled}.IsTerminal())
	assert.False(t, Schedule{Status: StatusPending}.IsTerminal())
	assert.False(t, Schedule{Status: StatusAccepted}.IsTerminal())
	assert.False(t, Schedule{Status: StatusRescheduled}.IsTerminal())
}

func TestScheduleCloneIsDeep(t *testing.T) {
	orig := Schedule{
		ID:     "s1",
		Status: StatusPending,
		Transfers: []TransferHistory{
			{FromID: "a", ToID: "b", Reason: "folga"},
		},
	}

	cloned := orig.Clone()
	cloned.Transfers[0].Reason = "changed"
	cloned.Transfers = append(cloned.Transfers, TransferHistory{FromID: "b", ToID: "c"})

	assert.Equal(t, "folga", orig.Transfers[0].Reason)
	assert.Len(t, orig.Transfers, 1)
}

func TestAppStateLookups(t *testing.T) {
	st := AppState{
		Users: []User{
			{ID: "u1", Email: "Admin@Click.com"},
			{ID: "u2", Email: "tech@click.com"},
		},
		Schedules: []Schedule{{ID: "s1"}},
	}

	assert.NotNil(t, st.UserByID("u2"))
	assert.Nil(t, st.UserByID("missing"))

	// Lookup is case-insensitive
	assert.Equal(t, "u1", st.UserByEmail("admin@click.com").ID)
	assert.Nil(t, st.UserByEmail("nobody@click.com"))

	assert.NotNil(t, st.ScheduleByID("s1"))
	assert.Nil(t, st.ScheduleByID("missing"))
}

func TestParseDateBR(t *testing.T) {
	got, err := ParseDateBR("25/12/2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, 12, int(got.Month()))
	assert.Equal(t, 25, got.Day())

	// The layout is fixed dd/mm/yyyy, never mm/dd
	_, err = ParseDateBR("12/25/2025")
	assert.Error(t, err)

	_, err = ParseDateBR("2025-12-25")
	assert.Error(t, err)

	_, err = ParseDateBR("")
	assert.Error(t, err)
}
