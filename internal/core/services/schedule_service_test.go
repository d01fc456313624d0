package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"geomaqui-os/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 15, 14, 30, 0, 0, time.Local)

func newScheduleService(t *testing.T) *ScheduleService {
	t.Helper()
	store, _ := newTestStore(t)
	svc := NewScheduleService(store)
	svc.SetNowFunc(func() time.Time { return testNow })
	return svc
}

func bookingInput() *CreateScheduleInput {
	return &CreateScheduleInput{
		ClientName:      "Dona Maria",
		ClientPhone:     "86999887766",
		ClientAddress:   "Rua das Flores",
		ClientNumber:    "120",
		AppointmentDate: "2026-06-20",
		AppointmentTime: "09:00",
		TechnicianID:    "tech-1",
		Description:     "Geladeira não gela",
	}
}

func TestCreateSchedule(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	assert.NotEmpty(t, sched.ID)
	assert.Equal(t, domain.StatusPending, sched.Status)
	assert.Equal(t, "tech-1", sched.TechnicianID)
	assert.Equal(t, "Carlos", sched.TechnicianName)
	assert.Equal(t, "att-1", sched.AttendantID)
	assert.Equal(t, "Ana", sched.AttendantName)
	assert.Empty(t, sched.Transfers)
	assert.Empty(t, sched.CompletionDate)
}

func TestCreateScheduleValidation(t *testing.T) {
	svc := newScheduleService(t)

	tests := []struct {
		name    string
		mutate  func(*CreateScheduleInput)
		wantErr error
	}{
		{"missing client name", func(in *CreateScheduleInput) { in.ClientName = " " }, domain.ErrMissingFields},
		{"missing phone", func(in *CreateScheduleInput) { in.ClientPhone = "" }, domain.ErrMissingFields},
		{"missing description", func(in *CreateScheduleInput) { in.Description = "" }, domain.ErrMissingFields},
		{"no technician selected", func(in *CreateScheduleInput) { in.TechnicianID = "" }, domain.ErrMissingSelection},
		{"unknown technician", func(in *CreateScheduleInput) { in.TechnicianID = "nope" }, domain.ErrMissingSelection},
		{"attendant is not a technician", func(in *CreateScheduleInput) { in.TechnicianID = "att-1" }, domain.ErrMissingSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := bookingInput()
			tt.mutate(in)
			_, err := svc.Create(context.Background(), attActor, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScheduleLifecycle(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	// Accept
	sched, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, sched.Status)

	// Accept twice is rejected
	_, err = svc.Accept(context.Background(), techActor, sched.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Conclude
	sched, err = svc.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{
		WorkDoneDescription: "Troca do termostato",
		FinalValue:          250,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConcluded, sched.Status)
	assert.Equal(t, 250.0, sched.FinalValue)
	assert.Equal(t, "15/06/2026", sched.CompletionDate)

	// Concluded is terminal
	_, err = svc.Accept(context.Background(), techActor, sched.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = svc.Transfer(context.Background(), techActor, sched.ID, &TransferInput{ToTechnicianID: "tech-2", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRescheduleAndResume(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	// Cannot reschedule before accepting
	_, err = svc.Reschedule(context.Background(), techActor, sched.ID, &RescheduleInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)

	sched, err = svc.Reschedule(context.Background(), techActor, sched.ID, &RescheduleInput{
		AppointmentDate: "2026-06-25",
		AppointmentTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRescheduled, sched.Status)
	assert.Equal(t, "2026-06-25", sched.AppointmentDate)
	assert.Equal(t, "14:00", sched.AppointmentTime)

	// Cannot conclude while parked
	_, err = svc.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{WorkDoneDescription: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Accepting again resumes the lifecycle
	sched, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, sched.Status)
}

func TestConcludeValidation(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)

	_, err = svc.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{WorkDoneDescription: " "})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{
		WorkDoneDescription: "ok",
		FinalValue:          -10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// Zero is a valid charge (warranty visits)
	sched, err = svc.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{
		WorkDoneDescription: "Visita em garantia",
		FinalValue:          0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sched.FinalValue)
}

func TestOnlyAssignedTechnicianActs(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	// Another technician cannot even see it
	_, err = svc.Get(tech2Actor, sched.ID)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)

	_, err = svc.Accept(context.Background(), tech2Actor, sched.ID)
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)

	// Admin can act on any schedule
	_, err = svc.Accept(context.Background(), adminActor, sched.ID)
	require.NoError(t, err)
}

func TestTransfer(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	sched, err = svc.Transfer(context.Background(), techActor, sched.ID, &TransferInput{
		ToTechnicianID: "tech-2",
		Reason:         "Férias",
	})
	require.NoError(t, err)

	// Transfer keeps the order pending for the new assignee
	assert.Equal(t, domain.StatusPending, sched.Status)
	assert.Equal(t, "tech-2", sched.TechnicianID)
	assert.Equal(t, "Marcos", sched.TechnicianName)

	require.Len(t, sched.Transfers, 1)
	entry := sched.Transfers[0]
	assert.Equal(t, "tech-1", entry.FromID)
	assert.Equal(t, "Carlos", entry.FromName)
	assert.Equal(t, "tech-2", entry.ToID)
	assert.Equal(t, "Marcos", entry.ToName)
	assert.Equal(t, "Férias", entry.Reason)
	assert.Equal(t, "15/06/2026", entry.Date)
	assert.Equal(t, "14:30:00", entry.Time)

	// History accumulates while the order keeps bouncing
	sched, err = svc.Transfer(context.Background(), tech2Actor, sched.ID, &TransferInput{
		ToTechnicianID: "tech-1",
		Reason:         "Retorno",
	})
	require.NoError(t, err)
	assert.Len(t, sched.Transfers, 2)
	assert.Equal(t, "Férias", sched.Transfers[0].Reason)

	// Once accepted, the order can no longer be handed off
	sched, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, sched.Status)

	_, err = svc.Transfer(context.Background(), techActor, sched.ID, &TransferInput{
		ToTechnicianID: "tech-2",
		Reason:         "Tarde demais",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransferValidation(t *testing.T) {
	svc := newScheduleService(t)

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	_, err = svc.Transfer(context.Background(), techActor, sched.ID, &TransferInput{ToTechnicianID: "tech-2"})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.Transfer(context.Background(), techActor, sched.ID, &TransferInput{ToTechnicianID: "tech-1", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrSelfTransfer)

	_, err = svc.Transfer(context.Background(), techActor, sched.ID, &TransferInput{ToTechnicianID: "att-1", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrMissingSelection)

	_, err = svc.Transfer(context.Background(), techActor, "missing", &TransferInput{ToTechnicianID: "tech-2", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestListScopedByRole(t *testing.T) {
	svc := newScheduleService(t)

	_, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	in2 := bookingInput()
	in2.TechnicianID = "tech-2"
	_, err = svc.Create(context.Background(), attActor, in2)
	require.NoError(t, err)

	assert.Len(t, svc.List(adminActor, ""), 2)
	assert.Len(t, svc.List(attActor, ""), 2)
	assert.Len(t, svc.List(techActor, ""), 1)
	assert.Len(t, svc.List(tech2Actor, ""), 1)

	assert.Len(t, svc.List(adminActor, "PENDING"), 2)
	assert.Len(t, svc.List(adminActor, "CONCLUDED"), 0)
}

func TestMutationFailsWhenPersistFails(t *testing.T) {
	store, p := newTestStore(t)
	svc := NewScheduleService(store)
	svc.SetNowFunc(func() time.Time { return testNow })

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)

	p.FailNext = true
	p.FailErr = errors.New("db down")

	_, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.Error(t, err)

	// The schedule must still be PENDING
	got, err := svc.Get(techActor, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestScheduleOpsEmitNotifications(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewScheduleService(store)
	svc.SetNowFunc(func() time.Time { return testNow })

	sched, err := svc.Create(context.Background(), attActor, bookingInput())
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), techActor, sched.ID)
	require.NoError(t, err)
	_, err = svc.Conclude(context.Background(), techActor, sched.ID, &ConcludeInput{WorkDoneDescription: "ok", FinalValue: 100})
	require.NoError(t, err)

	snap := store.Snapshot()
	require.Len(t, snap.Notifications, 2) // create + conclude
	for _, n := range snap.Notifications {
		assert.Equal(t, domain.NotifySchedule, n.Type)
		assert.Equal(t, sched.ID, n.RefID)
		assert.False(t, n.Read)
	}
}
