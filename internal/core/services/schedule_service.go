package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"

	"github.com/google/uuid"
)

// Actor identifies who performs an operation, taken from the access
// token claims.
type Actor struct {
	ID   string
	Name string
	Role domain.Role
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// ScheduleService handles the service order lifecycle
type ScheduleService struct {
	store *state.Store
	nowFn func() time.Time
}

// NewScheduleService creates a new schedule service
func NewScheduleService(store *state.Store) *ScheduleService {
	return &ScheduleService{store: store, nowFn: time.Now}
}

// SetNowFunc overrides the clock, used in tests
func (s *ScheduleService) SetNowFunc(fn func() time.Time) {
	s.nowFn = fn
}

// ScheduleResponse is a schedule enriched with the technician's name
type ScheduleResponse struct {
	domain.Schedule
	TechnicianName string `json:"technicianName,omitempty"`
}

// CreateScheduleInput represents booking input
type CreateScheduleInput struct {
	ClientName      string `json:"clientName" validate:"required"`
	ClientPhone     string `json:"clientPhone" validate:"required"`
	ClientAddress   string `json:"clientAddress" validate:"required"`
	ClientNumber    string `json:"clientNumber"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	AppointmentTime string `json:"appointmentTime" validate:"required"`
	TechnicianID    string `json:"technicianId" validate:"required"`
	Description     string `json:"description" validate:"required"`
}

// ConcludeInput represents conclusion input
type ConcludeInput struct {
	WorkDoneDescription string  `json:"workDoneDescription" validate:"required"`
	FinalValue          float64 `json:"finalValue"`
}

// RescheduleInput carries the optional new slot
type RescheduleInput struct {
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
}

// TransferInput represents transfer input
type TransferInput struct {
	ToTechnicianID string `json:"toTechnicianId" validate:"required"`
	Reason         string `json:"reason" validate:"required"`
}

// Create books a new service order, assigned to a technician and
// starting as PENDING
func (s *ScheduleService) Create(ctx context.Context, actor Actor, input *CreateScheduleInput) (*ScheduleResponse, error) {
	// 1. Required fields
	if strings.TrimSpace(input.ClientName) == "" ||
		strings.TrimSpace(input.ClientPhone) == "" ||
		strings.TrimSpace(input.ClientAddress) == "" ||
		strings.TrimSpace(input.AppointmentDate) == "" ||
		strings.TrimSpace(input.AppointmentTime) == "" ||
		strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingFields
	}
	if strings.TrimSpace(input.TechnicianID) == "" {
		return nil, domain.ErrMissingSelection
	}

	now := s.nowFn()
	sched := domain.Schedule{
		ID:              uuid.New().String(),
		ClientName:      strings.TrimSpace(input.ClientName),
		ClientPhone:     strings.TrimSpace(input.ClientPhone),
		ClientAddress:   strings.TrimSpace(input.ClientAddress),
		ClientNumber:    strings.TrimSpace(input.ClientNumber),
		AppointmentDate: input.AppointmentDate,
		AppointmentTime: input.AppointmentTime,
		TechnicianID:    input.TechnicianID,
		AttendantID:     actor.ID,
		AttendantName:   actor.Name,
		Description:     strings.TrimSpace(input.Description),
		Status:          domain.StatusPending,
		Transfers:       []domain.TransferHistory{},
	}

	var techName string
	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		// 2. Technician must exist and actually be a technician
		tech := st.UserByID(input.TechnicianID)
		if tech == nil || tech.Role != domain.RoleTechnician {
			return domain.ErrMissingSelection
		}
		techName = tech.Name

		st.Schedules = append(st.Schedules, sched)
		st.AddNotification(
			uuid.New().String(),
			"Nova OS",
			fmt.Sprintf("OS para %s atribuída a %s", sched.ClientName, tech.Name),
			domain.NotifySchedule,
			sched.ID,
			now.Format(time.RFC3339),
		)
		return nil
	}); err != nil {
		return nil, err
	}

	log.Printf("✅ Schedule created: %s → technician %s", sched.ID, input.TechnicianID)
	return &ScheduleResponse{Schedule: sched, TechnicianName: techName}, nil
}

// Get returns a single schedule. Technicians can only see their own.
func (s *ScheduleService) Get(actor Actor, id string) (*ScheduleResponse, error) {
	snap := s.store.Snapshot()
	sched := snap.ScheduleByID(id)
	if sched == nil {
		return nil, domain.ErrScheduleNotFound
	}
	if actor.Role == domain.RoleTechnician && sched.TechnicianID != actor.ID {
		return nil, domain.ErrScheduleNotFound
	}
	return s.toResponse(&snap, sched), nil
}

// List returns schedules visible to the actor, newest first.
// Technicians see only their own assignments.
func (s *ScheduleService) List(actor Actor, statusFilter string) []*ScheduleResponse {
	snap := s.store.Snapshot()

	out := make([]*ScheduleResponse, 0, len(snap.Schedules))
	for i := len(snap.Schedules) - 1; i >= 0; i-- {
		sched := &snap.Schedules[i]
		if actor.Role == domain.RoleTechnician && sched.TechnicianID != actor.ID {
			continue
		}
		if statusFilter != "" && !strings.EqualFold(string(sched.Status), statusFilter) {
			continue
		}
		out = append(out, s.toResponse(&snap, sched))
	}
	return out
}

// Accept moves a schedule to ACCEPTED. Only the assigned technician
// (or an admin) may accept.
func (s *ScheduleService) Accept(ctx context.Context, actor Actor, id string) (*ScheduleResponse, error) {
	return s.mutate(ctx, id, func(st *domain.AppState, sched *domain.Schedule) error {
		if !actor.IsAdmin() && sched.TechnicianID != actor.ID {
			return domain.ErrScheduleNotFound
		}
		next, err := domain.NextStatus(sched.Status, domain.ActionAccept)
		if err != nil {
			return err
		}
		sched.Status = next
		return nil
	})
}

// Conclude finishes an accepted schedule, recording the technical
// report and the charged value. The completion date is stamped in
// dd/mm/yyyy and drives every earnings window afterwards.
func (s *ScheduleService) Conclude(ctx context.Context, actor Actor, id string, input *ConcludeInput) (*ScheduleResponse, error) {
	if strings.TrimSpace(input.WorkDoneDescription) == "" {
		return nil, domain.ErrMissingFields
	}
	if input.FinalValue < 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.nowFn()
	return s.mutate(ctx, id, func(st *domain.AppState, sched *domain.Schedule) error {
		if !actor.IsAdmin() && sched.TechnicianID != actor.ID {
			return domain.ErrScheduleNotFound
		}
		next, err := domain.NextStatus(sched.Status, domain.ActionConclude)
		if err != nil {
			return err
		}

		sched.Status = next
		sched.WorkDoneDescription = strings.TrimSpace(input.WorkDoneDescription)
		sched.FinalValue = input.FinalValue
		sched.CompletionDate = domain.FormatDateBR(now)

		st.AddNotification(
			uuid.New().String(),
			"OS Concluída",
			fmt.Sprintf("OS de %s concluída por %s", sched.ClientName, actor.Name),
			domain.NotifySchedule,
			sched.ID,
			now.Format(time.RFC3339),
		)
		return nil
	})
}

// Reschedule parks an accepted schedule as RESCHEDULED, optionally
// moving it to a new slot. Accepting it again resumes the lifecycle.
func (s *ScheduleService) Reschedule(ctx context.Context, actor Actor, id string, input *RescheduleInput) (*ScheduleResponse, error) {
	return s.mutate(ctx, id, func(st *domain.AppState, sched *domain.Schedule) error {
		if !actor.IsAdmin() && sched.TechnicianID != actor.ID {
			return domain.ErrScheduleNotFound
		}
		next, err := domain.NextStatus(sched.Status, domain.ActionReschedule)
		if err != nil {
			return err
		}

		sched.Status = next
		if input != nil && strings.TrimSpace(input.AppointmentDate) != "" {
			sched.AppointmentDate = input.AppointmentDate
		}
		if input != nil && strings.TrimSpace(input.AppointmentTime) != "" {
			sched.AppointmentTime = input.AppointmentTime
		}
		return nil
	})
}

// Transfer reassigns a schedule to another technician, appending an
// immutable entry to its transfer history and resetting the status to
// PENDING so the new technician has to accept it.
func (s *ScheduleService) Transfer(ctx context.Context, actor Actor, id string, input *TransferInput) (*ScheduleResponse, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, domain.ErrMissingFields
	}
	if strings.TrimSpace(input.ToTechnicianID) == "" {
		return nil, domain.ErrMissingSelection
	}

	now := s.nowFn()
	return s.mutate(ctx, id, func(st *domain.AppState, sched *domain.Schedule) error {
		if !actor.IsAdmin() && sched.TechnicianID != actor.ID {
			return domain.ErrScheduleNotFound
		}
		if _, err := domain.NextStatus(sched.Status, domain.ActionTransfer); err != nil {
			return err
		}

		target := st.UserByID(input.ToTechnicianID)
		if target == nil || target.Role != domain.RoleTechnician {
			return domain.ErrMissingSelection
		}
		if target.ID == sched.TechnicianID {
			return domain.ErrSelfTransfer
		}

		sched.Transfers = append(sched.Transfers, domain.TransferHistory{
			FromID:   actor.ID,
			FromName: actor.Name,
			ToID:     target.ID,
			ToName:   target.Name,
			Reason:   strings.TrimSpace(input.Reason),
			Date:     domain.FormatDateBR(now),
			Time:     domain.FormatTimeBR(now),
		})
		sched.TechnicianID = target.ID
		sched.Status = domain.StatusPending

		st.AddNotification(
			uuid.New().String(),
			"OS Transferida",
			fmt.Sprintf("OS de %s transferida para %s", sched.ClientName, target.Name),
			domain.NotifySchedule,
			sched.ID,
			now.Format(time.RFC3339),
		)
		return nil
	})
}

// mutate runs fn against the schedule inside a single snapshot commit
func (s *ScheduleService) mutate(ctx context.Context, id string, fn func(*domain.AppState, *domain.Schedule) error) (*ScheduleResponse, error) {
	var result domain.Schedule

	next, err := s.store.Update(ctx, func(st *domain.AppState) error {
		sched := st.ScheduleByID(id)
		if sched == nil {
			return domain.ErrScheduleNotFound
		}
		if err := fn(st, sched); err != nil {
			return err
		}
		result = sched.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(&next, &result), nil
}

// toResponse resolves the technician name for a schedule
func (s *ScheduleService) toResponse(st *domain.AppState, sched *domain.Schedule) *ScheduleResponse {
	resp := &ScheduleResponse{Schedule: sched.Clone()}
	if tech := st.UserByID(sched.TechnicianID); tech != nil {
		resp.TechnicianName = tech.Name
	}
	return resp
}
