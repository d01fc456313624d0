package services

import (
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"
)

// DashboardService aggregates counters for the landing screen
type DashboardService struct {
	store *state.Store
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *state.Store) *DashboardService {
	return &DashboardService{store: store}
}

// DashboardStats holds the landing screen counters
type DashboardStats struct {
	TotalSchedules  int            `json:"totalSchedules"`
	ByStatus        map[string]int `json:"byStatus"`
	TotalUsers      int            `json:"totalUsers"`
	TechnicianCount int            `json:"technicianCount"`
	UnreadAlerts    int            `json:"unreadAlerts"`
}

// Stats computes the dashboard counters. Technicians only see their
// own assignments counted.
func (s *DashboardService) Stats(actor Actor) *DashboardStats {
	snap := s.store.Snapshot()

	stats := &DashboardStats{
		ByStatus:   map[string]int{},
		TotalUsers: len(snap.Users),
	}

	for i := range snap.Schedules {
		sched := &snap.Schedules[i]
		if actor.Role == domain.RoleTechnician && sched.TechnicianID != actor.ID {
			continue
		}
		stats.TotalSchedules++
		stats.ByStatus[string(sched.Status)]++
	}

	for i := range snap.Users {
		if snap.Users[i].Role == domain.RoleTechnician {
			stats.TechnicianCount++
		}
	}

	for i := range snap.Notifications {
		if !snap.Notifications[i].Read {
			stats.UnreadAlerts++
		}
	}

	return stats
}
