package domain

// Action is a lifecycle operation applied to a schedule
type Action string

const (
	ActionAccept     Action = "accept"
	ActionConclude   Action = "conclude"
	ActionReschedule Action = "reschedule"
	ActionTransfer   Action = "transfer"
)

// transitions maps (current status, action) to the resulting status.
// Absent entries are rejected. CANCELLED has no outgoing or incoming
// edges; it exists only so historical data with that status still loads.
var transitions = map[ScheduleStatus]map[Action]ScheduleStatus{
	StatusPending: {
		ActionAccept:   StatusAccepted,
		ActionTransfer: StatusPending,
	},
	StatusAccepted: {
		ActionConclude:   StatusConcluded,
		ActionReschedule: StatusRescheduled,
	},
	StatusRescheduled: {
		ActionAccept: StatusAccepted,
	},
}

// NextStatus resolves the status a schedule moves to when action is
// applied, or ErrInvalidTransition when the pair is not allowed.
func NextStatus(current ScheduleStatus, action Action) (ScheduleStatus, error) {
	if row, ok := transitions[current]; ok {
		if next, ok := row[action]; ok {
			return next, nil
		}
	}
	return current, ErrInvalidTransition
}

// CanApply reports whether action is allowed from current
func CanApply(current ScheduleStatus, action Action) bool {
	_, err := NextStatus(current, action)
	return err == nil
}
