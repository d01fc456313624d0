package domain

import "errors"

var (
	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyUsed   = errors.New("email is already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
	ErrSeedAdminImmutable = errors.New("the seeded administrator cannot be removed")
	ErrCannotDeleteSelf   = errors.New("a user cannot remove their own account")

	// Schedules
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrInvalidTransition = errors.New("operation not allowed in current status")
	ErrMissingSelection  = errors.New("a technician must be selected")
	ErrInvalidAmount     = errors.New("value must be a non-negative number")
	ErrMissingFields     = errors.New("required fields are missing")
	ErrSelfTransfer      = errors.New("cannot transfer a schedule to its current technician")

	// Finance
	ErrInvalidWindow   = errors.New("window must be 1, 7 or 30 days")
	ErrInvalidCategory = errors.New("invalid expense category")

	// Notifications
	ErrNotificationNotFound = errors.New("notification not found")
)
