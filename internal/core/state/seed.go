package state

import (
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/pkg/password"
)

// Seed admin credentials. The password is meant to be changed right
// after the first login.
const (
	SeedAdminEmail    = "admin@click.com"
	SeedAdminPassword = "123"
)

// SeedState builds the initial application state: a single
// administrator account and empty collections.
func SeedState() (domain.AppState, error) {
	hash, err := password.Hash(SeedAdminPassword)
	if err != nil {
		return domain.AppState{}, err
	}

	return domain.AppState{
		Users: []domain.User{
			{
				ID:       domain.SeedAdminID,
				Name:     "Administrador",
				Email:    SeedAdminEmail,
				Password: hash,
				Role:     domain.RoleAdmin,
			},
		},
		Schedules:          []domain.Schedule{},
		Sales:              []domain.Sale{},
		Expenses:           []domain.Expense{},
		CommissionPayments: []domain.CommissionPayment{},
		Notifications:      []domain.Notification{},
	}, nil
}
