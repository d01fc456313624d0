package services

import (
	"context"
	"log"
	"strings"

	"geomaqui-os/internal/adapters/persistence/repositories"
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"
	"geomaqui-os/internal/pkg/password"

	"github.com/google/uuid"
)

// UserService handles staff account management
type UserService struct {
	store            *state.Store
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(store *state.Store, refreshTokenRepo repositories.RefreshTokenRepository) *UserService {
	return &UserService{store: store, refreshTokenRepo: refreshTokenRepo}
}

// CreateUserInput represents staff registration input
type CreateUserInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=3"`
	Role      string `json:"role" validate:"required"`
	Specialty string `json:"specialty"`
}

// Create registers a new staff account
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*UserResponse, error) {
	// 1. Validate role and required fields
	role := domain.Role(strings.ToUpper(strings.TrimSpace(input.Role)))
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, domain.ErrMissingFields
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrMissingFields
	}

	// 2. Hash password
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Password:  hash,
		Role:      role,
		Specialty: strings.TrimSpace(input.Specialty),
	}

	// 3. Reject duplicate email and commit
	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		if st.UserByEmail(email) != nil {
			return domain.ErrEmailAlreadyUsed
		}
		st.Users = append(st.Users, user)
		return nil
	}); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s [%s]", user.Email, user.Role)
	return ToUserResponse(&user), nil
}

// Get returns a single user
func (s *UserService) Get(id string) (*UserResponse, error) {
	snap := s.store.Snapshot()
	user := snap.UserByID(id)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// List returns all users, optionally filtered by role
func (s *UserService) List(roleFilter string) []*UserResponse {
	snap := s.store.Snapshot()

	out := make([]*UserResponse, 0, len(snap.Users))
	for i := range snap.Users {
		if roleFilter != "" && !strings.EqualFold(string(snap.Users[i].Role), roleFilter) {
			continue
		}
		out = append(out, ToUserResponse(&snap.Users[i]))
	}
	return out
}

// Technicians returns all technician accounts
func (s *UserService) Technicians() []*UserResponse {
	return s.List(string(domain.RoleTechnician))
}

// Delete removes a staff account. The seeded administrator can never
// be removed, and users cannot remove themselves. Schedules assigned
// to the user are kept as history.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if id == domain.SeedAdminID {
		return domain.ErrSeedAdminImmutable
	}
	if id == actorID {
		return domain.ErrCannotDeleteSelf
	}

	_, err := s.store.Update(ctx, func(st *domain.AppState) error {
		idx := -1
		for i := range st.Users {
			if st.Users[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrUserNotFound
		}

		st.Users = append(st.Users[:idx], st.Users[idx+1:]...)
		if st.CurrentUserID == id {
			st.CurrentUserID = ""
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Kill any live sessions of the removed account
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		log.Printf("⚠️ Failed to revoke sessions of removed user %s: %v", id, err)
	}

	log.Printf("✅ User removed: %s", id)
	return nil
}
