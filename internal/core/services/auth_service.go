package services

import (
	"context"
	"log"
	"strings"

	"geomaqui-os/internal/adapters/persistence/models"
	"geomaqui-os/internal/adapters/persistence/repositories"
	"geomaqui-os/internal/config"
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"
	"geomaqui-os/internal/pkg/jwt"
	"geomaqui-os/internal/pkg/password"

	"github.com/google/uuid"
)

// AuthService handles authentication business logic
type AuthService struct {
	store            *state.Store
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(store *state.Store, refreshTokenRepo repositories.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		store:            store,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is a user stripped of credentials
type UserResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Role        domain.Role `json:"role"`
	Specialty   string      `json:"specialty,omitempty"`
	RatingCount int         `json:"ratingCount"`
	RatingSum   int         `json:"ratingSum"`
}

// ToUserResponse converts a domain user to its public shape
func ToUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Specialty:   u.Specialty,
		RatingCount: u.RatingCount,
		RatingSum:   u.RatingSum,
	}
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email (case-insensitive)
	snap := s.store.Snapshot()
	user := snap.UserByEmail(strings.TrimSpace(input.Email))
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Record the signed-in user inside the snapshot
	userID := user.ID
	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		st.CurrentUserID = userID
		return nil
	}); err != nil {
		return nil, err
	}

	// 4. Issue token pair
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s [%s]", user.Email, user.Role)
	return &AuthResponse{
		User:         ToUserResponse(user),
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
	}, nil
}

// RegisterInput represents self-registration input
type RegisterInput struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=3"`
	Role      string `json:"role" validate:"required"`
	Specialty string `json:"specialty"`
}

// Register creates a new staff account and signs it in
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
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

	// 3. Reject duplicate email, create and sign in atomically
	if _, err := s.store.Update(ctx, func(st *domain.AppState) error {
		if st.UserByEmail(email) != nil {
			return domain.ErrEmailAlreadyUsed
		}
		st.Users = append(st.Users, user)
		st.CurrentUserID = user.ID
		return nil
	}); err != nil {
		return nil, err
	}

	// 4. Issue token pair
	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s [%s]", user.Email, user.Role)
	return &AuthResponse{
		User:         ToUserResponse(&user),
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
	}, nil
}

// Refresh rotates a refresh token and returns a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate the token signature and expiry
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, err
	}

	// 2. The stored hash must still be active
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, jwt.ErrTokenInvalid
	}
	if stored.IsExpired() || stored.IsRevoked() {
		return nil, jwt.ErrTokenExpired
	}

	// 3. The user must still exist
	snap := s.store.Snapshot()
	user := snap.UserByID(claims.UserID)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	// 4. Rotate: revoke the old token, issue a fresh pair
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         ToUserResponse(user),
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
	}, nil
}

// Logout revokes the refresh token and clears the signed-in user
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
			log.Printf("⚠️ Failed to revoke refresh token: %v", err)
		}
	}

	_, err := s.store.Update(ctx, func(st *domain.AppState) error {
		if st.CurrentUserID == userID {
			st.CurrentUserID = ""
		}
		return nil
	})
	return err
}

// CurrentUser resolves the claims subject against the snapshot
func (s *AuthService) CurrentUser(userID string) (*UserResponse, error) {
	snap := s.store.Snapshot()
	user := snap.UserByID(userID)
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

type tokenPair struct {
	access  string
	refresh string
}

// issueTokens generates an access/refresh pair and stores the refresh hash
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*tokenPair, error) {
	access, err := jwt.GenerateAccessToken(user.ID, user.Name, string(user.Role), s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refresh, err := jwt.GenerateRefreshToken(user.ID, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refresh),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &tokenPair{access: access, refresh: refresh}, nil
}
