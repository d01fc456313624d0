package services

import (
	"context"
	"testing"
	"time"

	"geomaqui-os/internal/adapters/persistence/models"
	"geomaqui-os/internal/core/domain"
	"geomaqui-os/internal/core/state"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestStore opens a store backed by an in-memory persister, seeded
// with the admin plus a couple of staff accounts
func newTestStore(t *testing.T) (*state.Store, *state.MemoryPersister) {
	t.Helper()

	p := state.NewMemoryPersister()
	store, err := state.Open(context.Background(), p)
	require.NoError(t, err)

	_, err = store.Update(context.Background(), func(st *domain.AppState) error {
		st.Users = append(st.Users,
			domain.User{ID: "tech-1", Name: "Carlos", Email: "carlos@click.com", Role: domain.RoleTechnician, Specialty: "Lavadoras"},
			domain.User{ID: "tech-2", Name: "Marcos", Email: "marcos@click.com", Role: domain.RoleTechnician},
			domain.User{ID: "att-1", Name: "Ana", Email: "ana@click.com", Role: domain.RoleAttendant},
		)
		return nil
	})
	require.NoError(t, err)

	return store, p
}

var (
	adminActor = Actor{ID: "admin-1", Name: "Administrador", Role: domain.RoleAdmin}
	techActor  = Actor{ID: "tech-1", Name: "Carlos", Role: domain.RoleTechnician}
	tech2Actor = Actor{ID: "tech-2", Name: "Marcos", Role: domain.RoleTechnician}
	attActor   = Actor{ID: "att-1", Name: "Ana", Role: domain.RoleAttendant}
)

// fakeTokenRepo is an in-memory RefreshTokenRepository
type fakeTokenRepo struct {
	nextID uint
	tokens map[uint]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uint]*models.RefreshToken{}}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	f.nextID++
	token.ID = f.nextID
	f.tokens[token.ID] = token
	return nil
}

func (f *fakeTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, tok := range f.tokens {
		if tok.TokenHash == tokenHash && !tok.IsRevoked() {
			return tok, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokenRepo) Revoke(ctx context.Context, id uint) error {
	if tok, ok := f.tokens[id]; ok {
		now := tok.CreatedAt
		tok.RevokedAt = &now
	}
	return nil
}

func (f *fakeTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	for _, tok := range f.tokens {
		if tok.TokenHash == tokenHash {
			now := tok.CreatedAt
			tok.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) RevokeAllByUserID(ctx context.Context, userID string) error {
	for _, tok := range f.tokens {
		if tok.UserID == userID {
			now := tok.CreatedAt
			tok.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

// tokenFor builds an unexpired refresh token record for a user
func tokenFor(userID string) *models.RefreshToken {
	return &models.RefreshToken{
		UserID:    userID,
		TokenHash: "hash-" + userID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func (f *fakeTokenRepo) activeCount(userID string) int {
	n := 0
	for _, tok := range f.tokens {
		if tok.UserID == userID && !tok.IsRevoked() {
			n++
		}
	}
	return n
}
