package repositories

import (
	"context"
	"errors"

	"geomaqui-os/internal/core/state"
)

// snapshotPersister binds a SnapshotRepository to a single key so it
// satisfies the state store's Persister interface
type snapshotPersister struct {
	repo SnapshotRepository
	key  string
}

// NewSnapshotPersister returns a Persister reading and writing the
// snapshot stored under key
func NewSnapshotPersister(repo SnapshotRepository, key string) state.Persister {
	return &snapshotPersister{repo: repo, key: key}
}

func (p *snapshotPersister) Load(ctx context.Context) ([]byte, error) {
	data, err := p.repo.Load(ctx, p.key)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return nil, state.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (p *snapshotPersister) Save(ctx context.Context, data []byte) error {
	return p.repo.Save(ctx, p.key, data)
}
