package repositories

import (
	"context"
	"errors"

	"geomaqui-os/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSnapshotNotFound is returned when no snapshot exists under a key
var ErrSnapshotNotFound = errors.New("snapshot not found")

// snapshotRepository implements SnapshotRepository on GORM
type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Load reads the blob stored under key
func (r *snapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var snap models.AppSnapshot
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snap.Data, nil
}

// Save upserts the blob stored under key
func (r *snapshotRepository) Save(ctx context.Context, key string, data []byte) error {
	snap := models.AppSnapshot{Key: key, Data: data}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&snap).Error
}
