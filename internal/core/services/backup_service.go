package services

import (
	"context"
	"log"

	"geomaqui-os/internal/adapters/persistence/repositories"
	"geomaqui-os/internal/core/state"

	"github.com/robfig/cron/v3"
)

// BackupSnapshotKey is where the nightly copy of the live state goes
const BackupSnapshotKey = state.SnapshotKey + "_backup"

// BackupService copies the live snapshot to a backup key on a cron
// schedule and prunes expired refresh tokens while at it
type BackupService struct {
	store        *state.Store
	snapshotRepo repositories.SnapshotRepository
	tokenRepo    repositories.RefreshTokenRepository
	cron         *cron.Cron
}

// NewBackupService creates a new backup service
func NewBackupService(store *state.Store, snapshotRepo repositories.SnapshotRepository, tokenRepo repositories.RefreshTokenRepository) *BackupService {
	return &BackupService{
		store:        store,
		snapshotRepo: snapshotRepo,
		tokenRepo:    tokenRepo,
		cron:         cron.New(),
	}
}

// Start registers the cron job and starts the scheduler
func (s *BackupService) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("✅ Backup scheduler started [%s]", spec)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *BackupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Backup scheduler stopped")
}

// RunOnce performs one backup cycle immediately
func (s *BackupService) RunOnce(ctx context.Context) error {
	data, err := s.store.Export()
	if err != nil {
		return err
	}
	if err := s.snapshotRepo.Save(ctx, BackupSnapshotKey, data); err != nil {
		return err
	}
	return s.tokenRepo.DeleteExpired(ctx)
}

func (s *BackupService) run() {
	if err := s.RunOnce(context.Background()); err != nil {
		log.Printf("❌ Backup failed: %v", err)
		return
	}
	log.Println("✅ Snapshot backup completed")
}
