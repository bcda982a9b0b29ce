package services

import (
	"context"
	"log"
	"time"

	"osa-partnership/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	cleanupSpec      string
}

// NewCronService creates a cron service. cleanupSpec is a standard
// five-field cron expression for the refresh token cleanup.
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository, cleanupSpec string) *CronService {
	return &CronService{
		cron:             cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		refreshTokenRepo: refreshTokenRepo,
		cleanupSpec:      cleanupSpec,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.cleanupSpec, s.CleanupTokens); err != nil {
		return err
	}
	s.cron.Start()

	log.Printf("🚀 CronService started (token cleanup: %s)", s.cleanupSpec)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// CleanupTokens deletes expired and revoked refresh tokens
func (s *CronService) CleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
		return
	}
	log.Printf("🧹 Removed %d expired refresh tokens", removed)
}
