package services

import (
	"context"
	"log"
	"time"

	"lendcore/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CleanupService purges expired refresh tokens on a schedule.
type CleanupService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(refreshTokenRepo repositories.RefreshTokenRepository) *CleanupService {
	return &CleanupService{
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start schedules the daily purge (03:30).
func (s *CleanupService) Start() {
	_, err := s.cron.AddFunc("30 3 * * *", s.purgeExpiredTokens)
	if err != nil {
		log.Printf("❌ Failed to schedule token cleanup: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 CleanupService started")
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *CleanupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CleanupService stopped")
}

func (s *CleanupService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Token cleanup error: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
