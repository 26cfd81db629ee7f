// services/retention.go
package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"welcome-reward-system/logger"
)

// JoinRetention bounds how long a join record keeps a member
// ineligible for another welcome reward. Once it lapses the sweep
// deletes the record and the pair becomes eligible again; bounded
// table size is traded against permanent dedup.
const JoinRetention = 30 * 24 * time.Hour

func (s *LedgerService) StartRetentionScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: drop join records past the retention window.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().UTC().Add(-JoinRetention)
			removed, err := s.PurgeOlderThan(cutoff)
			if err != nil {
				logger.Warn("retention sweep failed", zap.Error(err))
				return
			}
			if removed > 0 {
				logger.Info("retention sweep removed join records",
					zap.Int64("removed", removed),
					zap.Time("cutoff", cutoff))
			}
		}),
	)
}
