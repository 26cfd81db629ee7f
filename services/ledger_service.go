// services/ledger_service.go
package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"welcome-reward-system/models"
)

// InsertOutcome reports whether MarkRewarded created the join record
// or found an existing one.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	AlreadyExists
)

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// HasRewarded reports whether the pair already holds a join record.
func (s *LedgerService) HasRewarded(guildID, userID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.JoinRecord{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count join record: %w", err)
	}
	return count > 0, nil
}

// MarkRewarded inserts the join record if and only if it does not
// exist yet, as one conditional insert backed by the composite primary
// key. Under concurrent calls for the same pair exactly one caller
// sees Inserted; there is no read-then-write window.
func (s *LedgerService) MarkRewarded(guildID, userID string) (InsertOutcome, error) {
	record := models.JoinRecord{GuildID: guildID, UserID: userID, TS: time.Now().UTC()}
	result := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return AlreadyExists, fmt.Errorf("insert join record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return AlreadyExists, nil
	}
	return Inserted, nil
}

// PurgeOlderThan removes join records created strictly before cutoff
// and returns how many were removed. Records at or after the cutoff
// survive; the sweep is safe to run concurrently with inserts.
func (s *LedgerService) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := s.DB.Where("ts < ?", cutoff).Delete(&models.JoinRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge join records: %w", result.Error)
	}
	return result.RowsAffected, nil
}
