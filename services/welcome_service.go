// services/welcome_service.go
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"welcome-reward-system/logger"
)

// Transferer is the slice of the payment client the welcome pipeline
// uses.
type Transferer interface {
	Transfer(ctx context.Context, cardCode, toID string, amount decimal.Decimal) TransferResult
}

// Notifier pushes a composed notice to a channel. Delivery failures
// are logged and never affect reward bookkeeping.
type Notifier interface {
	DeliverNotice(ctx context.Context, channelID string, notice WelcomeNotice) error
}

type WelcomeService struct {
	Config   *ConfigService
	Ledger   *LedgerService
	Payments Transferer
	Notify   Notifier // optional; nil means response-only delivery
}

func NewWelcomeService(config *ConfigService, ledger *LedgerService, payments Transferer, notify Notifier) *WelcomeService {
	return &WelcomeService{Config: config, Ledger: ledger, Payments: payments, Notify: notify}
}

// Process handles one member-joined event. It returns the composed
// notice, or nil when the member was already processed.
//
// The join record is written first and never rolled back: a transfer
// that fails after the insert leaves the member processed, so
// duplicate or concurrent events can never pay twice. The cost is that
// a crash between insert and transfer pays zero times; that is the
// intended trade against double payment, and reordering these steps
// changes the reliability contract.
func (s *WelcomeService) Process(ctx context.Context, guildID, userID string) (*WelcomeNotice, error) {
	outcome, err := s.Ledger.MarkRewarded(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("mark rewarded: %w", err)
	}
	if outcome == AlreadyExists {
		logger.Debug("member already processed",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID))
		return nil, nil
	}

	settings, err := s.Config.Get(guildID)
	if err != nil {
		// The join record is already committed; greet with defaults
		// rather than dropping the greeting.
		logger.Warn("guild config unavailable, greeting with defaults",
			zap.String("guild_id", guildID),
			zap.Error(err))
		settings = DefaultSettings(guildID)
	}

	paid := false
	if settings.CardID == "" || !settings.Worth.IsPositive() {
		logger.Debug("payment skipped, no card configured",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID))
	} else {
		result := s.Payments.Transfer(ctx, settings.CardID, userID, settings.Worth)
		if result.Success {
			paid = true
		} else {
			// The member stays processed; retrying here could pay twice.
			logger.Warn("transfer failed",
				zap.String("guild_id", guildID),
				zap.String("user_id", userID),
				zap.String("reason", result.Reason))
		}
	}

	notice := ComposeWelcome(RewardOutcome{
		UserID:   userID,
		Amount:   settings.Worth,
		Paid:     paid,
		Settings: settings,
	})

	if s.Notify != nil && settings.WelcomeChannel != "" {
		if err := s.Notify.DeliverNotice(ctx, settings.WelcomeChannel, notice); err != nil {
			logger.Warn("notice delivery failed",
				zap.String("guild_id", guildID),
				zap.String("channel", settings.WelcomeChannel),
				zap.Error(err))
		}
	}

	return &notice, nil
}
