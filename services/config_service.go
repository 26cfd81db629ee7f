// services/config_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"welcome-reward-system/models"
)

// WorthScale is the fixed number of fractional digits for reward
// amounts. Values are truncated to this scale before storage, never
// rounded.
const WorthScale = 8

// DefaultWorth is the reward amount used when a guild never configured
// one: the smallest representable amount at WorthScale.
var DefaultWorth = decimal.New(1, -WorthScale)

// ErrInvalidAmount rejects configuration writes whose reward amount is
// not a positive decimal after truncation to WorthScale digits.
var ErrInvalidAmount = errors.New("reward amount must be a positive decimal")

type ConfigService struct {
	DB *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{DB: db}
}

// GuildSettings is the read-side view of a guild's configuration.
// Worth is always usable (defaulted when unset); display strings are
// returned as stored and defaulted by the composer.
type GuildSettings struct {
	GuildID        string          `json:"guild_id"`
	CardID         string          `json:"card_id"`
	WelcomeChannel string          `json:"welcome_channel"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	LinkURL        string          `json:"link_url"`
	LinkLabel      string          `json:"link_label"`
	Worth          decimal.Decimal `json:"worth"`
}

// DefaultSettings is what Get returns for a guild nobody configured.
func DefaultSettings(guildID string) GuildSettings {
	return GuildSettings{GuildID: guildID, Worth: DefaultWorth}
}

// Get returns the guild configuration. It never fails for a missing
// guild, and an unparseable stored worth degrades to the default so
// reads stay usable for display.
func (s *ConfigService) Get(guildID string) (GuildSettings, error) {
	var row models.GuildConfig
	err := s.DB.Where("guild_id = ?", guildID).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return GuildSettings{}, fmt.Errorf("load guild config: %w", err)
	}

	settings := GuildSettings{
		GuildID:        guildID,
		CardID:         row.CardID,
		WelcomeChannel: row.WelcomeChannel,
		Title:          row.WelcomeTitle,
		Message:        row.WelcomeMessage,
		LinkURL:        row.WelcomeLink,
		LinkLabel:      row.WelcomeWord,
		Worth:          DefaultWorth,
	}
	if row.Worth != "" {
		if parsed, perr := decimal.NewFromString(row.Worth); perr == nil && parsed.IsPositive() {
			settings.Worth = parsed
		}
	}
	return settings, nil
}

// SetWorth validates and stores the reward amount for a guild. The
// value is truncated to WorthScale fractional digits; input that is
// non-numeric, non-positive, or truncates to zero is rejected and the
// stored value is left untouched.
func (s *ConfigService) SetWorth(guildID, value string) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return ErrInvalidAmount
	}
	amount = amount.Truncate(WorthScale)
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return s.upsertFields(
		models.GuildConfig{GuildID: guildID, Worth: amount.StringFixed(WorthScale)},
		"worth",
	)
}

// SetCard stores the paying card reference. An empty value clears it,
// which disables payment for the guild.
func (s *ConfigService) SetCard(guildID, cardID string) error {
	return s.upsertFields(models.GuildConfig{GuildID: guildID, CardID: cardID}, "card_id")
}

// SetChannel stores the announcement destination. An empty value
// clears it, which disables pushed notices.
func (s *ConfigService) SetChannel(guildID, channelID string) error {
	return s.upsertFields(models.GuildConfig{GuildID: guildID, WelcomeChannel: channelID}, "welcome_channel")
}

// SetTexts stores the four welcome display fields in one write. Empty
// fields are stored as empty and fall back to composer defaults.
func (s *ConfigService) SetTexts(guildID, title, message, link, word string) error {
	return s.upsertFields(
		models.GuildConfig{
			GuildID:        guildID,
			WelcomeTitle:   title,
			WelcomeMessage: message,
			WelcomeLink:    link,
			WelcomeWord:    word,
		},
		"welcome_title", "welcome_message", "welcome_link", "welcome_word",
	)
}

// upsertFields writes only the named columns in a single INSERT ... ON
// CONFLICT DO UPDATE, so concurrent writes to different fields of the
// same guild both land.
func (s *ConfigService) upsertFields(row models.GuildConfig, columns ...string) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert guild config %v: %w", columns, err)
	}
	return nil
}
