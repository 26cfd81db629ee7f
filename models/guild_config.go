package models

import "time"

// GuildConfig holds the per-guild welcome and payout configuration.
// A missing row is equivalent to a row with every optional column
// empty: readers fill in defaults, so the table only ever grows by
// upsert and rows are never deleted.
type GuildConfig struct {
	GuildID        string `gorm:"primaryKey;column:guild_id" json:"guild_id"`
	CardID         string `gorm:"column:card_id" json:"card_id"`
	WelcomeChannel string `gorm:"column:welcome_channel" json:"welcome_channel"`
	WelcomeTitle   string `gorm:"column:welcome_title" json:"welcome_title"`
	WelcomeMessage string `gorm:"column:welcome_message" json:"welcome_message"`
	WelcomeLink    string `gorm:"column:welcome_link" json:"welcome_link"`
	WelcomeWord    string `gorm:"column:welcome_word" json:"welcome_word"`
	// Worth is the reward amount as a decimal string, truncated to 8
	// fractional digits at write time. Empty means "use the default".
	Worth     string    `gorm:"column:worth" json:"worth"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GuildConfig) TableName() string { return "guilds" }
