package models

import "time"

// JoinRecord marks a (guild, member) pair as already rewarded. Its
// existence is the sole source of truth for dedup: the row is written
// before the payment attempt and never rolled back, even when the
// transfer fails. The retention sweep deletes rows once TS falls out
// of the retention window, which re-enables the reward for that pair.
type JoinRecord struct {
	GuildID string    `gorm:"primaryKey;column:guild_id" json:"guild_id"`
	UserID  string    `gorm:"primaryKey;column:user_id" json:"user_id"`
	TS      time.Time `gorm:"column:ts;index" json:"ts"`
}

func (JoinRecord) TableName() string { return "joined" }
