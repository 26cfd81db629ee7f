// services/notification.go
package services

import "github.com/shopspring/decimal"

// Fallback values for welcome display fields a guild never configured.
const (
	DefaultTitle     = "Welcome!"
	DefaultMessage   = "Glad to have you here!"
	DefaultLinkURL   = "https://example.com"
	DefaultLinkLabel = "Visit Site"
)

// RewardOutcome is what the welcome pipeline hands to the composer:
// who joined, what the guild is configured to pay, and whether the
// transfer actually went through.
type RewardOutcome struct {
	UserID   string
	Amount   decimal.Decimal
	Paid     bool
	Settings GuildSettings
}

// WelcomeNotice is the composed announcement, ready for delivery by
// the external messaging surface.
type WelcomeNotice struct {
	UserID     string `json:"user_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	LinkURL    string `json:"link_url"`
	LinkLabel  string `json:"link_label"`
	AmountText string `json:"amount_text"`
	Paid       bool   `json:"paid"`
}

// ComposeWelcome builds the announcement from configuration plus the
// reward outcome. Unset display fields fall back to fixed defaults.
//
// AmountText always shows the configured amount, even when Paid is
// false, so a reader cannot tell a failed transfer from a successful
// one. Known discrepancy between amount communicated and amount paid,
// kept for compatibility with the original behavior.
func ComposeWelcome(outcome RewardOutcome) WelcomeNotice {
	notice := WelcomeNotice{
		UserID:     outcome.UserID,
		Title:      outcome.Settings.Title,
		Body:       outcome.Settings.Message,
		LinkURL:    outcome.Settings.LinkURL,
		LinkLabel:  outcome.Settings.LinkLabel,
		AmountText: outcome.Amount.StringFixed(WorthScale),
		Paid:       outcome.Paid,
	}

	if notice.Title == "" {
		notice.Title = DefaultTitle
	}
	if notice.Body == "" {
		notice.Body = DefaultMessage
	}
	if notice.LinkURL == "" {
		notice.LinkURL = DefaultLinkURL
	}
	if notice.LinkLabel == "" {
		notice.LinkLabel = DefaultLinkLabel
	}

	return notice
}
