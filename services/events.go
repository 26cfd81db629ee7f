// services/events.go
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"welcome-reward-system/logger"
)

// Inbound event tags delivered by the gateway.
const (
	EventMemberJoined  = "member_joined"
	EventConfigCommand = "config_command"
	EventModalSubmit   = "modal_submit"
)

// Config command kinds.
const (
	CommandSetWorth   = "set_worth"
	CommandSetCard    = "set_card"
	CommandSetChannel = "set_channel"
)

// Dispatch result statuses.
const (
	StatusOK       = "ok"
	StatusDenied   = "denied"
	StatusRejected = "rejected"
	StatusIgnored  = "ignored"
	StatusError    = "error"
)

// InboundEvent is the tagged envelope the gateway posts to the
// webhook. Only the fields for the event's kind are expected to be
// set; capabilities describe the requester, not this service's caller.
type InboundEvent struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	GuildID      string   `json:"guild_id"`
	UserID       string   `json:"user_id"`
	Capabilities []string `json:"capabilities"`

	// config_command
	Command string `json:"command"`
	Value   string `json:"value"`

	// modal_submit: the welcome text form
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`
	Word    string `json:"word"`
}

// DispatchResult is the acknowledgement returned to the gateway.
type DispatchResult struct {
	EventID string         `json:"event_id"`
	Status  string         `json:"status"`
	Detail  string         `json:"detail,omitempty"`
	Notice  *WelcomeNotice `json:"notice,omitempty"`
}

type Dispatcher struct {
	Welcome *WelcomeService
	Config  *ConfigService
}

func NewDispatcher(welcome *WelcomeService, config *ConfigService) *Dispatcher {
	return &Dispatcher{Welcome: welcome, Config: config}
}

// Dispatch routes one inbound event by its tag. Events without an id
// get one assigned so log lines and the ack can be correlated. A
// failed event is acknowledged with a status and dropped; nothing here
// takes down handling of subsequent events.
func (d *Dispatcher) Dispatch(ctx context.Context, event InboundEvent) DispatchResult {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	switch event.Kind {
	case EventMemberJoined:
		return d.memberJoined(ctx, event)
	case EventConfigCommand, EventModalSubmit:
		return d.configChange(event)
	default:
		return DispatchResult{EventID: event.ID, Status: StatusIgnored, Detail: "unknown event kind"}
	}
}

func (d *Dispatcher) memberJoined(ctx context.Context, event InboundEvent) DispatchResult {
	if event.GuildID == "" || event.UserID == "" {
		return DispatchResult{EventID: event.ID, Status: StatusRejected, Detail: "member_joined requires guild_id and user_id"}
	}

	notice, err := d.Welcome.Process(ctx, event.GuildID, event.UserID)
	if err != nil {
		logger.Error("member join processing failed",
			zap.String("event_id", event.ID),
			zap.String("guild_id", event.GuildID),
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return DispatchResult{EventID: event.ID, Status: StatusError, Detail: "join processing failed"}
	}
	if notice == nil {
		return DispatchResult{EventID: event.ID, Status: StatusIgnored, Detail: "member already processed"}
	}
	return DispatchResult{EventID: event.ID, Status: StatusOK, Notice: notice}
}

func (d *Dispatcher) configChange(event InboundEvent) DispatchResult {
	if event.GuildID == "" {
		return DispatchResult{EventID: event.ID, Status: StatusRejected, Detail: "configuration events require guild_id"}
	}
	if !Authorize(event.Capabilities) {
		return DispatchResult{EventID: event.ID, Status: StatusDenied, Detail: ErrUnauthorized.Error()}
	}

	var err error
	switch {
	case event.Kind == EventModalSubmit:
		err = d.Config.SetTexts(event.GuildID, event.Title, event.Message, event.Link, event.Word)
	case event.Command == CommandSetWorth:
		err = d.Config.SetWorth(event.GuildID, event.Value)
	case event.Command == CommandSetCard:
		err = d.Config.SetCard(event.GuildID, event.Value)
	case event.Command == CommandSetChannel:
		err = d.Config.SetChannel(event.GuildID, event.Value)
	default:
		return DispatchResult{EventID: event.ID, Status: StatusIgnored, Detail: "unknown config command"}
	}

	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			return DispatchResult{EventID: event.ID, Status: StatusRejected, Detail: err.Error()}
		}
		logger.Error("config command failed",
			zap.String("event_id", event.ID),
			zap.String("guild_id", event.GuildID),
			zap.String("command", event.Command),
			zap.Error(err))
		return DispatchResult{EventID: event.ID, Status: StatusError, Detail: "configuration update failed"}
	}

	return DispatchResult{EventID: event.ID, Status: StatusOK}
}
