// services/command_gate.go
package services

import (
	"errors"
	"strings"
)

// ErrUnauthorized rejects configuration commands from requesters
// without an administrative capability in the guild.
var ErrUnauthorized = errors.New("requester lacks an administrative capability")

// Capabilities accepted as administrative for configuration commands.
var adminCapabilities = map[string]bool{
	"administrator": true,
	"manage_guild":  true,
}

// Authorize reports whether the requester may change guild
// configuration. Every config-mutating dispatch path checks this
// before any store write.
func Authorize(capabilities []string) bool {
	for _, capability := range capabilities {
		if adminCapabilities[strings.ToLower(strings.TrimSpace(capability))] {
			return true
		}
	}
	return false
}
