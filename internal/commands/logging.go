package commands

import (
	"github.com/goliatone/go-mdxcraft/internal/logging"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// CommandLogger returns the commands module logger tagged with the owning
// command group.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	logger := logging.CommandsLogger(provider)
	if group == "" {
		return logger
	}
	return logging.WithFields(logger, map[string]any{"command_group": group})
}
