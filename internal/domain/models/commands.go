package models

import "strings"

// CommandType enumerates the chat commands field workers can send.
type CommandType string

const (
	CommandMortality CommandType = "mortalidad"
	CommandReading   CommandType = "medicion"
	CommandSummary   CommandType = "resumen"
	CommandHelp      CommandType = "ayuda"
	CommandUnknown   CommandType = "unknown"
)

// Command represents a parsed worker instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from a free-form text message. Only the command word
// is case-insensitive; arguments keep their original spelling.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(message)
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch CommandType(head) {
	case CommandMortality, CommandReading, CommandSummary, CommandHelp:
		cmd.Type = CommandType(head)
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
