package command

import "strings"

// Command is a decoded user intent: put the tracked service on the
// appliance's blocked list, or take it off.
type Command int

const (
	EnableBlocking Command = iota
	DisableBlocking
)

func (c Command) String() string {
	switch c {
	case EnableBlocking:
		return "enable"
	case DisableBlocking:
		return "disable"
	}
	return "unknown"
}

// Parse decodes a raw message payload into a Command. Invalid UTF-8
// bytes are replaced rather than rejected, surrounding whitespace is
// trimmed, and the match is case-sensitive. Anything that is not a
// literal "enable" or "disable" is dropped by the caller.
func Parse(payload []byte) (Command, bool) {
	text := strings.TrimSpace(strings.ToValidUTF8(string(payload), "�"))
	switch text {
	case "enable":
		return EnableBlocking, true
	case "disable":
		return DisableBlocking, true
	}
	return 0, false
}
