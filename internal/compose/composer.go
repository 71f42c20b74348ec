package compose

import (
	"fmt"
	"strings"

	"mattersend/internal/domain"
)

// Placeholders recognized in message templates. Only the earliest one found
// is replaced.
var placeholders = []string{"%s", "%HOST%"}

// FormatHost substitutes host for the first placeholder in template.
// Templates without a placeholder are returned unchanged.
func FormatHost(template, host string) string {
	at, marker := -1, ""
	for _, p := range placeholders {
		if i := strings.Index(template, p); i >= 0 && (at < 0 || i < at) {
			at, marker = i, p
		}
	}
	if at < 0 {
		return template
	}
	return template[:at] + host + template[at+len(marker):]
}

// Compose turns one dialog line into a message posted as the line's avatar.
func Compose(line domain.DialogLine, host string, avatars domain.AvatarLookup) (domain.OutboundMessage, error) {
	avatar, err := avatars.Get(line.Avatar)
	if err != nil {
		return domain.OutboundMessage{}, err
	}
	username := avatar.DisplayName()
	if line.Sender != "" {
		username = line.Sender
	}
	return domain.NewOutboundMessage(username, avatar.ImageURL(), FormatHost(line.Message, host), line.Channel)
}

// ComposeDialog composes every line in order. Nothing is returned unless all
// lines compose.
func ComposeDialog(dialog domain.Dialog, host string, avatars domain.AvatarLookup) ([]domain.OutboundMessage, error) {
	msgs := make([]domain.OutboundMessage, 0, len(dialog))
	for i, line := range dialog {
		msg, err := Compose(line, host, avatars)
		if err != nil {
			return nil, fmt.Errorf("dialog line %d: %w", i+1, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// StatusText is the plain monitor message for host.
func StatusText(success bool, host string) string {
	if success {
		return fmt.Sprintf("Successfully established a connection to %s", host)
	}
	return fmt.Sprintf("Lost connection to %s", host)
}

// Plain builds a free-form message. An explicit sender takes precedence over
// the avatar's display name; the avatar always supplies the icon.
func Plain(text, sender, channel string, avatar *domain.Avatar) (domain.OutboundMessage, error) {
	username, icon := sender, ""
	if avatar != nil {
		icon = avatar.ImageURL()
		if username == "" {
			username = avatar.DisplayName()
		}
	}
	return domain.NewOutboundMessage(username, icon, text, channel)
}
