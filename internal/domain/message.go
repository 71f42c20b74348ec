package domain

import (
	"fmt"
	"strings"
)

// OutboundMessage is one chat post handed to a Sender.
type OutboundMessage struct {
	Username string
	IconURL  string // optional
	Text     string
	Channel  string // optional: channel name or @username
}

// NewOutboundMessage builds a message and rejects it when username or text
// is blank.
func NewOutboundMessage(username, iconURL, text, channel string) (OutboundMessage, error) {
	msg := OutboundMessage{
		Username: username,
		IconURL:  iconURL,
		Text:     text,
		Channel:  channel,
	}
	if err := msg.Validate(); err != nil {
		return OutboundMessage{}, err
	}
	return msg, nil
}

// Validate reports whether the message can be sent.
func (m OutboundMessage) Validate() error {
	if strings.TrimSpace(m.Username) == "" {
		return fmt.Errorf("%w: message username is empty", ErrValidation)
	}
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("%w: message text is empty", ErrValidation)
	}
	return nil
}
