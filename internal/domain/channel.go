package domain

import "context"

// Sender delivers outbound messages to a chat platform (Mattermost webhook).
type Sender interface {
	Name() string
	Send(ctx context.Context, msg OutboundMessage) error
}
