package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mattersend/internal/compose"
	"mattersend/internal/domain"
)

// Status designators accepted by ParseStatus.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// ParseStatus maps "success" to true and "fail" to false.
func ParseStatus(s string) (bool, error) {
	switch s {
	case StatusSuccess:
		return true, nil
	case StatusFail:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q, choose either %q or %q", domain.ErrInvalidStatus, s, StatusSuccess, StatusFail)
	}
}

// DialogSource supplies scripted dialogs.
type DialogSource interface {
	RandomDialog(success bool) domain.Dialog
}

// Config configures a Notifier.
type Config struct {
	Sender  domain.Sender
	Avatars domain.AvatarLookup // required for dialogs or when Avatar is set
	Dialogs DialogSource        // nil = plain status message
	From    string              // username of the plain status message
	Avatar  string              // optional avatar of the plain status message
	Channel string              // overrides the channel of every message
	Logger  *slog.Logger
}

// Notifier posts monitor status changes for a host.
type Notifier struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{cfg: cfg, logger: logger}
}

// Messages composes what Notify would send, without sending it.
func (n *Notifier) Messages(host string, success bool) ([]domain.OutboundMessage, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("%w: monitored host is empty", domain.ErrValidation)
	}

	var msgs []domain.OutboundMessage
	if n.cfg.Dialogs != nil {
		if n.cfg.Avatars == nil {
			return nil, fmt.Errorf("%w: dialogs need an avatars file", domain.ErrValidation)
		}
		dialog := n.cfg.Dialogs.RandomDialog(success)
		composed, err := compose.ComposeDialog(dialog, host, n.cfg.Avatars)
		if err != nil {
			return nil, err
		}
		msgs = composed
	} else {
		msg, err := n.statusMessage(host, success)
		if err != nil {
			return nil, err
		}
		msgs = []domain.OutboundMessage{msg}
	}

	if n.cfg.Channel != "" {
		for i := range msgs {
			msgs[i].Channel = n.cfg.Channel
		}
	}
	return msgs, nil
}

func (n *Notifier) statusMessage(host string, success bool) (domain.OutboundMessage, error) {
	text := compose.StatusText(success, host)
	if n.cfg.Avatar == "" {
		return compose.Plain(text, n.cfg.From, "", nil)
	}
	if n.cfg.Avatars == nil {
		return domain.OutboundMessage{}, fmt.Errorf("%w: avatar %q needs an avatars file", domain.ErrValidation, n.cfg.Avatar)
	}
	avatar, err := n.cfg.Avatars.Get(n.cfg.Avatar)
	if err != nil {
		return domain.OutboundMessage{}, err
	}
	return compose.Plain(text, n.cfg.From, "", &avatar)
}

// Notify composes and sends the status messages for host. It returns the
// number of messages delivered before any failure.
func (n *Notifier) Notify(ctx context.Context, host string, success bool) (int, error) {
	msgs, err := n.Messages(host, success)
	if err != nil {
		return 0, err
	}
	n.logger.Info("notifying", "host", strings.TrimSpace(host), "success", success, "messages", len(msgs))
	return Deliver(ctx, n.cfg.Sender, msgs, n.logger)
}

// Deliver sends msgs one at a time, in order, and stops at the first
// failure. Messages already sent stay sent.
func Deliver(ctx context.Context, sender domain.Sender, msgs []domain.OutboundMessage, logger *slog.Logger) (int, error) {
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := sender.Send(ctx, msg); err != nil {
			return i, fmt.Errorf("message %d/%d via %s: %w", i+1, len(msgs), sender.Name(), err)
		}
		logger.Debug("delivered", "index", i+1, "of", len(msgs), "username", msg.Username, "channel", msg.Channel)
	}
	return len(msgs), nil
}
