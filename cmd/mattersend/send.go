package main

import (
	"fmt"
	"io"
	"strings"

	"mattersend/internal/compose"
	"mattersend/internal/domain"
	"mattersend/internal/notify"

	"github.com/spf13/cobra"
)

type sendOptions struct {
	avatar      string
	sender      string
	channel     string
	webhook     string
	avatarsFile string
	dryRun      bool
}

func sendCmd() *cobra.Command {
	var opts sendOptions
	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message to Mattermost",
		Long: `Send a message to Mattermost using the configured incoming webhook.
Use "-" as the message to read it from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.avatar, "avatar", "a", "", "sender avatar name from the avatars file")
	f.StringVarP(&opts.sender, "sender", "s", "", "sender name (overrides the avatar's display name)")
	f.StringVarP(&opts.channel, "channel", "c", "", "channel to post to; @username works too")
	f.StringVarP(&opts.webhook, "webhook", "w", "", "Mattermost webhook URL (default: $MATTERSEND_WEBHOOK)")
	f.StringVar(&opts.avatarsFile, "avatars-file", "", "JSON file containing avatars (default: $MATTERSEND_AVATARS)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the message instead of sending it")
	return cmd
}

func runSend(cmd *cobra.Command, text string, opts sendOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("%w: stdin: %v", domain.ErrSourceRead, err)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	sender := opts.sender
	if sender == "" && opts.avatar == "" {
		sender = cfg.Send.Sender
	}

	var av *domain.Avatar
	if opts.avatar != "" {
		catalog, err := loadCatalog(opts.avatarsFile, cfg)
		if err != nil {
			return err
		}
		a, err := catalog.Get(opts.avatar)
		if err != nil {
			return err
		}
		av = &a
	}

	msg, err := compose.Plain(text, sender, opts.channel, av)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		printMessage(out, msg)
		return nil
	}

	s, err := newSender(opts.webhook, cfg)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	if _, err := notify.Deliver(ctx, s, []domain.OutboundMessage{msg}, logger); err != nil {
		return err
	}
	if verbose {
		printMessage(out, msg)
		fmt.Fprintln(out, "Sent!")
	}
	return nil
}
