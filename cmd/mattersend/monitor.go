package main

import (
	"context"
	"io"

	"mattersend/internal/dialog"
	"mattersend/internal/domain"
	"mattersend/internal/notify"

	"github.com/spf13/cobra"
)

type monitorOptions struct {
	avatar      string
	sender      string
	channel     string
	webhook     string
	avatarsFile string
	dialogsFile string
	dialogs     bool
	seed        uint64
	dryRun      bool
}

func monitorCmd() *cobra.Command {
	var opts monitorOptions
	cmd := &cobra.Command{
		Use:   "monitor <host> <success|fail>",
		Short: "Send a monitor notification to Mattermost",
		Long: `Report that the connection to a monitored host was established (success)
or lost (fail). With --dialogs a random scripted dialog is posted instead of
the plain status line, each line as a different avatar.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.avatar, "avatar", "a", "", "avatar of the plain status message (default: monitor.avatar)")
	f.StringVarP(&opts.sender, "sender", "s", "", "sender name of the plain status message (default: monitor.sender)")
	f.StringVarP(&opts.channel, "channel", "c", "", "channel for every message; @username works too")
	f.StringVarP(&opts.webhook, "webhook", "w", "", "Mattermost webhook URL (default: $MATTERSEND_WEBHOOK)")
	f.StringVar(&opts.avatarsFile, "avatars-file", "", "JSON file containing avatars (default: $MATTERSEND_AVATARS)")
	f.StringVar(&opts.dialogsFile, "dialogs-file", "", "YAML file replacing the built-in dialogs (default: $MATTERSEND_DIALOGS)")
	f.BoolVar(&opts.dialogs, "dialogs", false, "post a scripted dialog instead of the status line; overrides sender and avatar")
	f.BoolVar(&opts.dialogs, "star-wars", false, "alias for --dialogs")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for dialog selection (0 = random)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the messages instead of sending them")
	_ = f.MarkHidden("star-wars")
	_ = f.MarkHidden("seed")
	return cmd
}

func runMonitor(cmd *cobra.Command, host, status string, opts monitorOptions) error {
	success, err := notify.ParseStatus(status)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ncfg := notify.Config{
		From:    firstNonEmpty(opts.sender, cfg.Monitor.Sender),
		Avatar:  firstNonEmpty(opts.avatar, cfg.Monitor.Avatar),
		Channel: opts.channel,
		Logger:  logger,
	}
	useDialogs := opts.dialogs || cfg.Monitor.Dialogs

	if useDialogs || ncfg.Avatar != "" {
		catalog, err := loadCatalog(opts.avatarsFile, cfg)
		if err != nil {
			return err
		}
		ncfg.Avatars = catalog
	}
	if useDialogs {
		var dopts []dialog.Option
		if opts.seed != 0 {
			dopts = append(dopts, dialog.WithSeed(opts.seed))
		}
		lib, err := loadDialogs(opts.dialogsFile, cfg, dopts...)
		if err != nil {
			return err
		}
		ncfg.Dialogs = lib
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		msgs, err := notify.New(ncfg).Messages(host, success)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			printMessage(out, msg)
		}
		return nil
	}

	s, err := newSender(opts.webhook, cfg)
	if err != nil {
		return err
	}
	if verbose {
		s = echoSender{Sender: s, out: out}
	}
	ncfg.Sender = s

	ctx, stop := signalContext()
	defer stop()

	_, err = notify.New(ncfg).Notify(ctx, host, success)
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// echoSender prints every message after it was delivered.
type echoSender struct {
	domain.Sender
	out io.Writer
}

func (e echoSender) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if err := e.Sender.Send(ctx, msg); err != nil {
		return err
	}
	printMessage(e.out, msg)
	return nil
}
