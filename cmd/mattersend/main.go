package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mattersend/internal/avatar"
	"mattersend/internal/channel"
	"mattersend/internal/config"
	"mattersend/internal/dialog"
	"mattersend/internal/domain"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logFile    io.Closer
	configPath string // overridable via --config flag
	verbose    bool
)

func main() {
	err := newRootCmd().Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mattersend",
		Short:        "Send messages to Mattermost using incoming webhooks",
		Long:         "mattersend posts messages to a Mattermost incoming webhook, optionally as an avatar persona.",
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (default: ~/.mattersend/config.json)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print what is sent and log at debug level")

	root.AddCommand(sendCmd())
	root.AddCommand(monitorCmd())
	root.AddCommand(avatarCmd())
	root.AddCommand(configCmd())
	root.AddCommand(initCmd())
	root.AddCommand(doctorCmd())
	return root
}

// exitCode maps each error kind to its own exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return 2
	case errors.Is(err, domain.ErrNotFound):
		return 3
	case errors.Is(err, domain.ErrSourceRead):
		return 4
	case errors.Is(err, domain.ErrInvalidStatus):
		return 5
	case errors.Is(err, domain.ErrDelivery):
		return 6
	default:
		return 1
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig resolves the effective configuration and reconfigures the
// logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(resolveConfigPath(), configPath != "")
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
	}
	if err := setupLogger(cfg.General); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(gc config.GeneralConfig) error {
	level := slog.LevelWarn
	if gc.LogLevel != "" {
		if err := level.UnmarshalText([]byte(gc.LogLevel)); err != nil {
			return fmt.Errorf("%w: log level: %v", domain.ErrValidation, err)
		}
	}
	if verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	if gc.LogFile != "" {
		f, err := os.OpenFile(gc.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		if logFile != nil {
			logFile.Close()
		}
		logFile = f
		out = f
	}
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return nil
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadCatalog loads the avatars file given on the command line, falling back
// to the configured one.
func loadCatalog(flagPath string, cfg *config.Config) (*avatar.Catalog, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = cfg.Avatars.File
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no avatars file specified (use --avatars-file or MATTERSEND_AVATARS)", domain.ErrValidation)
	}
	catalog, err := avatar.LoadFile(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	logger.Debug("avatars loaded", "path", path, "count", catalog.Len())
	return catalog, nil
}

// loadDialogs returns the configured dialog file, or the built-in dialogs.
func loadDialogs(flagPath string, cfg *config.Config, opts ...dialog.Option) (*dialog.Library, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = cfg.Monitor.DialogsFile
	}
	if path == "" {
		return dialog.Builtin(opts...), nil
	}
	lib, err := dialog.LoadFile(config.ExpandPath(path), opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("dialogs loaded", "path", path)
	return lib, nil
}

// newSender builds the webhook sender; a --webhook flag wins over config.
func newSender(flagWebhook string, cfg *config.Config) (domain.Sender, error) {
	webhook := strings.TrimSpace(flagWebhook)
	if webhook == "" {
		webhook = cfg.Webhook.URL
	}
	return channel.NewMattermost(channel.MattermostConfig{
		WebhookURL:     webhook,
		DefaultChannel: cfg.Webhook.Channel,
		Timeout:        time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second,
		Proxy:          cfg.Webhook.Proxy,
		Logger:         logger,
	})
}

// printMessage writes the verbose/dry-run line for msg.
func printMessage(w io.Writer, msg domain.OutboundMessage) {
	ch := msg.Channel
	if ch == "" {
		ch = "default"
	}
	fmt.Fprintf(w, "(%s) %s: %s\n", ch, msg.Username, msg.Text)
}
