package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mattersend/internal/avatar"
	"mattersend/internal/channel"
	"mattersend/internal/config"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, avatars and dialogs",
		Long: `Verifies that the webhook is configured, the avatars file loads, and every
avatar the dialogs speak through exists. The webhook itself is not contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgPath := resolveConfigPath()
			fmt.Fprintf(out, "mattersend doctor v%s\n", version)
			fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed, warned, failed := 0, 0, 0
			pass := func(check, detail string) { printCheck(out, "PASS", check, detail); passed++ }
			warn := func(check, detail string) { printCheck(out, "WARN", check, detail); warned++ }
			fail := func(check, detail string) { printCheck(out, "FAIL", check, detail); failed++ }

			// 1. Config file
			if _, err := os.Stat(cfgPath); err != nil {
				warn("Config file", fmt.Sprintf("not found at %s (using defaults and environment)", cfgPath))
			} else {
				pass("Config file", cfgPath)
			}

			// 2. Config resolves and validates
			cfg, err := loadConfig()
			if err != nil {
				fail("Config validation", err.Error())
				fmt.Fprintf(out, "\nResults: %d passed, %d warnings, %d failed\n", passed, warned, failed)
				return fmt.Errorf("%d check(s) failed", failed)
			}
			pass("Config validation", "valid")

			// 3. Webhook
			switch {
			case cfg.Webhook.URL == "":
				fail("Webhook", "not configured (set webhook.url or MATTERSEND_WEBHOOK)")
			case channel.ValidateWebhookURL(cfg.Webhook.URL) != nil:
				fail("Webhook", "not an http(s) URL")
			default:
				pass("Webhook", config.Sanitize(cfg).Webhook.URL)
			}

			// 4. Avatars
			var catalog *avatar.Catalog
			if cfg.Avatars.File == "" {
				warn("Avatars", "no avatars file configured (avatars and dialogs unavailable)")
			} else if catalog, err = avatar.LoadFile(cfg.Avatars.File); err != nil {
				fail("Avatars", err.Error())
			} else {
				pass("Avatars", fmt.Sprintf("%d avatar(s) in %s", catalog.Len(), cfg.Avatars.File))
			}

			// 5. Dialogs and the avatars they need
			lib, err := loadDialogs("", cfg)
			if err != nil {
				fail("Dialogs", err.Error())
			} else {
				source := "built-in"
				if cfg.Monitor.DialogsFile != "" {
					source = cfg.Monitor.DialogsFile
				}
				pass("Dialogs", fmt.Sprintf("%d success, %d fail (%s)", len(lib.Dialogs(true)), len(lib.Dialogs(false)), source))

				if catalog != nil {
					var missing []string
					for _, name := range lib.Avatars() {
						if !catalog.Has(name) {
							missing = append(missing, name)
						}
					}
					if len(missing) > 0 {
						check := warn
						if cfg.Monitor.Dialogs {
							check = fail
						}
						check("Dialog avatars", "missing: "+strings.Join(missing, ", "))
					} else {
						pass("Dialog avatars", "all present")
					}
				}
			}

			// 6. Log file writable
			if cfg.General.LogFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
					warn("Log file", fmt.Sprintf("cannot create log directory: %v", err))
				} else {
					pass("Log file", cfg.General.LogFile)
				}
			}

			fmt.Fprintf(out, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Fprintf(out, "Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func printCheck(w io.Writer, status, check, detail string) {
	fmt.Fprintf(w, "  [%s] %-20s %s\n", status, check, detail)
}
