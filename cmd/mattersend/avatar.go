package main

import (
	"encoding/json"
	"fmt"
	"os"

	"mattersend/internal/avatar"
	"mattersend/internal/domain"

	"github.com/spf13/cobra"
)

func avatarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Search and build avatar catalogs",
	}
	cmd.AddCommand(avatarSearchCmd())
	cmd.AddCommand(avatarListCmd())
	cmd.AddCommand(avatarImagesCmd())
	return cmd
}

func avatarSearchCmd() *cobra.Command {
	var avatarsFile string
	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search for an avatar by name (case-insensitive substring)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(avatarsFile, cfg)
			if err != nil {
				return err
			}
			found, err := catalog.Search(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "Nothing found!")
				return fmt.Errorf("%w: no avatar matches %q", domain.ErrNotFound, args[0])
			}
			for _, a := range found {
				fmt.Fprintf(out, "%s: %s\n", a.DisplayName(), a.Name())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&avatarsFile, "avatars-file", "", "JSON file containing avatars (default: $MATTERSEND_AVATARS)")
	return cmd
}

func avatarListCmd() *cobra.Command {
	var avatarsFile string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every avatar in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(avatarsFile, cfg)
			if err != nil {
				return err
			}
			for _, a := range catalog.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.DisplayName(), a.Name())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&avatarsFile, "avatars-file", "", "JSON file containing avatars (default: $MATTERSEND_AVATARS)")
	return cmd
}

func avatarImagesCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "images <source-dir> [output]",
		Short: "Compile an avatars file from a directory of images",
		Long: `Scan a directory for .png, .gif and .jpg files and write an avatars file.
A file named "Name (Display Name).png" sets both name and display name.
Without output, or with "-", the JSON is printed to standard output.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			avatars, err := avatar.ScanImages(avatar.ScanConfig{
				Dir:        args[0],
				BaseDir:    wd,
				PathPrefix: prefix,
			})
			if err != nil {
				return err
			}
			if avatars == nil {
				avatars = []domain.Avatar{}
			}
			logger.Debug("images scanned", "dir", args[0], "count", len(avatars))

			if len(args) < 2 || args[1] == "-" {
				data, err := json.MarshalIndent(avatars, "", "    ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			data, err := json.Marshal(avatars)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "path-prefix", "p", "", "prefix for every image URL (e.g. https://cdn.example.com/avatars)")
	return cmd
}
