package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scheme-assist/backend/internal/bookmarks"
	"github.com/scheme-assist/backend/internal/catalog"
	"github.com/scheme-assist/backend/internal/i18n"
	"github.com/scheme-assist/backend/internal/storage"
)

func newBookmarksCmd(a *app) *cobra.Command {
	var client string

	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage saved schemes",
		Long: `Saved schemes live in the configured client storage (sqlite by default),
keyed by --client. The API server reads the same list when a request
carries the same X-Client-ID.`,
	}
	cmd.PersistentFlags().StringVar(&client, "client", "local", "client id the bookmarks belong to")

	// withStore opens the backend for one command and closes it afterwards.
	withStore := func(cmd *cobra.Command, fn func(s *bookmarks.Store) error) error {
		b, err := storage.Open(a.cfg)
		if err != nil {
			return err
		}
		defer b.Close()
		return fn(bookmarks.Open(cmd.Context(), b.Storage, client))
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *bookmarks.Store) error {
				out := cmd.OutOrStdout()
				items := s.List()
				if len(items) == 0 {
					fmt.Fprintln(out, "No saved schemes yet.")
					return nil
				}
				for _, it := range items {
					fmt.Fprintf(out, "[%d] %s (%s)\n", it.ID, it.Name, it.Category)
				}
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <scheme-id>",
		Short: "Save a scheme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := schemeArg(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(s *bookmarks.Store) error {
				added, err := s.Add(cmd.Context(), bookmarks.FromScheme(scheme))
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", scheme.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already saved\n", scheme.Name)
				}
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <scheme-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved scheme",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid scheme id %q", args[0])
			}
			return withStore(cmd, func(s *bookmarks.Store) error {
				removed, err := s.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed scheme %d\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Scheme %d was not saved\n", id)
				}
				return nil
			})
		},
	}

	shareCmd := &cobra.Command{
		Use:   "share <scheme-id>",
		Short: "Print a one-line summary of a saved scheme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *bookmarks.Store) error {
				it, err := savedItem(s, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), bookmarks.ShareText(it))
				return nil
			})
		},
	}

	var (
		langID string
		dir    string
	)
	exportCmd := &cobra.Command{
		Use:   "export <scheme-id>",
		Short: "Write a saved scheme to a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, ok := i18n.ByID(langID)
			if !ok {
				return fmt.Errorf("unknown language %q", langID)
			}
			return withStore(cmd, func(s *bookmarks.Store) error {
				it, err := savedItem(s, args[0])
				if err != nil {
					return err
				}
				path := filepath.Join(dir, bookmarks.ExportFilename(it.Name))
				if err := os.WriteFile(path, []byte(bookmarks.ExportText(it, i18n.Stub{Language: lang})), 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&langID, "lang", i18n.Default().ID, "language for the field labels")
	exportCmd.Flags().StringVar(&dir, "dir", ".", "directory to write the file into")

	cmd.AddCommand(listCmd, addCmd, removeCmd, shareCmd, exportCmd)
	return cmd
}

func schemeArg(arg string) (catalog.Scheme, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return catalog.Scheme{}, fmt.Errorf("invalid scheme id %q", arg)
	}
	scheme, ok := catalog.ByID(id)
	if !ok {
		return catalog.Scheme{}, fmt.Errorf("scheme %d not found", id)
	}
	return scheme, nil
}

func savedItem(s *bookmarks.Store, arg string) (bookmarks.Item, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return bookmarks.Item{}, fmt.Errorf("invalid scheme id %q", arg)
	}
	it, ok := s.Get(id)
	if !ok {
		return bookmarks.Item{}, fmt.Errorf("scheme %d is not saved", id)
	}
	return it, nil
}
