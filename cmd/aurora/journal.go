package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/store"
)

var (
	journalTrash bool
	journalBody  string
	journalTheme string
	journalPlace string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journal entries and the trash",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active (or trashed) entries",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			entries := s.JournalEntries()
			if journalTrash {
				entries = s.TrashedEntries()
			}
			if jsonOutput {
				printJSON(entries)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTITLE\tTHEME\tIMAGES\tDELETED")
			for _, e := range entries {
				deleted := "-"
				if e.DeletedAt != nil {
					deleted = e.DeletedAt.Local().Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					e.ID, e.Date.Local().Format("2006-01-02"), e.Title, e.Theme, len(e.Images), deleted)
			}
			return w.Flush()
		})
		if err != nil {
			fatal("Failed to list journal", err)
		}
	},
}

var journalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Write a journal entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			e := core.JournalEntry{
				Title: args[0],
				Body:  journalBody,
				Theme: core.JournalTheme(journalTheme),
			}
			if journalPlace != "" {
				e.LocationName = &journalPlace
			}
			added, err := s.AddJournalEntry(e)
			if err != nil {
				return err
			}
			fmt.Println(added.ID)
			return nil
		})
		if err != nil {
			fatal("Failed to add journal entry", err)
		}
	},
}

// journalIDCmd builds the single-ID commands that differ only by operation.
func journalIDCmd(use, short, verb string, op func(*store.Store, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := withStore(func(ctx context.Context, s *store.Store) error {
				if !op(s, args[0]) {
					return fmt.Errorf("journal entry %s not found", args[0])
				}
				return nil
			})
			if err != nil {
				fatal("Failed to "+verb+" journal entry", err)
			}
		},
	}
}

var journalEmptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: "Permanently erase every trashed entry",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			fmt.Printf("erased %d entries\n", s.EmptyTrash())
			return nil
		})
		if err != nil {
			fatal("Failed to empty trash", err)
		}
	},
}

func init() {
	journalListCmd.Flags().BoolVar(&journalTrash, "trash", false, "List the trash instead")

	journalAddCmd.Flags().StringVar(&journalBody, "body", "", "Entry text")
	journalAddCmd.Flags().StringVar(&journalTheme, "theme", string(core.ThemeDefault), "Default, 'Old Paper', Midnight or Aurora")
	journalAddCmd.Flags().StringVar(&journalPlace, "place", "", "Location name")

	journalCmd.AddCommand(
		journalListCmd,
		journalAddCmd,
		journalIDCmd("rm", "Move an entry to the trash", "delete", (*store.Store).DeleteJournalEntry),
		journalIDCmd("restore", "Restore a trashed entry", "restore", (*store.Store).RestoreJournalEntry),
		journalIDCmd("purge", "Permanently erase a trashed entry", "purge", (*store.Store).PermanentlyDeleteJournalEntry),
		journalEmptyTrashCmd,
	)
	rootCmd.AddCommand(journalCmd)
}
