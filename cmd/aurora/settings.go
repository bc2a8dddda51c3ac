package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/store"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			settings := s.Settings()
			if jsonOutput {
				printJSON(settings)
				return nil
			}
			fmt.Printf("visible smart lists:  %v\n", settings.VisibleSmartLists)
			fmt.Printf("visible categories:   %v\n", settings.VisibleCategories)
			fmt.Printf("smart list order:     %v\n", settings.SmartListOrder)
			fmt.Printf("pinned smart lists:   %v\n", settings.PinnedHomeSmartLists)
			fmt.Printf("pinned categories:    %v\n", settings.PinnedHomeCategoryIDs)
			fmt.Printf("week starts Monday:   %t\n", settings.WeekStartsOnMonday)
			return nil
		})
		if err != nil {
			fatal("Failed to read settings", err)
		}
	},
}

var settingsPinCmd = &cobra.Command{
	Use:   "pin <smart-list|category-id>",
	Short: fmt.Sprintf("Pin a smart list or category to the home screen (max %d)", core.MaxPinned),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			var ok bool
			if list := core.SmartList(args[0]); list.Valid() {
				ok = s.PinSmartList(list)
			} else {
				ok = s.PinCategory(args[0])
			}
			if !ok {
				return fmt.Errorf("cannot pin %s: unknown or %d cards already pinned", args[0], core.MaxPinned)
			}
			return nil
		})
		if err != nil {
			fatal("Failed to pin", err)
		}
	},
}

var settingsUnpinCmd = &cobra.Command{
	Use:   "unpin <smart-list|category-id>",
	Short: "Remove a pinned home card",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			if !s.UnpinSmartList(core.SmartList(args[0])) && !s.UnpinCategory(args[0]) {
				return fmt.Errorf("%s is not pinned", args[0])
			}
			return nil
		})
		if err != nil {
			fatal("Failed to unpin", err)
		}
	},
}

var settingsWeekStartCmd = &cobra.Command{
	Use:       "week-start <monday|sunday>",
	Short:     "Set the first day of the week",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"monday", "sunday"},
	Run: func(cmd *cobra.Command, args []string) {
		monday := args[0] == "monday"
		if !monday && args[0] != "sunday" {
			fatal("Invalid week start", fmt.Errorf("expected monday or sunday, got %q", args[0]))
		}
		err := withStore(func(ctx context.Context, s *store.Store) error {
			s.UpdateSettings(core.SettingsPatch{WeekStartsOnMonday: &monday})
			return nil
		})
		if err != nil {
			fatal("Failed to update settings", err)
		}
	},
}

func init() {
	settingsCmd.AddCommand(settingsPinCmd, settingsUnpinCmd, settingsWeekStartCmd)
	rootCmd.AddCommand(settingsCmd)
}
