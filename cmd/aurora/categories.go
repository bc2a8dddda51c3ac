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
	categoryColor string
	categoryIcon  string
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage task categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			categories := s.Categories()
			if jsonOutput {
				printJSON(categories)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tICON\tOPEN")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Color, c.Icon, len(s.TasksInCategory(c.ID)))
			}
			return w.Flush()
		})
		if err != nil {
			fatal("Failed to list categories", err)
		}
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			c, err := s.AddCategory(core.Category{Name: args[0], Color: categoryColor, Icon: categoryIcon})
			if err != nil {
				return err
			}
			fmt.Println(c.ID)
			return nil
		})
		if err != nil {
			fatal("Failed to add category", err)
		}
	},
}

var categoriesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a category (its tasks keep the reference)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			if !s.DeleteCategory(args[0]) {
				return fmt.Errorf("category %s not found", args[0])
			}
			return nil
		})
		if err != nil {
			fatal("Failed to delete category", err)
		}
	},
}

func init() {
	categoriesAddCmd.Flags().StringVar(&categoryColor, "color", "#007AFF", "Color as #RRGGBB")
	categoriesAddCmd.Flags().StringVar(&categoryIcon, "icon", "list.bullet", "Icon name")

	categoriesCmd.AddCommand(categoriesListCmd, categoriesAddCmd, categoriesRmCmd)
	rootCmd.AddCommand(categoriesCmd)
}
