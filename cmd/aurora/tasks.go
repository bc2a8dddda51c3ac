package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/aurora/pkg/core"
	"github.com/aretw0/aurora/pkg/store"
)

var (
	taskList     string
	taskDue      string
	taskCategory string
	taskFlagged  bool
	taskPriority string
	taskNotes    string
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Manage tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally through a smart list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			tasks := s.Tasks()
			if taskList != "" {
				list := core.SmartList(taskList)
				if !list.Valid() {
					return fmt.Errorf("unknown smart list %q", taskList)
				}
				tasks = s.TasksIn(list)
			}

			if jsonOutput {
				printJSON(tasks)
				return nil
			}
			printTasks(s, tasks)
			return nil
		})
		if err != nil {
			fatal("Failed to list tasks", err)
		}
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			t := core.Task{
				Title:    args[0],
				Flagged:  taskFlagged,
				Priority: core.Priority(taskPriority),
				Notes:    taskNotes,
			}
			if taskDue != "" {
				due, err := parseDue(taskDue)
				if err != nil {
					return err
				}
				t.Due = &due
				t.Reminder = true
			}
			if taskCategory != "" {
				c, ok := core.FindCategoryByName(s.Categories(), taskCategory)
				if !ok {
					return fmt.Errorf("no category named %q", taskCategory)
				}
				t.CategoryID = c.ID
			}

			added, err := s.AddTask(t)
			if err != nil {
				return err
			}
			fmt.Println(added.ID)
			return nil
		})
		if err != nil {
			fatal("Failed to add task", err)
		}
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle the completion of a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			if !s.ToggleCompletion(args[0]) {
				return fmt.Errorf("task %s not found", args[0])
			}
			return nil
		})
		if err != nil {
			fatal("Failed to toggle task", err)
		}
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			if !s.DeleteTask(args[0]) {
				return fmt.Errorf("task %s not found", args[0])
			}
			return nil
		})
		if err != nil {
			fatal("Failed to delete task", err)
		}
	},
}

var tasksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withStore(func(ctx context.Context, s *store.Store) error {
			fmt.Printf("removed %d completed tasks\n", s.ClearCompleted())
			return nil
		})
		if err != nil {
			fatal("Failed to clear tasks", err)
		}
	},
}

// parseDue accepts RFC 3339 instants and local dates or date-times.
func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", s)
}

func printTasks(s *store.Store, tasks []core.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTITLE\tDUE\tCATEGORY\tPRIORITY")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := "-"
		if t.Due != nil {
			due = t.Due.Local().Format("2006-01-02 15:04")
		}
		category := "-"
		if t.CategoryID != "" {
			category = "?"
			if c, ok := s.Category(t.CategoryID); ok {
				category = c.Name
			}
		}
		title := t.Title
		if t.Flagged {
			title += " !"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, done, title, due, category, t.Priority)
	}
	w.Flush()
}

func init() {
	tasksListCmd.Flags().StringVar(&taskList, "list", "", "Smart list: Today, Scheduled, All, Flagged or Completed")

	tasksAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD, 'YYYY-MM-DD HH:MM' or RFC 3339)")
	tasksAddCmd.Flags().StringVar(&taskCategory, "category", "", "Category name")
	tasksAddCmd.Flags().BoolVar(&taskFlagged, "flag", false, "Flag the task")
	tasksAddCmd.Flags().StringVar(&taskPriority, "priority", string(core.PriorityNone), "None, Low, Medium or High")
	tasksAddCmd.Flags().StringVar(&taskNotes, "notes", "", "Free-text notes")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd, tasksRmCmd, tasksClearCmd)
	rootCmd.AddCommand(tasksCmd)
}
