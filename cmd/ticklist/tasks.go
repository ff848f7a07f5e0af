package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ticklist/model"
)

var (
	flagListFilter    string
	flagListAllFields bool
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a new task to the top of the list.

The title is everything after 'add'; surrounding whitespace is trimmed.

Examples:
  ticklist add Buy milk
  ticklist add "Call the plumber about the kitchen sink"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		task, err := svc.AddTask(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", task.Title, shortID(task.ID))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks, newest first.

Each line shows a checkbox, a short id, and the title. Ids printed here
are prefixes; any command that takes an id accepts a unique prefix.

Examples:
  ticklist list
  ticklist list --filter active
  ticklist list --all-fields`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		if flagListFilter != "" {
			if err := svc.SetFilter(model.Filter(strings.ToLower(flagListFilter))); err != nil {
				return err
			}
		}

		tasks := svc.VisibleTasks()
		if len(tasks) == 0 {
			if svc.Filter() != model.FilterAll {
				fmt.Printf("No %s tasks\n", svc.Filter())
			} else {
				fmt.Println("No tasks")
			}
			return nil
		}
		printTasks(os.Stdout, tasks, flagListAllFields)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between done and open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		task, err := svc.FindTask(args[0])
		if err != nil {
			return err
		}
		task, err = svc.ToggleTask(task.ID)
		if err != nil {
			return err
		}
		if task.Completed {
			fmt.Printf("Completed %s\n", task.Title)
		} else {
			fmt.Printf("Reopened %s\n", task.Title)
		}
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done",
	Long: `Mark a task as done.

Unlike toggle, done never reopens: marking an already completed task is
a no-op.

Example:
  ticklist done 1a2b3c4d`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		task, err := svc.FindTask(args[0])
		if err != nil {
			return err
		}
		task, err = svc.CompleteTask(task.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Completed %s\n", task.Title)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <title>",
	Short: "Retitle a task",
	Long: `Replace a task's title.

The new title is everything after the id. A title that trims to nothing
is rejected and the task is left unchanged.

Example:
  ticklist edit 1a2b3c4d Buy oat milk instead`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		task, err := svc.FindTask(args[0])
		if err != nil {
			return err
		}
		task, err = svc.EditTask(task.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", task.Title)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		task, err := svc.FindTask(args[0])
		if err != nil {
			return err
		}
		if err := svc.RemoveTask(task.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", task.Title)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		n := svc.ClearCompleted()
		if n == 0 {
			fmt.Println("No completed tasks")
			return nil
		}
		fmt.Printf("Cleared %d completed %s\n", n, taskWord(n))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		s := svc.Stats()
		fmt.Printf("%d %s: %d done, %d remaining\n", s.Total, taskWord(s.Total), s.Done, s.Remaining)
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the color theme",
	Long: `Show the persisted color theme, or set it.

The theme only affects the interactive UI.

Examples:
  ticklist theme           # print the current theme
  ticklist theme dark`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeSvc, err := openService()
		if err != nil {
			return err
		}
		defer func() { _ = closeSvc() }()

		if len(args) == 0 {
			fmt.Println(svc.Theme())
			return nil
		}
		theme := model.Theme(strings.ToLower(args[0]))
		if err := svc.SetTheme(theme); err != nil {
			return err
		}
		fmt.Printf("Theme set to %s\n", theme)
		return nil
	},
}

// printTasks writes one line per task: checkbox, id, title. With allFields
// the full id and the creation time are included.
func printTasks(w io.Writer, tasks []model.Task, allFields bool) {
	for _, t := range tasks {
		box := " "
		if t.Completed {
			box = "x"
		}
		if allFields {
			fmt.Fprintf(w, "[%s] %s  %s  %s\n", box, t.ID, t.CreatedTime().Format("2006-01-02 15:04"), t.Title)
		} else {
			fmt.Fprintf(w, "[%s] %s  %s\n", box, shortID(t.ID), t.Title)
		}
	}
}

// shortID returns the first eight characters of an id. Commands accept
// unique prefixes, so the short form stays usable as an argument.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func taskWord(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}

func init() {
	listCmd.Flags().StringVarP(&flagListFilter, "filter", "f", "", "Show only matching tasks (all, active, completed)")
	listCmd.Flags().BoolVar(&flagListAllFields, "all-fields", false, "Show full ids and creation times")
}
