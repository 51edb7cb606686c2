package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dori/grove/internal/app"
	"github.com/dori/grove/internal/model"
	"github.com/dori/grove/internal/quickadd"
	"github.com/dori/grove/internal/storage"
	"github.com/dori/grove/internal/todo"
	"github.com/dori/grove/internal/ui/views"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// warnPersist reports a change that was applied but could not be stored
func warnPersist(w io.Writer, err error) error {
	if errors.Is(err, todo.ErrPersist) {
		fmt.Fprintln(w, "warning: changes could not be saved:", err)
		return nil
	}
	return err
}

// registerTags adds tags the settings registry does not know yet
func registerTags(a *app.App, tags []string) {
	s := a.Settings
	added := false
	for _, tag := range tags {
		if !s.HasTag(tag) {
			s.Tags = append(slices.Clone(s.Tags), tag)
			added = true
		}
	}
	if added {
		a.SaveSettings(s)
	}
}

func newAddCmd(f *rootFlags) *cobra.Command {
	var group, desc string
	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task using quick-add markers",
		Example: `  grove add Pay rent @home !high due:fri every:month
  grove add --group Work Prepare slides due:+2d`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				in := quickadd.Parse(strings.Join(args, " "), a.Tasks.Now())
				in.Description = desc
				if group != "" {
					g, err := findGroup(a.Tasks, group)
					if err != nil {
						return err
					}
					in.GroupID = g.ID
				}

				t, err := a.Tasks.Create(in)
				if t == nil {
					return err
				}
				registerTags(a, t.Tags)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(t.ID), t.Title)
				return warnPersist(cmd.ErrOrStderr(), err)
			})
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "group id or name (default: active group)")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "description")
	return cmd
}

func newSubtaskCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subtask <parent> <text>...",
		Short: "Add a subtask under an existing task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				parent, err := findTask(a.Tasks, args[0])
				if err != nil {
					return err
				}
				in := quickadd.Parse(strings.Join(args[1:], " "), a.Tasks.Now())
				t, err := a.Tasks.AddSubtask(parent.ID, in)
				if t == nil {
					return err
				}
				registerTags(a, t.Tags)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s under %s\n", shortID(t.ID), t.Title, parent.Title)
				return warnPersist(cmd.ErrOrStderr(), err)
			})
		},
	}
}

type listOptions struct {
	all       bool
	group     string
	tags      []string
	priority  []string
	hideDone  bool
	sortBy    string
	sortOrder string
	asJSON    bool
}

func newListCmd(f *rootFlags) *cobra.Command {
	var o listOptions
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks of the active group as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				return runList(cmd.OutOrStdout(), a, o)
			})
		},
	}
	fl := cmd.Flags()
	fl.BoolVarP(&o.all, "all", "a", false, "list every group")
	fl.StringVarP(&o.group, "group", "g", "", "group id or name")
	fl.StringSliceVarP(&o.tags, "tag", "t", nil, "only tasks with any of these tags")
	fl.StringSliceVarP(&o.priority, "priority", "p", nil, "only these priorities")
	fl.BoolVar(&o.hideDone, "hide-done", false, "hide completed tasks")
	fl.StringVar(&o.sortBy, "sort", "", "createdAt, dueDate, priority or title (default from settings)")
	fl.StringVar(&o.sortOrder, "order", "", "asc or desc (default from settings)")
	fl.BoolVar(&o.asJSON, "json", false, "output JSON")
	return cmd
}

func runList(w io.Writer, a *app.App, o listOptions) error {
	m := a.Tasks
	groupID := m.ActiveGroupID()
	switch {
	case o.all:
		groupID = model.AllGroups
	case o.group != "":
		g, err := findGroup(m, o.group)
		if err != nil {
			return err
		}
		groupID = g.ID
	}

	s := a.Settings
	if len(o.tags) > 0 {
		s.Filters.SelectedTags = o.tags
	}
	if len(o.priority) > 0 {
		s.Filters.SelectedPriorities = nil
		for _, p := range o.priority {
			prio, ok := quickadd.ParsePriority(p)
			if !ok {
				return fmt.Errorf("unknown priority %q", p)
			}
			s.Filters.SelectedPriorities = append(s.Filters.SelectedPriorities, prio)
		}
	}
	if o.hideDone {
		s.Filters.SetShowCompleted(false)
	}
	if o.sortBy != "" {
		s.SortBy = model.SortBy(o.sortBy)
	}
	if o.sortOrder != "" {
		s.SortOrder = model.SortOrder(o.sortOrder)
	}

	tasks := m.TasksByGroup(groupID)
	expanded := make(map[string]bool, len(tasks))
	progress := make(map[string]model.Progress)
	for _, t := range tasks {
		expanded[t.ID] = true
		if t.HasSubtasks() {
			progress[t.ID] = m.SubtaskProgress(t.ID)
		}
	}
	rows := views.BuildRows(tasks, progress, s, expanded)

	if o.asJSON {
		out := make([]model.Task, len(rows))
		for i, r := range rows {
			out[i] = r.Task
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	now := m.Now()
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "", "Title", "Priority", "Due", "Tags", "Subtasks", "Repeats"})
	for _, r := range rows {
		t := r.Task
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
			if !t.Completed && model.DueDateStatus(t.DueDate, now) == model.DueOverdue {
				due += " (overdue)"
			}
		}
		sub := ""
		if r.Progress.Total > 0 {
			sub = fmt.Sprintf("%d/%d", r.Progress.Completed, r.Progress.Total)
		}
		tw.AppendRow(table.Row{
			shortID(t.ID),
			check,
			strings.Repeat("  ", r.Depth) + t.Title,
			t.Priority,
			due,
			strings.Join(t.Tags, ", "),
			sub,
			t.Recurrence.Describe(),
		})
	}
	tw.Render()
	return nil
}

func newDoneCmd(f *rootFlags) *cobra.Command {
	var withSubtasks bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Long: `Toggle a task between open and completed. Completing a recurring task
creates, schedules or resets its next occurrence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				return runDone(cmd.OutOrStdout(), cmd.ErrOrStderr(), a, args[0], withSubtasks)
			})
		},
	}
	cmd.Flags().BoolVarP(&withSubtasks, "subtasks", "s", false, "also complete every open subtask")
	return cmd
}

func runDone(w, errw io.Writer, a *app.App, ref string, withSubtasks bool) error {
	m := a.Tasks
	t, err := findTask(m, ref)
	if err != nil {
		return err
	}

	var errs []error
	if !t.Completed {
		if n := m.IncompleteSubtaskCount(t.ID); n > 0 {
			if withSubtasks {
				errs = append(errs, m.CompleteAllSubtasks(t.ID))
			} else {
				fmt.Fprintf(w, "%d subtask(s) left open; pass --subtasks to complete them\n", n)
			}
		}
	}

	t, err = m.ToggleComplete(t.ID)
	if t == nil {
		return err
	}
	errs = append(errs, err)

	if !t.Completed {
		fmt.Fprintf(w, "Reopened %s\n", t.Title)
		return warnPersist(errw, errors.Join(errs...))
	}
	fmt.Fprintf(w, "Completed %s\n", t.Title)

	if t.IsRecurring() {
		next, err := m.HandleTaskCompletion(t.ID)
		errs = append(errs, err)
		after, _ := m.Get(t.ID)
		switch {
		case next != nil:
			fmt.Fprintf(w, "Next occurrence %s due %s\n", shortID(next.ID), next.DueDate.Format("2006-01-02"))
		case after != nil && !after.Completed && after.DueDate != nil:
			fmt.Fprintf(w, "Reset, now due %s\n", after.DueDate.Format("2006-01-02"))
		case after != nil && todo.IsRecurrenceEnded(after.Recurrence, m.Now()):
			fmt.Fprintln(w, "Recurrence ended")
		}
	}
	return warnPersist(errw, errors.Join(errs...))
}

func newEditCmd(f *rootFlags) *cobra.Command {
	var (
		title, desc, priority, due, group, parent string
		tags                                      []string
		clearDue, noRepeat, toRoot                bool
		repeat                                    string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				m := a.Tasks
				t, err := findTask(m, args[0])
				if err != nil {
					return err
				}

				var patch todo.TaskPatch
				fl := cmd.Flags()
				if fl.Changed("title") {
					patch.Title = &title
				}
				if fl.Changed("desc") {
					patch.Description = &desc
				}
				if fl.Changed("priority") {
					p, ok := quickadd.ParsePriority(priority)
					if !ok {
						return fmt.Errorf("unknown priority %q", priority)
					}
					patch.Priority = &p
				}
				if fl.Changed("due") {
					d, ok := quickadd.ParseDate(due, m.Now())
					if !ok {
						return fmt.Errorf("cannot parse due date %q", due)
					}
					patch.DueDate = &d
				}
				patch.ClearDueDate = clearDue
				if fl.Changed("tags") {
					patch.Tags = append([]string{}, tags...)
				}
				if fl.Changed("group") {
					g, err := findGroup(m, group)
					if err != nil {
						return err
					}
					patch.GroupID = &g.ID
				}
				if fl.Changed("repeat") {
					r, ok := quickadd.ParseRecurrence(repeat)
					if !ok {
						return fmt.Errorf("cannot parse recurrence %q", repeat)
					}
					patch.Recurrence = r
				}
				patch.ClearRecurrence = noRepeat

				var errs []error
				updated, err := m.Update(t.ID, patch)
				if updated == nil {
					return err
				}
				errs = append(errs, err)
				registerTags(a, updated.Tags)

				if toRoot || fl.Changed("parent") {
					parentID := ""
					if !toRoot {
						p, err := findTask(m, parent)
						if err != nil {
							return err
						}
						parentID = p.ID
					}
					_, err = m.MoveSubtask(t.ID, parentID)
					if err != nil && !errors.Is(err, todo.ErrPersist) {
						return err
					}
					errs = append(errs, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", shortID(updated.ID), updated.Title)
				return warnPersist(cmd.ErrOrStderr(), errors.Join(errs...))
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&title, "title", "", "new title")
	fl.StringVar(&desc, "desc", "", "new description")
	fl.StringVarP(&priority, "priority", "p", "", "high, medium or low")
	fl.StringVar(&due, "due", "", "due date (today, fri, +3d, 2024-01-15)")
	fl.BoolVar(&clearDue, "clear-due", false, "remove the due date")
	fl.StringSliceVarP(&tags, "tags", "t", nil, "replace tags")
	fl.StringVarP(&group, "group", "g", "", "move to group")
	fl.StringVar(&repeat, "repeat", "", "recurrence (day, week, month, weekdays, 3d, mon,thu)")
	fl.BoolVar(&noRepeat, "no-repeat", false, "remove the recurrence")
	fl.StringVar(&parent, "parent", "", "make a subtask of this task")
	fl.BoolVar(&toRoot, "root", false, "promote a subtask to the top level")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("repeat", "no-repeat")
	return cmd
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task and all of its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				t, err := findTask(a.Tasks, args[0])
				if err != nil {
					return err
				}
				n, err := a.Tasks.Delete(t.ID)
				if n == 0 {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d task(s)\n", n)
				return warnPersist(cmd.ErrOrStderr(), err)
			})
		},
	}
}

func newStatsCmd(f *rootFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics for the active group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				scope, label := "", views.GroupLabel(a.Tasks)
				if all {
					scope, label = model.AllGroups, "All groups"
				}
				s := a.Tasks.Statistics(scope)

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.SetStyle(table.StyleLight)
				tw.SetTitle("Statistics: " + label)
				tw.AppendHeader(table.Row{"", "All", "Top level"})
				tw.AppendRows([]table.Row{
					{"Total", s.Total, s.RootTotal},
					{"Completed", s.Completed, s.RootCompleted},
					{"Open", s.Incomplete, s.RootIncomplete},
				})
				tw.AppendSeparator()
				tw.AppendRows([]table.Row{
					{"Overdue", s.Overdue, ""},
					{"Due today", s.Today, ""},
					{"Due tomorrow", s.Tomorrow, ""},
					{"High priority", s.PriorityHigh, ""},
					{"Medium priority", s.PriorityMedium, ""},
					{"Low priority", s.PriorityLow, ""},
					{"Recurring", s.Recurring, ""},
					{"With subtasks", s.WithSubtasks, ""},
				})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "count every group")
	return cmd
}

func newGroupsCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "List and manage groups",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				m := a.Tasks
				active := m.ActiveGroupID()
				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"", "ID", "Name", "Tasks", "Open"})
				for _, g := range m.Groups() {
					mark := ""
					if g.ID == active {
						mark = "*"
					}
					s := m.Statistics(g.ID)
					tw.AppendRow(table.Row{mark, shortID(g.ID), g.Name, s.Total, s.Incomplete})
				}
				if active == model.AllGroups {
					tw.AppendFooter(table.Row{"*", "", "all groups", "", ""})
				}
				tw.Render()
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(f, func(a *app.App) error {
					g, err := a.Tasks.CreateGroup(args[0])
					if g == nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Created group %s\n", g.Name)
					return warnPersist(cmd.ErrOrStderr(), err)
				})
			},
		},
		&cobra.Command{
			Use:   "rename <group> <name>",
			Short: "Rename a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(f, func(a *app.App) error {
					g, err := findGroup(a.Tasks, args[0])
					if err != nil {
						return err
					}
					g, err = a.Tasks.UpdateGroup(g.ID, args[1])
					if g == nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Renamed group to %s\n", g.Name)
					return warnPersist(cmd.ErrOrStderr(), err)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <group>",
			Short: "Delete a group and every task in it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(f, func(a *app.App) error {
					g, err := findGroup(a.Tasks, args[0])
					if err != nil {
						return err
					}
					n := len(a.Tasks.TasksByGroup(g.ID))
					if err := a.Tasks.DeleteGroup(g.ID); err != nil && !errors.Is(err, todo.ErrPersist) {
						return err
					} else if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "warning: changes could not be saved:", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s and %d task(s)\n", g.Name, n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "use <group|all>",
			Short: "Set the active group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(f, func(a *app.App) error {
					id := model.AllGroups
					if args[0] != model.AllGroups {
						g, err := findGroup(a.Tasks, args[0])
						if err != nil {
							return err
						}
						id = g.ID
					}
					err := a.Tasks.SetActiveGroup(id)
					if err != nil && !errors.Is(err, todo.ErrPersist) {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Active group: %s\n", views.GroupLabel(a.Tasks))
					return warnPersist(cmd.ErrOrStderr(), err)
				})
			},
		},
	)
	return cmd
}

func newTagsCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and manage tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				names := slices.Clone(a.Settings.Tags)
				for _, tag := range a.Tasks.UsedTags() {
					if !slices.Contains(names, tag) {
						names = append(names, tag)
					}
				}
				slices.Sort(names)

				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.SetStyle(table.StyleLight)
				tw.AppendHeader(table.Row{"Tag", "Tasks"})
				for _, tag := range names {
					tw.AppendRow(table.Row{tag, a.Tasks.TagUsageCount(tag)})
				}
				tw.Render()
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "rename <old> <new>",
			Short: "Rename a tag on every task",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(f, func(a *app.App) error {
					n, err := a.Tasks.RenameTag(args[0], args[1])
					if err != nil && !errors.Is(err, todo.ErrPersist) {
						return err
					}
					s := a.Settings
					s.Tags = slices.DeleteFunc(slices.Clone(s.Tags), func(t string) bool { return t == args[0] })
					if !slices.Contains(s.Tags, args[1]) {
						s.Tags = append(s.Tags, args[1])
					}
					a.SaveSettings(s)
					fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s on %d task(s)\n", args[0], args[1], n)
					return warnPersist(cmd.ErrOrStderr(), err)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <tag>",
			Short: "Remove a tag from every task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(f, func(a *app.App) error {
					n, err := a.Tasks.RemoveTag(args[0])
					if err != nil && !errors.Is(err, todo.ErrPersist) {
						return err
					}
					s := a.Settings
					s.Tags = slices.DeleteFunc(slices.Clone(s.Tags), func(t string) bool { return t == args[0] })
					s.Filters.SelectedTags = slices.DeleteFunc(slices.Clone(s.Filters.SelectedTags), func(t string) bool { return t == args[0] })
					a.SaveSettings(s)
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %d task(s)\n", args[0], n)
					return warnPersist(cmd.ErrOrStderr(), err)
				})
			},
		},
	)
	return cmd
}

func newExportCmd(f *rootFlags) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every group and task as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				w := cmd.OutOrStdout()
				if output != "" && output != "-" {
					file, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", output, err)
					}
					defer file.Close()
					w = file
				}
				return a.Store.Export(w, format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", storage.FormatJSON, "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newSweepCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Create due occurrences of scheduled recurring tasks",
		Long: `Every start runs the sweep; this command reports what it created.
Tasks set to create their next occurrence on the due date get it here once
that date is reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, func(a *app.App) error {
				generated := a.Generated
				more, err := a.Tasks.CheckScheduledRecurrences()
				generated = append(generated, more...)

				w := cmd.OutOrStdout()
				if len(generated) == 0 {
					fmt.Fprintln(w, "No occurrences due")
				}
				for _, t := range generated {
					fmt.Fprintf(w, "Created %s %s due %s\n", shortID(t.ID), t.Title, formatDay(t.DueDate))
				}
				return warnPersist(cmd.ErrOrStderr(), err)
			})
		},
	}
}

func formatDay(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("2006-01-02")
}

func newClearCmd(f *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored tasks, groups and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			return withApp(f, func(a *app.App) error {
				if !a.Store.ClearAll() {
					return errors.New("failed to clear some stored data")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "grove v%s\n", version)
		},
	}
}
