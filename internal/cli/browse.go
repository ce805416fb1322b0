package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/spf13/cobra"
)

const browseTimeout = 30 * time.Second

type spaceView struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type listView struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty"`
}

type taskView struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Status    string `json:"status" yaml:"status"`
	StartDate string `json:"startDate" yaml:"startDate"`
	DueDate   string `json:"dueDate" yaml:"dueDate"`
	// Resolved/total checklist items
	Checklist string `json:"checklist" yaml:"checklist"`
	Comments  int    `json:"comments" yaml:"comments"`
}

func newSpacesCommand(deps Dependencies, opts *rootOptions) *cobra.Command {
	var teamID string

	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "List the spaces of a ClickUp team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api(deps)
			if err != nil {
				return err
			}

			team := envOrFlag(teamID, deps, "CLICKUP_TEAM_ID")
			getSettings := func(ctx context.Context) (domain.Settings, error) {
				return domain.Settings{TeamID: team}, nil
			}
			listSpaces := app.BuildListWorkspaceSpaces(getSettings, api)

			ctx, cancel := context.WithTimeout(cmd.Context(), browseTimeout)
			defer cancel()

			spaces, err := listSpaces(ctx)
			if err != nil {
				return fmt.Errorf("failed to list spaces: %w", err)
			}

			views := make([]spaceView, 0, len(spaces))
			for _, space := range spaces {
				views = append(views, spaceView{ID: space.ID, Name: space.Name})
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, views)
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "ClickUp team ID (default $CLICKUP_TEAM_ID)")

	return cmd
}

func newListsCommand(deps Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lists <spaceID>",
		Short: "List the lists of a ClickUp space, including lists inside folders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.api(deps)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), browseTimeout)
			defer cancel()

			lists, err := app.BuildListWorkspaceLists(api)(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list lists: %w", err)
			}

			views := make([]listView, 0, len(lists))
			for _, list := range lists {
				views = append(views, listView{ID: list.ID, Name: list.Name, Folder: list.Folder})
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, views)
		},
	}
}

func newTasksCommand(deps Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <listID>",
		Short: "List the tasks of a ClickUp list, including closed tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.location(deps)
			if err != nil {
				return err
			}

			api, err := opts.api(deps)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), browseTimeout)
			defer cancel()

			tasks, err := api.GetTasks(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			views := make([]taskView, 0, len(tasks))
			for _, task := range tasks {
				views = append(views, newTaskView(task, loc))
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, views)
		},
	}
}

func newTaskView(task clickup.Task, loc *time.Location) taskView {
	resolved, total := 0, 0
	for _, checklist := range task.Checklists {
		for _, item := range checklist.Items {
			total++
			if item.Resolved {
				resolved++
			}
		}
	}

	return taskView{
		ID:        task.ID,
		Name:      task.Name,
		Status:    task.Status.Status,
		StartDate: domain.FormatDisplayDate(task.StartDate.Time, loc),
		DueDate:   domain.FormatDisplayDate(task.DueDate.Time, loc),
		Checklist: fmt.Sprintf("%d/%d", resolved, total),
		Comments:  len(task.Comments),
	}
}
