package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/projectprovider"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/spf13/cobra"
)

const (
	defaultFetchOut = "data/projectStages.json"
	fetchTimeout    = time.Minute
)

type stageSubtask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
	DueDate   string `json:"dueDate" yaml:"dueDate"`
}

type stageComment struct {
	ID     string `json:"id" yaml:"id"`
	Author string `json:"author" yaml:"author"`
	Date   string `json:"date" yaml:"date"`
	Text   string `json:"text" yaml:"text"`
}

type projectStage struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Status      string         `json:"status" yaml:"status"`
	Description string         `json:"description" yaml:"description"`
	StartDate   string         `json:"startDate" yaml:"startDate"`
	EndDate     string         `json:"endDate" yaml:"endDate"`
	Progress    int            `json:"progress" yaml:"progress"`
	Subtasks    []stageSubtask `json:"subtasks" yaml:"subtasks"`
	Comments    []stageComment `json:"comments" yaml:"comments"`
}

type projectStages struct {
	ProjectStages []projectStage `json:"projectStages" yaml:"projectStages"`
}

func stagesFromProject(project domain.Project, loc *time.Location) projectStages {
	stages := make([]projectStage, 0, len(project.Checkpoints))
	for _, checkpoint := range project.Checkpoints {
		subtasks := make([]stageSubtask, 0, len(checkpoint.Subtasks))
		for _, subtask := range checkpoint.Subtasks {
			subtasks = append(subtasks, stageSubtask{
				ID:        subtask.ID,
				Title:     subtask.Title,
				Completed: subtask.Completed,
				DueDate:   domain.FormatDisplayDate(subtask.DueDate, loc),
			})
		}

		comments := make([]stageComment, 0, len(checkpoint.Comments))
		for _, comment := range checkpoint.Comments {
			comments = append(comments, stageComment{
				ID:     comment.ID,
				Author: comment.Author,
				Date:   domain.FormatDisplayDate(comment.Date, loc),
				Text:   comment.Text,
			})
		}

		stages = append(stages, projectStage{
			ID:          checkpoint.ID,
			Name:        checkpoint.Name,
			Status:      string(checkpoint.Status),
			Description: checkpoint.Description,
			StartDate:   domain.FormatDisplayDate(checkpoint.StartDate, loc),
			EndDate:     domain.FormatDisplayDate(checkpoint.EndDate, loc),
			Progress:    checkpoint.Progress,
			Subtasks:    subtasks,
			Comments:    comments,
		})
	}
	return projectStages{ProjectStages: stages}
}

func newFetchCommand(deps Dependencies, opts *rootOptions) *cobra.Command {
	var (
		out        string
		source     string
		listID     string
		webhookURL string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the project once and export its stages as JSON",
		Long: `Run the project pipeline once and write the checkpoint list.

Use --out - to print to stdout in the --output format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.location(deps)
			if err != nil {
				return err
			}

			provider, settings, err := buildFetchProvider(deps, opts, loc, envOrFlag(source, deps, "PROJECT_SOURCE"), listID, webhookURL)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()

			snapshot, err := provider.GetProject(ctx, settings)
			if err != nil {
				return fmt.Errorf("failed to fetch project: %w", err)
			}

			stages := stagesFromProject(snapshot.Project, loc)

			if out == "-" {
				return writeOutput(cmd.OutOrStdout(), opts.output, stages)
			}

			if err := writeStagesFile(out, stages); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d stages to %s\n", len(stages.ProjectStages), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", defaultFetchOut, "Output file, or - for stdout")
	cmd.Flags().StringVar(&source, "source", "", "Project source: api or webhook (default $PROJECT_SOURCE or api)")
	cmd.Flags().StringVar(&listID, "list", "", "ClickUp list ID (default $CLICKUP_LIST_ID)")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL (default $CLICKUP_WEBHOOK_URL)")

	return cmd
}

func buildFetchProvider(deps Dependencies, opts *rootOptions, loc *time.Location, source, listID, webhookURL string) (projectprovider.ProjectProvider, domain.Settings, error) {
	switch source {
	case "", string(domain.ProjectSourceClickUpAPI), "api":
		settings := domain.Settings{ListID: envOrFlag(listID, deps, "CLICKUP_LIST_ID")}
		if settings.ListID == "" {
			return nil, domain.Settings{}, fmt.Errorf("%w: no list ID (use --list or CLICKUP_LIST_ID)", domain.ErrNotConfigured)
		}

		api, err := opts.api(deps)
		if err != nil {
			return nil, domain.Settings{}, err
		}

		provider, err := projectprovider.NewClickUp(api, projectprovider.ProjectDefaults{}, deps.NowFunc, loc)
		if err != nil {
			return nil, domain.Settings{}, fmt.Errorf("failed to create provider: %w", err)
		}
		return provider, settings, nil
	case "webhook":
		url := envOrFlag(webhookURL, deps, "CLICKUP_WEBHOOK_URL")
		if url == "" {
			return nil, domain.Settings{}, fmt.Errorf("%w: no webhook URL (use --webhook-url or CLICKUP_WEBHOOK_URL)", domain.ErrNotConfigured)
		}

		provider, err := projectprovider.NewWebhook(deps.HTTPClient, url, projectprovider.ProjectDefaults{}, deps.NowFunc, loc)
		if err != nil {
			return nil, domain.Settings{}, fmt.Errorf("failed to create provider: %w", err)
		}
		return provider, domain.Settings{}, nil
	}
	return nil, domain.Settings{}, fmt.Errorf("invalid source '%s': must be 'api' or 'webhook'", source)
}

func writeStagesFile(path string, stages projectStages) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := writeOutput(file, outputJSON, stages); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
