package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frameline/internal/domain"
	"frameline/internal/engine"
)

func projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(projectCreateCmd())
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectShowCmd())
	prj.AddCommand(projectActiveCmd())
	prj.AddCommand(projectBoardCmd())
	return prj
}

func projectCreateCmd() *cobra.Command {
	var req engine.ProjectRequest
	var projectType string
	var members []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project owned by the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ProjectType = domain.ProjectType(strings.ToUpper(projectType))
			for _, m := range members {
				user, role, _ := strings.Cut(m, ":")
				req.TeamMembers = append(req.TeamMembers, domain.TeamMember{UserID: user, Role: role})
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.CreateProject(ctx, req, actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(p, projectTable([]domain.Project{p}))
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "project name")
	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	cmd.Flags().StringVar(&projectType, "type", string(domain.ProjectTypeFullLengthVideo), "FULL_LENGTH_VIDEO or SHORT_FORM_CONTENT")
	cmd.Flags().StringArrayVar(&members, "member", nil, "team member as user[:role] (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects owned by the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.GetUserProjects(ctx, actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(items, projectTable(items))
			})
		},
	}
}

func projectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.GetProject(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}
}

func projectActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Report whether the current actor owns an active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				ok, err := e.HasActiveProjects(ctx, actorID())
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]bool{"active": ok})
				}
				fmt.Println(ok)
				return nil
			})
		},
	}
}

func projectBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <project-id>",
		Short: "Show the project's kanban board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				b, err := e.GetProjectBoard(ctx, args[0])
				if err != nil {
					return err
				}
				tw := newTable("Column", "ID", "Title", "Priority", "Assignee", "Due")
				for _, col := range b.Columns {
					for _, t := range col.Tasks {
						tw.AppendRow([]any{col.Name, t.ID, t.Title, t.Priority, t.AssignedTo, formatMillis(t.CompletionDate)})
					}
				}
				tw.SetTitle(b.Title)
				return printJSONOrTable(b, tw)
			})
		},
	}
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage board tasks"}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskMoveCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	var req engine.TaskRequest
	var priority, status, due string
	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add a task to the project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Priority = domain.Priority(strings.ToUpper(priority))
			req.Status = domain.TaskStatus(strings.ToUpper(status))
			if due != "" {
				ts, err := parseDate(due)
				if err != nil {
					return err
				}
				req.CompletionDate = ts
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.AddTask(ctx, args[0], req, actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(t, taskTable(t))
			})
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "task title")
	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	cmd.Flags().StringVar(&req.AssignedTo, "assignee", "", "assigned user")
	cmd.Flags().StringVar(&priority, "priority", "", "LOW, MEDIUM or HIGH")
	cmd.Flags().StringVar(&status, "status", "", "TO_DO, IN_PROGRESS or COMPLETED")
	cmd.Flags().StringVar(&due, "due", "", "completion date (RFC3339 or YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskMoveCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "move <project-id> <task-id>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				t, err := e.MoveTask(ctx, args[0], args[1], domain.TaskStatus(strings.ToUpper(status)), actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(t, taskTable(t))
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "target status")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func projectTable(items []domain.Project) renderer {
	tw := newTable("ID", "Name", "Type", "Active", "Members", "Created")
	for _, p := range items {
		tw.AppendRow([]any{p.ID, p.Name, p.ProjectType, p.Active, len(p.TeamMembers), formatMillis(p.CreatedAt)})
	}
	return tw
}

func taskTable(t domain.Task) renderer {
	tw := newTable("ID", "Title", "Status", "Priority", "Assignee", "Due")
	tw.AppendRow([]any{t.ID, t.Title, t.Status, t.Priority, t.AssignedTo, formatMillis(t.CompletionDate)})
	return tw
}

func parseDate(s string) (int64, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid date %q", s)
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
