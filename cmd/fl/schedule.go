package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"frameline/internal/domain"
	"frameline/internal/engine"
)

func scheduleCmd() *cobra.Command {
	sc := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect and update project schedules",
		Long:  "Each project has at most one schedule: tasks in progress, completed and overdue. 'show' creates an empty one on first access.",
	}
	sc.AddCommand(scheduleShowCmd())
	sc.AddCommand(scheduleUpdateCmd())
	sc.AddCommand(scheduleRebuildCmd())
	return sc
}

func scheduleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show (or create) the project schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.GetOrCreateSchedule(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(s, scheduleTable(s))
			})
		},
	}
}

func scheduleUpdateCmd() *cobra.Command {
	var file, data string
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Replace the schedule buckets",
		Long:  `Buckets are read as JSON, e.g. {"inProgress":[{"id":"t1","title":"Rough cut"}],"completed":[],"overdue":[]}, from --data, --file or stdin ("-").`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(data, file)
			if err != nil {
				return err
			}
			var buckets domain.ScheduleBuckets
			if err := json.Unmarshal(raw, &buckets); err != nil {
				return fmt.Errorf("invalid buckets json: %w", err)
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.UpdateSchedule(ctx, args[0], buckets, actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(s, scheduleTable(s))
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "buckets JSON")
	cmd.Flags().StringVar(&file, "file", "", "path to buckets JSON (- for stdin)")
	return cmd
}

func scheduleRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <project-id>",
		Short: "Derive the schedule from the project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.RebuildSchedule(ctx, args[0], actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(s, scheduleTable(s))
			})
		},
	}
}

func noteCmd() *cobra.Command {
	n := &cobra.Command{Use: "note", Short: "Manage project notes"}
	n.AddCommand(noteAddCmd())
	n.AddCommand(noteListCmd())
	return n
}

func noteAddCmd() *cobra.Command {
	var req engine.NoteRequest
	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add a note authored by the current actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				note, err := e.CreateNote(ctx, args[0], req, actorID())
				if err != nil {
					return err
				}
				return printJSONOrTable(note, noteTable([]domain.Note{note}))
			})
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "note title")
	cmd.Flags().StringVar(&req.Content, "content", "", "note content")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func noteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List project notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				notes, err := e.GetProjectNotes(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(notes, noteTable(notes))
			})
		},
	}
}

func assetCmd() *cobra.Command {
	a := &cobra.Command{
		Use:   "asset",
		Short: "Upload and list project assets",
		Long:  "Uploaded assets are checked against the project's metadata policy; violations are stored as warnings and never block the upload.",
	}
	a.AddCommand(assetUploadCmd())
	a.AddCommand(assetListCmd())
	return a
}

func assetUploadCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "upload <project-id> <path>",
		Short: "Upload an asset file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[1])
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				f, res, err := e.UploadAsset(ctx, args[0], name, data, actorID())
				if err != nil {
					return err
				}
				tw := fileTable([]domain.ProjectFile{f})
				for _, w := range res.Warnings {
					tw.AppendFooter([]any{"warning", w})
				}
				return printJSONOrTable(map[string]any{"file": f, "validation": res}, tw)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "stored filename (defaults to the file's base name)")
	return cmd
}

func assetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List uploaded assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				files, err := e.ListProjectFiles(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(files, fileTable(files))
			})
		},
	}
}

func scheduleTable(s domain.Schedule) renderer {
	tw := newTable("Bucket", "ID", "Title", "Assignee", "Priority", "Due")
	add := func(bucket string, items []domain.TaskItem) {
		for _, it := range items {
			tw.AppendRow([]any{bucket, it.ID, it.Title, it.AssignedTo, it.Priority, formatMillis(it.DueDate)})
		}
	}
	add("in progress", s.InProgress)
	add("completed", s.Completed)
	add("overdue", s.Overdue)
	tw.SetTitle(fmt.Sprintf("schedule %s (updated %s)", s.ID, formatMillis(s.UpdatedAt)))
	return tw
}

func noteTable(notes []domain.Note) renderer {
	tw := newTable("ID", "Title", "Author", "Created")
	for _, n := range notes {
		tw.AppendRow([]any{n.ID, n.Title, n.CreatedBy, formatMillis(n.CreatedAt)})
	}
	return tw
}

func fileTable(files []domain.ProjectFile) table.Writer {
	tw := newTable("ID", "Filename", "Size", "Codec", "Audio", "Resolution", "Warnings", "Uploaded by")
	for _, f := range files {
		tw.AppendRow([]any{f.ID, f.Filename, f.Size, f.Codec, f.AudioChannels, f.Resolution, len(f.Warnings), f.UploadedBy})
	}
	return tw
}

func readInput(data, file string) ([]byte, error) {
	switch {
	case data != "":
		return []byte(data), nil
	case file == "-":
		return io.ReadAll(os.Stdin)
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, fmt.Errorf("--data or --file required")
	}
}
