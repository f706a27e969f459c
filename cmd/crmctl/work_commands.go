package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devxankit/crm-saas/internal/domain"
)

func newProjectsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "projects <pm|client>",
		Short:     "List projects visible to the portal",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pm", "client"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := domain.LookupNamespace(args[0])
			if err != nil {
				return err
			}
			var projects []domain.Project
			switch ns.Name {
			case domain.NamespacePM:
				projects, err = a.portals.PM.Projects(cmd.Context())
			case domain.NamespaceClient:
				projects, err = a.portals.Client.Projects(cmd.Context())
			default:
				return fmt.Errorf("the %s portal has no project listing", ns.Name)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), projects)
		},
	}
}

func newTasksCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the employee's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.portals.Employee.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tasks)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-status <task-id> <status>",
		Short: "Move a task to pending, in-progress, testing or completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.portals.Employee.UpdateTaskStatus(cmd.Context(), args[0], domain.TaskStatus(args[1]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task)
		},
	})
	return cmd
}

func newUploadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <project-id> <file>",
		Short: "Attach a file to a PM project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			attachment, err := a.portals.PM.UploadAttachment(cmd.Context(), args[0], filepath.Base(args[1]), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), attachment)
		},
	}
}
