package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/internal/service"
)

func generateCmd() *cobra.Command {
	var (
		file, resolved, group, semester, existing string
		weights                                   weightFlags
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a DRAFT timetable for a student group",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadGenerateRequest(file)
			if err != nil {
				return err
			}
			if resolved != "" {
				slots, err := loadResolvedConflicts(resolved)
				if err != nil {
					return err
				}
				req.ResolvedConflicts = slots
			}
			overrideString(&req.GroupID, group)
			overrideSemester(&req.Semester, semester)
			overrideString(&req.ExistingBatchID, existing)
			req.Weights = weights.apply(cmd.Flags(), req.Weights)

			svc, err := app.services()
			if err != nil {
				return err
			}
			resp, err := svc.Schedule.Generate(app.ctx, req)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), app.output, resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with the generate request")
	cmd.Flags().StringVar(&resolved, "resolved", "", "YAML file mapping teacher-subject IDs to manually chosen slots")
	cmd.Flags().StringVar(&group, "group", "", "Student group ID")
	cmd.Flags().StringVar(&semester, "semester", "", "WINTER or SUMMER (defaults to the current semester)")
	cmd.Flags().StringVar(&existing, "replace", "", "DRAFT batch ID to replace")
	weights.register(cmd.Flags())
	return cmd
}

func reoptimizeCmd() *cobra.Command {
	var (
		semester string
		weights  weightFlags
	)
	cmd := &cobra.Command{
		Use:   "reoptimize BATCH_ID...",
		Short: "Regenerate DRAFT batches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.ReoptimizeScheduleRequest{BatchIDs: args, Semester: models.Semester(semester)}
			req.Weights = weights.apply(cmd.Flags(), nil)

			svc, err := app.services()
			if err != nil {
				return err
			}
			resp, err := svc.Schedule.Reoptimize(app.ctx, req)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), app.output, resp)
		},
	}
	cmd.Flags().StringVar(&semester, "semester", "", "Only reoptimize batches of this semester")
	weights.register(cmd.Flags())
	return cmd
}

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish BATCH_ID...",
		Short: "Publish DRAFT batches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.services()
			if err != nil {
				return err
			}
			resp, err := svc.Schedule.Publish(app.ctx, dto.PublishScheduleRequest{BatchIDs: args})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), app.output, resp)
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete BATCH_ID",
		Short: "Delete a DRAFT batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.services()
			if err != nil {
				return err
			}
			if err := svc.Schedule.DeleteBatch(app.ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var query dto.ScheduleBatchQuery
	var semester, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedule batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			query.Semester = models.Semester(semester)
			query.Status = models.ScheduleBatchStatus(status)
			svc, err := app.services()
			if err != nil {
				return err
			}
			batches, err := svc.Schedule.ListBatches(app.ctx, query)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), app.output, batches)
		},
	}
	cmd.Flags().StringVar(&semester, "semester", "", "WINTER or SUMMER")
	cmd.Flags().StringVar(&status, "status", "", "DRAFT or PUBLISHED")
	cmd.Flags().StringVar(&query.GroupID, "group", "", "Student group ID")
	return cmd
}

func exportCmd() *cobra.Command {
	var format, dest string
	cmd := &cobra.Command{
		Use:   "export BATCH_ID",
		Short: "Write a batch as CSV, PDF or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseExportFormat(format)
			if err != nil {
				return err
			}
			svc, err := app.services()
			if err != nil {
				return err
			}
			file, err := svc.Export.ExportBatch(app.ctx, args[0], f)
			if err != nil {
				return err
			}
			if dest == "" {
				dest = file.Filename
			}
			if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", dest, len(file.Data))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv, pdf or xlsx")
	cmd.Flags().StringVar(&dest, "out", "", "Destination path (defaults to the generated file name)")
	return cmd
}

func tokenCmd() *cobra.Command {
	var req dto.IssueTokenRequest
	var role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.UserRole(role)
			expiry := app.cfg.JWT.Expiration
			if ttl > 0 {
				expiry = ttl
			}
			auth := service.NewAuthService(nil, app.logger, service.AuthConfig{
				AccessTokenSecret: app.cfg.JWT.Secret,
				AccessTokenExpiry: expiry,
				Issuer:            app.cfg.JWT.Issuer,
			})
			resp, err := auth.IssueAccessToken(req)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), app.output, resp)
		},
	}
	cmd.Flags().StringVar(&req.UserID, "user", "", "Subject user ID")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "SUPERADMIN, ADMIN, TEACHER or STUDENT")
	cmd.Flags().StringVar(&req.GroupID, "group", "", "Student group the token is scoped to")
	cmd.Flags().StringVar(&req.TeacherID, "teacher", "", "Teacher the token is scoped to")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	return cmd
}
