package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/lcolonia21/BizGuide-Final-System/internal/database"
	"github.com/lcolonia21/BizGuide-Final-System/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Database migration tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newUpCommand(opts),
		newStatusCommand(opts),
		newPlanCommand(opts),
	)
	return cmd
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, "up", func(ctx context.Context) ([]string, error) {
				cfg, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)

				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				details := []string{"schema migration applied", "driver: " + cfg.DBDriver}
				return append(details, statusLines(database.Status(db))...), nil
			})
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which managed tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, "status", func(ctx context.Context) ([]string, error) {
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				if err := ping(ctx, db); err != nil {
					return nil, err
				}

				statuses := database.Status(db)
				details := statusLines(statuses)
				for _, s := range statuses {
					if !s.Exists {
						return details, fmt.Errorf("table %s missing; run migrate up", s.Table)
					}
				}
				return details, nil
			})
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show migration plan (dry-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, "plan", func(ctx context.Context) ([]string, error) {
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				if err := ping(ctx, db); err != nil {
					return nil, err
				}
				details := []string{"would apply AutoMigrate for domain models"}
				for _, s := range database.Status(db) {
					action := "create"
					if s.Exists {
						action = "reconcile"
					}
					details = append(details, fmt.Sprintf("%s: %s", s.Table, action))
				}
				return append(details, "no mutation executed in plan mode"), nil
			})
		},
	}
}

func execute(cmd *cobra.Command, opts *options, command string, fn common.Action) error {
	_, err := common.Run(cmd.Context(), common.RunOptions{Tool: "migrate", Command: command, CI: opts.ci, Timeout: opts.timeout}, fn)
	return common.WithExitCode(3, err)
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

func statusLines(statuses []database.MigrationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		state := "missing"
		if s.Exists {
			state = "present"
		}
		out = append(out, fmt.Sprintf("table %s: %s", s.Table, state))
	}
	return out
}
