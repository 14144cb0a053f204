package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcolonia21/BizGuide-Final-System/internal/database"
	"github.com/lcolonia21/BizGuide-Final-System/internal/tools/common"
)

type options struct {
	envFile string
	migrate bool
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling", SilenceUsage: true, SilenceErrors: true}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().BoolVar(&opts.migrate, "migrate", true, "apply schema migrations before seeding")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Load demo users, businesses and reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, "apply", func(ctx context.Context) ([]string, error) {
				_, db, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer common.CloseDB(db)
				if opts.migrate {
					if err := database.Migrate(db); err != nil {
						return nil, err
					}
				}
				report, err := database.Seed(db, database.DemoSeedData())
				if err != nil {
					return nil, err
				}
				return reportLines(report), nil
			})
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, "dry-run", func(ctx context.Context) ([]string, error) {
				return planLines(database.DemoSeedData()), nil
			})
		},
	}
}

func execute(cmd *cobra.Command, opts *options, command string, fn common.Action) error {
	_, err := common.Run(cmd.Context(), common.RunOptions{Tool: "seed", Command: command, CI: opts.ci}, fn)
	return common.WithExitCode(3, err)
}

func reportLines(report *database.SeedReport) []string {
	if report.Noop {
		return []string{"seed data already present, nothing created"}
	}
	return []string{
		fmt.Sprintf("created users: %d", report.CreatedUsers),
		fmt.Sprintf("created businesses: %d", report.CreatedBusinesses),
		fmt.Sprintf("created reviews: %d", report.CreatedReviews),
	}
}

func planLines(data database.SeedData) []string {
	out := make([]string, 0, len(data.Users)+len(data.Businesses)+len(data.Reviews)+1)
	for _, u := range data.Users {
		out = append(out, "would ensure user: "+u.Email)
	}
	for _, b := range data.Businesses {
		out = append(out, fmt.Sprintf("would ensure business %q owned by %s", b.Name, b.OwnerEmail))
	}
	for _, r := range data.Reviews {
		out = append(out, fmt.Sprintf("would ensure %d-star review of %q by %s", r.Rating, r.BusinessName, r.AuthorEmail))
	}
	return append(out, "existing rows are left untouched")
}
