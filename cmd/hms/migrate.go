package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
)

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := postgres.NewMigrator(db).Up(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Info().Int("applied", n).Msg("migrations complete")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := postgres.NewMigrator(db).Status(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
			for _, st := range statuses {
				applied := "pending"
				if st.AppliedAt != nil {
					applied = st.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%03d\t%s\t%s\n", st.Version, st.Name, applied)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}
