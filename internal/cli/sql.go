package cli

import (
	"github.com/spf13/cobra"

	"tabular/adapters/excel"
	"tabular/adapters/postgres"
	"tabular/internal/config"
	apperrors "tabular/internal/errors"
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Move frames in and out of Postgres",
		Long:  `Import data files into Postgres tables and export query results back to files. The connection string comes from DATABASE_URL or the config file.`,
	}

	cmd.AddCommand(newSQLImportCmd())
	cmd.AddCommand(newSQLExportCmd())
	return cmd
}

func databaseDSN() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Database.DSN == "" {
		return "", apperrors.ConfigInvalid("no database configured, set DATABASE_URL or database.dsn")
	}
	return cfg.Database.DSN, nil
}

func newSQLImportCmd() *cobra.Command {
	var (
		sheet string
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "import <file> <table>",
		Short: "Load a data file into a Postgres table",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			p := newProgress(logger)

			dsn, err := databaseDSN()
			if err != nil {
				return err
			}
			db, err := postgres.Connect(c.Context(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := readFrame(c.Context(), args[0], excel.ReadOptions{Sheet: sheet})
			if err != nil {
				return err
			}
			if err := postgres.WriteSQL(c.Context(), db, args[1], f, postgres.IfExists(mode)); err != nil {
				return err
			}

			p.done("imported %d rows into %s", f.NRows(), args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for Excel files")
	cmd.Flags().StringVar(&mode, "if-exists", string(postgres.Fail), "behavior when the table exists: fail, replace or append")

	return cmd
}

func newSQLExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <query> <file>",
		Short: "Run a query and write the result to a data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			p := newProgress(logger)

			dsn, err := databaseDSN()
			if err != nil {
				return err
			}
			db, err := postgres.Connect(c.Context(), dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := postgres.ReadSQL(c.Context(), db, args[0])
			if err != nil {
				return err
			}
			if err := writeFrame(args[1], f, excel.WriteOptions{}); err != nil {
				return err
			}

			p.done("exported %d rows to %s", f.NRows(), args[1])
			return nil
		},
	}

	return cmd
}
