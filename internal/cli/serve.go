package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tabular/adapters/excel"
	"tabular/internal/config"
	"tabular/ui"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve <file>...",
		Short: "Serve data files as a browsable frame explorer",
		Long: `Load the given data files and serve them over HTTP. Each file is
registered under its base name (without extension) with an HTML table
view, a JSON records endpoint and a summary-statistics page.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			registry := ui.NewRegistry()
			for _, path := range args {
				f, err := readFrame(c.Context(), path, excel.ReadOptions{})
				if err != nil {
					return err
				}
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				id, err := registry.Register(name, f)
				if err != nil {
					return err
				}
				nRows, nCols := f.Shape()
				logger.Infof("registered %s: %d rows × %d columns", id, nRows, nCols)
			}

			if port == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				port = cfg.Server.Port
			}

			app, err := ui.NewApp(ui.Config{Port: port}, registry)
			if err != nil {
				return err
			}
			logger.Infof("serving %d frames on :%s", len(args), port)
			return app.Start()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (defaults to config)")

	return cmd
}
