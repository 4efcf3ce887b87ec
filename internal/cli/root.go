package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version,
// typically injected by the main package via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the tabular CLI and returns an error if any command
// fails. Logging defaults to info level on stderr; --verbose switches
// to debug.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "tabular",
		Short:        "tabular inspects, converts and ships columnar data files",
		Long:         `tabular works with CSV, Excel and Parquet frames: preview and summarize them, convert between formats, load them into Postgres, push them to object storage and browse them over HTTP.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("tabular %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newHeadCmd())
	root.AddCommand(newDescribeCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newSQLCmd())
	root.AddCommand(newPushCmd())
	root.AddCommand(newPullCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
