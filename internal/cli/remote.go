package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tabular/adapters/excel"
	"tabular/adapters/objstore"
	"tabular/internal/config"
)

func remoteStore() (*objstore.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return objstore.New(objstore.Config{
		EndpointURL:     cfg.ObjectStore.EndpointURL,
		AccessKeyID:     cfg.ObjectStore.AccessKeyID,
		SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
		Region:          cfg.ObjectStore.Region,
		UseSSL:          cfg.ObjectStore.UseSSL,
		Bucket:          cfg.ObjectStore.Bucket,
	})
}

// remoteFormat maps an object key to its artifact encoding.
func remoteFormat(key string) objstore.Format {
	if strings.EqualFold(filepath.Ext(key), ".parquet") {
		return objstore.FormatParquet
	}
	return objstore.FormatCSV
}

func newPushCmd() *cobra.Command {
	var (
		key   string
		sheet string
	)

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Upload a data file to the object store",
		Long:  `Read a local data file and upload it to the configured bucket. The object key defaults to the file name; keys ending in .parquet are stored as parquet, everything else as CSV.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			p := newProgress(logger)

			store, err := remoteStore()
			if err != nil {
				return err
			}

			f, err := readFrame(c.Context(), args[0], excel.ReadOptions{Sheet: sheet})
			if err != nil {
				return err
			}

			if key == "" {
				key = filepath.Base(args[0])
			}
			uri, err := store.PutFrame(c.Context(), key, f, remoteFormat(key))
			if err != nil {
				return err
			}

			p.done("pushed %d rows to %s", f.NRows(), uri)
			fmt.Fprintln(c.OutOrStdout(), uri)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "object key (defaults to the file name)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for Excel files")

	return cmd
}

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull <key> <file>",
		Short: "Download an object store artifact to a local data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())
			p := newProgress(logger)

			store, err := remoteStore()
			if err != nil {
				return err
			}

			f, err := store.GetFrame(c.Context(), args[0], remoteFormat(args[0]))
			if err != nil {
				return err
			}
			if err := writeFrame(args[1], f, excel.WriteOptions{}); err != nil {
				return err
			}

			p.done("pulled %d rows into %s", f.NRows(), args[1])
			return nil
		},
	}

	return cmd
}
