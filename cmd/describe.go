package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vistoria-app/vistoria/internal/describe"
)

func newDescribeCmd(a *app) *cobra.Command {
	var dir string
	var out string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe a folder of photos without rendering a report",
		Long: `Sends every png, jpg, jpeg or gif file in a folder to the configured vision
provider and writes the descriptions to a YAML or Parquet file.

The output can be reviewed, edited and passed back to "vistoria report --descriptions".`,
		Example: `  # Describe photos with the default provider
  vistoria describe --dir ./fotos --out descricoes.yaml

  # Use a local Ollama model and write Parquet
  DESCRIBE_PROVIDER=ollama vistoria describe --dir ./fotos --out descricoes.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateProvider(); err != nil {
				return err
			}

			fetcher, err := describe.New(a.cfg)
			if err != nil {
				return err
			}

			descriptions, err := fetcher.DescribeDir(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("describe %s: %w", dir, err)
			}

			if err := describe.WriteDataset(out, descriptions); err != nil {
				return err
			}
			slog.Info("Descriptions written", "count", len(descriptions), "output", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Folder with the inspection photos")
	cmd.Flags().StringVarP(&out, "out", "o", "descricoes.yaml", "Output file (.yaml, .yml or .parquet)")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}
