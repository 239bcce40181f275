package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vistoria-app/vistoria/internal/describe"
	"github.com/vistoria-app/vistoria/internal/inspection"
	"github.com/vistoria-app/vistoria/internal/models"
	"github.com/vistoria-app/vistoria/internal/report"
)

// manifest is the YAML file describing one inspection for offline rendering.
type manifest struct {
	models.InspectionMetadata `yaml:",inline"`

	Rooms        models.DeclaredRooms  `yaml:"rooms"`
	Observations models.ObservationMap `yaml:"observacoes"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m := &manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Rooms == nil {
		m.Rooms = models.DeclaredRooms{}
	}
	if m.Observations == nil {
		m.Observations = models.ObservationMap{}
	}
	return m, nil
}

func newReportCmd(a *app) *cobra.Command {
	var dir string
	var manifestPath string
	var out string
	var descriptionsPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render an inspection report from a folder of photos",
		Long: `Builds the PDF report for the photos in a folder using a YAML manifest with the
inspection details, the ordered room mapping and per-room observations.

With --descriptions the provider is not called and the descriptions are read from a
file written by "vistoria describe".`,
		Example: `  # Describe and render in one go
  vistoria report --dir ./fotos --manifest vistoria.yaml --out relatorio.pdf

  # Re-render from reviewed descriptions
  vistoria report --dir ./fotos --manifest vistoria.yaml --descriptions descricoes.yaml

Manifest example:
  tipo_vistoria: Entrada
  locador: Maria
  locatario: João
  data_inicio: "2024-06-01T10:00:00.000Z"
  rooms:
    Cozinha: cozinha_1
    Sala: sala
  observacoes:
    Cozinha_1: Pia com vazamento`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}

			renderer := report.NewGenerator(report.WithLenientDates(a.cfg.LenientDates))
			req := inspection.Request{
				Dir:          dir,
				Rooms:        m.Rooms,
				Observations: m.Observations,
				Metadata:     m.InspectionMetadata,
			}

			var result *inspection.Result
			if descriptionsPath != "" {
				descriptions, err := describe.ReadDataset(descriptionsPath)
				if err != nil {
					return err
				}
				result, err = inspection.NewService(nil, renderer).Render(req, descriptions)
				if err != nil {
					return err
				}
			} else {
				if err := a.cfg.ValidateProvider(); err != nil {
					return err
				}
				fetcher, err := describe.New(a.cfg)
				if err != nil {
					return err
				}
				result, err = inspection.NewService(fetcher, renderer).Run(cmd.Context(), req)
				if err != nil {
					return err
				}
			}

			if err := os.WriteFile(out, result.PDF, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			slog.Info("Report written", "output", out, "rooms", len(result.Rooms), "entries", result.Rooms.TotalEntries())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Folder with the inspection photos")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest with inspection details and rooms")
	cmd.Flags().StringVarP(&out, "out", "o", "relatorio.pdf", "Output PDF path")
	cmd.Flags().StringVar(&descriptionsPath, "descriptions", "", "Descriptions file from \"vistoria describe\" (skips the provider)")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}
