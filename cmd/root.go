package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vistoria-app/vistoria/internal/config"
	"github.com/vistoria-app/vistoria/internal/logging"
)

// app carries state shared by subcommands after the root pre-run.
type app struct {
	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "vistoria",
		Short: "Property inspection reports from room photos",
		Long: `Vistoria turns a batch of room photos into a PDF inspection report.

Each photo is described by a vision LLM (OpenAI, Gemini or Ollama), matched to a
declared room by its filename prefix, grouped per room and laid out with the
inspection details and a signature block.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.Env)
			a.cfg = cfg
			return nil
		},
	}

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newDescribeCmd(a))
	cmd.AddCommand(newReportCmd(a))

	return cmd
}
