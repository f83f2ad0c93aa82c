package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	service "github.com/okian/drawdown/internal/app"
	"github.com/okian/drawdown/internal/config"
	"github.com/okian/drawdown/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "drawdown",
	Short: "Aquifer parameter estimation from pumping tests",
	Long: `Estimates transmissivity and storativity from pumping-test drawdown with
the Theis, Cooper-Jacob (time and distance), Thiem / Dupuit-Forchheimer and
Theis recovery methods.

Configuration is layered: defaults, then the YAML file named by
DRAWDOWN_CONFIG, then DRAWDOWN_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = os.Getenv(config.EnvPrefix + "CONFIG")
		}
		c, err := config.LoadFile(path)
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := logger.InitTo("stderr", logger.Format(cfg.LogFormat)); err != nil {
			return eris.Wrap(err, "init logger")
		}
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
				logger.String("log_level", cfg.LogLevel), logger.Error(err))
			_ = logger.SetLevelString("info")
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults to $DRAWDOWN_CONFIG)")
}

// newService builds the analysis service from the loaded configuration.
func newService() *service.Service {
	return service.New(
		service.WithLogger(logger.Get().Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithJobStoreSize(cfg.JobStoreSize),
		service.WithSolverMaxIterations(cfg.SolverMaxIterations),
		service.WithSolverTolerance(cfg.SolverTolerance),
		service.WithValidityThreshold(cfg.ValidityThreshold),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
