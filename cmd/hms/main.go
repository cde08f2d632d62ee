package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	configFile string
	cfg        *config.Config
	log        zerolog.Logger
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hms",
		Short:         "Hospital administration API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to config file (default: config.yml in . or ./config)")

	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(seedCmd(a))
	rootCmd.AddCommand(relayCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	gin.SetMode(cfg.Server.Mode)
	return nil
}
