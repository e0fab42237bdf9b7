package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FReptar0/EvoSystems/internal/config"
	"github.com/FReptar0/EvoSystems/internal/logger"
)

var (
	cfgFile   string
	debugMode bool
	appConfig *config.Config
	log       logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "evosystems",
	Short: "EvoSystems site builder and preview server",
	Long: `evosystems builds the bilingual EvoSystems site from its data files and
markdown pages, serves it locally with a live-reloading JSON API, and offers
the site search in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "debug logging and gin debug mode")
}

func initializeConfig(_ *cobra.Command) error {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, found, err := config.Load(viper.New(), cfgFile)
	if err != nil {
		return err
	}
	if debugMode {
		cfg.Logging.Level = "debug"
		cfg.Server.Debug = true
	}

	l, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	if !found {
		l.Info("No config file found, using defaults and EVO_* environment variables")
	}

	appConfig = cfg
	log = l
	return nil
}
