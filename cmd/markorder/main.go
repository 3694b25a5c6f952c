package main

import (
	"fmt"
	"os"

	"markorder/internal/config"
	"markorder/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose          bool
	configPath       string
	envFile          string
	nomenclaturePath string
	headless         bool

	// Loaded configuration
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "markorder",
	Short: "markorder - batch ordering of product marking codes",
	Long: `markorder collects marking-code orders from the operator, resolves
product attributes to a product code through the nomenclature spreadsheet,
and places every pending order on the marking portal through a browser.

Run without arguments to start the interactive order entry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		cfg = loaded

		if err := logging.Initialize(cfg.Logging.ToLogging()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.L().Named("cmd")
		logger.Debug("config loaded", zap.String("path", configPath), zap.String("nomenclature", cfg.Nomenclature.Path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
	RunE: runSession,
}

// applyFlagOverrides lets command-line flags win over file and environment.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if nomenclaturePath != "" {
		c.Nomenclature.Path = nomenclaturePath
	}
	if cmd.Flags().Changed("headless") {
		c.Portal.Headless = headless
	}
	if verbose {
		c.Logging.Level = "debug"
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")
	rootCmd.PersistentFlags().StringVarP(&nomenclaturePath, "nomenclature", "n", "", "Nomenclature workbook (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", false, "Run the browser without a window")

	lookupCmd.Flags().StringVar(&lookupType, "type", "", "Product type (required)")
	lookupCmd.Flags().StringVar(&lookupSize, "size", "", "Size (required)")
	lookupCmd.Flags().StringVar(&lookupUnits, "units", "", "Units per pack (required)")
	lookupCmd.Flags().StringVar(&lookupColor, "color", "", "Color")
	lookupCmd.Flags().StringVar(&lookupCollar, "collar", "", "Collar")
	_ = lookupCmd.MarkFlagRequired("type")
	_ = lookupCmd.MarkFlagRequired("size")
	_ = lookupCmd.MarkFlagRequired("units")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
