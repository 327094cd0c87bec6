package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/H1W0XXX/chiralcarbon/config"
	"github.com/H1W0XXX/chiralcarbon/errors"
	"github.com/H1W0XXX/chiralcarbon/logger"
)

var (
	configPath string
	jsonLog    bool
	logLevel   string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chiralcarbon",
	Short: "Chiral carbon detection and captcha service",
	Long: `chiralcarbon reads MDL MOL/SDF structures, finds their chiral carbons and
serves "pick the stereocenters" captcha challenges.

Examples:
  chiralcarbon analyze compounds.sdf      # list stereocenters per record
  chiralcarbon render -o out.png mol.mol  # draw a molecule with marked centres
  chiralcarbon fetch 5793                 # analyze a PubChem compound
  chiralcarbon index compounds.sdf        # write compounds.index
  chiralcarbon serve --config chiral.toml # start the captcha server`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("json-log") {
			loaded.Log.JSON = jsonLog
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Log.Level = logLevel
		}
		if err := logger.Initialize(loaded.Log.JSON, loaded.Log.Level); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
