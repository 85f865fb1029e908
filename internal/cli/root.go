package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.eeprom/internal/config"
	"go.eeprom/internal/engine"
)

var (
	homeDir     string
	cfgFile     string
	cfg         *config.Config
	db          *engine.Database
	interactive bool
)

var rootCmd = &cobra.Command{
	Use:          "goeeprom",
	Short:        "GoEEPROM - wear-leveled variable storage on flash",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg != nil {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig(homeDir, cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openDB(); err != nil {
			return err
		}

		interactive = true
		defer func() {
			interactive = false
		}()

		startREPL(cmd)
		return closeDB()
	},
}

func openDB() error {
	if db != nil {
		return nil
	}

	var err error
	db, err = engine.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open flash image: %w", err)
	}
	return nil
}

func closeDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// withDB opens the store for a command; outside the REPL it is closed afterwards.
func withDB(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := openDB(); err != nil {
			return err
		}
		if !interactive {
			defer closeDB()
		}
		return run(cmd, args)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: ", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "application home (defaults to $GOEEPROM_HOME or ~/.local/share/goeeprom)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (defaults to <home>/config.yaml)")
}
