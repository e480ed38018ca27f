package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jensholdgaard/eventdesk/internal/config"

	// Register store drivers so they are available via store.Open.
	_ "github.com/jensholdgaard/eventdesk/internal/store/postgres"
	_ "github.com/jensholdgaard/eventdesk/internal/store/sqlite"
)

var version = "dev"

// app carries state shared by the subcommands of one invocation.
type app struct {
	configPath string
	envFile    string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "eventdesk <command>",
		Short:         "Event catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if err := loadEnvFile(a.envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "path to configuration file (YAML or TOML)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newTokenCmd(a),
		newVersionCmd(),
	)
	return root
}

// loadEnvFile loads a dotenv file without overriding variables already set.
// A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
