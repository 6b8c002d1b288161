package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "myceliumd",
	Short: "Mycelium data contract catalog server",
	Long: `myceliumd serves a catalog of data contracts stored in PostgreSQL,
and a catalog of form templates to configure data sources.

Configuration is read from a YAML file (--config), and environment variables override it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a configuration file (optional)")
	rootCmd.AddCommand(serveCmd, schemaCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
