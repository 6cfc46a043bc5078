package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
	"sceneforge/internal/bootstrap"
	"sceneforge/internal/config"
	"sceneforge/internal/domain"
)

var (
	configPath string
	searchPath string
	logLevel   string
	rt         *bootstrap.Runtime
)

var rootCmd = &cobra.Command{
	Use:   "sceneforge-cli",
	Short: "CLI for layered scene files",
	Long: `sceneforge-cli loads scene files that inherit from other scenes,
reports missing parents and duplicate names, edits entities and saves
the result back, keeping inherited entities in their base scenes.

Scene arguments are paths or file://, http:// and https:// URIs. Relative
paths that do not exist in the working directory are looked up in the
search path.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		rt, err = bootstrap.New(configPath, func(c *config.Config) {
			if cmd.Flags().Changed("search-path") {
				c.SearchPath = config.ExpandHome(searchPath)
			}
			if cmd.Flags().Changed("log-level") {
				c.LogLevel = logLevel
			}
		})
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $SCENEFORGE_CONFIG or ~/.config/sceneforge/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&searchPath, "search-path", "p", config.SearchPath(), "directory scenes are looked up in")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
}

// GetRuntime returns the initialized runtime
func GetRuntime() *bootstrap.Runtime {
	return rt
}

// loadScene resolves a scene argument and loads it
func loadScene(ctx context.Context, arg string) (*domain.Scene, error) {
	uri, err := rt.ToURI(arg)
	if err != nil {
		return nil, err
	}
	return commands.NewLoadSceneCommand(rt.Loader, uri).Execute(ctx)
}
