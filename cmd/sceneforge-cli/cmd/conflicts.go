package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
)

var conflictsJSON bool

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <scene>",
	Short: "Report missing parents and duplicate names",
	Long: `Report the conflicts of a composed scene: parents no level defines,
names used by more than one entity and component names the registry
does not know.

Examples:
  sceneforge-cli conflicts levels/room.scene
  sceneforge-cli conflicts --json levels/room.scene`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		scene, err := loadScene(ctx, args[0])
		if err != nil {
			return err
		}

		report, err := commands.NewConflictsCommand(scene).Execute(ctx)
		if err != nil {
			return err
		}

		if conflictsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		if !report.Missing && !report.Duplicate && len(report.UnknownComponents) == 0 {
			fmt.Println("No conflicts")
			return nil
		}
		for _, name := range report.MissingRoots {
			fmt.Printf("missing    %s\n", name)
		}
		for _, name := range report.DuplicateRoots {
			fmt.Printf("duplicate  %s\n", name)
		}
		for _, name := range report.UnknownComponents {
			fmt.Printf("unknown    %s\n", name)
		}
		return nil
	},
}

func init() {
	conflictsCmd.Flags().BoolVar(&conflictsJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(conflictsCmd)
}
