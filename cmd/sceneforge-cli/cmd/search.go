package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed entities",
	Long: `Search the scene index for entities by name. Run "index" first.

Results are ranked by relevance: exact names first, then names that only
differ by a duplicate suffix, prefixes, word prefixes, substrings and
finally matches on the scene file name. Entities without conflicts win
ties.

Examples:
  sceneforge-cli search lamp
  sceneforge-cli search --limit 10 wheel`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		ctx := context.Background()

		idx, err := rt.OpenIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		sc := commands.NewSearchEntitiesCommand(idx, query)
		if searchLimit > 0 {
			sc.Limit = searchLimit
		}
		results, err := sc.Execute(ctx)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			flags := ""
			if r.Missing {
				flags += " [missing]"
			}
			if r.Duplicate {
				flags += " [duplicate]"
			}
			fmt.Printf("%3d  %s%s  %s  %s\n", r.Score, r.Name, flags, r.TreePath, r.SceneURI)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", commands.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}
