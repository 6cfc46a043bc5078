package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sceneforge/internal/application/commands"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree <scene>",
	Short: "Display the composed entity tree",
	Long: `Display the entity tree of a scene after applying its inheritance
chain. Missing parent placeholders are marked [missing], the roots of
duplicate subtrees [duplicate]; names inside duplicate subtrees carry a
tree path suffix.

Examples:
  sceneforge-cli tree levels/room.scene
  sceneforge-cli tree --depth 2 https://example.com/room.scene`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		scene, err := loadScene(ctx, args[0])
		if err != nil {
			return err
		}

		listCmd := commands.NewListNodesCommand(scene)
		listCmd.MaxDepth = treeDepth
		lines, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, l := range lines {
			fmt.Print(formatLine(l))
		}
		return nil
	},
}

func formatLine(l commands.NodeLine) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", l.Depth))
	b.WriteString(l.DisplayName)
	switch {
	case l.MissingRoot:
		b.WriteString(" [missing]")
	case l.DuplicateRoot:
		b.WriteString(" [duplicate]")
	}
	if len(l.Components) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(l.Components, ", "))
	}
	b.WriteByte('\n')
	return b.String()
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "maximum depth to display (0 for all)")
	rootCmd.AddCommand(treeCmd)
}
