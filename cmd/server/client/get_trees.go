package client

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/alexeyco/simpletable"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

var treesClass string

var getTreesCmd = &cobra.Command{
	Use:   "get-trees",
	Short: "Show the talent trees of a class",
	Long:  `Fetch the normalized talent trees of a class and print one table per tree, ordered by tier and column.`,
	RunE:  runGetTrees,
}

func init() {
	getTreesCmd.Flags().StringVar(&treesClass, "class", "", "class name (required)")
	_ = getTreesCmd.MarkFlagRequired("class")
}

func runGetTrees(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createTalentClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("Requesting %s talent trees from %s...", treesClass, serverAddr)

	var resp v1alpha1.TreesResponse
	if err := call(ctx, client.GetTalentTrees, &v1alpha1.TreesRequest{Class: treesClass}, &resp); err != nil {
		return fmt.Errorf("failed to get talent trees: %w", err)
	}

	fmt.Print(renderTrees(&resp))
	return nil
}

func renderTrees(resp *v1alpha1.TreesResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s talents (source: %s)\n", resp.Class, resp.Source)
	if resp.IsFallback {
		fmt.Fprintf(&b, "Using fallback data: %s\n", resp.Warning)
	}
	fmt.Fprintf(&b, "%d points, first point at level %d\n\n", resp.TotalPoints, resp.FirstPointLevel)

	for _, tree := range resp.Trees {
		fmt.Fprintf(&b, "%s (%d talents)\n", tree.Name, len(tree.Talents))
		b.WriteString(renderTree(tree))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderTree(tree v1alpha1.Tree) string {
	table := simpletable.New()

	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Pos"},
			{Align: simpletable.AlignLeft, Text: "Talent"},
			{Align: simpletable.AlignRight, Text: "Ranks"},
			{Align: simpletable.AlignRight, Text: "Points"},
			{Align: simpletable.AlignRight, Text: "Level"},
			{Align: simpletable.AlignLeft, Text: "Requires"},
		},
	}

	for _, t := range tree.Talents {
		requires := t.Prereq
		if len(t.Arrows) > 0 {
			requires = fmt.Sprintf("%s (%s)", t.Prereq, t.Arrows[0].Dir)
		}
		r := []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: t.Pos},
			{Align: simpletable.AlignLeft, Text: t.Name},
			{Align: simpletable.AlignRight, Text: strconv.Itoa(t.MaxRank)},
			{Align: simpletable.AlignRight, Text: strconv.Itoa(t.ReqPoints)},
			{Align: simpletable.AlignRight, Text: strconv.Itoa(t.RequiredLevel)},
			{Align: simpletable.AlignLeft, Text: requires},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleCompactLite)
	return table.String()
}
