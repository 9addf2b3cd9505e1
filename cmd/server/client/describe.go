package client

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

var (
	describeClass  string
	describeTree   string
	describeTalent string
	describeRank   int
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show a talent tooltip",
	Long:  `Render the tooltip header and description of one talent at a given rank.`,
	RunE:  runDescribe,
}

func init() {
	describeCmd.Flags().StringVar(&describeClass, "class", "", "class name (required)")
	describeCmd.Flags().StringVar(&describeTree, "tree", "", "tree name (required)")
	describeCmd.Flags().StringVar(&describeTalent, "talent", "", "talent name (required)")
	describeCmd.Flags().IntVar(&describeRank, "rank", 1, "talent rank")
	_ = describeCmd.MarkFlagRequired("class")
	_ = describeCmd.MarkFlagRequired("tree")
	_ = describeCmd.MarkFlagRequired("talent")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createTalentClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("Describing %s / %s rank %d...", describeTree, describeTalent, describeRank)

	req := &v1alpha1.DescriptionRequest{
		Class:  describeClass,
		Tree:   describeTree,
		Talent: describeTalent,
		Rank:   describeRank,
	}
	var resp v1alpha1.DescriptionResponse
	if err := call(ctx, client.GetTalentDescription, req, &resp); err != nil {
		return fmt.Errorf("failed to describe talent: %w", err)
	}

	fmt.Printf("%s (rank %d/%d)\n", resp.Name, resp.Rank, resp.MaxRank)
	if resp.Header != "" {
		fmt.Println(resp.Header)
	}
	fmt.Println(resp.Description)
	return nil
}
