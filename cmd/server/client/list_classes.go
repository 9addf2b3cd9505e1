package client

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

var listClassesCmd = &cobra.Command{
	Use:   "list-classes",
	Short: "List all available classes",
	Long:  `List every class the server knows, with its class mask and whether bundled fallback data exists for it.`,
	RunE:  runListClasses,
}

func runListClasses(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createTalentClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("Requesting classes from %s...", serverAddr)

	var resp v1alpha1.ClassesResponse
	if err := call(ctx, client.ListClasses, &v1alpha1.ClassesRequest{}, &resp); err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}

	fmt.Printf("Found %d classes:\n\n", len(resp.Classes))
	for _, class := range resp.Classes {
		fallback := ""
		if class.HasFallback {
			fallback = " [fallback data]"
		}
		fmt.Printf("  %-12s mask %-5d%s\n", class.Name, class.Mask, fallback)
	}

	return nil
}
