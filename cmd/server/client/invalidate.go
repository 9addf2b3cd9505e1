package client

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate [class]",
	Short: "Drop cached talent trees",
	Long: `Drop the server's cached trees for one class, or for every class when
none is given, so the next request reloads them from the data source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInvalidate,
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createTalentClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var class string
	if len(args) == 1 {
		class = args[0]
	}
	return invalidate(ctx, client, class, os.Stdout)
}

func invalidate(ctx context.Context, client v1alpha1.TalentServiceClient, class string, w io.Writer) error {
	var resp v1alpha1.InvalidateResponse
	if err := call(ctx, client.Invalidate, &v1alpha1.InvalidateRequest{Class: class}, &resp); err != nil {
		return fmt.Errorf("failed to invalidate: %w", err)
	}

	target := class
	if target == "" {
		target = "all classes"
	}
	_, err := fmt.Fprintf(w, "Dropped %d cached class(es) for %s\n", resp.Dropped, target)
	return err
}
