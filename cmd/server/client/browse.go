package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/talent-api/internal/clients/talentapi"
	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/pkg/idgen"
	"github.com/KirkDiggler/talent-api/internal/services/loader"
)

var payloadURL string

var browseCmd = &cobra.Command{
	Use:   "browse [class...]",
	Short: "Load classes straight from a payload endpoint",
	Long: `Fetch raw payloads from a talent API endpoint, build them locally and print a
per-tree summary. Classes come from the arguments, or one per line on stdin.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&payloadURL, "url", "http://localhost:8080/talentapi", "talent API endpoint")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	api, err := talentapi.New(&talentapi.Config{BaseURL: payloadURL, HTTPTimeout: timeout})
	if err != nil {
		return err
	}
	svc, err := loader.New(&loader.Config{
		Fetcher: api,
		IDGen:   idgen.NewUUID("req"),
		Timeout: timeout,
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	classes := args
	if len(classes) == 0 {
		classes, err = readLines(os.Stdin)
		if err != nil {
			return err
		}
	}

	return browse(cmd.Context(), svc, classes, os.Stdout)
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// browse selects each class in turn and prints what loaded. A failed class
// is reported and skipped.
func browse(ctx context.Context, svc loader.Service, classes []string, w io.Writer) error {
	for _, class := range classes {
		reqID := svc.Select(ctx, class)
		slog.Debug("Selected class", "class", class, "request_id", reqID)

		state, err := svc.Wait(ctx)
		if err != nil {
			return err
		}
		if state.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", class, state.Err)
			continue
		}
		fmt.Fprint(w, summarize(class, state.Payload))
	}
	return nil
}

func summarize(class string, payload *talents.Payload) string {
	var opts []talentgraph.Option
	if c, ok := talents.ClassByName(class); ok {
		opts = append(opts, talentgraph.WithClassMask(c.Mask))
	}
	data, err := talentgraph.Build(payload, opts...)
	if err != nil {
		return fmt.Sprintf("%s: %v\n", class, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d talents, %d spells\n", class, len(payload.Talents), len(payload.Spells))
	for _, name := range data.Names() {
		tree := data[name]
		fmt.Fprintf(&b, "  %-14s %2d talents\n", name, len(tree.Talents))
	}
	return b.String()
}
