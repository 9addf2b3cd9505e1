// Package client provides test commands for the talent calculator gRPC service
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the talent API",
	Long:  `Client commands allow you to test the talent API by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(listClassesCmd)
	ClientCmd.AddCommand(getTreesCmd)
	ClientCmd.AddCommand(describeCmd)
	ClientCmd.AddCommand(invalidateCmd)

	// browse talks to the payload endpoint directly, not the gRPC server
	ClientCmd.AddCommand(browseCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createTalentClient creates a talent service client
func createTalentClient() (v1alpha1.TalentServiceClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewTalentServiceClient(conn), cleanup, nil
}

type rpc func(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

// call encodes req, invokes the method and decodes the reply into resp.
func call(ctx context.Context, method rpc, req, resp any) error {
	in, err := v1alpha1.ToStruct(req)
	if err != nil {
		return err
	}
	out, err := method(ctx, in)
	if err != nil {
		return errors.FromGRPCError(err)
	}
	return v1alpha1.FromStruct(out, resp)
}
