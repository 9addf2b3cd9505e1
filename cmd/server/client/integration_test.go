//go:build integration

package client

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/talent-api/internal/clients/talentapi"
	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/fallback"
	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
)

func integrationClient(t *testing.T) v1alpha1.TalentServiceClient {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	grpcServerAddress := os.Getenv("GRPC_SERVER_ADDRESS")
	if grpcServerAddress == "" {
		grpcServerAddress = "localhost:50051"
	}
	conn, err := grpc.NewClient(grpcServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Logf("Failed to close connection: %v", err)
		}
	})
	return v1alpha1.NewTalentServiceClient(conn)
}

func TestListClassesIntegration(t *testing.T) {
	client := integrationClient(t)

	var resp v1alpha1.ClassesResponse
	require.NoError(t, call(context.Background(), client.ListClasses, &v1alpha1.ClassesRequest{}, &resp))

	require.Len(t, resp.Classes, len(talents.Classes))
	for i, c := range talents.Classes {
		assert.Equal(t, c.Name, resp.Classes[i].Name)
		assert.Equal(t, c.Mask, resp.Classes[i].Mask)
	}
}

// TestLiveTreesMatchPayloadIntegration builds the raw payload locally and
// checks the server returns the same trees. Assumes the server runs the
// default live policy.
func TestLiveTreesMatchPayloadIntegration(t *testing.T) {
	client := integrationClient(t)

	baseURL := os.Getenv("TALENT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/talentapi"
	}
	api, err := talentapi.New(&talentapi.Config{BaseURL: baseURL, HTTPTimeout: 30 * time.Second})
	require.NoError(t, err)

	static, err := fallback.Load()
	require.NoError(t, err)

	ctx := context.Background()
	for _, class := range []string{"Mage", "Warrior", "Druid"} {
		t.Run(class, func(t *testing.T) {
			var resp v1alpha1.TreesResponse
			require.NoError(t, call(ctx, client.GetTalentTrees, &v1alpha1.TreesRequest{Class: class}, &resp))
			if resp.IsFallback {
				t.Skipf("server is serving fallback data: %s", resp.Warning)
			}

			payload, err := api.FetchPayload(ctx, class)
			require.NoError(t, err)
			c, ok := talents.ClassByName(class)
			require.True(t, ok)
			opts := []talentgraph.Option{talentgraph.WithClassMask(c.Mask)}
			if known, ok := static.Class(class); ok {
				opts = append(opts, talentgraph.WithStatic(known))
			}
			data, err := talentgraph.Build(payload, opts...)
			require.NoError(t, err)

			names := data.Names()
			require.Len(t, resp.Trees, len(names))
			for i, tree := range resp.Trees {
				assert.Equal(t, names[i], tree.Name)
				assert.Len(t, tree.Talents, len(data[tree.Name].Talents))
			}
		})
	}
}
