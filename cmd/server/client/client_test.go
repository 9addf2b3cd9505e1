package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/talent-api/internal/clients/talentapi"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/handlers/talents/v1alpha1"
	"github.com/KirkDiggler/talent-api/internal/pkg/idgen"
	"github.com/KirkDiggler/talent-api/internal/services/loader"
	loadermock "github.com/KirkDiggler/talent-api/internal/services/loader/mock"
	"github.com/KirkDiggler/talent-api/internal/testutils"
)

func TestRenderTrees(t *testing.T) {
	resp := &v1alpha1.TreesResponse{
		Class:           "Mage",
		Source:          "static",
		IsFallback:      true,
		Warning:         "Talent API HTTP 502",
		TotalPoints:     51,
		FirstPointLevel: 10,
		Trees: []v1alpha1.Tree{{
			Name: "Frost",
			Talents: []v1alpha1.Talent{
				{Name: "Frostbite", Pos: "a1", MaxRank: 3, ReqPoints: 0, RequiredLevel: 10},
				{Name: "Cold Snap", Pos: "b1", MaxRank: 1, ReqPoints: 5, RequiredLevel: 15, Prereq: "Frostbite",
					Arrows: []v1alpha1.Arrow{{Dir: "down", From: "a1", To: "b1"}}},
			},
		}},
	}

	out := renderTrees(resp)

	assert.Contains(t, out, "Mage talents (source: static)")
	assert.Contains(t, out, "Using fallback data: Talent API HTTP 502")
	assert.Contains(t, out, "51 points, first point at level 10")
	assert.Contains(t, out, "Frost (2 talents)")
	assert.Contains(t, out, "Cold Snap")
	assert.Contains(t, out, "Frostbite (down)")
	assert.Less(t, strings.Index(out, "Frostbite"), strings.Index(out, "Cold Snap"))
	assert.Contains(t, out, "Level")
	assert.Contains(t, out, "15")
}

func TestSummarize(t *testing.T) {
	out := summarize("Mage", testutils.MagePayload())

	assert.Contains(t, out, "Mage: 4 talents, 6 spells")
	assert.Contains(t, out, "Frost")
	assert.Contains(t, out, " 2 talents")
	assert.NotContains(t, out, "Ferocity")
	assert.Less(t, strings.Index(out, "Fire"), strings.Index(out, "Frost"))
}

func TestSummarize_RejectsErrorPayload(t *testing.T) {
	p := testutils.MagePayload()
	p.Error = "database offline"

	out := summarize("Mage", p)
	assert.True(t, strings.HasPrefix(out, "Mage: "))
	assert.NotContains(t, out, "talents,")
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("Mage\n\n  Druid \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Mage", "Druid"}, lines)
}

func TestBrowse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get(talentapi.ClassParam) != "Mage" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"unknown class"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(testutils.MagePayload())
	}))
	defer srv.Close()

	api, err := talentapi.New(&talentapi.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	svc, err := loader.New(&loader.Config{
		Fetcher: api,
		IDGen:   idgen.NewSequential("req"),
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	defer svc.Close()

	var out bytes.Buffer
	require.NoError(t, browse(context.Background(), svc, []string{"Bard", "Mage"}, &out))

	assert.Contains(t, out.String(), "Bard: ")
	assert.Contains(t, out.String(), "Talent API HTTP 500")
	assert.Contains(t, out.String(), "Mage: 4 talents, 6 spells")
}

func TestBrowse_StopsWhenWaitFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := loadermock.NewMockService(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gomock.InOrder(
		svc.EXPECT().Select(ctx, "Mage").Return("req_1"),
		svc.EXPECT().Wait(ctx).Return(loader.State{Class: "Mage", Loading: true}, ctx.Err()),
	)

	var out bytes.Buffer
	err := browse(ctx, svc, []string{"Mage", "Druid"}, &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestBrowse_ReportsFailedClass(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := loadermock.NewMockService(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		svc.EXPECT().Select(ctx, "Druid").Return("req_1"),
		svc.EXPECT().Wait(ctx).Return(loader.State{Class: "Druid", Err: errors.Unavailable("Talent API HTTP 503")}, nil),
		svc.EXPECT().Select(ctx, "Mage").Return("req_2"),
		svc.EXPECT().Wait(ctx).Return(loader.State{Class: "Mage", Payload: testutils.MagePayload()}, nil),
	)

	var out bytes.Buffer
	require.NoError(t, browse(ctx, svc, []string{"Druid", "Mage"}, &out))
	assert.Contains(t, out.String(), "Druid: ")
	assert.Contains(t, out.String(), "Talent API HTTP 503")
	assert.Contains(t, out.String(), "Mage: 4 talents, 6 spells")
}

type invalidateClient struct {
	v1alpha1.TalentServiceClient
	got  v1alpha1.InvalidateRequest
	resp *v1alpha1.InvalidateResponse
	err  error
}

func (c *invalidateClient) Invalidate(_ context.Context, in *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	if err := v1alpha1.FromStruct(in, &c.got); err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	return v1alpha1.ToStruct(c.resp)
}

func TestInvalidate(t *testing.T) {
	c := &invalidateClient{resp: &v1alpha1.InvalidateResponse{Dropped: 1}}
	var out bytes.Buffer

	require.NoError(t, invalidate(context.Background(), c, "Mage", &out))
	assert.Equal(t, "Mage", c.got.Class)
	assert.Equal(t, "Dropped 1 cached class(es) for Mage\n", out.String())
}

func TestInvalidate_AllClasses(t *testing.T) {
	c := &invalidateClient{resp: &v1alpha1.InvalidateResponse{Dropped: 3}}
	var out bytes.Buffer

	require.NoError(t, invalidate(context.Background(), c, "", &out))
	assert.Empty(t, c.got.Class)
	assert.Equal(t, "Dropped 3 cached class(es) for all classes\n", out.String())
}

func TestInvalidate_UnknownClass(t *testing.T) {
	c := &invalidateClient{err: status.Error(codes.InvalidArgument, `unknown class "Bard"`)}

	err := invalidate(context.Background(), c, "Bard", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
