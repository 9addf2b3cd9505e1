package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/talent-api/internal/clients/talentapi"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/testutils"
)

type fakeFetcher struct {
	mu      sync.Mutex
	payload *talents.Payload
	err     error
	classes []string
}

func (f *fakeFetcher) FetchPayload(_ context.Context, class string) (*talents.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classes = append(f.classes, class)
	return f.payload, f.err
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.classes...)
}

type PayloadServerTestSuite struct {
	suite.Suite
	fetcher *fakeFetcher
	server  *httptest.Server
}

func TestPayloadServerTestSuite(t *testing.T) {
	suite.Run(t, new(PayloadServerTestSuite))
}

func (s *PayloadServerTestSuite) SetupTest() {
	s.fetcher = &fakeFetcher{payload: testutils.MagePayload()}
	mux := http.NewServeMux()
	mux.Handle(payloadPath, newPayloadHandler(s.fetcher, nil))
	s.server = httptest.NewServer(mux)
}

func (s *PayloadServerTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *PayloadServerTestSuite) get(query string) *http.Response {
	resp, err := http.Get(s.server.URL + payloadPath + query)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *PayloadServerTestSuite) TestServesPayload() {
	resp := s.get("?klass=Mage")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Cache-Control"), "no-store")
	s.Equal("no-cache", resp.Header.Get("Pragma"))

	var got talents.Payload
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Len(got.Talents, len(s.fetcher.payload.Talents))
	s.Equal([]string{"Mage"}, s.fetcher.requested())
}

func (s *PayloadServerTestSuite) TestFailureReturnsErrorBody() {
	s.fetcher.fail(errors.Unavailable("query spellduration failed"))

	resp := s.get("?klass=Mage")

	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("query spellduration failed", body["error"])
}

func (s *PayloadServerTestSuite) TestUnknownClassIsBadRequest() {
	s.fetcher.fail(errors.InvalidArgument("unknown class: Bard"))

	resp := s.get("?klass=Bard")

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *PayloadServerTestSuite) TestRejectsPost() {
	resp, err := http.Post(s.server.URL+payloadPath, "application/json", nil)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
	s.Empty(s.fetcher.requested())
}

func (s *PayloadServerTestSuite) TestTalentAPIClientReadsIt() {
	client, err := talentapi.New(&talentapi.Config{BaseURL: s.server.URL + payloadPath})
	s.Require().NoError(err)

	payload, err := client.FetchPayload(context.Background(), "Mage")
	s.Require().NoError(err)
	s.Len(payload.Spells, len(s.fetcher.payload.Spells))
}

func (s *PayloadServerTestSuite) TestClientSeesErrorPayload() {
	s.fetcher.fail(errors.Internal("boom"))
	client, err := talentapi.New(&talentapi.Config{BaseURL: s.server.URL + payloadPath})
	s.Require().NoError(err)

	_, err = client.FetchPayload(context.Background(), "Mage")
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}
