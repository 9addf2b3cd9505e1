package talentsnapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/clock"
	"github.com/KirkDiggler/talent-api/internal/redis"
	talentsnapshot "github.com/KirkDiggler/talent-api/internal/repositories/talent_snapshot"
	"github.com/KirkDiggler/talent-api/internal/testutils"
)

type RedisSnapshotTestSuite struct {
	suite.Suite
	ctx    context.Context
	client redis.Client
	mr     *miniredis.Miniredis
	clock  *clock.Manual
	repo   talentsnapshot.Repository
}

func (s *RedisSnapshotTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client, s.mr = testutils.CreateTestRedisClient(s.T())
	s.clock = clock.NewManual(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	repo, err := talentsnapshot.NewRedisRepository(&talentsnapshot.Config{
		Client: s.client,
		Clock:  s.clock,
		TTL:    time.Hour,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisSnapshotTestSuite) TestNewRedisRepositoryValidation() {
	testCases := []struct {
		name string
		cfg  *talentsnapshot.Config
	}{
		{name: "nil config", cfg: nil},
		{name: "missing client", cfg: &talentsnapshot.Config{Clock: s.clock}},
		{name: "missing clock", cfg: &talentsnapshot.Config{Client: s.client}},
		{name: "negative ttl", cfg: &talentsnapshot.Config{Client: s.client, Clock: s.clock, TTL: -time.Second}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := talentsnapshot.NewRedisRepository(tc.cfg)
			s.Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *RedisSnapshotTestSuite) TestPutThenGet() {
	payload := testutils.MagePayload()
	out, err := s.repo.Put(s.ctx, talentsnapshot.PutInput{
		Snapshot: &talentsnapshot.Snapshot{Class: "Mage", RequestID: "req_1", Payload: payload},
	})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), out.Snapshot.FetchedAt)
	s.Equal(s.clock.Now().Add(time.Hour), out.Snapshot.ExpiresAt)
	s.True(s.mr.Exists("talent_snapshot:mage"))
	s.Equal(time.Hour, s.mr.TTL("talent_snapshot:mage"))

	got, err := s.repo.Get(s.ctx, talentsnapshot.GetInput{Class: "MAGE"})
	s.Require().NoError(err)
	s.Equal("Mage", got.Snapshot.Class)
	s.Equal("req_1", got.Snapshot.RequestID)
	s.Len(got.Snapshot.Payload.Talents, len(payload.Talents))
	s.Equal("Frostbite", got.Snapshot.Payload.Spells[0]["Name_Lang_enUS"])
}

func (s *RedisSnapshotTestSuite) TestPutRejectsBadSnapshots() {
	_, err := s.repo.Put(s.ctx, talentsnapshot.PutInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, talentsnapshot.PutInput{Snapshot: &talentsnapshot.Snapshot{Class: "Mage"}})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, talentsnapshot.PutInput{
		Snapshot: &talentsnapshot.Snapshot{Class: "Mage", Payload: &talents.Payload{Error: "db down"}},
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *RedisSnapshotTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, talentsnapshot.GetInput{Class: "Druid"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisSnapshotTestSuite) TestGetExpiredByClock() {
	_, err := s.repo.Put(s.ctx, talentsnapshot.PutInput{
		Snapshot: &talentsnapshot.Snapshot{Class: "Mage", Payload: testutils.MagePayload()},
		TTL:      10 * time.Minute,
	})
	s.Require().NoError(err)

	s.clock.Advance(11 * time.Minute)
	_, err = s.repo.Get(s.ctx, talentsnapshot.GetInput{Class: "Mage"})
	s.True(errors.IsNotFound(err))
	s.False(s.mr.Exists("talent_snapshot:mage"))
}

func (s *RedisSnapshotTestSuite) TestGetCorrupt() {
	s.Require().NoError(s.mr.Set("talent_snapshot:mage", "{not json"))
	_, err := s.repo.Get(s.ctx, talentsnapshot.GetInput{Class: "Mage"})
	s.True(errors.IsDataLoss(err))

	s.Require().NoError(s.mr.Set("talent_snapshot:mage", `{"class":"Mage"}`))
	_, err = s.repo.Get(s.ctx, talentsnapshot.GetInput{Class: "Mage"})
	s.True(errors.IsDataLoss(err))
}

func (s *RedisSnapshotTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, talentsnapshot.PutInput{
		Snapshot: &talentsnapshot.Snapshot{Payload: testutils.MagePayload()},
	})
	s.Require().NoError(err)
	s.True(s.mr.Exists("talent_snapshot:all"))

	out, err := s.repo.Delete(s.ctx, talentsnapshot.DeleteInput{})
	s.Require().NoError(err)
	s.True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, talentsnapshot.DeleteInput{})
	s.Require().NoError(err)
	s.False(out.Deleted)
}

func TestRedisSnapshotSuite(t *testing.T) {
	suite.Run(t, new(RedisSnapshotTestSuite))
}
