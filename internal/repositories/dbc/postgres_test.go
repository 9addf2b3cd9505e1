package dbc_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
	"github.com/KirkDiggler/talent-api/internal/repositories/dbc"
)

// fakeTable is a canned result set.
type fakeTable struct {
	cols []string
	rows [][]driver.Value
}

// fakeDB answers queries by matching the quoted table name after FROM.
type fakeDB struct {
	mu      sync.Mutex
	tables  map[string]fakeTable
	fail    map[string]error
	queries []string
	args    [][]driver.NamedValue
}

func (f *fakeDB) Open(string) (driver.Conn, error) { return &fakeConn{db: f}, nil }

type fakeConn struct{ db *fakeDB }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("prepare not supported") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, fmt.Errorf("tx not supported") }
func (c *fakeConn) Ping(context.Context) error          { return nil }

func (c *fakeConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	f := c.db
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)

	from := strings.Fields(query[strings.Index(query, "FROM ")+5:])[0]
	name := strings.Trim(from, `"`)
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	t, ok := f.tables[name]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", name)
	}
	return &fakeRows{cols: t.cols, rows: t.rows}, nil
}

type fakeRows struct {
	cols []string
	rows [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

var (
	registerOnce sync.Once
	fakes        sync.Map
)

type fakeRouter struct{}

func (fakeRouter) Open(name string) (driver.Conn, error) {
	f, ok := fakes.Load(name)
	if !ok {
		return nil, fmt.Errorf("unknown fake %s", name)
	}
	return f.(*fakeDB).Open(name)
}

func openFake(t *testing.T, f *fakeDB) *sql.DB {
	registerOnce.Do(func() { sql.Register("dbcfake", fakeRouter{}) })
	fakes.Store(t.Name(), f)
	t.Cleanup(func() { fakes.Delete(t.Name()) })

	db, err := sql.Open("dbcfake", t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var testTables = dbc.Tables{
	Talent:    "talent",
	Spell:     "spell",
	SpellIcon: "spellicon",
	Tab:       "talenttab",
	Duration:  "spellduration",
	DescVars:  "spelldescriptionvariables",
}

type PostgresTestSuite struct {
	suite.Suite
	fake *fakeDB
	repo dbc.Repository
}

func (s *PostgresTestSuite) SetupTest() {
	s.fake = &fakeDB{
		tables: map[string]fakeTable{
			"talent": {
				cols: []string{"ID", "TabID", "TierID", "ColumnIndex", "SpellRank_1", "SpellRank_2", "RequiredSpellID"},
				rows: [][]driver.Value{
					{int64(37), int64(61), int64(1), int64(1), int64(11071), int64(12496), int64(0)},
					{int64(38), int64(61), int64(2), int64(1), int64(12472), nil, int64(11071)},
					{int64(900), int64(409), int64(0), int64(0), int64(61682), nil, nil},
					{int64(1), int64(161), int64(0), int64(0), int64(12282), nil, nil},
				},
			},
			"talenttab": {
				cols: []string{"ID", "Name_Lang_enUS", "ClassMask", "PetTalentMask", "SpellIconID", "TextureFilename"},
				rows: [][]driver.Value{
					{int64(61), []byte("Frost"), int64(128), int64(0), int64(188), []byte(`Interface\Icons\Spell_Frost_FrostBolt02`)},
					{int64(409), []byte("Ferocity"), int64(0), int64(1), int64(0), nil},
					{int64(161), []byte("Arms"), int64(1), int64(0), int64(0), nil},
				},
			},
			"spell": {
				cols: []string{"ID", "Name_Lang_enUS", "SpellIconID", "TextureFilename"},
				rows: [][]driver.Value{
					{int64(11071), []byte("Frostbite"), int64(188), []byte("InterfaceIconsSpell_Frost_FrostArmor")},
					{int64(12496), []byte("Frostbite"), int64(188), []byte("InterfaceIconsSpell_Frost_FrostArmor")},
					{int64(12472), []byte("Cold Snap"), int64(0), nil},
				},
			},
			"spellduration": {
				cols: []string{"ID", "Duration"},
				rows: [][]driver.Value{{int64(1), int64(5000)}},
			},
			"spelldescriptionvariables": {
				cols: []string{"ID", "Variables"},
				rows: [][]driver.Value{{int64(3), []byte("5000;10;15")}},
			},
		},
	}

	repo, err := dbc.NewPostgresRepository(&dbc.Config{
		DB:     openFake(s.T(), s.fake),
		Tables: testTables,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *PostgresTestSuite) TestFetchPayloadForClass() {
	payload, err := s.repo.FetchPayload(context.Background(), "mage")
	s.Require().NoError(err)

	s.Require().Len(payload.Tabs, 1)
	s.Equal("Frost", payload.Tabs[0]["Name_Lang_enUS"])
	s.Equal("https://wow.zamimg.com/images/wow/icons/large/spell_frost_frostbolt02.jpg", payload.Tabs[0]["IconUrl"])

	s.Len(payload.Talents, 2)
	s.Len(payload.Spells, 3)
	s.Equal("Spell_Frost_FrostArmor", payload.Spells[0]["IconName"])
	s.Equal(`Interface\Icons\Spell_Frost_FrostArmor`, payload.Spells[0]["IconPath"])
	s.Equal("Cold Snap", payload.Spells[1]["Name_Lang_enUS"])
	s.Nil(payload.Spells[1]["IconUrl"])

	s.Len(payload.Durations, 1)
	s.Equal("5000;10;15", payload.DescVars[0]["Variables"])
	s.Nil(payload.Radii)

	// talents on the Mage tab reference 11071, 12472 and 12496
	s.fake.mu.Lock()
	defer s.fake.mu.Unlock()
	var spellArgs []driver.NamedValue
	for i, q := range s.fake.queries {
		if strings.Contains(q, `FROM "spell" AS s`) {
			s.Contains(q, `LEFT JOIN "spellicon" AS i`)
			s.Contains(q, `= ANY($1)`)
			spellArgs = s.fake.args[i]
		}
	}
	s.Require().Len(spellArgs, 1)
	s.Equal("{11071,12472,12496}", spellArgs[0].Value)
}

func (s *PostgresTestSuite) TestFetchPayloadAllClasses() {
	payload, err := s.repo.FetchPayload(context.Background(), "")
	s.Require().NoError(err)
	s.Len(payload.Tabs, 3)
	s.Len(payload.Talents, 4)
}

func (s *PostgresTestSuite) TestUnknownClass() {
	_, err := s.repo.FetchPayload(context.Background(), "Bard")
	s.True(errors.IsInvalidArgument(err))
}

func (s *PostgresTestSuite) TestLookupFailure() {
	s.fake.fail = map[string]error{"spellduration": fmt.Errorf("permission denied")}
	_, err := s.repo.FetchPayload(context.Background(), "Mage")
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Contains(err.Error(), "spellduration")
}

func (s *PostgresTestSuite) TestPing() {
	s.NoError(s.repo.Ping(context.Background()))
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

func TestConfigValidate(t *testing.T) {
	err := (&dbc.Config{}).Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "tables.spell")
	assert.Contains(t, err.Error(), "db")
}

func TestSpellIDs(t *testing.T) {
	rows := []rowfield.Row{
		{"SpellRank_1": "300", "SpellRank_2": 0, "RequiredSpellID": 12},
		{"SpellRank_1": 12, "SpellRank_9": 7, "SpellRank_3": -4},
	}
	assert.Equal(t, []int64{7, 12, 300}, dbc.SpellIDs(rows))
	assert.Empty(t, dbc.SpellIDs(nil))
}

func TestChunk(t *testing.T) {
	ids := make([]int64, 1201)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	chunks := dbc.Chunk(ids, dbc.SpellChunkSize)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[2], 201)
	assert.Equal(t, int64(1201), chunks[2][200])
	assert.Nil(t, dbc.Chunk(nil, 10))
}

func TestDedupeByID(t *testing.T) {
	rows := []rowfield.Row{
		{"ID": 5, "Name": "old"},
		{"ID": 2},
		{"ID": 5, "Name": "new"},
		{"Name": "no id"},
	}
	out := dbc.DedupeByID(rows)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0]["ID"])
	assert.Equal(t, "new", out[1]["Name"])
}

func TestDeriveIcons(t *testing.T) {
	rows := []rowfield.Row{
		{"TextureFilename": "InterfaceIconsTrade_Engineering"},
		{"TextureFilename": "Interface/Icons/Spell_Shadow_BlackPlague"},
		{"TextureFilename": ""},
	}
	dbc.DeriveIcons(rows)

	assert.Equal(t, "Trade_Engineering", rows[0]["IconName"])
	assert.Equal(t, "https://wow.zamimg.com/images/wow/icons/large/trade_engineering.jpg", rows[0]["IconUrl"])
	assert.Equal(t, `Interface\Icons\Spell_Shadow_BlackPlague`, rows[1]["IconPath"])

	v, present := rows[2]["IconUrl"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestFilterClass(t *testing.T) {
	tabs := []rowfield.Row{
		{"ID": 1, "ClassMask": 128},
		{"ID": 2, "ClassMask": 0},
		{"ID": 3, "ClassMask": 128, "PetTalentMask": 2},
		{"ID": 4, "ClassMask": 129},
	}
	talentRows := []rowfield.Row{{"TabID": 1}, {"TabID": 2}, {"TabID": 3}, {"TabID": 4}, {"TabID": 9}}

	keptTabs, keptTalents := dbc.FilterClass(tabs, talentRows, 128)
	assert.Len(t, keptTabs, 2)
	assert.Equal(t, []rowfield.Row{{"TabID": 1}, {"TabID": 4}}, keptTalents)
}
