package dbc

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sourcegraph/conc/pool"

	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/rowfield"
)

const (
	// SpellChunkSize bounds the ID list of a single spell query.
	SpellChunkSize = 500

	auxConcurrency = 4
	pingTimeout    = 5 * time.Second
)

// spell ID columns of a talent row
var talentSpellColumns = []string{
	"SpellRank_1", "SpellRank_2", "SpellRank_3",
	"SpellRank_4", "SpellRank_5", "SpellRank_6",
	"SpellRank_7", "SpellRank_8", "SpellRank_9",
	"RequiredSpellID",
}

// Config holds the Postgres repository dependencies.
type Config struct {
	DB     Querier
	Tables Tables
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.DB == nil {
		vb.RequiredField("db")
	}
	errors.ValidateRequired("tables.talent", c.Tables.Talent, vb)
	errors.ValidateRequired("tables.spell", c.Tables.Spell, vb)
	return vb.Build()
}

type postgresRepository struct {
	db     Querier
	tables Tables
}

// NewPostgresRepository returns a repository reading from cfg.DB.
func NewPostgresRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &postgresRepository{db: cfg.DB, tables: cfg.Tables}, nil
}

var _ Repository = (*postgresRepository)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.InvalidArgument("postgres dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open postgres")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping postgres")
	}

	slog.InfoContext(ctx, "PostgreSQL connected")
	return db, nil
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "postgres ping failed")
	}
	return nil
}

func (r *postgresRepository) FetchPayload(ctx context.Context, class string) (*talents.Payload, error) {
	mask := 0
	if class = strings.TrimSpace(class); class != "" {
		c, ok := talents.ClassByName(class)
		if !ok {
			return nil, errors.InvalidArgumentf("unknown class %q", class)
		}
		mask = c.Mask
	}

	talentRows, err := r.query(ctx, "SELECT * FROM "+pq.QuoteIdentifier(r.tables.Talent))
	if err != nil {
		return nil, errors.Wrap(err, "talent query failed")
	}

	var tabRows []rowfield.Row
	if r.tables.Tab != "" {
		tabRows, err = r.query(ctx, withIcon(r.tables.Tab, r.tables.SpellIcon, ""))
		if err != nil {
			return nil, errors.Wrap(err, "tab query failed")
		}
		if mask != 0 {
			tabRows, talentRows = FilterClass(tabRows, talentRows, mask)
		}
		DeriveIcons(tabRows)
	}

	spellRows, err := r.fetchSpells(ctx, SpellIDs(talentRows))
	if err != nil {
		return nil, err
	}

	payload := &talents.Payload{
		Talents: talentRows,
		Spells:  spellRows,
		Tabs:    tabRows,
	}
	if err := r.fetchLookups(ctx, payload); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "assembled DBC payload",
		"class", class,
		"talents", len(payload.Talents),
		"spells", len(payload.Spells),
		"tabs", len(payload.Tabs))

	return payload, nil
}

func (r *postgresRepository) fetchSpells(ctx context.Context, ids []int64) ([]rowfield.Row, error) {
	spells := make([]rowfield.Row, 0, len(ids))
	if len(ids) == 0 {
		return spells, nil
	}

	query := withIcon(r.tables.Spell, r.tables.SpellIcon, `WHERE s."ID" = ANY($1)`)
	for _, chunk := range Chunk(ids, SpellChunkSize) {
		rows, err := r.query(ctx, query, pq.Array(chunk))
		if err != nil {
			return nil, errors.Wrap(err, "spell query failed")
		}
		spells = append(spells, rows...)
	}

	DeriveIcons(spells)
	return DedupeByID(spells), nil
}

// fetchLookups loads the small index tables in parallel. They are read
// whole since tooltips reference them sparsely by index.
func (r *postgresRepository) fetchLookups(ctx context.Context, payload *talents.Payload) error {
	lookups := []struct {
		table string
		dst   *[]rowfield.Row
	}{
		{r.tables.Duration, &payload.Durations},
		{r.tables.Radius, &payload.Radii},
		{r.tables.DescVars, &payload.DescVars},
		{r.tables.CastTime, &payload.CastTimes},
		{r.tables.Range, &payload.Ranges},
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError().WithMaxGoroutines(auxConcurrency)
	for _, l := range lookups {
		if l.table == "" {
			continue
		}
		p.Go(func(ctx context.Context) error {
			rows, err := r.query(ctx, "SELECT * FROM "+pq.QuoteIdentifier(l.table))
			if err != nil {
				return errors.Wrapf(err, "%s query failed", l.table)
			}
			*l.dst = rows
			return nil
		})
	}
	return p.Wait()
}

func (r *postgresRepository) query(ctx context.Context, query string, args ...any) ([]rowfield.Row, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "query aborted")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "query failed")
	}
	defer func() { _ = rows.Close() }()
	return ScanRows(rows)
}

// withIcon selects every column of table joined with the icon texture of
// its SpellIconID. Without an icon table the join is dropped.
func withIcon(table, iconTable, where string) string {
	var b strings.Builder
	if iconTable == "" {
		fmt.Fprintf(&b, "SELECT s.* FROM %s AS s", pq.QuoteIdentifier(table))
	} else {
		fmt.Fprintf(&b, `SELECT s.*, i."TextureFilename" FROM %s AS s LEFT JOIN %s AS i ON i."ID" = s."SpellIconID"`,
			pq.QuoteIdentifier(table), pq.QuoteIdentifier(iconTable))
	}
	if where != "" {
		b.WriteString(" ")
		b.WriteString(where)
	}
	return b.String()
}

// ScanRows reads every remaining row into column maps. Driver byte slices
// become strings so the rows encode as JSON text.
func ScanRows(rows *sql.Rows) ([]rowfield.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read columns")
	}

	out := []rowfield.Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}

		row := make(rowfield.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration failed")
	}
	return out, nil
}

// SpellIDs collects the distinct positive spell IDs referenced by talents,
// sorted ascending.
func SpellIDs(talentRows []rowfield.Row) []int64 {
	seen := make(map[int64]struct{})
	for _, row := range talentRows {
		for _, col := range talentSpellColumns {
			if id := int64(rowfield.Int(row, 0, col)); id > 0 {
				seen[id] = struct{}{}
			}
		}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Chunk splits ids into slices of at most size elements.
func Chunk(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = SpellChunkSize
	}
	var chunks [][]int64
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// DedupeByID keeps the last row per ID, ordered by ID.
func DedupeByID(rows []rowfield.Row) []rowfield.Row {
	byID := make(map[int]rowfield.Row, len(rows))
	for _, row := range rows {
		if id := rowfield.Int(row, 0, "ID"); id > 0 {
			byID[id] = row
		}
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]rowfield.Row, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out
}

// DeriveIcons fills IconName, IconPath and IconUrl from TextureFilename.
// Rows without a texture get explicit nulls.
func DeriveIcons(rows []rowfield.Row) {
	for _, row := range rows {
		tex := strings.TrimSpace(rowfield.String(row, "TextureFilename"))
		if tex == "" {
			row["IconName"], row["IconPath"], row["IconUrl"] = nil, nil, nil
			continue
		}
		name := talentgraph.IconName(tex)
		row["IconName"] = name
		row["IconPath"] = talentgraph.IconPath(name)
		row["IconUrl"] = talentgraph.IconURL(name)
	}
}

// FilterClass keeps the player tabs whose class mask overlaps mask and the
// talents placed on them.
func FilterClass(tabRows, talentRows []rowfield.Row, mask int) ([]rowfield.Row, []rowfield.Row) {
	keep := make(map[int]struct{})
	tabs := make([]rowfield.Row, 0, len(tabRows))
	for _, tab := range tabRows {
		if rowfield.Int(tab, 0, "PetTalentMask") != 0 {
			continue
		}
		if rowfield.Int(tab, 0, "ClassMask")&mask == 0 {
			continue
		}
		keep[rowfield.Int(tab, 0, "ID")] = struct{}{}
		tabs = append(tabs, tab)
	}

	kept := make([]rowfield.Row, 0, len(talentRows))
	for _, t := range talentRows {
		if _, ok := keep[rowfield.Int(t, 0, "TabID")]; ok {
			kept = append(kept, t)
		}
	}
	return tabs, kept
}
