// Package config loads service settings from defaults, an optional YAML
// file, a .env file and TALENTS_* environment variables, in that order of
// increasing precedence.
package config

import (
	"time"

	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/errors"
)

// Payload sources.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceStatic   = "static"
)

// Config is the full server configuration.
type Config struct {
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	GRPCPort int `koanf:"grpc_port"`

	// HTTPAddr serves /metrics, plus /talentapi for the postgres source.
	// Empty disables it.
	HTTPAddr string `koanf:"http_addr"`

	Source       string        `koanf:"source"`
	TalentAPIURL string        `koanf:"talent_api_url"`
	HTTPTimeout  time.Duration `koanf:"http_timeout"`

	PostgresDSN string `koanf:"postgres_dsn"`
	Tables      Tables `koanf:"tables"`

	// RedisURL enables last-known-good snapshots when set.
	RedisURL    string        `koanf:"redis_url"`
	SnapshotTTL time.Duration `koanf:"snapshot_ttl"`

	CacheTTL time.Duration `koanf:"cache_ttl"`
	Policy   string        `koanf:"policy"`
}

// Tables names the DBC export tables read by the Postgres source.
type Tables struct {
	Talent    string `koanf:"talent"`
	Spell     string `koanf:"spell"`
	Tab       string `koanf:"tab"`
	Duration  string `koanf:"duration"`
	Radius    string `koanf:"radius"`
	DescVars  string `koanf:"desc_vars"`
	CastTime  string `koanf:"cast_time"`
	Range     string `koanf:"range"`
	SpellIcon string `koanf:"spell_icon"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		GRPCPort:     50051,
		HTTPAddr:     ":9090",
		Source:       SourceHTTP,
		TalentAPIURL: "http://localhost:8080/talentapi",
		HTTPTimeout:  10 * time.Second,
		Tables: Tables{
			Talent:    "talent",
			Spell:     "spell",
			Tab:       "talenttab",
			Duration:  "spellduration",
			Radius:    "spellradius",
			DescVars:  "spelldescriptionvariables",
			CastTime:  "spellcasttimes",
			Range:     "spellrange",
			SpellIcon: "spellicon",
		},
		SnapshotTTL: 7 * 24 * time.Hour,
		CacheTTL:    5 * time.Minute,
		Policy:      string(talentgraph.PolicyLive),
	}
}

// Validate checks the settings the selected source depends on.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("log_level", c.LogLevel, []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log_format", c.LogFormat, []string{"text", "json"}, vb)
	errors.ValidateRange("grpc_port", c.GRPCPort, 1, 65535, vb)
	errors.ValidateEnum("source", c.Source, []string{SourceHTTP, SourcePostgres, SourceStatic}, vb)

	switch c.Source {
	case SourceHTTP:
		errors.ValidateRequired("talent_api_url", c.TalentAPIURL, vb)
		if c.HTTPTimeout <= 0 {
			vb.InvalidField("http_timeout", "must be positive")
		}
	case SourcePostgres:
		errors.ValidateRequired("postgres_dsn", c.PostgresDSN, vb)
		for field, name := range map[string]string{
			"tables.talent": c.Tables.Talent,
			"tables.spell":  c.Tables.Spell,
			"tables.tab":    c.Tables.Tab,
		} {
			errors.ValidateRequired(field, name, vb)
		}
	}

	if c.CacheTTL < 0 {
		vb.InvalidField("cache_ttl", "must not be negative")
	}
	if c.RedisURL != "" && c.SnapshotTTL <= 0 {
		vb.InvalidField("snapshot_ttl", "must be positive when redis_url is set")
	}
	if _, err := talentgraph.ParsePolicy(c.Policy); err != nil {
		vb.InvalidField("policy", errors.GetMessage(err))
	}

	return vb.Build()
}
