// Package dbc reads talent payloads straight out of a Postgres hosted DBC
// dump, one table per client database file.
package dbc

//go:generate mockgen -destination=mock/mock_repository.go -package=dbcmock github.com/KirkDiggler/talent-api/internal/repositories/dbc Repository

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
)

// Repository assembles payloads from the DBC tables.
type Repository interface {
	// FetchPayload loads every talent of class (all classes when empty)
	// together with the spell and lookup rows its tooltips reference.
	FetchPayload(ctx context.Context, class string) (*talents.Payload, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error
}

// Querier is the subset of *sql.DB the repository needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PingContext(ctx context.Context) error
}

// Tables names the DBC tables. Optional tables left blank are skipped and
// the matching payload array is omitted.
type Tables struct {
	Talent    string
	Spell     string
	SpellIcon string
	Tab       string
	Duration  string
	Radius    string
	DescVars  string
	CastTime  string
	Range     string
}
