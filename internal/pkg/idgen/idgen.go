// Package idgen generates request and snapshot identifiers.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/talent-api/internal/pkg/idgen Generator

// Generator produces unique identifiers.
type Generator interface {
	Generate() string
}

// UUIDGenerator produces random UUIDs, optionally prefixed ("req_<uuid>").
type UUIDGenerator struct {
	prefix string
}

// NewUUID returns a UUID generator. An empty prefix yields bare UUIDs.
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns a new UUID based identifier.
func (g *UUIDGenerator) Generate() string {
	id := uuid.NewString()
	if g.prefix == "" {
		return id
	}
	return g.prefix + "_" + id
}

// SequentialGenerator counts up from 1. Tests use it for stable IDs.
type SequentialGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential returns a sequential generator.
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next identifier in sequence.
func (g *SequentialGenerator) Generate() string {
	n := g.counter.Add(1)
	if g.prefix == "" {
		return fmt.Sprint(n)
	}
	return fmt.Sprintf("%s_%d", g.prefix, n)
}
