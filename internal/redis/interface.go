package redis

import (
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/redis.go -package=redismocks -source=interface.go

// Client is the subset of go-redis the service uses. Keeping the full
// UniversalClient lets tests swap in miniredis or a mock.
type Client interface {
	redis.UniversalClient
}
