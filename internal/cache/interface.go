package cache

import (
	"context"
	"errors"

	"github.com/osjaeyoung/bbanggri-server/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// ProfileCache caches the per-participant lookups the push fallback makes
// on every offline delivery: device tokens and profile fields. Entries
// expire on a TTL; the store stays the source of truth.
type ProfileCache interface {
	GetToken(ctx context.Context, uuid string) (string, error)
	SetToken(ctx context.Context, uuid, token string) error
	GetProfile(ctx context.Context, uuid string) (*domain.Profile, error)
	SetProfile(ctx context.Context, uuid string, profile *domain.Profile) error
	Close() error
}
