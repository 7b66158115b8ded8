package store

import (
	"context"
	"errors"

	"github.com/osjaeyoung/bbanggri-server/internal/cache"
	"github.com/osjaeyoung/bbanggri-server/internal/domain"
	"github.com/osjaeyoung/bbanggri-server/pkg/log"
)

// CachedStore decorates a MessageStore with a read-through cache for the
// device-token and profile lookups. Cache failures never fail a lookup;
// they fall back to the wrapped store.
type CachedStore struct {
	MessageStore
	cache cache.ProfileCache
}

func NewCachedStore(inner MessageStore, c cache.ProfileCache) *CachedStore {
	return &CachedStore{MessageStore: inner, cache: c}
}

func (s *CachedStore) GetDeviceToken(ctx context.Context, uuid string) (string, error) {
	token, err := s.cache.GetToken(ctx, uuid)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Ctx(ctx).Warn().Str(log.FieldUUID, uuid).Err(err).Msg("token cache lookup failed")
	}

	token, err = s.MessageStore.GetDeviceToken(ctx, uuid)
	if err != nil {
		return "", err
	}
	if err := s.cache.SetToken(ctx, uuid, token); err != nil {
		log.Ctx(ctx).Warn().Str(log.FieldUUID, uuid).Err(err).Msg("token cache fill failed")
	}
	return token, nil
}

func (s *CachedStore) GetProfile(ctx context.Context, uuid string) (*domain.Profile, error) {
	profile, err := s.cache.GetProfile(ctx, uuid)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Ctx(ctx).Warn().Str(log.FieldUUID, uuid).Err(err).Msg("profile cache lookup failed")
	}

	profile, err = s.MessageStore.GetProfile(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProfile(ctx, uuid, profile); err != nil {
		log.Ctx(ctx).Warn().Str(log.FieldUUID, uuid).Err(err).Msg("profile cache fill failed")
	}
	return profile, nil
}
