package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/core/domain"
	"github.com/spit-library/auth-service/internal/core/ports"
)

const profileTTL = 5 * time.Minute

// CachedProfileRepository is a read-through cache over a ProfileRepository.
// Reads fill the cache, writes invalidate it. Cache trouble never fails a
// request: a broken Redis degrades to the inner repository.
// Key format: profile:<uid>
type CachedProfileRepository struct {
	inner  ports.ProfileRepository
	client *redis.Client
	log    zerolog.Logger
}

var _ ports.ProfileRepository = (*CachedProfileRepository)(nil)

// NewCachedProfileRepository wraps inner with a Redis read-through cache.
func NewCachedProfileRepository(inner ports.ProfileRepository, client *redis.Client, log zerolog.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{inner: inner, client: client, log: log}
}

func (c *CachedProfileRepository) Read(ctx context.Context, uid string) (*domain.UserProfileRecord, error) {
	if data, err := c.client.Get(ctx, c.key(uid)).Bytes(); err == nil {
		var rec domain.UserProfileRecord
		if err := json.Unmarshal(data, &rec); err == nil {
			return &rec, nil
		}
	} else if err != redis.Nil {
		c.log.Debug().Err(err).Str("uid", uid).Msg("profile cache read failed")
	}

	rec, err := c.inner.Read(ctx, uid)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, rec)
	return rec, nil
}

func (c *CachedProfileRepository) Merge(ctx context.Context, uid string, fields domain.ProfileFields) error {
	if err := c.inner.Merge(ctx, uid, fields); err != nil {
		return err
	}
	c.invalidate(ctx, uid)
	return nil
}

func (c *CachedProfileRepository) Create(ctx context.Context, uid, email string) error {
	if err := c.inner.Create(ctx, uid, email); err != nil {
		return err
	}
	c.invalidate(ctx, uid)
	return nil
}

func (c *CachedProfileRepository) AppendLoginEvent(ctx context.Context, uid string) error {
	// Login events are not cached.
	return c.inner.AppendLoginEvent(ctx, uid)
}

func (c *CachedProfileRepository) fill(ctx context.Context, rec *domain.UserProfileRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(rec.UID), data, profileTTL).Err(); err != nil {
		c.log.Debug().Err(err).Str("uid", rec.UID).Msg("profile cache fill failed")
	}
}

func (c *CachedProfileRepository) invalidate(ctx context.Context, uid string) {
	if err := c.client.Del(ctx, c.key(uid)).Err(); err != nil {
		c.log.Debug().Err(err).Str("uid", uid).Msg("profile cache invalidation failed")
	}
}

func (c *CachedProfileRepository) key(uid string) string {
	return "profile:" + uid
}
