package lookup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

type GuildSource interface {
	Guild(ctx context.Context, guildID model.ID) (model.GuildContext, error)
	GuildOwner(ctx context.Context, guildID model.ID) (model.ID, error)
}

type GuildCache interface {
	GetGuild(ctx context.Context, guildID model.ID) (model.GuildContext, bool, error)
	SetGuild(ctx context.Context, guild model.GuildContext, ttl time.Duration) error
}

// CachedGuilds serves guild names from a cache and falls back to the
// platform. The owner is never cached: it decides who may post in a
// honeypot, so it is fetched from the platform on every lookup. Cache
// failures only cost a platform round trip.
type CachedGuilds struct {
	source GuildSource
	cache  GuildCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGuilds(source GuildSource, cache GuildCache, ttl time.Duration, logger *zap.Logger) *CachedGuilds {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGuilds{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedGuilds) enabled() bool {
	return c.cache != nil && c.ttl > 0
}

func (c *CachedGuilds) Guild(ctx context.Context, guildID model.ID) (model.GuildContext, error) {
	if c.enabled() {
		guild, ok, err := c.cache.GetGuild(ctx, guildID)
		switch {
		case err != nil:
			c.logger.Warn("guild cache read failed", zap.Stringer("guild_id", guildID), zap.Error(err))
		case ok:
			ownerID, err := c.source.GuildOwner(ctx, guildID)
			if err != nil {
				return model.GuildContext{}, err
			}
			guild.OwnerID = ownerID
			return guild, nil
		}
	}

	guild, err := c.source.Guild(ctx, guildID)
	if err != nil {
		return model.GuildContext{}, err
	}

	if c.enabled() {
		cached := model.GuildContext{ID: guild.ID, Name: guild.Name}
		if err := c.cache.SetGuild(ctx, cached, c.ttl); err != nil {
			c.logger.Warn("guild cache write failed", zap.Stringer("guild_id", guildID), zap.Error(err))
		}
	}

	return guild, nil
}

func (c *CachedGuilds) GuildOwner(ctx context.Context, guildID model.ID) (model.ID, error) {
	return c.source.GuildOwner(ctx, guildID)
}
