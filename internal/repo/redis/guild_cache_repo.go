package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

const guildPrefix = "honeybot:guild:"

type GuildCacheRepo struct {
	client *goredis.Client
}

func NewGuildCacheRepo(client *goredis.Client) *GuildCacheRepo {
	return &GuildCacheRepo{client: client}
}

func (r *GuildCacheRepo) GetGuild(ctx context.Context, guildID model.ID) (model.GuildContext, bool, error) {
	if r.client == nil {
		return model.GuildContext{}, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, guildKey(guildID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.GuildContext{}, false, nil
		}
		return model.GuildContext{}, false, fmt.Errorf("get cached guild: %w", err)
	}

	var guild model.GuildContext
	if err := json.Unmarshal(raw, &guild); err != nil {
		return model.GuildContext{}, false, fmt.Errorf("decode cached guild: %w", err)
	}

	return guild, true, nil
}

func (r *GuildCacheRepo) SetGuild(ctx context.Context, guild model.GuildContext, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if guild.ID == 0 || ttl <= 0 {
		return fmt.Errorf("invalid guild cache payload")
	}

	payload, err := json.Marshal(guild)
	if err != nil {
		return fmt.Errorf("encode guild: %w", err)
	}

	if err := r.client.Set(ctx, guildKey(guild.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set cached guild: %w", err)
	}

	return nil
}

func guildKey(guildID model.ID) string {
	return guildPrefix + guildID.String()
}
