package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

func TestGuildCacheRoundTripAndExpiry(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewGuildCacheRepo(client)
	ctx := context.Background()
	guild := model.GuildContext{ID: 50, Name: "Rustaceans", OwnerID: 3}

	if _, ok, err := repo.GetGuild(ctx, guild.ID); err != nil || ok {
		t.Fatalf("expected cache miss, got ok=%v err=%v", ok, err)
	}

	if err := repo.SetGuild(ctx, guild, time.Minute); err != nil {
		t.Fatalf("set guild: %v", err)
	}

	got, ok, err := repo.GetGuild(ctx, guild.ID)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if got != guild {
		t.Fatalf("unexpected cached guild: %+v", got)
	}
	if !mr.Exists("honeybot:guild:50") {
		t.Fatalf("expected guild key in redis")
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := repo.GetGuild(ctx, guild.ID); err != nil || ok {
		t.Fatalf("expected expired entry, got ok=%v err=%v", ok, err)
	}
}

func TestGuildCacheRejectsCorruptPayload(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	if err := mr.Set("honeybot:guild:7", "not-json"); err != nil {
		t.Fatalf("seed redis: %v", err)
	}

	_, _, err := NewGuildCacheRepo(client).GetGuild(context.Background(), 7)
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestGuildCacheRejectsInvalidTTL(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	err := NewGuildCacheRepo(client).SetGuild(context.Background(), model.GuildContext{ID: 1}, 0)
	if err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
