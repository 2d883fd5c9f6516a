package botapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ozy-Viking/honeybot/internal/config"
	"github.com/Ozy-Viking/honeybot/internal/domain/enums"
	"github.com/Ozy-Viking/honeybot/internal/domain/model"
	"github.com/Ozy-Viking/honeybot/internal/infra/discord"
	"github.com/Ozy-Viking/honeybot/internal/infra/metrics"
	"github.com/Ozy-Viking/honeybot/internal/infra/telegram"
	redrepo "github.com/Ozy-Viking/honeybot/internal/repo/redis"
	"github.com/Ozy-Viking/honeybot/internal/services/enforcement"
	"github.com/Ozy-Viking/honeybot/internal/services/lookup"
	"github.com/Ozy-Viking/honeybot/internal/services/policy"
	"github.com/Ozy-Viking/honeybot/internal/transport/httpapi"
)

// Platform is a chat platform client: an event feed plus the lookups and
// actions moderation relies on.
type Platform interface {
	lookup.GuildSource
	Directory
	enforcement.Actions
	Listen(ctx context.Context, handle func(context.Context, model.InboundMessage) error) error
	Close() error
}

type App struct {
	cfg      config.Config
	logger   *zap.Logger
	policy   *policy.Store
	platform Platform
	redis    *goredis.Client
	server   *http.Server
	handler  *Handler
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	store, err := policy.Load(policy.Source{
		BotID:       cfg.Policy.BotID,
		ChannelIDs:  cfg.Policy.ChannelIDs,
		ExemptUsers: cfg.Policy.ExemptUserIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	platform, err := newPlatform(cfg, store, logger)
	if err != nil {
		return nil, err
	}

	app, err := assemble(ctx, cfg, logger, store, platform)
	if err != nil {
		_ = platform.Close()
		return nil, err
	}
	return app, nil
}

func newPlatform(cfg config.Config, store *policy.Store, logger *zap.Logger) (Platform, error) {
	switch enums.Platform(cfg.Platform) {
	case enums.PlatformDiscord:
		client, err := discord.NewClient(cfg.Discord.Token, logger)
		if err != nil {
			return nil, fmt.Errorf("init discord client: %w", err)
		}
		return client, nil
	case enums.PlatformTelegram:
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.PollTimeout, logger)
		if err != nil {
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
		if self := bot.SelfID(); self != store.BotID() {
			logger.Warn("configured bot id does not match the telegram token",
				zap.Stringer("configured", store.BotID()),
				zap.Stringer("token_owner", self),
			)
		}
		return bot, nil
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}

func assemble(ctx context.Context, cfg config.Config, logger *zap.Logger, store *policy.Store, platform Platform) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var (
		redisClient *goredis.Client
		guildCache  lookup.GuildCache
	)
	if cfg.CacheEnabled() {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, guild cache disabled", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			guildCache = redrepo.NewGuildCacheRepo(redisClient)
		}
	}

	handler, err := NewHandler(HandlerDependencies{
		Policy:    store,
		Guilds:    lookup.NewCachedGuilds(platform, guildCache, cfg.Cache.GuildTTL, logger),
		Directory: platform,
		Executor:  enforcement.NewExecutor(platform),
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("init message handler: %w", err)
	}

	var server *http.Server
	if cfg.Metrics.Addr != "" {
		server = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           httpapi.NewRouter(registry, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	if len(store.MonitoredChannels()) == 0 {
		logger.Warn("no honeypot channels configured, nothing will be enforced")
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		policy:   store,
		platform: platform,
		redis:    redisClient,
		server:   server,
		handler:  handler,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("honeybot started",
		zap.String("platform", a.cfg.Platform),
		zap.Int("monitored_channels", len(a.policy.MonitoredChannels())),
		zap.Int("exempt_users", len(a.policy.ExemptUsers())),
	)

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.platform.Listen(ctx, a.handler.OnMessage)
	}()

	if a.server != nil {
		go func() {
			a.logger.Info("metrics server started", zap.String("addr", a.server.Addr))
			err := a.server.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			errCh <- err
		}()
	}

	for {
		select {
		case <-ctx.Done():
			a.shutdownServer()
			a.logger.Info("honeybot stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			a.shutdownServer()
			return err
		}
	}
}

func (a *App) shutdownServer() {
	if a.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("metrics server shutdown failed", zap.Error(err))
	}
}

func (a *App) Close() {
	if err := a.platform.Close(); err != nil {
		a.logger.Warn("close platform client", zap.Error(err))
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
