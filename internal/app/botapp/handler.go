package botapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ozy-Viking/honeybot/internal/domain/enums"
	"github.com/Ozy-Viking/honeybot/internal/domain/model"
	"github.com/Ozy-Viking/honeybot/internal/infra/metrics"
	"github.com/Ozy-Viking/honeybot/internal/services/enforcement"
	"github.com/Ozy-Viking/honeybot/internal/services/lookup"
	"github.com/Ozy-Viking/honeybot/internal/services/moderation"
)

var ErrContextResolution = errors.New("resolve guild context")

// Directory resolves names used only for operator logs.
type Directory interface {
	User(ctx context.Context, userID model.ID) (model.User, error)
	Channel(ctx context.Context, channelID model.ID) (model.Channel, error)
}

type HandlerDependencies struct {
	Policy    moderation.Policy
	Guilds    lookup.GuildSource
	Directory Directory
	Executor  *enforcement.Executor
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Handler turns platform message events into moderation decisions. It holds
// no per-message state and is called concurrently by the platform clients.
type Handler struct {
	policy    moderation.Policy
	guilds    lookup.GuildSource
	directory Directory
	executor  *enforcement.Executor
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewHandler(deps HandlerDependencies) (*Handler, error) {
	if deps.Policy == nil {
		return nil, fmt.Errorf("policy is nil")
	}
	if deps.Guilds == nil || deps.Directory == nil || deps.Executor == nil {
		return nil, fmt.Errorf("platform dependencies are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Handler{
		policy:    deps.Policy,
		guilds:    deps.Guilds,
		directory: deps.Directory,
		executor:  deps.Executor,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}, nil
}

// OnMessage processes one inbound message. The returned error is already
// logged; it is a context-resolution failure or a failed enforcement step.
func (h *Handler) OnMessage(ctx context.Context, msg model.InboundMessage) error {
	log := h.logger.With(
		zap.String("trace_id", uuid.NewString()),
		zap.Stringer("author_id", msg.AuthorID),
		zap.Stringer("channel_id", msg.ChannelID),
	)

	var guild *model.GuildContext
	// Own messages are SelfAuthored whatever the guild says, so skip the lookup.
	if msg.HasGuild() && msg.AuthorID != h.policy.BotID() {
		resolved, err := h.guilds.Guild(ctx, *msg.GuildID)
		if err != nil {
			h.metrics.ObserveContextFailure()
			log.Error("guild context lookup failed, message skipped",
				zap.Stringer("guild_id", *msg.GuildID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: guild %s: %w", ErrContextResolution, *msg.GuildID, err)
		}
		guild = &resolved
	}

	decision := moderation.Decide(msg, guild, h.policy)
	h.metrics.ObserveDecision(decision)

	switch decision {
	case enums.DecisionEnforce:
		return h.enforce(ctx, log, msg, *guild)
	case enums.DecisionOwnerExempt:
		log.Info("owner messaged",
			zap.String("owner", h.ownerName(ctx, log, guild.OwnerID)),
			zap.String("guild", guild.Name),
			zap.String("content", msg.Content),
		)
	case enums.DecisionUserExempt:
		log.Info("exempt user posted in honeypot channel",
			zap.String("user", msg.AuthorName),
			zap.String("guild", guild.Name),
		)
	case enums.DecisionNoGuildContext:
		log.Info("no guild to ban from")
	default:
		log.Debug("message ignored", zap.String("decision", string(decision)))
	}

	return nil
}

func (h *Handler) enforce(ctx context.Context, log *zap.Logger, msg model.InboundMessage, guild model.GuildContext) error {
	outcome := h.executor.Enforce(ctx, msg, guild)
	h.metrics.ObserveStep(metrics.StepBan, outcome.BanErr)
	h.metrics.ObserveStep(metrics.StepNotify, outcome.NotifyErr)

	if outcome.Banned() {
		log.Info("user banned for messaging in honeypot channel",
			zap.String("user", msg.AuthorName),
			zap.String("guild", guild.Name),
			zap.String("channel", h.channelName(ctx, log, msg.ChannelID)),
		)
	} else {
		log.Error("ban failed",
			zap.String("user", msg.AuthorName),
			zap.String("guild", guild.Name),
			zap.Error(outcome.BanErr),
		)
	}

	if !outcome.Notified() {
		log.Error("ban notice failed", zap.Error(outcome.NotifyErr))
	}

	return outcome.Err()
}

func (h *Handler) ownerName(ctx context.Context, log *zap.Logger, ownerID model.ID) string {
	owner, err := h.directory.User(ctx, ownerID)
	if err != nil || owner.DisplayName == "" {
		log.Debug("owner lookup failed", zap.Stringer("owner_id", ownerID), zap.Error(err))
		return ownerID.String()
	}
	return owner.DisplayName
}

func (h *Handler) channelName(ctx context.Context, log *zap.Logger, channelID model.ID) string {
	channel, err := h.directory.Channel(ctx, channelID)
	if err != nil || channel.Name == "" {
		log.Debug("channel lookup failed", zap.Error(err))
		return channelID.String()
	}
	return channel.Name
}
