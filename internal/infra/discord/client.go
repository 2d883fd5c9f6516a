package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

const intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildBans

type MessageHandler = func(context.Context, model.InboundMessage) error

// Client owns the gateway session and exposes the REST calls the bot needs.
// Connection upkeep (heartbeats, resumes, rate limits) is left to discordgo.
type Client struct {
	session *discordgo.Session
	logger  *zap.Logger
}

func NewClient(token string, logger *zap.Logger) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("discord token is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = intents

	return &Client{session: session, logger: logger}, nil
}

// Listen opens the gateway and blocks until ctx is done. discordgo runs each
// event handler on its own goroutine, so messages are processed concurrently.
func (c *Client) Listen(ctx context.Context, handle MessageHandler) error {
	if handle == nil {
		return fmt.Errorf("discord message handler is nil")
	}

	remove := c.session.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageCreate) {
		msg, ok := toInboundMessage(event)
		if !ok {
			return
		}
		if err := handle(ctx, msg); err != nil {
			c.logger.Debug("discord message not fully processed", zap.Error(err))
		}
	})
	defer remove()

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	c.logger.Info("discord gateway connected")

	<-ctx.Done()
	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

func (c *Client) Guild(ctx context.Context, guildID model.ID) (model.GuildContext, error) {
	guild, err := c.session.Guild(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return model.GuildContext{}, fmt.Errorf("get discord guild: %w", err)
	}

	ownerID, err := parseSnowflake(guild.OwnerID)
	if err != nil {
		return model.GuildContext{}, fmt.Errorf("parse guild owner id: %w", err)
	}

	return model.GuildContext{ID: guildID, Name: guild.Name, OwnerID: ownerID}, nil
}

func (c *Client) GuildOwner(ctx context.Context, guildID model.ID) (model.ID, error) {
	guild, err := c.Guild(ctx, guildID)
	if err != nil {
		return 0, err
	}
	return guild.OwnerID, nil
}

func (c *Client) User(ctx context.Context, userID model.ID) (model.User, error) {
	user, err := c.session.User(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return model.User{}, fmt.Errorf("get discord user: %w", err)
	}
	return model.User{ID: userID, DisplayName: displayName(user)}, nil
}

func (c *Client) Channel(ctx context.Context, channelID model.ID) (model.Channel, error) {
	channel, err := c.session.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return model.Channel{}, fmt.Errorf("get discord channel: %w", err)
	}
	if channel.GuildID == "" {
		return model.Channel{}, fmt.Errorf("channel %s is not a guild channel", channelID)
	}
	return model.Channel{ID: channelID, Name: channel.Name}, nil
}

func (c *Client) BanUser(ctx context.Context, guildID, userID model.ID, deleteDays int, reason string) error {
	var err error
	if strings.TrimSpace(reason) == "" {
		err = c.session.GuildBanCreate(guildID.String(), userID.String(), deleteDays, discordgo.WithContext(ctx))
	} else {
		err = c.session.GuildBanCreateWithReason(guildID.String(), userID.String(), reason, deleteDays, discordgo.WithContext(ctx))
	}
	if err != nil {
		return fmt.Errorf("create discord ban: %w", err)
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, channelID model.ID, text string) error {
	if _, err := c.session.ChannelMessageSend(channelID.String(), text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func toInboundMessage(event *discordgo.MessageCreate) (model.InboundMessage, bool) {
	if event == nil || event.Message == nil || event.Author == nil {
		return model.InboundMessage{}, false
	}

	authorID, err := parseSnowflake(event.Author.ID)
	if err != nil {
		return model.InboundMessage{}, false
	}
	channelID, err := parseSnowflake(event.ChannelID)
	if err != nil {
		return model.InboundMessage{}, false
	}

	msg := model.InboundMessage{
		AuthorID:   authorID,
		AuthorName: displayName(event.Author),
		ChannelID:  channelID,
		Content:    event.Content,
	}

	if event.GuildID != "" {
		guildID, err := parseSnowflake(event.GuildID)
		if err != nil {
			return model.InboundMessage{}, false
		}
		msg.GuildID = &guildID
	}

	return msg, true
}

func displayName(user *discordgo.User) string {
	if user == nil {
		return ""
	}
	if strings.TrimSpace(user.GlobalName) != "" {
		return user.GlobalName
	}
	return user.Username
}

func parseSnowflake(raw string) (model.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse snowflake %q: %w", raw, err)
	}
	return model.ID(n), nil
}
