package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

type MessageHandler = func(context.Context, model.InboundMessage) error

// Bot serves honeypot moderation over the Telegram Bot API. A group or
// supergroup chat plays both the guild and the channel role; private chats
// carry no guild.
type Bot struct {
	api         *tgbotapi.BotAPI
	logger      *zap.Logger
	pollTimeout int
}

func NewBot(token string, pollTimeout int, logger *zap.Logger) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}

	return &Bot{
		api:         api,
		logger:      logger,
		pollTimeout: pollTimeout,
	}, nil
}

func (b *Bot) SelfID() model.ID {
	if b == nil || b.api == nil {
		return 0
	}
	return model.ID(b.api.Self.ID)
}

// Listen long-polls for updates until ctx is done. Each message is handled on
// its own goroutine; Listen waits for in-flight handlers before returning.
func (b *Bot) Listen(ctx context.Context, handle MessageHandler) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if handle == nil {
		return fmt.Errorf("telegram message handler is nil")
	}

	timeout := b.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = timeout
	updates := b.api.GetUpdatesChan(updateCfg)
	defer b.api.StopReceivingUpdates()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg, ok := toInboundMessage(update.Message)
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := handle(ctx, msg); err != nil {
					b.logger.Debug("telegram message not fully processed", zap.Error(err))
				}
			}()
		}
	}
}

func (b *Bot) Close() error {
	return nil
}

func (b *Bot) Guild(ctx context.Context, guildID model.ID) (model.GuildContext, error) {
	if b == nil || b.api == nil {
		return model.GuildContext{}, fmt.Errorf("telegram bot is not initialized")
	}

	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: int64(guildID)},
	})
	if err != nil {
		return model.GuildContext{}, fmt.Errorf("get telegram chat: %w", err)
	}

	owner, err := b.GuildOwner(ctx, guildID)
	if err != nil {
		return model.GuildContext{}, err
	}

	return model.GuildContext{ID: guildID, Name: chat.Title, OwnerID: owner}, nil
}

// GuildOwner returns the chat member whose status is creator.
func (b *Bot) GuildOwner(ctx context.Context, guildID model.ID) (model.ID, error) {
	if b == nil || b.api == nil {
		return 0, fmt.Errorf("telegram bot is not initialized")
	}

	admins, err := b.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: int64(guildID)},
	})
	if err != nil {
		return 0, fmt.Errorf("get telegram chat administrators: %w", err)
	}

	owner, ok := creatorOf(admins)
	if !ok {
		return 0, fmt.Errorf("telegram chat %s has no visible creator", guildID)
	}

	_ = ctx
	return owner, nil
}

func (b *Bot) User(ctx context.Context, userID model.ID) (model.User, error) {
	if b == nil || b.api == nil {
		return model.User{}, fmt.Errorf("telegram bot is not initialized")
	}

	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: int64(userID)},
	})
	if err != nil {
		return model.User{}, fmt.Errorf("get telegram user chat: %w", err)
	}

	_ = ctx
	return model.User{ID: userID, DisplayName: joinName(chat.FirstName, chat.LastName, chat.UserName)}, nil
}

func (b *Bot) Channel(ctx context.Context, channelID model.ID) (model.Channel, error) {
	if b == nil || b.api == nil {
		return model.Channel{}, fmt.Errorf("telegram bot is not initialized")
	}

	chat, err := b.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: int64(channelID)},
	})
	if err != nil {
		return model.Channel{}, fmt.Errorf("get telegram chat: %w", err)
	}
	if chat.IsPrivate() {
		return model.Channel{}, fmt.Errorf("chat %s is not a group", channelID)
	}

	_ = ctx
	return model.Channel{ID: channelID, Name: chat.Title}, nil
}

// BanUser bans from the group. Telegram has no day window, so any positive
// deleteDays revokes all of the user's messages. banChatMember takes no
// reason either; a non-empty one is only logged.
func (b *Bot) BanUser(ctx context.Context, guildID, userID model.ID, deleteDays int, reason string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}

	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: int64(guildID),
			UserID: int64(userID),
		},
		RevokeMessages: deleteDays > 0,
	}
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("ban telegram chat member: %w", err)
	}

	if reason != "" {
		b.logger.Debug("telegram bans carry no reason, dropped", zap.String("reason", reason))
	}

	_ = ctx
	return nil
}

func (b *Bot) SendMessage(ctx context.Context, channelID model.ID, text string) error {
	if b == nil || b.api == nil {
		return fmt.Errorf("telegram bot is not initialized")
	}
	if channelID == 0 {
		return fmt.Errorf("chat id is required")
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(int64(channelID), text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	_ = ctx
	return nil
}

func toInboundMessage(message *tgbotapi.Message) (model.InboundMessage, bool) {
	if message == nil || message.From == nil || message.Chat == nil {
		return model.InboundMessage{}, false
	}

	msg := model.InboundMessage{
		AuthorID:   model.ID(message.From.ID),
		AuthorName: joinName(message.From.FirstName, message.From.LastName, message.From.UserName),
		ChannelID:  model.ID(message.Chat.ID),
		Content:    message.Text,
	}
	if msg.Content == "" {
		msg.Content = message.Caption
	}

	if message.Chat.IsGroup() || message.Chat.IsSuperGroup() {
		guildID := model.ID(message.Chat.ID)
		msg.GuildID = &guildID
	}

	return msg, true
}

func creatorOf(members []tgbotapi.ChatMember) (model.ID, bool) {
	for _, member := range members {
		if member.IsCreator() && member.User != nil {
			return model.ID(member.User.ID), true
		}
	}
	return 0, false
}

func joinName(first, last, username string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name != "" {
		return name
	}
	return strings.TrimSpace(username)
}
