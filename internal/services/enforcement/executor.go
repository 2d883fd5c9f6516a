package enforcement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

const banDeleteDays = 0

// Actions are the platform calls enforcement is made of.
type Actions interface {
	BanUser(ctx context.Context, guildID, userID model.ID, deleteDays int, reason string) error
	SendMessage(ctx context.Context, channelID model.ID, text string) error
}

// Outcome records each step independently. A failed step never suppresses or
// rolls back the other one.
type Outcome struct {
	BanErr    error
	NotifyErr error
}

func (o Outcome) Banned() bool {
	return o.BanErr == nil
}

func (o Outcome) Notified() bool {
	return o.NotifyErr == nil
}

func (o Outcome) Err() error {
	return errors.Join(o.BanErr, o.NotifyErr)
}

type Executor struct {
	actions Actions
}

func NewExecutor(actions Actions) *Executor {
	return &Executor{actions: actions}
}

func (e *Executor) Enforce(ctx context.Context, msg model.InboundMessage, guild model.GuildContext) Outcome {
	var outcome Outcome

	if err := e.actions.BanUser(ctx, guild.ID, msg.AuthorID, banDeleteDays, ""); err != nil {
		outcome.BanErr = fmt.Errorf("ban user %s in guild %s: %w", msg.AuthorID, guild.ID, err)
	}

	if err := e.actions.SendMessage(ctx, msg.ChannelID, BanNotice(msg.AuthorName, guild.Name)); err != nil {
		outcome.NotifyErr = fmt.Errorf("send ban notice to channel %s: %w", msg.ChannelID, err)
	}

	return outcome
}

func BanNotice(displayName, guildName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "Someone"
	}
	return fmt.Sprintf("%s YOU'RE BANNED from %s", name, guildName)
}
