package moderation

import (
	"github.com/Ozy-Viking/honeybot/internal/domain/enums"
	"github.com/Ozy-Viking/honeybot/internal/domain/model"
)

// Policy is the read-only view of the honeypot policy the decision needs.
type Policy interface {
	BotID() model.ID
	IsMonitored(channelID model.ID) bool
	IsExempt(userID model.ID) bool
}

// Decide classifies a message. The first matching rule wins: the bot's own
// messages and the guild owner's messages are never actionable, and channel
// membership is checked before the allow-list so that an exempt user posting
// outside a honeypot is reported as not monitored.
func Decide(msg model.InboundMessage, guild *model.GuildContext, policy Policy) enums.Decision {
	switch {
	case msg.AuthorID == policy.BotID():
		return enums.DecisionSelfAuthored
	case !msg.HasGuild() || guild == nil:
		return enums.DecisionNoGuildContext
	case guild.OwnerID == msg.AuthorID:
		return enums.DecisionOwnerExempt
	case !policy.IsMonitored(msg.ChannelID):
		return enums.DecisionNotMonitored
	case policy.IsExempt(msg.AuthorID):
		return enums.DecisionUserExempt
	default:
		return enums.DecisionEnforce
	}
}
