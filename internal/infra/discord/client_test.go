package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestToInboundMessageGuild(t *testing.T) {
	event := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "100",
		GuildID:   "50",
		Content:   "hello",
		Author:    &discordgo.User{ID: "2", Username: "spam_bot", GlobalName: "Spam Bot"},
	}}

	msg, ok := toInboundMessage(event)
	if !ok {
		t.Fatalf("expected message to convert")
	}
	if msg.AuthorID != 2 || msg.ChannelID != 100 || msg.Content != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.GuildID == nil || *msg.GuildID != 50 {
		t.Fatalf("unexpected guild id: %v", msg.GuildID)
	}
	if msg.AuthorName != "Spam Bot" {
		t.Fatalf("expected global name, got %q", msg.AuthorName)
	}
}

func TestToInboundMessageDirect(t *testing.T) {
	event := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "300",
		Author:    &discordgo.User{ID: "2", Username: "member"},
	}}

	msg, ok := toInboundMessage(event)
	if !ok {
		t.Fatalf("expected message to convert")
	}
	if msg.HasGuild() {
		t.Fatalf("direct message must not carry a guild id")
	}
	if msg.AuthorName != "member" {
		t.Fatalf("expected username fallback, got %q", msg.AuthorName)
	}
}

func TestToInboundMessageRejectsBrokenEvents(t *testing.T) {
	tests := []*discordgo.MessageCreate{
		nil,
		{Message: &discordgo.Message{ChannelID: "1"}},
		{Message: &discordgo.Message{ChannelID: "x", Author: &discordgo.User{ID: "2"}}},
		{Message: &discordgo.Message{ChannelID: "1", GuildID: "g", Author: &discordgo.User{ID: "2"}}},
	}

	for i, event := range tests {
		if _, ok := toInboundMessage(event); ok {
			t.Fatalf("event #%d: expected conversion to fail", i)
		}
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("  ", nil); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestIntentsCoverMessagesAndBans(t *testing.T) {
	for _, want := range []discordgo.Intent{
		discordgo.IntentsGuildMessages,
		discordgo.IntentsDirectMessages,
		discordgo.IntentsMessageContent,
		discordgo.IntentsGuildBans,
	} {
		if intents&want == 0 {
			t.Fatalf("intent %d missing from %d", want, intents)
		}
	}
}
