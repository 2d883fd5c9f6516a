package moderation

import (
	"testing"

	"github.com/Ozy-Viking/honeybot/internal/domain/enums"
	"github.com/Ozy-Viking/honeybot/internal/domain/model"
	"github.com/Ozy-Viking/honeybot/internal/services/policy"
)

const (
	botID     model.ID = 1
	memberID  model.ID = 2
	ownerID   model.ID = 3
	guildID   model.ID = 50
	honeypot  model.ID = 100
	otherChan model.ID = 200
)

func newPolicy(t *testing.T, exempt ...model.ID) *policy.Store {
	t.Helper()
	store, err := policy.NewStore(botID, []model.ID{honeypot}, exempt)
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	return store
}

func guildMessage(author, channel model.ID) model.InboundMessage {
	gid := guildID
	return model.InboundMessage{
		AuthorID:   author,
		AuthorName: "someone",
		ChannelID:  channel,
		GuildID:    &gid,
		Content:    "hello",
	}
}

func TestDecide(t *testing.T) {
	guild := &model.GuildContext{ID: guildID, Name: "G", OwnerID: ownerID}

	tests := []struct {
		name   string
		msg    model.InboundMessage
		guild  *model.GuildContext
		exempt []model.ID
		want   enums.Decision
	}{
		{
			name:  "member in honeypot is enforced",
			msg:   guildMessage(memberID, honeypot),
			guild: guild,
			want:  enums.DecisionEnforce,
		},
		{
			name:  "owner in honeypot is exempt",
			msg:   guildMessage(ownerID, honeypot),
			guild: guild,
			want:  enums.DecisionOwnerExempt,
		},
		{
			name:   "owner wins over allow-list",
			msg:    guildMessage(ownerID, honeypot),
			guild:  guild,
			exempt: []model.ID{ownerID},
			want:   enums.DecisionOwnerExempt,
		},
		{
			name:  "member outside honeypot is not monitored",
			msg:   guildMessage(memberID, otherChan),
			guild: guild,
			want:  enums.DecisionNotMonitored,
		},
		{
			name:   "exempt member outside honeypot is not monitored",
			msg:    guildMessage(memberID, otherChan),
			guild:  guild,
			exempt: []model.ID{memberID},
			want:   enums.DecisionNotMonitored,
		},
		{
			name:   "exempt member in honeypot",
			msg:    guildMessage(memberID, honeypot),
			guild:  guild,
			exempt: []model.ID{memberID},
			want:   enums.DecisionUserExempt,
		},
		{
			name: "direct message",
			msg:  model.InboundMessage{AuthorID: memberID, ChannelID: honeypot},
			want: enums.DecisionNoGuildContext,
		},
		{
			name:  "guild id without resolved context never enforces",
			msg:   guildMessage(memberID, honeypot),
			guild: nil,
			want:  enums.DecisionNoGuildContext,
		},
		{
			name:  "bot in honeypot",
			msg:   guildMessage(botID, honeypot),
			guild: guild,
			want:  enums.DecisionSelfAuthored,
		},
		{
			name: "bot in direct message",
			msg:  model.InboundMessage{AuthorID: botID, ChannelID: otherChan},
			want: enums.DecisionSelfAuthored,
		},
		{
			name:  "bot owning the guild is still self authored",
			msg:   guildMessage(botID, honeypot),
			guild: &model.GuildContext{ID: guildID, Name: "G", OwnerID: botID},
			want:  enums.DecisionSelfAuthored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newPolicy(t, tt.exempt...)
			got := Decide(tt.msg, tt.guild, store)
			if got != tt.want {
				t.Fatalf("unexpected decision: got %s want %s", got, tt.want)
			}
		})
	}
}

func TestDecideIsRepeatable(t *testing.T) {
	store := newPolicy(t)
	msg := guildMessage(memberID, honeypot)
	guild := &model.GuildContext{ID: guildID, Name: "G", OwnerID: ownerID}

	first := Decide(msg, guild, store)
	second := Decide(msg, guild, store)
	if first != second {
		t.Fatalf("decide must be deterministic: %s vs %s", first, second)
	}
}

func TestDecideEnforcesOnlyOnFullMatch(t *testing.T) {
	authors := []model.ID{botID, memberID, ownerID, 4}
	channels := []model.ID{honeypot, otherChan}
	guild := &model.GuildContext{ID: guildID, Name: "G", OwnerID: ownerID}
	store := newPolicy(t, 4)

	for _, author := range authors {
		for _, channel := range channels {
			got := Decide(guildMessage(author, channel), guild, store)
			want := author == memberID && channel == honeypot
			if (got == enums.DecisionEnforce) != want {
				t.Fatalf("author=%d channel=%d: unexpected decision %s", author, channel, got)
			}
		}
	}
}

func TestDecideWithEmptyPolicyNeverEnforces(t *testing.T) {
	store, err := policy.NewStore(botID, nil, nil)
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	guild := &model.GuildContext{ID: guildID, Name: "G", OwnerID: ownerID}

	if got := Decide(guildMessage(memberID, honeypot), guild, store); got != enums.DecisionNotMonitored {
		t.Fatalf("expected not monitored with empty channel set, got %s", got)
	}
}
