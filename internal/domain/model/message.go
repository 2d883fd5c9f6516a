package model

type InboundMessage struct {
	AuthorID   ID
	AuthorName string
	ChannelID  ID
	GuildID    *ID
	Content    string
}

func (m InboundMessage) HasGuild() bool {
	return m.GuildID != nil
}

type GuildContext struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	OwnerID ID     `json:"owner_id"`
}

type User struct {
	ID          ID
	DisplayName string
}

type Channel struct {
	ID   ID
	Name string
}
