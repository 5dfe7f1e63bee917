package discord

import (
	"bytes"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// Event is any decoded gateway payload. Implementations are pointers to the
// types in this file; Unknown holds dispatches this package does not model.
type Event interface {
	EventType() string
}

// Hello is sent on connect and gives the heartbeat interval in milliseconds.
type Hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

func (h *Hello) validate() error {
	if h.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHeartbeat, h.HeartbeatInterval)
	}

	return nil
}

// HeartbeatRequest is the gateway asking for an immediate heartbeat.
type HeartbeatRequest struct{}

// HeartbeatAck acknowledges the last heartbeat.
type HeartbeatAck struct{}

// Reconnect asks the client to reconnect and resume.
type Reconnect struct{}

// InvalidSession reports that the session cannot continue. Resumable is the
// payload itself, a bare boolean.
type InvalidSession struct {
	Resumable bool
}

func (i InvalidSession) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, i.Resumable), nil
}

func (i *InvalidSession) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case isNullToken(b):
		i.Resumable = false
	case bytes.Equal(b, []byte("true")):
		i.Resumable = true
	case bytes.Equal(b, []byte("false")):
		i.Resumable = false
	default:
		return fmt.Errorf("invalid session payload is not a boolean: %s", b)
	}

	return nil
}

// Ready represents when the client has completed the initial handshake.
type Ready struct {
	Version          Optional[int32]                  `json:"v,omitempty"`
	User             Optional[User]                   `json:"user,omitempty"`
	Guilds           Optional[List[UnavailableGuild]] `json:"guilds,omitempty"`
	SessionID        string                           `json:"session_id"`
	ResumeGatewayURL Optional[string]                 `json:"resume_gateway_url,omitempty"`
	Shard            Optional[[2]int32]               `json:"shard,omitempty"`
	Application      Optional[Application]            `json:"application,omitempty"`
}

// Resumed represents the response to a resume event.
type Resumed struct{}

// ApplicationCommandCreate represents the application command create event.
type ApplicationCommandCreate ApplicationCommand

// ApplicationCommandUpdate represents the application command update event.
type ApplicationCommandUpdate ApplicationCommand

// ApplicationCommandDelete represents the application command delete event.
type ApplicationCommandDelete ApplicationCommand

// ChannelCreate represents a channel create event.
type ChannelCreate Channel

// ChannelUpdate represents a channel update event.
type ChannelUpdate Channel

// ChannelDelete represents a channel delete event.
type ChannelDelete Channel

// ThreadCreate represents a thread create event.
type ThreadCreate Channel

// ThreadUpdate represents a thread update event.
type ThreadUpdate Channel

// ThreadDelete represents a thread delete event.
type ThreadDelete Channel

// GuildCreate represents a guild create event.
type GuildCreate Guild

// GuildUpdate represents a guild update event.
type GuildUpdate Guild

// GuildDelete represents a guild delete event. Unavailable is set when the
// guild went through an outage rather than the client being removed.
type GuildDelete UnavailableGuild

// GuildMemberAdd represents a guild member add event.
type GuildMemberAdd struct {
	GuildID GuildID `json:"guild_id"`
	GuildMember
}

// GuildMemberUpdate represents a guild member update event.
type GuildMemberUpdate struct {
	GuildID                    GuildID             `json:"guild_id"`
	Roles                      List[RoleID]        `json:"roles"`
	User                       User                `json:"user"`
	Nick                       Optional[string]    `json:"nick,omitempty"`
	Avatar                     Optional[string]    `json:"avatar,omitempty"`
	JoinedAt                   Optional[Timestamp] `json:"joined_at,omitempty"`
	PremiumSince               Optional[Timestamp] `json:"premium_since,omitempty"`
	Deaf                       Optional[bool]      `json:"deaf,omitempty"`
	Mute                       Optional[bool]      `json:"mute,omitempty"`
	Pending                    Optional[bool]      `json:"pending,omitempty"`
	Flags                      Optional[int32]     `json:"flags,omitempty"`
	CommunicationDisabledUntil Optional[Timestamp] `json:"communication_disabled_until,omitempty"`
}

// GuildMemberRemove represents a guild member remove event.
type GuildMemberRemove struct {
	GuildID GuildID `json:"guild_id"`
	User    User    `json:"user"`
}

// GuildMembersChunk represents a guild members chunk event.
type GuildMembersChunk struct {
	GuildID    GuildID                `json:"guild_id"`
	Members    List[GuildMember]      `json:"members"`
	ChunkIndex int32                  `json:"chunk_index"`
	ChunkCount int32                  `json:"chunk_count"`
	NotFound   Optional[List[UserID]] `json:"not_found,omitempty"`
	Nonce      Optional[string]       `json:"nonce,omitempty"`
}

// GuildRoleCreate represents a guild role create event.
type GuildRoleCreate struct {
	GuildID GuildID `json:"guild_id"`
	Role    Role    `json:"role"`
}

// GuildRoleUpdate represents a guild role update event.
type GuildRoleUpdate struct {
	GuildID GuildID `json:"guild_id"`
	Role    Role    `json:"role"`
}

// GuildRoleDelete represents a guild role delete event.
type GuildRoleDelete struct {
	GuildID GuildID `json:"guild_id"`
	RoleID  RoleID  `json:"role_id"`
}

// InteractionCreate represents the interaction create event.
type InteractionCreate struct {
	Interaction
}

// MessageCreate represents a message create event.
type MessageCreate Message

// MessageDelete represents a message delete event.
type MessageDelete struct {
	ID        MessageID         `json:"id"`
	ChannelID ChannelID         `json:"channel_id"`
	GuildID   Optional[GuildID] `json:"guild_id,omitempty"`
}

// MessageDeleteBulk represents a message delete bulk event.
type MessageDeleteBulk struct {
	IDs       List[MessageID]   `json:"ids"`
	ChannelID ChannelID         `json:"channel_id"`
	GuildID   Optional[GuildID] `json:"guild_id,omitempty"`
}

// MessageReactionAdd represents a message reaction add event.
type MessageReactionAdd struct {
	UserID          UserID                `json:"user_id"`
	ChannelID       ChannelID             `json:"channel_id"`
	MessageID       MessageID             `json:"message_id"`
	GuildID         Optional[GuildID]     `json:"guild_id,omitempty"`
	Member          Optional[GuildMember] `json:"member,omitempty"`
	Emoji           Emoji                 `json:"emoji"`
	MessageAuthorID Optional[UserID]      `json:"message_author_id,omitempty"`
	Burst           Optional[bool]        `json:"burst,omitempty"`
}

// MessageReactionRemove represents a message reaction remove event.
type MessageReactionRemove struct {
	UserID    UserID            `json:"user_id"`
	ChannelID ChannelID         `json:"channel_id"`
	MessageID MessageID         `json:"message_id"`
	GuildID   Optional[GuildID] `json:"guild_id,omitempty"`
	Emoji     Emoji             `json:"emoji"`
	Burst     Optional[bool]    `json:"burst,omitempty"`
}

// MessageReactionRemoveAll represents a message reaction remove all event.
type MessageReactionRemoveAll struct {
	ChannelID ChannelID         `json:"channel_id"`
	MessageID MessageID         `json:"message_id"`
	GuildID   Optional[GuildID] `json:"guild_id,omitempty"`
}

// MessageReactionRemoveEmoji represents a message reaction remove emoji event.
type MessageReactionRemoveEmoji struct {
	ChannelID ChannelID         `json:"channel_id"`
	GuildID   Optional[GuildID] `json:"guild_id,omitempty"`
	MessageID MessageID         `json:"message_id"`
	Emoji     Emoji             `json:"emoji"`
}

// TypingStart represents a typing start event.
type TypingStart struct {
	ChannelID ChannelID             `json:"channel_id"`
	GuildID   Optional[GuildID]     `json:"guild_id,omitempty"`
	UserID    UserID                `json:"user_id"`
	Timestamp int64                 `json:"timestamp"`
	Member    Optional[GuildMember] `json:"member,omitempty"`
}

// UserUpdate represents a user update event.
type UserUpdate User

// VoiceStateUpdate represents the voice state update event.
type VoiceStateUpdate VoiceState

// VoiceServerUpdate represents a voice server update event. A null endpoint
// means the voice server is being reallocated.
type VoiceServerUpdate struct {
	Token    string           `json:"token"`
	GuildID  GuildID          `json:"guild_id"`
	Endpoint Optional[string] `json:"endpoint,omitempty"`
}

// Unknown is a dispatch whose type is not modelled. Data is the raw payload.
type Unknown struct {
	Name string
	Data jsoniter.RawMessage
}

func (u *Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Data) == 0 {
		return nullLiteral, nil
	}

	return u.Data, nil
}

// EventGuildID returns the guild an event belongs to, for routing events by
// guild. It reports false for events outside of a guild and for events that do
// not carry a guild id.
func EventGuildID(event Event) (GuildID, bool) {
	switch e := event.(type) {
	case *GuildCreate:
		return e.ID, true
	case *GuildUpdate:
		return e.ID, true
	case *GuildDelete:
		return e.ID, true
	case *GuildMemberAdd:
		return e.GuildID, true
	case *GuildMemberUpdate:
		return e.GuildID, true
	case *GuildMemberRemove:
		return e.GuildID, true
	case *GuildMembersChunk:
		return e.GuildID, true
	case *GuildRoleCreate:
		return e.GuildID, true
	case *GuildRoleUpdate:
		return e.GuildID, true
	case *GuildRoleDelete:
		return e.GuildID, true
	case *VoiceServerUpdate:
		return e.GuildID, true
	case *ChannelCreate:
		return e.GuildID.Get()
	case *ChannelUpdate:
		return e.GuildID.Get()
	case *ChannelDelete:
		return e.GuildID.Get()
	case *ThreadCreate:
		return e.GuildID.Get()
	case *ThreadUpdate:
		return e.GuildID.Get()
	case *ThreadDelete:
		return e.GuildID.Get()
	case *ApplicationCommandCreate:
		return e.GuildID.Get()
	case *ApplicationCommandUpdate:
		return e.GuildID.Get()
	case *ApplicationCommandDelete:
		return e.GuildID.Get()
	case *InteractionCreate:
		return e.GuildID.Get()
	case *MessageCreate:
		return e.GuildID.Get()
	case *MessageUpdate:
		return e.GuildID.Get()
	case *MessageDelete:
		return e.GuildID.Get()
	case *MessageDeleteBulk:
		return e.GuildID.Get()
	case *MessageReactionAdd:
		return e.GuildID.Get()
	case *MessageReactionRemove:
		return e.GuildID.Get()
	case *MessageReactionRemoveAll:
		return e.GuildID.Get()
	case *MessageReactionRemoveEmoji:
		return e.GuildID.Get()
	case *TypingStart:
		return e.GuildID.Get()
	case *VoiceStateUpdate:
		return e.GuildID.Get()
	default:
		return 0, false
	}
}

func (*Hello) EventType() string                      { return "HELLO" }
func (*HeartbeatRequest) EventType() string           { return "HEARTBEAT" }
func (*HeartbeatAck) EventType() string               { return "HEARTBEAT_ACK" }
func (*Reconnect) EventType() string                  { return "RECONNECT" }
func (*InvalidSession) EventType() string             { return "INVALID_SESSION" }
func (*Ready) EventType() string                      { return "READY" }
func (*Resumed) EventType() string                    { return "RESUMED" }
func (*ApplicationCommandCreate) EventType() string   { return "APPLICATION_COMMAND_CREATE" }
func (*ApplicationCommandUpdate) EventType() string   { return "APPLICATION_COMMAND_UPDATE" }
func (*ApplicationCommandDelete) EventType() string   { return "APPLICATION_COMMAND_DELETE" }
func (*ChannelCreate) EventType() string              { return "CHANNEL_CREATE" }
func (*ChannelUpdate) EventType() string              { return "CHANNEL_UPDATE" }
func (*ChannelDelete) EventType() string              { return "CHANNEL_DELETE" }
func (*ThreadCreate) EventType() string               { return "THREAD_CREATE" }
func (*ThreadUpdate) EventType() string               { return "THREAD_UPDATE" }
func (*ThreadDelete) EventType() string               { return "THREAD_DELETE" }
func (*GuildCreate) EventType() string                { return "GUILD_CREATE" }
func (*GuildUpdate) EventType() string                { return "GUILD_UPDATE" }
func (*GuildDelete) EventType() string                { return "GUILD_DELETE" }
func (*GuildMemberAdd) EventType() string             { return "GUILD_MEMBER_ADD" }
func (*GuildMemberUpdate) EventType() string          { return "GUILD_MEMBER_UPDATE" }
func (*GuildMemberRemove) EventType() string          { return "GUILD_MEMBER_REMOVE" }
func (*GuildMembersChunk) EventType() string          { return "GUILD_MEMBERS_CHUNK" }
func (*GuildRoleCreate) EventType() string            { return "GUILD_ROLE_CREATE" }
func (*GuildRoleUpdate) EventType() string            { return "GUILD_ROLE_UPDATE" }
func (*GuildRoleDelete) EventType() string            { return "GUILD_ROLE_DELETE" }
func (*InteractionCreate) EventType() string          { return "INTERACTION_CREATE" }
func (*MessageCreate) EventType() string              { return "MESSAGE_CREATE" }
func (*MessageUpdate) EventType() string              { return "MESSAGE_UPDATE" }
func (*MessageDelete) EventType() string              { return "MESSAGE_DELETE" }
func (*MessageDeleteBulk) EventType() string          { return "MESSAGE_DELETE_BULK" }
func (*MessageReactionAdd) EventType() string         { return "MESSAGE_REACTION_ADD" }
func (*MessageReactionRemove) EventType() string      { return "MESSAGE_REACTION_REMOVE" }
func (*MessageReactionRemoveAll) EventType() string   { return "MESSAGE_REACTION_REMOVE_ALL" }
func (*MessageReactionRemoveEmoji) EventType() string { return "MESSAGE_REACTION_REMOVE_EMOJI" }
func (*TypingStart) EventType() string                { return "TYPING_START" }
func (*UserUpdate) EventType() string                 { return "USER_UPDATE" }
func (*VoiceStateUpdate) EventType() string           { return "VOICE_STATE_UPDATE" }
func (*VoiceServerUpdate) EventType() string          { return "VOICE_SERVER_UPDATE" }
func (u *Unknown) EventType() string                  { return u.Name }
