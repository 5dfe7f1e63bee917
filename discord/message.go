package discord

// MessageType represents the type of a message.
type MessageType uint8

const (
	MessageTypeDefault MessageType = iota
	MessageTypeRecipientAdd
	MessageTypeRecipientRemove
	MessageTypeCall
	MessageTypeChannelNameChange
	MessageTypeChannelIconChange
	MessageTypeChannelPinnedMessage
	MessageTypeGuildMemberJoin
	MessageTypeUserPremiumGuildSubscription
	MessageTypeUserPremiumGuildSubscriptionTier1
	MessageTypeUserPremiumGuildSubscriptionTier2
	MessageTypeUserPremiumGuildSubscriptionTier3
	MessageTypeChannelFollowAdd
	_
	MessageTypeGuildDiscoveryDisqualified
	MessageTypeGuildDiscoveryRequalified
	MessageTypeGuildDiscoveryGracePeriodInitialWarning
	MessageTypeGuildDiscoveryGracePeriodFinalWarning
	MessageTypeThreadCreated
	MessageTypeReply
	MessageTypeChatInputCommand
	MessageTypeThreadStarterMessage
	MessageTypeGuildInviteReminder
	MessageTypeContextMenuCommand
	MessageTypeAutoModerationAction
)

// Message represents a message sent in a channel.
type Message struct {
	ID              MessageID                  `json:"id"`
	ChannelID       ChannelID                  `json:"channel_id"`
	Author          User                       `json:"author"`
	Content         string                     `json:"content"`
	Timestamp       Timestamp                  `json:"timestamp"`
	Type            MessageType                `json:"type"`
	GuildID         Optional[GuildID]          `json:"guild_id,omitempty"`
	Member          Optional[GuildMember]      `json:"member,omitempty"`
	EditedTimestamp Optional[Timestamp]        `json:"edited_timestamp,omitempty"`
	TTS             Optional[bool]             `json:"tts,omitempty"`
	MentionEveryone Optional[bool]             `json:"mention_everyone,omitempty"`
	Mentions        List[User]                 `json:"mentions"`
	MentionRoles    List[RoleID]               `json:"mention_roles"`
	Attachments     List[Attachment]           `json:"attachments"`
	Embeds          List[Embed]                `json:"embeds"`
	Reactions       Optional[List[Reaction]]   `json:"reactions,omitempty"`
	Pinned          Optional[bool]             `json:"pinned,omitempty"`
	WebhookID       Optional[WebhookID]        `json:"webhook_id,omitempty"`
	ApplicationID   Optional[ApplicationID]    `json:"application_id,omitempty"`
	Flags           Optional[MessageFlags]     `json:"flags,omitempty"`
	Reference       Optional[MessageReference] `json:"message_reference,omitempty"`
	Components      Optional[ComponentList]    `json:"components,omitempty"`
}

// MessageReference points at the message being replied to or crossposted.
type MessageReference struct {
	MessageID       Optional[MessageID] `json:"message_id,omitempty"`
	ChannelID       Optional[ChannelID] `json:"channel_id,omitempty"`
	GuildID         Optional[GuildID]   `json:"guild_id,omitempty"`
	FailIfNotExists Optional[bool]      `json:"fail_if_not_exists,omitempty"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	ID          AttachmentID     `json:"id"`
	Filename    string           `json:"filename"`
	Description Optional[string] `json:"description,omitempty"`
	ContentType Optional[string] `json:"content_type,omitempty"`
	Size        int32            `json:"size"`
	URL         string           `json:"url"`
	ProxyURL    string           `json:"proxy_url"`
	Height      Optional[int32]  `json:"height,omitempty"`
	Width       Optional[int32]  `json:"width,omitempty"`
	Ephemeral   Optional[bool]   `json:"ephemeral,omitempty"`
}

// MessageUpdate is a partial message. Only the id and channel are guaranteed,
// any other field that is missing was not changed.
type MessageUpdate struct {
	ID              MessageID                  `json:"id"`
	ChannelID       ChannelID                  `json:"channel_id"`
	GuildID         Optional[GuildID]          `json:"guild_id,omitempty"`
	Author          Optional[User]             `json:"author,omitempty"`
	Member          Optional[GuildMember]      `json:"member,omitempty"`
	Content         Optional[string]           `json:"content,omitempty"`
	Timestamp       Optional[Timestamp]        `json:"timestamp,omitempty"`
	EditedTimestamp Optional[Timestamp]        `json:"edited_timestamp,omitempty"`
	Type            Optional[MessageType]      `json:"type,omitempty"`
	TTS             Optional[bool]             `json:"tts,omitempty"`
	MentionEveryone Optional[bool]             `json:"mention_everyone,omitempty"`
	Mentions        Optional[List[User]]       `json:"mentions,omitempty"`
	MentionRoles    Optional[List[RoleID]]     `json:"mention_roles,omitempty"`
	Attachments     Optional[List[Attachment]] `json:"attachments,omitempty"`
	Embeds          Optional[List[Embed]]      `json:"embeds,omitempty"`
	Pinned          Optional[bool]             `json:"pinned,omitempty"`
	Flags           Optional[MessageFlags]     `json:"flags,omitempty"`
	Components      Optional[ComponentList]    `json:"components,omitempty"`
}
