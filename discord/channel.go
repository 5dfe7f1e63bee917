package discord

// ChannelType represents the type of a channel.
type ChannelType uint8

const (
	ChannelTypeGuildText          ChannelType = 0
	ChannelTypeDM                 ChannelType = 1
	ChannelTypeGuildVoice         ChannelType = 2
	ChannelTypeGroupDM            ChannelType = 3
	ChannelTypeGuildCategory      ChannelType = 4
	ChannelTypeGuildAnnouncement  ChannelType = 5
	ChannelTypeAnnouncementThread ChannelType = 10
	ChannelTypePublicThread       ChannelType = 11
	ChannelTypePrivateThread      ChannelType = 12
	ChannelTypeGuildStageVoice    ChannelType = 13
	ChannelTypeGuildDirectory     ChannelType = 14
	ChannelTypeGuildForum         ChannelType = 15
	ChannelTypeGuildMedia         ChannelType = 16
)

// IsThread reports whether channels of this type are threads.
func (t ChannelType) IsThread() bool {
	return t == ChannelTypeAnnouncementThread || t == ChannelTypePublicThread || t == ChannelTypePrivateThread
}

// PermissionOverwriteType is the target of a permission overwrite.
type PermissionOverwriteType uint8

const (
	PermissionOverwriteTypeRole PermissionOverwriteType = iota
	PermissionOverwriteTypeMember
)

// PermissionOverwrite allows or denies permissions for a role or member in a channel.
type PermissionOverwrite struct {
	ID    Snowflake               `json:"id"`
	Type  PermissionOverwriteType `json:"type"`
	Allow Permissions             `json:"allow"`
	Deny  Permissions             `json:"deny"`
}

// ThreadMetadata holds thread-only fields of a channel.
type ThreadMetadata struct {
	Archived            bool                `json:"archived"`
	AutoArchiveDuration int32               `json:"auto_archive_duration"`
	ArchiveTimestamp    Timestamp           `json:"archive_timestamp"`
	Locked              bool                `json:"locked"`
	Invitable           Optional[bool]      `json:"invitable,omitempty"`
	CreateTimestamp     Optional[Timestamp] `json:"create_timestamp,omitempty"`
}

// Channel represents a guild or DM channel. Only the id and type are
// guaranteed, everything else depends on the channel type.
type Channel struct {
	ID                         ChannelID                           `json:"id"`
	Type                       ChannelType                         `json:"type"`
	GuildID                    Optional[GuildID]                   `json:"guild_id,omitempty"`
	Position                   Optional[int32]                     `json:"position,omitempty"`
	PermissionOverwrites       Optional[List[PermissionOverwrite]] `json:"permission_overwrites,omitempty"`
	Name                       Optional[string]                    `json:"name,omitempty"`
	Topic                      Optional[string]                    `json:"topic,omitempty"`
	NSFW                       Optional[bool]                      `json:"nsfw,omitempty"`
	LastMessageID              Optional[MessageID]                 `json:"last_message_id,omitempty"`
	Bitrate                    Optional[int32]                     `json:"bitrate,omitempty"`
	UserLimit                  Optional[int32]                     `json:"user_limit,omitempty"`
	RateLimitPerUser           Optional[int32]                     `json:"rate_limit_per_user,omitempty"`
	Recipients                 Optional[List[User]]                `json:"recipients,omitempty"`
	Icon                       Optional[string]                    `json:"icon,omitempty"`
	OwnerID                    Optional[UserID]                    `json:"owner_id,omitempty"`
	ApplicationID              Optional[ApplicationID]             `json:"application_id,omitempty"`
	ParentID                   Optional[ChannelID]                 `json:"parent_id,omitempty"`
	LastPinTimestamp           Optional[Timestamp]                 `json:"last_pin_timestamp,omitempty"`
	RTCRegion                  Optional[string]                    `json:"rtc_region,omitempty"`
	MessageCount               Optional[int32]                     `json:"message_count,omitempty"`
	MemberCount                Optional[int32]                     `json:"member_count,omitempty"`
	ThreadMetadata             Optional[ThreadMetadata]            `json:"thread_metadata,omitempty"`
	DefaultAutoArchiveDuration Optional[int32]                     `json:"default_auto_archive_duration,omitempty"`
	Permissions                Optional[Permissions]               `json:"permissions,omitempty"`
	Flags                      Optional[int32]                     `json:"flags,omitempty"`
	AvailableTags              Optional[List[ForumTag]]            `json:"available_tags,omitempty"`
	AppliedTags                Optional[List[Snowflake]]           `json:"applied_tags,omitempty"`
	DefaultReactionEmoji       Optional[DefaultReactionEmoji]      `json:"default_reaction_emoji,omitempty"`
}

// ForumTag is a tag that can be applied to threads in a forum channel.
type ForumTag struct {
	ID        Snowflake         `json:"id"`
	Name      string            `json:"name"`
	Moderated bool              `json:"moderated"`
	EmojiID   Optional[EmojiID] `json:"emoji_id,omitempty"`
	EmojiName Optional[string]  `json:"emoji_name,omitempty"`
}

// DefaultReactionEmoji is the emoji shown on the add reaction button of forum posts.
type DefaultReactionEmoji struct {
	EmojiID   Optional[EmojiID] `json:"emoji_id,omitempty"`
	EmojiName Optional[string]  `json:"emoji_name,omitempty"`
}
