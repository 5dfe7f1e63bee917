package discord

// VerificationLevel is the verification required to send messages in a guild.
type VerificationLevel uint8

const (
	VerificationLevelNone VerificationLevel = iota
	VerificationLevelLow
	VerificationLevelMedium
	VerificationLevelHigh
	VerificationLevelVeryHigh
)

// PremiumTier is the boost level of a guild.
type PremiumTier uint8

const (
	PremiumTierNone PremiumTier = iota
	PremiumTier1
	PremiumTier2
	PremiumTier3
)

// Guild represents a guild on Discord. Guild create payloads carry the member,
// channel and voice state lists, updates do not, and an unavailable guild only
// carries its id.
type Guild struct {
	ID                          GuildID                     `json:"id"`
	Name                        Optional[string]            `json:"name,omitempty"`
	Icon                        Optional[string]            `json:"icon,omitempty"`
	Splash                      Optional[string]            `json:"splash,omitempty"`
	DiscoverySplash             Optional[string]            `json:"discovery_splash,omitempty"`
	OwnerID                     Optional[UserID]            `json:"owner_id,omitempty"`
	Permissions                 Optional[Permissions]       `json:"permissions,omitempty"`
	AFKChannelID                Optional[ChannelID]         `json:"afk_channel_id,omitempty"`
	AFKTimeout                  Optional[int32]             `json:"afk_timeout,omitempty"`
	WidgetEnabled               Optional[bool]              `json:"widget_enabled,omitempty"`
	WidgetChannelID             Optional[ChannelID]         `json:"widget_channel_id,omitempty"`
	VerificationLevel           Optional[VerificationLevel] `json:"verification_level,omitempty"`
	DefaultMessageNotifications Optional[int32]             `json:"default_message_notifications,omitempty"`
	ExplicitContentFilter       Optional[int32]             `json:"explicit_content_filter,omitempty"`
	Roles                       Optional[List[Role]]        `json:"roles,omitempty"`
	Emojis                      Optional[List[Emoji]]       `json:"emojis,omitempty"`
	Features                    Optional[List[string]]      `json:"features,omitempty"`
	MFALevel                    Optional[int32]             `json:"mfa_level,omitempty"`
	ApplicationID               Optional[ApplicationID]     `json:"application_id,omitempty"`
	SystemChannelID             Optional[ChannelID]         `json:"system_channel_id,omitempty"`
	SystemChannelFlags          Optional[int32]             `json:"system_channel_flags,omitempty"`
	RulesChannelID              Optional[ChannelID]         `json:"rules_channel_id,omitempty"`
	MaxPresences                Optional[int32]             `json:"max_presences,omitempty"`
	MaxMembers                  Optional[int32]             `json:"max_members,omitempty"`
	VanityURLCode               Optional[string]            `json:"vanity_url_code,omitempty"`
	Description                 Optional[string]            `json:"description,omitempty"`
	Banner                      Optional[string]            `json:"banner,omitempty"`
	PremiumTier                 Optional[PremiumTier]       `json:"premium_tier,omitempty"`
	PremiumSubscriptionCount    Optional[int32]             `json:"premium_subscription_count,omitempty"`
	PreferredLocale             Optional[string]            `json:"preferred_locale,omitempty"`
	PublicUpdatesChannelID      Optional[ChannelID]         `json:"public_updates_channel_id,omitempty"`
	NSFWLevel                   Optional[int32]             `json:"nsfw_level,omitempty"`
	PremiumProgressBarEnabled   Optional[bool]              `json:"premium_progress_bar_enabled,omitempty"`

	JoinedAt    Optional[Timestamp]         `json:"joined_at,omitempty"`
	Large       Optional[bool]              `json:"large,omitempty"`
	Unavailable Optional[bool]              `json:"unavailable,omitempty"`
	MemberCount Optional[int32]             `json:"member_count,omitempty"`
	VoiceStates Optional[List[VoiceState]]  `json:"voice_states,omitempty"`
	Members     Optional[List[GuildMember]] `json:"members,omitempty"`
	Channels    Optional[List[Channel]]     `json:"channels,omitempty"`
	Threads     Optional[List[Channel]]     `json:"threads,omitempty"`
}

// UnavailableGuild is a guild that is not yet or no longer available to the client.
type UnavailableGuild struct {
	ID          GuildID        `json:"id"`
	Unavailable Optional[bool] `json:"unavailable,omitempty"`
}
