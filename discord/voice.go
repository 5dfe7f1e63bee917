package discord

// VoiceState represents a user's voice connection status.
type VoiceState struct {
	GuildID                 Optional[GuildID]     `json:"guild_id,omitempty"`
	ChannelID               Optional[ChannelID]   `json:"channel_id,omitempty"`
	UserID                  UserID                `json:"user_id"`
	Member                  Optional[GuildMember] `json:"member,omitempty"`
	SessionID               string                `json:"session_id"`
	Deaf                    bool                  `json:"deaf"`
	Mute                    bool                  `json:"mute"`
	SelfDeaf                bool                  `json:"self_deaf"`
	SelfMute                bool                  `json:"self_mute"`
	SelfStream              Optional[bool]        `json:"self_stream,omitempty"`
	SelfVideo               bool                  `json:"self_video"`
	Suppress                bool                  `json:"suppress"`
	RequestToSpeakTimestamp Optional[Timestamp]   `json:"request_to_speak_timestamp,omitempty"`
}
