package discord

// GuildMember represents a user's membership of a guild. The user is left out
// of members nested in message payloads.
type GuildMember struct {
	User                       Optional[User]        `json:"user,omitempty"`
	Nick                       Optional[string]      `json:"nick,omitempty"`
	Avatar                     Optional[string]      `json:"avatar,omitempty"`
	Roles                      List[RoleID]          `json:"roles"`
	JoinedAt                   Optional[Timestamp]   `json:"joined_at,omitempty"`
	PremiumSince               Optional[Timestamp]   `json:"premium_since,omitempty"`
	Deaf                       Optional[bool]        `json:"deaf,omitempty"`
	Mute                       Optional[bool]        `json:"mute,omitempty"`
	Flags                      Optional[int32]       `json:"flags,omitempty"`
	Pending                    Optional[bool]        `json:"pending,omitempty"`
	Permissions                Optional[Permissions] `json:"permissions,omitempty"`
	CommunicationDisabledUntil Optional[Timestamp]   `json:"communication_disabled_until,omitempty"`
}

// HasRole reports whether the member has been assigned roleID.
func (m GuildMember) HasRole(roleID RoleID) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}

	return false
}
