package discord

// Role represents a role on Discord.
type Role struct {
	ID           RoleID             `json:"id"`
	Name         string             `json:"name"`
	Color        int32              `json:"color"`
	Hoist        bool               `json:"hoist"`
	Icon         Optional[string]   `json:"icon,omitempty"`
	UnicodeEmoji Optional[string]   `json:"unicode_emoji,omitempty"`
	Position     int32              `json:"position"`
	Permissions  Permissions        `json:"permissions"`
	Managed      bool               `json:"managed"`
	Mentionable  bool               `json:"mentionable"`
	Tags         Optional[RoleTags] `json:"tags,omitempty"`
	Flags        Optional[int32]    `json:"flags,omitempty"`
}

// RoleTags describes what a managed role belongs to. Boolean tags are sent as
// a null value when set and left out otherwise.
type RoleTags struct {
	BotID                 Optional[UserID]    `json:"bot_id,omitempty"`
	IntegrationID         Optional[Snowflake] `json:"integration_id,omitempty"`
	PremiumSubscriber     Optional[struct{}]  `json:"premium_subscriber,omitempty"`
	SubscriptionListingID Optional[Snowflake] `json:"subscription_listing_id,omitempty"`
	AvailableForPurchase  Optional[struct{}]  `json:"available_for_purchase,omitempty"`
	GuildConnections      Optional[struct{}]  `json:"guild_connections,omitempty"`
}

func (t RoleTags) IsPremiumSubscriber() bool {
	return !t.PremiumSubscriber.IsMissing()
}
