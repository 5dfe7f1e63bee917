package discord

// Emoji represents a custom or unicode emoji. Unicode emojis have a null id.
type Emoji struct {
	ID            Optional[EmojiID]      `json:"id,omitempty"`
	Name          Optional[string]       `json:"name,omitempty"`
	Roles         Optional[List[RoleID]] `json:"roles,omitempty"`
	User          Optional[User]         `json:"user,omitempty"`
	RequireColons Optional[bool]         `json:"require_colons,omitempty"`
	Managed       Optional[bool]         `json:"managed,omitempty"`
	Animated      Optional[bool]         `json:"animated,omitempty"`
	Available     Optional[bool]         `json:"available,omitempty"`
}

// Reaction is the aggregate of one emoji's reactions on a message.
type Reaction struct {
	Count int32 `json:"count"`
	Me    bool  `json:"me"`
	Emoji Emoji `json:"emoji"`
}
