package discord

// PremiumType is the type of Nitro subscription on a user's account.
type PremiumType uint8

const (
	PremiumTypeNone PremiumType = iota
	PremiumTypeNitroClassic
	PremiumTypeNitro
	PremiumTypeNitroBasic
)

// User represents a user on Discord.
type User struct {
	ID            UserID                `json:"id"`
	Username      string                `json:"username"`
	Discriminator string                `json:"discriminator"`
	GlobalName    Optional[string]      `json:"global_name,omitempty"`
	Avatar        Optional[string]      `json:"avatar,omitempty"`
	Bot           Optional[bool]        `json:"bot,omitempty"`
	System        Optional[bool]        `json:"system,omitempty"`
	MFAEnabled    Optional[bool]        `json:"mfa_enabled,omitempty"`
	Banner        Optional[string]      `json:"banner,omitempty"`
	AccentColor   Optional[int32]       `json:"accent_color,omitempty"`
	Locale        Optional[string]      `json:"locale,omitempty"`
	Verified      Optional[bool]        `json:"verified,omitempty"`
	Email         Optional[string]      `json:"email,omitempty"`
	Flags         Optional[UserFlags]   `json:"flags,omitempty"`
	PremiumType   Optional[PremiumType] `json:"premium_type,omitempty"`
	PublicFlags   Optional[UserFlags]   `json:"public_flags,omitempty"`
}

func (u User) IsBot() bool {
	return u.Bot.OrElse(false)
}

// DisplayName returns the global name when set, otherwise the username.
func (u User) DisplayName() string {
	if name, ok := u.GlobalName.Get(); ok && name != "" {
		return name
	}

	return u.Username
}
