package discord

import (
	"fmt"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	jsoniter "github.com/json-iterator/go"
)

// Application is the partial application sent on ready.
type Application struct {
	ID    ApplicationID              `json:"id"`
	Flags Optional[ApplicationFlags] `json:"flags,omitempty"`
}

// ApplicationCommandType is the kind of application command.
type ApplicationCommandType uint8

const (
	ApplicationCommandTypeChatInput ApplicationCommandType = 1 + iota
	ApplicationCommandTypeUser
	ApplicationCommandTypeMessage
)

// ApplicationCommandOptionType is the value type of a command option.
type ApplicationCommandOptionType uint8

const (
	ApplicationCommandOptionTypeSubCommand ApplicationCommandOptionType = 1 + iota
	ApplicationCommandOptionTypeSubCommandGroup
	ApplicationCommandOptionTypeString
	ApplicationCommandOptionTypeInteger
	ApplicationCommandOptionTypeBoolean
	ApplicationCommandOptionTypeUser
	ApplicationCommandOptionTypeChannel
	ApplicationCommandOptionTypeRole
	ApplicationCommandOptionTypeMentionable
	ApplicationCommandOptionTypeNumber
	ApplicationCommandOptionTypeAttachment
)

// ApplicationCommand is a slash, user or message command.
type ApplicationCommand struct {
	ID                       ApplicationCommandID                     `json:"id"`
	Type                     Optional[ApplicationCommandType]         `json:"type,omitempty"`
	ApplicationID            ApplicationID                            `json:"application_id"`
	GuildID                  Optional[GuildID]                        `json:"guild_id,omitempty"`
	Name                     string                                   `json:"name"`
	Description              string                                   `json:"description"`
	Options                  Optional[List[ApplicationCommandOption]] `json:"options,omitempty"`
	DefaultMemberPermissions Optional[Permissions]                    `json:"default_member_permissions,omitempty"`
	DMPermission             Optional[bool]                           `json:"dm_permission,omitempty"`
	NSFW                     Optional[bool]                           `json:"nsfw,omitempty"`
	Version                  Snowflake                                `json:"version"`
}

// ApplicationCommandOption is a parameter of an application command.
type ApplicationCommandOption struct {
	Type         ApplicationCommandOptionType                   `json:"type"`
	Name         string                                         `json:"name"`
	Description  string                                         `json:"description"`
	Required     Optional[bool]                                 `json:"required,omitempty"`
	Choices      Optional[List[ApplicationCommandOptionChoice]] `json:"choices,omitempty"`
	Options      Optional[List[ApplicationCommandOption]]       `json:"options,omitempty"`
	ChannelTypes Optional[List[ChannelType]]                    `json:"channel_types,omitempty"`
	MinValue     Optional[float64]                              `json:"min_value,omitempty"`
	MaxValue     Optional[float64]                              `json:"max_value,omitempty"`
	MinLength    Optional[int32]                                `json:"min_length,omitempty"`
	MaxLength    Optional[int32]                                `json:"max_length,omitempty"`
	Autocomplete Optional[bool]                                 `json:"autocomplete,omitempty"`
}

// ApplicationCommandOptionChoice is a predefined value of an option. The value
// is a string, integer or number depending on the option type.
type ApplicationCommandOptionChoice struct {
	Name  string              `json:"name"`
	Value jsoniter.RawMessage `json:"value"`
}

// InteractionDataOption is a value the user filled in for a command option.
type InteractionDataOption struct {
	Name    string                                `json:"name"`
	Type    ApplicationCommandOptionType          `json:"type"`
	Value   jsoniter.RawMessage                   `json:"value,omitempty"`
	Options Optional[List[InteractionDataOption]] `json:"options,omitempty"`
	Focused Optional[bool]                        `json:"focused,omitempty"`
}

// StringValue decodes the option value as a string.
func (o InteractionDataOption) StringValue() (string, error) {
	var value string

	if err := sandwichjson.Unmarshal(o.Value, &value); err != nil {
		return "", fmt.Errorf("option %q is not a string: %w", o.Name, err)
	}

	return value, nil
}

// IntValue decodes the option value as an integer.
func (o InteractionDataOption) IntValue() (int64, error) {
	var value int64

	if err := sandwichjson.Unmarshal(o.Value, &value); err != nil {
		return 0, fmt.Errorf("option %q is not an integer: %w", o.Name, err)
	}

	return value, nil
}

// BoolValue decodes the option value as a boolean.
func (o InteractionDataOption) BoolValue() (bool, error) {
	var value bool

	if err := sandwichjson.Unmarshal(o.Value, &value); err != nil {
		return false, fmt.Errorf("option %q is not a boolean: %w", o.Name, err)
	}

	return value, nil
}
