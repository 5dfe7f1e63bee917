package discord

import (
	"fmt"
	"reflect"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	jsoniter "github.com/json-iterator/go"
)

// InteractionType is the kind of interaction.
type InteractionType uint8

const (
	InteractionTypePing InteractionType = 1 + iota
	InteractionTypeApplicationCommand
	InteractionTypeMessageComponent
	InteractionTypeApplicationCommandAutocomplete
	InteractionTypeModalSubmit
)

// InteractionData is the type specific payload of an interaction. It is one of
// *ApplicationCommandData, *MessageComponentData or *ModalSubmitData.
type InteractionData interface {
	InteractionType() InteractionType
}

// ApplicationCommandData is sent for commands and autocomplete.
type ApplicationCommandData struct {
	ID       ApplicationCommandID                  `json:"id"`
	Name     string                                `json:"name"`
	Type     ApplicationCommandType                `json:"type"`
	Options  Optional[List[InteractionDataOption]] `json:"options,omitempty"`
	GuildID  Optional[GuildID]                     `json:"guild_id,omitempty"`
	TargetID Optional[Snowflake]                   `json:"target_id,omitempty"`
}

func (d ApplicationCommandData) InteractionType() InteractionType {
	return InteractionTypeApplicationCommand
}

// MessageComponentData is sent when a user uses a component.
type MessageComponentData struct {
	CustomID      string                 `json:"custom_id"`
	ComponentType ComponentType          `json:"component_type"`
	Values        Optional[List[string]] `json:"values,omitempty"`
}

func (d MessageComponentData) InteractionType() InteractionType {
	return InteractionTypeMessageComponent
}

// ModalSubmitData is sent when a user submits a modal.
type ModalSubmitData struct {
	CustomID   string        `json:"custom_id"`
	Components ComponentList `json:"components"`
}

func (d ModalSubmitData) InteractionType() InteractionType {
	return InteractionTypeModalSubmit
}

// Interaction is sent when a user invokes a command or uses a component.
type Interaction struct {
	ID             InteractionID         `json:"id"`
	ApplicationID  ApplicationID         `json:"application_id"`
	Type           InteractionType       `json:"type"`
	Data           InteractionData       `json:"-"`
	GuildID        Optional[GuildID]     `json:"guild_id,omitempty"`
	ChannelID      Optional[ChannelID]   `json:"channel_id,omitempty"`
	Member         Optional[GuildMember] `json:"member,omitempty"`
	User           Optional[User]        `json:"user,omitempty"`
	Token          string                `json:"token"`
	Version        int32                 `json:"version"`
	Message        Optional[Message]     `json:"message,omitempty"`
	AppPermissions Optional[Permissions] `json:"app_permissions,omitempty"`
	Locale         Optional[string]      `json:"locale,omitempty"`
	GuildLocale    Optional[string]      `json:"guild_locale,omitempty"`
}

type interactionFields Interaction

var interactionFieldsType = reflect.TypeOf(interactionFields{})

func (i Interaction) MarshalJSON() ([]byte, error) {
	fields, err := sandwichjson.Marshal(interactionFields(i))
	if err != nil {
		return nil, err
	}

	if i.Data == nil {
		return fields, nil
	}

	data, err := sandwichjson.Marshal(i.Data)
	if err != nil {
		return nil, err
	}

	// fields always holds the required id, so it is a non-empty object.
	out := make([]byte, 0, len(fields)+len(data)+8)
	out = append(out, fields[:len(fields)-1]...)
	out = append(out, `,"data":`...)
	out = append(out, data...)
	out = append(out, '}')

	return out, nil
}

func (i *Interaction) UnmarshalJSON(b []byte) error {
	var fields interactionFields

	if err := sandwichjson.Unmarshal(b, &fields); err != nil {
		return err
	}

	if err := checkRequired(b, interactionFieldsType); err != nil {
		return err
	}

	var shadow struct {
		Data jsoniter.RawMessage `json:"data"`
	}

	if err := sandwichjson.Unmarshal(b, &shadow); err != nil {
		return err
	}

	data, err := decodeInteractionData(fields.Type, shadow.Data)
	if err != nil {
		return err
	}

	*i = Interaction(fields)
	i.Data = data

	return nil
}

func decodeInteractionData(interactionType InteractionType, raw []byte) (InteractionData, error) {
	if isNullToken(raw) {
		return nil, nil
	}

	var data InteractionData

	switch interactionType {
	case InteractionTypeApplicationCommand, InteractionTypeApplicationCommandAutocomplete:
		data = &ApplicationCommandData{}
	case InteractionTypeMessageComponent:
		data = &MessageComponentData{}
	case InteractionTypeModalSubmit:
		data = &ModalSubmitData{}
	default:
		return nil, nil
	}

	if err := sandwichjson.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("decode interaction data: %w", err)
	}

	if err := checkRequired(raw, reflect.TypeOf(data)); err != nil {
		return nil, fmt.Errorf("interaction data: %w", err)
	}

	return data, nil
}
