package discord

import (
	"fmt"
	"reflect"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	jsoniter "github.com/json-iterator/go"
)

// ComponentType is the type of an interactive message component.
type ComponentType uint8

const (
	ComponentTypeActionRow ComponentType = 1 + iota
	ComponentTypeButton
	ComponentTypeStringSelect
	ComponentTypeTextInput
	ComponentTypeUserSelect
	ComponentTypeRoleSelect
	ComponentTypeMentionableSelect
	ComponentTypeChannelSelect
)

// MaxComponentDepth is how deep components may nest. Action rows hold the
// other components and cannot hold action rows themselves.
const MaxComponentDepth = 2

// Component is one node of a message's component tree.
type Component interface {
	ComponentType() ComponentType
}

// ComponentList decodes each element by its type field.
type ComponentList []Component

func (l ComponentList) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}

	return sandwichjson.Marshal([]Component(l))
}

func (l *ComponentList) UnmarshalJSON(b []byte) error {
	if isNullToken(b) {
		*l = nil

		return nil
	}

	components, err := decodeComponents(b, 1)
	if err != nil {
		return err
	}

	*l = components

	return nil
}

// ActionRow is a container for other components.
type ActionRow struct {
	Type       ComponentType `json:"type"`
	Components ComponentList `json:"components"`
}

func (r ActionRow) ComponentType() ComponentType {
	return ComponentTypeActionRow
}

func (r *ActionRow) UnmarshalJSON(b []byte) error {
	row, err := decodeActionRow(b, 1)
	if err != nil {
		return err
	}

	*r = *row

	return nil
}

// ButtonStyle is the appearance of a button.
type ButtonStyle uint8

const (
	ButtonStylePrimary ButtonStyle = 1 + iota
	ButtonStyleSecondary
	ButtonStyleSuccess
	ButtonStyleDanger
	ButtonStyleLink
	ButtonStylePremium
)

type Button struct {
	Type     ComponentType       `json:"type"`
	Style    ButtonStyle         `json:"style"`
	Label    Optional[string]    `json:"label,omitempty"`
	Emoji    Optional[Emoji]     `json:"emoji,omitempty"`
	CustomID Optional[string]    `json:"custom_id,omitempty"`
	SKUID    Optional[Snowflake] `json:"sku_id,omitempty"`
	URL      Optional[string]    `json:"url,omitempty"`
	Disabled Optional[bool]      `json:"disabled,omitempty"`
}

func (b Button) ComponentType() ComponentType {
	return ComponentTypeButton
}

type SelectMenuOption struct {
	Label       string           `json:"label"`
	Value       string           `json:"value"`
	Description Optional[string] `json:"description,omitempty"`
	Emoji       Optional[Emoji]  `json:"emoji,omitempty"`
	Default     Optional[bool]   `json:"default,omitempty"`
}

// SelectMenu covers the string, user, role, mentionable and channel selects.
type SelectMenu struct {
	Type         ComponentType                    `json:"type"`
	CustomID     string                           `json:"custom_id"`
	Options      Optional[List[SelectMenuOption]] `json:"options,omitempty"`
	ChannelTypes Optional[List[ChannelType]]      `json:"channel_types,omitempty"`
	Placeholder  Optional[string]                 `json:"placeholder,omitempty"`
	MinValues    Optional[int32]                  `json:"min_values,omitempty"`
	MaxValues    Optional[int32]                  `json:"max_values,omitempty"`
	Disabled     Optional[bool]                   `json:"disabled,omitempty"`
}

func (s SelectMenu) ComponentType() ComponentType {
	return s.Type
}

// TextInputStyle is the size of a text input.
type TextInputStyle uint8

const (
	TextInputStyleShort TextInputStyle = 1 + iota
	TextInputStyleParagraph
)

type TextInput struct {
	Type        ComponentType            `json:"type"`
	CustomID    string                   `json:"custom_id"`
	Style       Optional[TextInputStyle] `json:"style,omitempty"`
	Label       Optional[string]         `json:"label,omitempty"`
	MinLength   Optional[int32]          `json:"min_length,omitempty"`
	MaxLength   Optional[int32]          `json:"max_length,omitempty"`
	Required    Optional[bool]           `json:"required,omitempty"`
	Value       Optional[string]         `json:"value,omitempty"`
	Placeholder Optional[string]         `json:"placeholder,omitempty"`
}

func (t TextInput) ComponentType() ComponentType {
	return ComponentTypeTextInput
}

// UnknownComponent keeps a component of a type this package does not model.
type UnknownComponent struct {
	Type ComponentType
	Raw  jsoniter.RawMessage
}

func (u UnknownComponent) ComponentType() ComponentType {
	return u.Type
}

func (u UnknownComponent) MarshalJSON() ([]byte, error) {
	return u.Raw, nil
}

func decodeComponents(raw []byte, depth int) (ComponentList, error) {
	var elements []jsoniter.RawMessage

	if err := sandwichjson.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("decode components: %w", err)
	}

	components := make(ComponentList, 0, len(elements))

	for _, element := range elements {
		component, err := decodeComponent(element, depth)
		if err != nil {
			return nil, err
		}

		components = append(components, component)
	}

	return components, nil
}

func decodeComponent(raw []byte, depth int) (Component, error) {
	var head struct {
		Type ComponentType `json:"type"`
	}

	if err := sandwichjson.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode component: %w", err)
	}

	var component Component

	switch head.Type {
	case ComponentTypeActionRow:
		return decodeActionRow(raw, depth)
	case ComponentTypeButton:
		component = &Button{}
	case ComponentTypeStringSelect, ComponentTypeUserSelect, ComponentTypeRoleSelect,
		ComponentTypeMentionableSelect, ComponentTypeChannelSelect:
		component = &SelectMenu{}
	case ComponentTypeTextInput:
		component = &TextInput{}
	default:
		return &UnknownComponent{
			Type: head.Type,
			Raw:  append(jsoniter.RawMessage(nil), raw...),
		}, nil
	}

	if err := sandwichjson.Unmarshal(raw, component); err != nil {
		return nil, fmt.Errorf("decode component type %d: %w", head.Type, err)
	}

	if err := checkRequired(raw, reflect.TypeOf(component)); err != nil {
		return nil, err
	}

	return component, nil
}

func decodeActionRow(raw []byte, depth int) (*ActionRow, error) {
	if depth >= MaxComponentDepth {
		return nil, fmt.Errorf("%w: action row at depth %d", ErrComponentDepth, depth)
	}

	var row struct {
		Components jsoniter.RawMessage `json:"components"`
	}

	if err := sandwichjson.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode action row: %w", err)
	}

	if isNullToken(row.Components) {
		return nil, fmt.Errorf("%w %q", ErrMissingField, "components")
	}

	children, err := decodeComponents(row.Components, depth+1)
	if err != nil {
		return nil, err
	}

	return &ActionRow{
		Type:       ComponentTypeActionRow,
		Components: children,
	}, nil
}

// NewActionRow builds an action row around components.
func NewActionRow(components ...Component) *ActionRow {
	return &ActionRow{
		Type:       ComponentTypeActionRow,
		Components: components,
	}
}
