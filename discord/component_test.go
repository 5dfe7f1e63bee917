package discord_test

import (
	"testing"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentListDecode(t *testing.T) {
	t.Parallel()

	raw := `[{"type":1,"components":[` +
		`{"type":2,"style":1,"label":"Go","custom_id":"go"},` +
		`{"type":3,"custom_id":"pick","options":[{"label":"A","value":"a"}]},` +
		`{"type":99,"mystery":true}]}]`

	var components discord.ComponentList

	require.NoError(t, components.UnmarshalJSON([]byte(raw)))
	require.Len(t, components, 1)

	row, ok := components[0].(*discord.ActionRow)
	require.True(t, ok)
	require.Len(t, row.Components, 3)

	button, ok := row.Components[0].(*discord.Button)
	require.True(t, ok)
	assert.Equal(t, discord.ButtonStylePrimary, button.Style)
	assert.Equal(t, "go", button.CustomID.OrElse(""))

	selectMenu, ok := row.Components[1].(*discord.SelectMenu)
	require.True(t, ok)
	assert.Equal(t, discord.ComponentTypeStringSelect, selectMenu.ComponentType())

	options, ok := selectMenu.Options.Get()
	require.True(t, ok)
	assert.Equal(t, "a", options[0].Value)

	unknown, ok := row.Components[2].(*discord.UnknownComponent)
	require.True(t, ok)
	assert.Equal(t, discord.ComponentType(99), unknown.ComponentType())
	assert.JSONEq(t, `{"type":99,"mystery":true}`, string(unknown.Raw))
}

func TestComponentListRejectsNestedRows(t *testing.T) {
	t.Parallel()

	raw := `[{"type":1,"components":[{"type":1,"components":[]}]}]`

	var components discord.ComponentList

	err := components.UnmarshalJSON([]byte(raw))
	assert.ErrorIs(t, err, discord.ErrComponentDepth)
}

func TestComponentListMissingRequiredField(t *testing.T) {
	t.Parallel()

	var components discord.ComponentList

	err := components.UnmarshalJSON([]byte(`[{"type":1,"components":[{"type":4,"style":1}]}]`))
	assert.ErrorIs(t, err, discord.ErrMissingField)

	err = components.UnmarshalJSON([]byte(`[{"type":1}]`))
	assert.ErrorIs(t, err, discord.ErrMissingField)
}

func TestMessageWithNestedRowsIsMalformed(t *testing.T) {
	t.Parallel()

	raw := `{"op":0,"t":"MESSAGE_CREATE","s":3,"d":{"id":"1","channel_id":"2","author":{"id":"3","username":"u","discriminator":"0"},` +
		`"content":"","timestamp":"2024-01-01T00:00:00+00:00","type":0,"mentions":[],"mention_roles":[],"attachments":[],"embeds":[],` +
		`"components":[{"type":1,"components":[{"type":1,"components":[]}]}]}}`

	payload, err := discord.DecodePayload([]byte(raw))
	assert.ErrorIs(t, err, discord.ErrMalformedPayload)
	assert.ErrorContains(t, err, discord.ErrComponentDepth.Error())
	require.NotNil(t, payload)
	assert.NotNil(t, payload.Sequence)
}

func TestComponentListRoundTrip(t *testing.T) {
	t.Parallel()

	components := discord.ComponentList{
		discord.NewActionRow(
			&discord.Button{Type: discord.ComponentTypeButton, Style: discord.ButtonStyleLink, Label: discord.Some("Docs"), URL: discord.Some("https://example.com")},
			&discord.TextInput{Type: discord.ComponentTypeTextInput, CustomID: "reason", Style: discord.Some(discord.TextInputStyleParagraph)},
		),
	}

	encoded, err := sandwichjson.Marshal(components)
	require.NoError(t, err)

	var decoded discord.ComponentList

	require.NoError(t, sandwichjson.Unmarshal(encoded, &decoded))
	assert.Equal(t, components, decoded)
}

func TestEmptyComponentListEncodesAsArray(t *testing.T) {
	t.Parallel()

	encoded, err := sandwichjson.Marshal(discord.ComponentList(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(encoded))

	encoded, err = sandwichjson.Marshal(discord.NewActionRow())
	require.NoError(t, err)
	assert.Equal(t, `{"type":1,"components":[]}`, string(encoded))
}

func TestInteractionRoundTrip(t *testing.T) {
	t.Parallel()

	interaction := discord.Interaction{
		ID:            1,
		ApplicationID: 2,
		Type:          discord.InteractionTypeMessageComponent,
		Data: &discord.MessageComponentData{
			CustomID:      "pick",
			ComponentType: discord.ComponentTypeStringSelect,
			Values:        discord.Some(discord.List[string]{"a", "b"}),
		},
		GuildID: discord.Some(discord.GuildID(3)),
		Token:   "tok",
		Version: 1,
	}

	encoded, err := sandwichjson.Marshal(interaction)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"data":{"custom_id":"pick","component_type":3,"values":["a","b"]}`)

	var decoded discord.Interaction

	require.NoError(t, sandwichjson.Unmarshal(encoded, &decoded))
	assert.Equal(t, interaction, decoded)
}

func TestInteractionWithoutData(t *testing.T) {
	t.Parallel()

	var interaction discord.Interaction

	require.NoError(t, interaction.UnmarshalJSON([]byte(`{"id":"1","application_id":"2","type":1,"token":"t","version":1}`)))
	assert.Nil(t, interaction.Data)
	assert.Equal(t, discord.InteractionTypePing, interaction.Type)
}
