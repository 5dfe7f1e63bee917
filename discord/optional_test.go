package discord_test

import (
	"testing"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesMissingAndNull(t *testing.T) {
	t.Parallel()

	var missing discord.GuildMember

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"roles":[]}`), &missing))
	assert.True(t, missing.Nick.IsMissing())
	assert.False(t, missing.Nick.IsNull())

	var null discord.GuildMember

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"roles":[],"nick":null}`), &null))
	assert.True(t, null.Nick.IsNull())
	assert.False(t, null.Nick.IsMissing())

	var present discord.GuildMember

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"roles":[], "nick" : "bread"}`), &present))
	nick, ok := present.Nick.Get()
	assert.True(t, ok)
	assert.Equal(t, "bread", nick)
}

func TestOptionalEncoding(t *testing.T) {
	t.Parallel()

	member := discord.GuildMember{
		Roles:  discord.List[discord.RoleID]{},
		Nick:   discord.Null[string](),
		Avatar: discord.Some("a_hash"),
	}

	encoded, err := sandwichjson.Marshal(member)
	require.NoError(t, err)
	assert.JSONEq(t, `{"roles":[],"nick":null,"avatar":"a_hash"}`, string(encoded))
	assert.NotContains(t, string(encoded), "joined_at")
}

func TestOptionalNestedEntity(t *testing.T) {
	t.Parallel()

	raw := `{"id":"1","username":"a","discriminator":"0","avatar":null,"bot":true}`

	var user discord.User

	require.NoError(t, sandwichjson.Unmarshal([]byte(raw), &user))
	assert.True(t, user.IsBot())
	assert.True(t, user.Avatar.IsNull())
	assert.True(t, user.Banner.IsMissing())
	assert.Equal(t, "a", user.DisplayName())

	encoded, err := sandwichjson.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(encoded))
}

func TestOptionalAccessors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, discord.Some(5).OrElse(1))
	assert.Equal(t, 1, discord.Null[int]().OrElse(1))

	var missing discord.Optional[int]

	assert.Equal(t, 1, missing.OrElse(1))
	assert.Equal(t, "<missing>", missing.String())
	assert.Equal(t, "<null>", discord.Null[int]().String())
	assert.Equal(t, "5", discord.Some(5).String())
}

func TestRoleTagsNullFlags(t *testing.T) {
	t.Parallel()

	var tags discord.RoleTags

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{"premium_subscriber":null}`), &tags))
	assert.True(t, tags.IsPremiumSubscriber())

	var none discord.RoleTags

	require.NoError(t, sandwichjson.Unmarshal([]byte(`{}`), &none))
	assert.False(t, none.IsPremiumSubscriber())
}
