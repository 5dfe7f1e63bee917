package discord_test

import (
	"testing"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventGuildID(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		raw     string
		guildID discord.GuildID
	}{
		{`{"op":0,"s":1,"t":"GUILD_CREATE","d":{"id":"5","unavailable":true}}`, 5},
		{`{"op":0,"s":1,"t":"GUILD_DELETE","d":{"id":"5"}}`, 5},
		{`{"op":0,"s":1,"t":"GUILD_ROLE_DELETE","d":{"guild_id":"6","role_id":"1"}}`, 6},
		{`{"op":0,"s":1,"t":"CHANNEL_CREATE","d":{"id":"1","type":0,"guild_id":"7"}}`, 7},
		{`{"op":0,"s":1,"t":"MESSAGE_DELETE","d":{"id":"1","channel_id":"2","guild_id":"8"}}`, 8},
		{`{"op":0,"s":1,"t":"MESSAGE_REACTION_REMOVE_ALL","d":{"channel_id":"1","message_id":"2","guild_id":"9"}}`, 9},
		{`{"op":0,"s":1,"t":"VOICE_SERVER_UPDATE","d":{"token":"t","guild_id":"10","endpoint":null}}`, 10},
		{`{"op":0,"s":1,"t":"INTERACTION_CREATE","d":{"id":"1","application_id":"2","type":1,"guild_id":"11","token":"t","version":1}}`, 11},
	} {
		raw, expected := tc.raw, tc.guildID

		payload, err := discord.DecodePayload([]byte(raw))
		require.NoError(t, err, raw)

		guildID, ok := discord.EventGuildID(payload.Event)
		assert.True(t, ok, raw)
		assert.Equal(t, expected, guildID, raw)
	}
}

func TestEventGuildIDOutsideGuild(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`{"op":0,"s":1,"t":"MESSAGE_DELETE","d":{"id":"1","channel_id":"2"}}`,
		`{"op":0,"s":1,"t":"CHANNEL_CREATE","d":{"id":"1","type":1}}`,
		`{"op":0,"s":1,"t":"READY","d":{"session_id":"abc"}}`,
		`{"op":0,"s":1,"t":"SOMETHING_NEW","d":{"guild_id":"1"}}`,
		`{"op":10,"d":{"heartbeat_interval":1000}}`,
	} {
		payload, err := discord.DecodePayload([]byte(raw))
		require.NoError(t, err, raw)

		_, ok := discord.EventGuildID(payload.Event)
		assert.False(t, ok, raw)
	}

	_, ok := discord.EventGuildID(nil)
	assert.False(t, ok)
}
