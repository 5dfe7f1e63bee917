package discord

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gotils_strconv "github.com/savsgio/gotils/strconv"
)

// Intents selects which dispatch events the gateway sends.
type Intents uint32

const (
	IntentGuilds Intents = 1 << iota
	IntentGuildMembers
	IntentGuildModeration
	IntentGuildExpressions
	IntentGuildIntegrations
	IntentGuildWebhooks
	IntentGuildInvites
	IntentGuildVoiceStates
	IntentGuildPresences
	IntentGuildMessages
	IntentGuildMessageReactions
	IntentGuildMessageTyping
	IntentDirectMessages
	IntentDirectMessageReactions
	IntentDirectMessageTyping
	IntentMessageContent
	IntentGuildScheduledEvents
	_
	_
	_
	IntentAutoModerationConfiguration
	IntentAutoModerationExecution
	_
	_
	IntentGuildMessagePolls
	IntentDirectMessagePolls
)

const (
	IntentsAll = IntentGuilds | IntentGuildMembers | IntentGuildModeration | IntentGuildExpressions |
		IntentGuildIntegrations | IntentGuildWebhooks | IntentGuildInvites | IntentGuildVoiceStates |
		IntentGuildPresences | IntentGuildMessages | IntentGuildMessageReactions | IntentGuildMessageTyping |
		IntentDirectMessages | IntentDirectMessageReactions | IntentDirectMessageTyping | IntentMessageContent |
		IntentGuildScheduledEvents | IntentAutoModerationConfiguration | IntentAutoModerationExecution |
		IntentGuildMessagePolls | IntentDirectMessagePolls

	IntentsPrivileged = IntentGuildMembers | IntentGuildPresences | IntentMessageContent
)

var intentNames = map[string]Intents{
	"guilds":                        IntentGuilds,
	"guild_members":                 IntentGuildMembers,
	"guild_moderation":              IntentGuildModeration,
	"guild_expressions":             IntentGuildExpressions,
	"guild_integrations":            IntentGuildIntegrations,
	"guild_webhooks":                IntentGuildWebhooks,
	"guild_invites":                 IntentGuildInvites,
	"guild_voice_states":            IntentGuildVoiceStates,
	"guild_presences":               IntentGuildPresences,
	"guild_messages":                IntentGuildMessages,
	"guild_message_reactions":       IntentGuildMessageReactions,
	"guild_message_typing":          IntentGuildMessageTyping,
	"direct_messages":               IntentDirectMessages,
	"direct_message_reactions":      IntentDirectMessageReactions,
	"direct_message_typing":         IntentDirectMessageTyping,
	"message_content":               IntentMessageContent,
	"guild_scheduled_events":        IntentGuildScheduledEvents,
	"auto_moderation_configuration": IntentAutoModerationConfiguration,
	"auto_moderation_execution":     IntentAutoModerationExecution,
	"guild_message_polls":           IntentGuildMessagePolls,
	"direct_message_polls":          IntentDirectMessagePolls,
}

// ParseIntents combines intents by their snake_case names.
func ParseIntents(names ...string) (Intents, error) {
	var intents Intents

	for _, name := range names {
		intent, ok := intentNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: unknown intent %q", ErrInvalidIntents, name)
		}

		intents |= intent
	}

	return intents, nil
}

func (i Intents) Has(intents Intents) bool {
	return i&intents == intents
}

// Validate reports bits outside of the platform's defined intents.
func (i Intents) Validate() error {
	if unknown := i &^ IntentsAll; unknown != 0 {
		return fmt.Errorf("%w: unknown bits %#x", ErrInvalidIntents, uint32(unknown))
	}

	return nil
}

func (i *Intents) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	v, err := strconv.ParseUint(gotils_strconv.B2S(b), 10, 32)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidIntents, string(b))
	}

	intents := Intents(v)
	if err := intents.Validate(); err != nil {
		return err
	}

	*i = intents

	return nil
}

// UserFlags are the public flags on a user account.
type UserFlags uint32

const (
	UserFlagsStaff UserFlags = 1 << iota
	UserFlagsPartner
	UserFlagsHypeSquad
	UserFlagsBugHunterLevel1
	_
	_
	UserFlagsHypeSquadOnlineHouse1
	UserFlagsHypeSquadOnlineHouse2
	UserFlagsHypeSquadOnlineHouse3
	UserFlagsPremiumEarlySupporter
	UserFlagsTeamPseudoUser
	_
	_
	_
	UserFlagsBugHunterLevel2
	_
	UserFlagsVerifiedBot
	UserFlagsVerifiedDeveloper
	UserFlagsCertifiedModerator
	UserFlagsBotHTTPInteractions
	_
	_
	UserFlagsActiveDeveloper
)

func (f UserFlags) Has(flags UserFlags) bool {
	return f&flags == flags
}

// MessageFlags modify how a message is displayed or handled.
type MessageFlags uint32

const (
	MessageFlagsCrossposted MessageFlags = 1 << iota
	MessageFlagsIsCrosspost
	MessageFlagsSuppressEmbeds
	MessageFlagsSourceMessageDeleted
	MessageFlagsUrgent
	MessageFlagsHasThread
	MessageFlagsEphemeral
	MessageFlagsLoading
	MessageFlagsFailedToMentionSomeRolesInThread
	_
	_
	_
	MessageFlagsSuppressNotifications
	MessageFlagsIsVoiceMessage
)

func (f MessageFlags) Has(flags MessageFlags) bool {
	return f&flags == flags
}

// ApplicationFlags describe the capabilities of an application.
type ApplicationFlags uint32

const (
	ApplicationFlagsAutoModerationRuleCreateBadge ApplicationFlags = 1 << 6
	ApplicationFlagsGatewayPresence               ApplicationFlags = 1 << 12
	ApplicationFlagsGatewayPresenceLimited        ApplicationFlags = 1 << 13
	ApplicationFlagsGatewayGuildMembers           ApplicationFlags = 1 << 14
	ApplicationFlagsGatewayGuildMembersLimited    ApplicationFlags = 1 << 15
	ApplicationFlagsVerificationPendingGuildLimit ApplicationFlags = 1 << 16
	ApplicationFlagsEmbedded                      ApplicationFlags = 1 << 17
	ApplicationFlagsGatewayMessageContent         ApplicationFlags = 1 << 18
	ApplicationFlagsGatewayMessageContentLimited  ApplicationFlags = 1 << 19
	ApplicationFlagsApplicationCommandBadge       ApplicationFlags = 1 << 23
)

func (f ApplicationFlags) Has(flags ApplicationFlags) bool {
	return f&flags == flags
}
