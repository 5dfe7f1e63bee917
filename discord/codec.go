package discord

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	jsoniter "github.com/json-iterator/go"
)

var emptyObject = []byte("{}")

var errMissingOp = errors.New("envelope has no op")

type EventConstructor func() Event

var gatewayEvents = map[GatewayOp]EventConstructor{
	GatewayOpHeartbeat:      func() Event { return &HeartbeatRequest{} },
	GatewayOpReconnect:      func() Event { return &Reconnect{} },
	GatewayOpInvalidSession: func() Event { return &InvalidSession{} },
	GatewayOpHello:          func() Event { return &Hello{} },
	GatewayOpHeartbeatACK:   func() Event { return &HeartbeatAck{} },
}

var dispatchEvents = map[string]EventConstructor{}

// RegisterDispatchEvent adds or replaces the type decoded for a dispatch name.
// It must be called before any payload is decoded.
func RegisterDispatchEvent(eventType string, constructor EventConstructor) {
	dispatchEvents[eventType] = constructor
}

func init() {
	RegisterDispatchEvent("READY", func() Event { return &Ready{} })
	RegisterDispatchEvent("RESUMED", func() Event { return &Resumed{} })
	RegisterDispatchEvent("APPLICATION_COMMAND_CREATE", func() Event { return &ApplicationCommandCreate{} })
	RegisterDispatchEvent("APPLICATION_COMMAND_UPDATE", func() Event { return &ApplicationCommandUpdate{} })
	RegisterDispatchEvent("APPLICATION_COMMAND_DELETE", func() Event { return &ApplicationCommandDelete{} })
	RegisterDispatchEvent("CHANNEL_CREATE", func() Event { return &ChannelCreate{} })
	RegisterDispatchEvent("CHANNEL_UPDATE", func() Event { return &ChannelUpdate{} })
	RegisterDispatchEvent("CHANNEL_DELETE", func() Event { return &ChannelDelete{} })
	RegisterDispatchEvent("THREAD_CREATE", func() Event { return &ThreadCreate{} })
	RegisterDispatchEvent("THREAD_UPDATE", func() Event { return &ThreadUpdate{} })
	RegisterDispatchEvent("THREAD_DELETE", func() Event { return &ThreadDelete{} })
	RegisterDispatchEvent("GUILD_CREATE", func() Event { return &GuildCreate{} })
	RegisterDispatchEvent("GUILD_UPDATE", func() Event { return &GuildUpdate{} })
	RegisterDispatchEvent("GUILD_DELETE", func() Event { return &GuildDelete{} })
	RegisterDispatchEvent("GUILD_MEMBER_ADD", func() Event { return &GuildMemberAdd{} })
	RegisterDispatchEvent("GUILD_MEMBER_UPDATE", func() Event { return &GuildMemberUpdate{} })
	RegisterDispatchEvent("GUILD_MEMBER_REMOVE", func() Event { return &GuildMemberRemove{} })
	RegisterDispatchEvent("GUILD_MEMBERS_CHUNK", func() Event { return &GuildMembersChunk{} })
	RegisterDispatchEvent("GUILD_ROLE_CREATE", func() Event { return &GuildRoleCreate{} })
	RegisterDispatchEvent("GUILD_ROLE_UPDATE", func() Event { return &GuildRoleUpdate{} })
	RegisterDispatchEvent("GUILD_ROLE_DELETE", func() Event { return &GuildRoleDelete{} })
	RegisterDispatchEvent("INTERACTION_CREATE", func() Event { return &InteractionCreate{} })
	RegisterDispatchEvent("MESSAGE_CREATE", func() Event { return &MessageCreate{} })
	RegisterDispatchEvent("MESSAGE_UPDATE", func() Event { return &MessageUpdate{} })
	RegisterDispatchEvent("MESSAGE_DELETE", func() Event { return &MessageDelete{} })
	RegisterDispatchEvent("MESSAGE_DELETE_BULK", func() Event { return &MessageDeleteBulk{} })
	RegisterDispatchEvent("MESSAGE_REACTION_ADD", func() Event { return &MessageReactionAdd{} })
	RegisterDispatchEvent("MESSAGE_REACTION_REMOVE", func() Event { return &MessageReactionRemove{} })
	RegisterDispatchEvent("MESSAGE_REACTION_REMOVE_ALL", func() Event { return &MessageReactionRemoveAll{} })
	RegisterDispatchEvent("MESSAGE_REACTION_REMOVE_EMOJI", func() Event { return &MessageReactionRemoveEmoji{} })
	RegisterDispatchEvent("TYPING_START", func() Event { return &TypingStart{} })
	RegisterDispatchEvent("USER_UPDATE", func() Event { return &UserUpdate{} })
	RegisterDispatchEvent("VOICE_STATE_UPDATE", func() Event { return &VoiceStateUpdate{} })
	RegisterDispatchEvent("VOICE_SERVER_UPDATE", func() Event { return &VoiceServerUpdate{} })
}

type envelope struct {
	op        GatewayOp
	data      jsoniter.RawMessage
	sequence  *uint64
	eventType string
}

func decodeEnvelope(raw []byte) (*envelope, error) {
	var wire struct {
		Op       *GatewayOp          `json:"op"`
		Data     jsoniter.RawMessage `json:"d"`
		Sequence *uint64             `json:"s"`
		Type     *string             `json:"t"`
	}

	if err := sandwichjson.Unmarshal(raw, &wire); err != nil {
		return nil, malformed(0, "", fmt.Errorf("failed to unmarshal envelope: %w", err))
	}

	if wire.Op == nil {
		return nil, malformed(0, "", errMissingOp)
	}

	e := &envelope{
		op:       *wire.Op,
		data:     wire.Data,
		sequence: wire.Sequence,
	}

	if wire.Type != nil {
		e.eventType = *wire.Type
	}

	return e, nil
}

// DecodePayload decodes a raw gateway frame. It first reads the envelope, then
// the event selected by op and, for dispatches, the event name.
//
// When the event body is malformed the returned payload is still populated with
// the envelope fields alongside a *DecodeError, so the sequence can be tracked.
// A nil payload is only returned when the envelope itself could not be read.
func DecodePayload(raw []byte) (*Payload, error) {
	e, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		Op:       e.op,
		Sequence: e.sequence,
		Type:     e.eventType,
		Data:     e.data,
	}

	var constructor EventConstructor

	if e.op == GatewayOpDispatch {
		if e.eventType == "" {
			return payload, malformed(e.op, "", errors.New("dispatch has no event type"))
		}

		var ok bool

		constructor, ok = dispatchEvents[e.eventType]
		if !ok {
			payload.Event = &Unknown{Name: e.eventType, Data: e.data}

			return payload, nil
		}
	} else {
		var ok bool

		constructor, ok = gatewayEvents[e.op]
		if !ok {
			return payload, &DecodeError{Kind: ErrUnknownOpcode, Op: e.op, Type: e.eventType}
		}
	}

	event := constructor()

	if err := decodeEvent(e.data, event); err != nil {
		return payload, malformed(e.op, e.eventType, err)
	}

	payload.Event = event

	return payload, nil
}

type validator interface {
	validate() error
}

func decodeEvent(data []byte, event Event) error {
	if isNullToken(data) {
		if _, isInvalidSession := event.(*InvalidSession); isInvalidSession {
			return nil
		}

		data = emptyObject
	}

	if err := sandwichjson.Unmarshal(data, event); err != nil {
		return err
	}

	if err := checkRequired(data, reflect.TypeOf(event)); err != nil {
		return err
	}

	if v, ok := event.(validator); ok {
		if err := v.validate(); err != nil {
			return err
		}
	}

	return nil
}

// EncodePayload is the inverse of DecodePayload. The event is encoded when set,
// otherwise the raw data is written as is.
func EncodePayload(payload *Payload) ([]byte, error) {
	wire := GatewayPayload{
		Op:       payload.Op,
		Data:     payload.Data,
		Sequence: payload.Sequence,
	}

	if payload.Type != "" {
		eventType := payload.Type
		wire.Type = &eventType
	}

	if payload.Event != nil {
		data, err := encodeEvent(payload.Event)
		if err != nil {
			return nil, err
		}

		wire.Data = data
	}

	if len(wire.Data) == 0 {
		wire.Data = nullLiteral
	}

	return sandwichjson.Marshal(wire)
}

func encodeEvent(event Event) ([]byte, error) {
	switch event.(type) {
	case *HeartbeatRequest, *HeartbeatAck, *Reconnect:
		return nullLiteral, nil
	}

	data, err := sandwichjson.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}

	return data, nil
}

// NewDispatch builds a dispatch payload for event with the given sequence.
func NewDispatch(sequence uint64, event Event) *Payload {
	return &Payload{
		Op:       GatewayOpDispatch,
		Sequence: &sequence,
		Type:     event.EventType(),
		Event:    event,
	}
}

// NewPayload builds a non dispatch payload for event.
func NewPayload(op GatewayOp, event Event) *Payload {
	return &Payload{
		Op:    op,
		Event: event,
	}
}
