package discord

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	gotils_strconv "github.com/savsgio/gotils/strconv"
)

// Command is a payload the client sends to the gateway.
type Command interface {
	Op() GatewayOp
}

// Identify represents the initial handshake with the gateway.
type Identify struct {
	Token          string                 `json:"token"`
	Properties     IdentifyProperties     `json:"properties"`
	Compress       Optional[bool]         `json:"compress,omitempty"`
	LargeThreshold Optional[int32]        `json:"large_threshold,omitempty"`
	Shard          Optional[[2]int32]     `json:"shard,omitempty"`
	Presence       Optional[UpdateStatus] `json:"presence,omitempty"`
	Intents        Intents                `json:"intents"`
}

func (Identify) Op() GatewayOp { return GatewayOpIdentify }

// IdentifyProperties are the connection properties sent in the identify packet.
type IdentifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

// Resume resumes a dropped gateway connection.
type Resume struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Sequence  uint64 `json:"seq"`
}

func (Resume) Op() GatewayOp { return GatewayOpResume }

// Heartbeat carries the last sequence number received, or null before any dispatch.
type Heartbeat struct {
	Sequence *uint64
}

func (Heartbeat) Op() GatewayOp { return GatewayOpHeartbeat }

func (h Heartbeat) MarshalJSON() ([]byte, error) {
	if h.Sequence == nil {
		return nullLiteral, nil
	}

	return strconv.AppendUint(nil, *h.Sequence, 10), nil
}

func (h *Heartbeat) UnmarshalJSON(b []byte) error {
	if isNullToken(b) {
		h.Sequence = nil

		return nil
	}

	sequence, err := strconv.ParseUint(gotils_strconv.B2S(bytes.TrimSpace(b)), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: heartbeat sequence %q", ErrInvalidCommandField, string(b))
	}

	h.Sequence = &sequence

	return nil
}

// RequestGuildMembers requests members for a guild, answered by member chunk events.
type RequestGuildMembers struct {
	GuildID   GuildID                `json:"guild_id"`
	Query     Optional[string]       `json:"query,omitempty"`
	Limit     int32                  `json:"limit"`
	Presences Optional[bool]         `json:"presences,omitempty"`
	UserIDs   Optional[List[UserID]] `json:"user_ids,omitempty"`
	Nonce     Optional[string]       `json:"nonce,omitempty"`
}

func (RequestGuildMembers) Op() GatewayOp { return GatewayOpRequestGuildMembers }

// UpdateVoiceState joins, moves between or leaves voice channels. A nil
// channel disconnects.
type UpdateVoiceState struct {
	GuildID   GuildID    `json:"guild_id"`
	ChannelID *ChannelID `json:"channel_id"`
	SelfMute  bool       `json:"self_mute"`
	SelfDeaf  bool       `json:"self_deaf"`
}

func (UpdateVoiceState) Op() GatewayOp { return GatewayOpVoiceStateUpdate }

// UpdateStatus updates the client's presence.
type UpdateStatus struct {
	Since      *int64         `json:"since"`
	Activities List[Activity] `json:"activities"`
	Status     PresenceStatus `json:"status"`
	AFK        bool           `json:"afk"`
}

func (UpdateStatus) Op() GatewayOp { return GatewayOpStatusUpdate }

// EncodeCommand wraps cmd in the gateway envelope.
func EncodeCommand(cmd Command) ([]byte, error) {
	if err := ValidateCommand(cmd); err != nil {
		return nil, err
	}

	data, err := sandwichjson.Marshal(SentPayload{
		Op:   cmd.Op(),
		Data: cmd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", cmd.Op(), err)
	}

	return data, nil
}

var commandConstructors = map[GatewayOp]func() Command{
	GatewayOpHeartbeat:           func() Command { return &Heartbeat{} },
	GatewayOpIdentify:            func() Command { return &Identify{} },
	GatewayOpStatusUpdate:        func() Command { return &UpdateStatus{} },
	GatewayOpVoiceStateUpdate:    func() Command { return &UpdateVoiceState{} },
	GatewayOpResume:              func() Command { return &Resume{} },
	GatewayOpRequestGuildMembers: func() Command { return &RequestGuildMembers{} },
}

// DecodeCommand is the inverse of EncodeCommand. It returns a pointer to the command.
func DecodeCommand(raw []byte) (Command, error) {
	envelope, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	constructor, ok := commandConstructors[envelope.op]
	if !ok {
		return nil, fmt.Errorf("%w: op %d", ErrUnknownCommand, envelope.op)
	}

	cmd := constructor()

	data := envelope.data
	if _, isHeartbeat := cmd.(*Heartbeat); !isHeartbeat && isNullToken(data) {
		data = emptyObject
	}

	if err := sandwichjson.Unmarshal(data, cmd); err != nil {
		return nil, malformed(envelope.op, "", err)
	}

	if err := checkRequired(data, reflect.TypeOf(cmd)); err != nil {
		return nil, malformed(envelope.op, "", err)
	}

	return cmd, nil
}

// ValidateCommand checks the fields the gateway would otherwise reject.
func ValidateCommand(cmd Command) error {
	switch c := cmd.(type) {
	case Identify:
		return c.validate()
	case *Identify:
		return c.validate()
	case Resume:
		return c.validate()
	case *Resume:
		return c.validate()
	case RequestGuildMembers:
		return c.validate()
	case *RequestGuildMembers:
		return c.validate()
	}

	return nil
}

func (i Identify) validate() error {
	if i.Token == "" {
		return fmt.Errorf("%w: identify token is empty", ErrInvalidCommandField)
	}

	return i.Intents.Validate()
}

func (r Resume) validate() error {
	if r.Token == "" || r.SessionID == "" {
		return fmt.Errorf("%w: resume requires a token and session id", ErrInvalidCommandField)
	}

	return nil
}

func (r RequestGuildMembers) validate() error {
	if r.GuildID == 0 {
		return fmt.Errorf("%w: guild id is required", ErrInvalidCommandField)
	}

	userIDs, _ := r.UserIDs.Get()

	if r.Query.IsMissing() && len(userIDs) == 0 {
		return fmt.Errorf("%w: query or user ids are required", ErrInvalidCommandField)
	}

	return nil
}
