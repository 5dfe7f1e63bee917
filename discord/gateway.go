package discord

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// GatewayOp represents the operation codes of a gateway message. It is as wide
// as an int so opcodes beyond the known range still decode and are reported
// as unknown.
type GatewayOp int

const (
	GatewayOpDispatch GatewayOp = iota
	GatewayOpHeartbeat
	GatewayOpIdentify
	GatewayOpStatusUpdate
	GatewayOpVoiceStateUpdate
	_
	GatewayOpResume
	GatewayOpReconnect
	GatewayOpRequestGuildMembers
	GatewayOpInvalidSession
	GatewayOpHello
	GatewayOpHeartbeatACK
)

func (op GatewayOp) String() string {
	switch op {
	case GatewayOpDispatch:
		return "Dispatch"
	case GatewayOpHeartbeat:
		return "Heartbeat"
	case GatewayOpIdentify:
		return "Identify"
	case GatewayOpStatusUpdate:
		return "StatusUpdate"
	case GatewayOpVoiceStateUpdate:
		return "VoiceStateUpdate"
	case GatewayOpResume:
		return "Resume"
	case GatewayOpReconnect:
		return "Reconnect"
	case GatewayOpRequestGuildMembers:
		return "RequestGuildMembers"
	case GatewayOpInvalidSession:
		return "InvalidSession"
	case GatewayOpHello:
		return "Hello"
	case GatewayOpHeartbeatACK:
		return "HeartbeatACK"
	default:
		return "GatewayOp(" + strconv.Itoa(int(op)) + ")"
	}
}

// Gateway close codes.
const (
	CloseUnknownError = 4000 + iota
	CloseUnknownOpCode
	CloseDecodeError
	CloseNotAuthenticated
	CloseAuthenticationFailed
	CloseAlreadyAuthenticated
	_
	CloseInvalidSeq
	CloseRateLimited
	CloseSessionTimeout
	CloseInvalidShard
	CloseShardingRequired
	CloseInvalidAPIVersion
	CloseInvalidIntents
	CloseDisallowedIntents
)

// GatewayPayload is the envelope of every frame on the gateway.
type GatewayPayload struct {
	Op       GatewayOp           `json:"op"`
	Data     jsoniter.RawMessage `json:"d"`
	Sequence *uint64             `json:"s"`
	Type     *string             `json:"t"`
}

// SentPayload represents the base payload we send to discords gateway.
type SentPayload struct {
	Op   GatewayOp `json:"op"`
	Data any       `json:"d"`
}

// Payload is a decoded inbound frame. Event is nil when decoding failed.
type Payload struct {
	Op       GatewayOp
	Sequence *uint64
	Type     string
	Data     jsoniter.RawMessage
	Event    Event
}

// SequenceValue returns the sequence number and whether one was set.
func (p *Payload) SequenceValue() (uint64, bool) {
	if p.Sequence == nil {
		return 0, false
	}

	return *p.Sequence, true
}
