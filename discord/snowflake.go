package discord

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	gotils_strconv "github.com/savsgio/gotils/strconv"
)

const DiscordCreation = 1420070400000

var nullLiteral = []byte("null")

// Snowflake is a 64-bit identifier carried on the wire as a decimal string.
type Snowflake uint64

// ParseSnowflake parses the canonical decimal form of a snowflake.
func ParseSnowflake(s string) (Snowflake, error) {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSnowflake, s)
	}

	return Snowflake(i), nil
}

func (s Snowflake) IsNil() bool {
	return s == 0
}

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// Time returns the creation time of the Snowflake.
func (s Snowflake) Time() time.Time {
	msec := int64(s>>22) + DiscordCreation

	return time.UnixMilli(msec)
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return uint64ToStringBytes(uint64(s)), nil
}

func (s *Snowflake) UnmarshalJSON(b []byte) error {
	v, err := unmarshalQuotedUint64(b)
	if err != nil || v == nil {
		return err
	}

	*s = Snowflake(*v)

	return nil
}

// unmarshalQuotedUint64 accepts a quoted or bare decimal. A null token returns nil
// so the caller keeps its current value.
func unmarshalQuotedUint64(b []byte) (*uint64, error) {
	b = bytes.TrimSpace(b)

	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidSnowflake)
	}

	if bytes.Equal(b, nullLiteral) {
		return nil, nil
	}

	if b[0] == '"' {
		if len(b) < 2 || b[len(b)-1] != '"' {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSnowflake, b)
		}

		b = b[1 : len(b)-1]
	}

	i, err := strconv.ParseUint(gotils_strconv.B2S(b), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSnowflake, string(b))
	}

	return &i, nil
}

func uint64ToStringBytes(i uint64) []byte {
	buf := make([]byte, 0, 22) // maxUint64 length + 2

	buf = append(buf, '"')
	buf = strconv.AppendUint(buf, i, 10)
	buf = append(buf, '"')

	return buf
}

type (
	GuildID              Snowflake
	ChannelID            Snowflake
	MessageID            Snowflake
	UserID               Snowflake
	RoleID               Snowflake
	EmojiID              Snowflake
	ApplicationID        Snowflake
	ApplicationCommandID Snowflake
	InteractionID        Snowflake
	WebhookID            Snowflake
	AttachmentID         Snowflake
)

func (id GuildID) String() string {
	return Snowflake(id).String()
}

func (id GuildID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *GuildID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id ChannelID) String() string {
	return Snowflake(id).String()
}

func (id ChannelID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *ChannelID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id MessageID) String() string {
	return Snowflake(id).String()
}

func (id MessageID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *MessageID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id UserID) String() string {
	return Snowflake(id).String()
}

func (id UserID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *UserID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id RoleID) String() string {
	return Snowflake(id).String()
}

func (id RoleID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *RoleID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id EmojiID) String() string {
	return Snowflake(id).String()
}

func (id EmojiID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *EmojiID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id ApplicationID) String() string {
	return Snowflake(id).String()
}

func (id ApplicationID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *ApplicationID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id ApplicationCommandID) String() string {
	return Snowflake(id).String()
}

func (id ApplicationCommandID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *ApplicationCommandID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id InteractionID) String() string {
	return Snowflake(id).String()
}

func (id InteractionID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *InteractionID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id WebhookID) String() string {
	return Snowflake(id).String()
}

func (id WebhookID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *WebhookID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}

func (id AttachmentID) String() string {
	return Snowflake(id).String()
}

func (id AttachmentID) MarshalJSON() ([]byte, error) {
	return Snowflake(id).MarshalJSON()
}

func (id *AttachmentID) UnmarshalJSON(b []byte) error {
	return (*Snowflake)(id).UnmarshalJSON(b)
}
