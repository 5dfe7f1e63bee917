package sandwich

import (
	"context"
	"fmt"
	"strings"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/WelcomerTeam/Sandwich-Gateway/messaging"
	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
)

// ProducedPayload is what is published to consumers: the raw gateway payload
// along with where it came from.
type ProducedPayload struct {
	discord.GatewayPayload

	Extra    map[string]any   `json:"__extra,omitempty"`
	Metadata ProducedMetadata `json:"__metadata"`
	Trace    Trace            `json:"__trace"`
}

type ProducedMetadata struct {
	Identifier    string                `json:"i"`
	Application   string                `json:"a"`
	ApplicationID discord.ApplicationID `json:"id"`
	Shard         [3]int32              `json:"s"`
	// GuildID is set for events that belong to a guild so consumers can route
	// without decoding the payload.
	GuildID *discord.GuildID `json:"g,omitempty"`
}

// Producer publishes dispatch events.
type Producer interface {
	Publish(ctx context.Context, shard *Shard, payload *ProducedPayload) error
	Close() error
}

func knownProducerType(producerType string) bool {
	return producerType == "" || messaging.IsClient(producerType)
}

// MessagingProducer publishes payloads through a messaging client.
type MessagingProducer struct {
	client messaging.Client
}

// NewMessagingProducer connects the configured messaging client. The channel
// is passed to the client unless its configuration sets one.
func NewMessagingProducer(ctx context.Context, configuration ProducerConfiguration) (*MessagingProducer, error) {
	client, err := messaging.NewClient(configuration.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownProducer, err)
	}

	args := make(map[string]any, len(configuration.Configuration)+1)

	for key, value := range configuration.Configuration {
		args[key] = value
	}

	if messaging.GetEntry(args, "Channel") == nil {
		args["channel"] = configuration.Channel
	}

	err = client.Connect(ctx, configuration.ClientName, args)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s producer: %w", client.String(), err)
	}

	return NewMessagingProducerFromClient(client), nil
}

func NewMessagingProducerFromClient(client messaging.Client) *MessagingProducer {
	return &MessagingProducer{client: client}
}

func (p *MessagingProducer) Publish(ctx context.Context, _ *Shard, payload *ProducedPayload) error {
	data, err := sandwichjson.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	subject := "UNKNOWN"
	if payload.Type != nil {
		subject = *payload.Type
	}

	return p.client.Publish(ctx, subject, data)
}

func (p *MessagingProducer) Close() error {
	return p.client.Close()
}

// newProducedPayload wraps a dispatch with the shard's metadata.
func newProducedPayload(shard *Shard, payload *discord.Payload, trace *Trace) *ProducedPayload {
	eventType := payload.Type
	gateway := shard.manager.Configuration.Gateway

	produced := &ProducedPayload{
		GatewayPayload: discord.GatewayPayload{
			Op:       payload.Op,
			Data:     payload.Data,
			Sequence: payload.Sequence,
			Type:     &eventType,
		},
		Metadata: ProducedMetadata{
			Identifier:    gateway.ProducerIdentifier,
			Application:   gateway.ApplicationIdentifier,
			ApplicationID: shard.manager.ApplicationID(),
			Shard: [3]int32{
				0,
				shard.ShardID,
				shard.ShardCount,
			},
		},
	}

	if guildID, ok := discord.EventGuildID(payload.Event); ok {
		produced.Metadata.GuildID = &guildID
	}

	produced.Trace = make(Trace)

	if trace != nil {
		for key, value := range *trace {
			produced.Trace[key] = value
		}
	}

	return produced
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))

	for _, value := range values {
		set[strings.ToUpper(strings.TrimSpace(value))] = struct{}{}
	}

	return set
}
