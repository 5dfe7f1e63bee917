package sandwich

import (
	"context"
	"fmt"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
)

// EventProviderWithBlacklist is an event provider that will not handle events that are in the blacklist
// and not publish events that are in the produce blacklist.
//
// Handler, when set, receives every event that is not in the event blacklist
// before it is published.
type EventProviderWithBlacklist struct {
	Handler EventProvider

	producer Producer

	eventBlacklist   map[string]struct{}
	produceBlacklist map[string]struct{}
}

func NewEventProviderWithBlacklist(producer Producer, configuration ProducerConfiguration, handler EventProvider) *EventProviderWithBlacklist {
	return &EventProviderWithBlacklist{
		Handler: handler,

		producer: producer,

		eventBlacklist:   toSet(configuration.EventBlacklist),
		produceBlacklist: toSet(configuration.ProduceBlacklist),
	}
}

func (p *EventProviderWithBlacklist) Dispatch(ctx context.Context, shard *Shard, payload *discord.Payload, trace *Trace) error {
	if _, ok := p.eventBlacklist[payload.Type]; ok {
		return nil
	}

	if p.Handler != nil {
		if err := p.Handler.Dispatch(ctx, shard, payload, trace); err != nil {
			return fmt.Errorf("failed to handle event: %w", err)
		}
	}

	if _, ok := p.produceBlacklist[payload.Type]; ok {
		return nil
	}

	if p.producer == nil {
		return nil
	}

	packet := newProducedPayload(shard, payload, trace)
	packet.Trace.Set("publish", time.Now().UnixNano())

	err := p.producer.Publish(ctx, shard, packet)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *EventProviderWithBlacklist) DispatchError(ctx context.Context, shard *Shard, err error) {
	if p.Handler != nil {
		p.Handler.DispatchError(ctx, shard, err)

		return
	}

	shard.Logger.Warn().Err(err).Msg("Received error from shard")
}

// Close closes the producer.
func (p *EventProviderWithBlacklist) Close() error {
	if p.producer == nil {
		return nil
	}

	return p.producer.Close()
}
