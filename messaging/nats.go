package messaging

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

func init() {
	registerClient("nats", func() Client { return &NatsMQClient{} })
}

type NatsMQClient struct {
	NatsClient *nats.Conn

	channel string
}

func (natsMQ *NatsMQClient) String() string {
	return "nats"
}

func (natsMQ *NatsMQClient) Channel() string {
	return natsMQ.channel
}

func (natsMQ *NatsMQClient) Connect(_ context.Context, clientName string, args map[string]any) error {
	address, channel, err := connectArgs("natsMQ", args)
	if err != nil {
		return err
	}

	natsMQ.channel = channel

	natsMQ.NatsClient, err = nats.Connect(address, nats.Name(clientName))
	if err != nil {
		return fmt.Errorf("natsMQ connect: %w", err)
	}

	return nil
}

func (natsMQ *NatsMQClient) Publish(_ context.Context, subject string, data []byte) error {
	if natsMQ.NatsClient == nil {
		return ErrNotConnected
	}

	return natsMQ.NatsClient.Publish(natsMQ.channel+"."+subject, data)
}

func (natsMQ *NatsMQClient) Close() error {
	if natsMQ.NatsClient == nil {
		return nil
	}

	err := natsMQ.NatsClient.Drain()
	natsMQ.NatsClient = nil

	return err
}
