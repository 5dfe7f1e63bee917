package messaging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownClient  = errors.New("unknown messaging client")
	ErrMissingAddress = errors.New("missing address")
	ErrMissingChannel = errors.New("missing channel")
	ErrNotConnected   = errors.New("client is not connected")
)

// Client publishes produced events to a message broker.
type Client interface {
	String() string
	Channel() string
	Connect(ctx context.Context, clientName string, args map[string]any) error
	// Publish sends data to the client's channel. Subject is the event name,
	// which brokers with routing use to build the destination.
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

var clients = map[string]func() Client{}

func registerClient(name string, constructor func() Client) {
	clients[name] = constructor
}

// NewClient creates an unconnected client by name.
func NewClient(name string) (Client, error) {
	constructor, ok := clients[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClient, name)
	}

	return constructor(), nil
}

// Clients lists the available client names.
func Clients() []string {
	names := make([]string, 0, len(clients))

	for name := range clients {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IsClient reports whether name is an available client.
func IsClient(name string) bool {
	_, ok := clients[strings.ToLower(name)]

	return ok
}

// connectArgs reads the arguments every client requires.
func connectArgs(client string, args map[string]any) (address, channel string, err error) {
	address, ok := getString(args, "Address")
	if !ok || address == "" {
		return "", "", fmt.Errorf("%s connect: %w", client, ErrMissingAddress)
	}

	channel, ok = getString(args, "Channel")
	if !ok || channel == "" {
		return "", "", fmt.Errorf("%s connect: %w", client, ErrMissingChannel)
	}

	return address, channel, nil
}
