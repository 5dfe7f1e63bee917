package messaging

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

func init() {
	registerClient("redis", func() Client { return &RedisMQClient{} })
}

type RedisMQClient struct {
	redisClient *redis.Client

	channel string
}

func (redisMQ *RedisMQClient) String() string {
	return "redis"
}

func (redisMQ *RedisMQClient) Channel() string {
	return redisMQ.channel
}

func (redisMQ *RedisMQClient) Connect(ctx context.Context, clientName string, args map[string]any) error {
	address, channel, err := connectArgs("redisMQ", args)
	if err != nil {
		return err
	}

	redisMQ.channel = channel

	password, _ := getString(args, "Password")

	db, err := getInt(args, "DB")
	if err != nil {
		return fmt.Errorf("redisMQ connect db atoi: %w", err)
	}

	redisMQ.redisClient = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	err = redisMQ.redisClient.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("redisMQ connect ping: %w", err)
	}

	return nil
}

// Publish publishes to the channel. The subject is carried inside the payload.
func (redisMQ *RedisMQClient) Publish(ctx context.Context, _ string, data []byte) error {
	if redisMQ.redisClient == nil {
		return ErrNotConnected
	}

	return redisMQ.redisClient.Publish(
		ctx,
		redisMQ.channel,
		data,
	).Err()
}

func (redisMQ *RedisMQClient) Close() error {
	if redisMQ.redisClient == nil {
		return nil
	}

	err := redisMQ.redisClient.Close()
	redisMQ.redisClient = nil

	return err
}
