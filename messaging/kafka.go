package messaging

import (
	"context"

	"github.com/segmentio/kafka-go"
)

func init() {
	registerClient("kafka", func() Client { return &KafkaMQClient{} })
}

type KafkaMQClient struct {
	KafkaClient *kafka.Writer

	channel string
}

func parseKafkaBalancer(balancer string) kafka.Balancer {
	switch balancer {
	case "crc32":
		return &kafka.CRC32Balancer{}
	case "hash":
		return &kafka.Hash{}
	case "murmur2":
		return &kafka.Murmur2Balancer{}
	case "roundrobin":
		return &kafka.RoundRobin{}
	case "leastbytes":
		return &kafka.LeastBytes{}
	default:
		return nil
	}
}

func (kafkaMQ *KafkaMQClient) String() string {
	return "kafka"
}

func (kafkaMQ *KafkaMQClient) Channel() string {
	return kafkaMQ.channel
}

// Connect creates the writer. Kafka connections are made lazily on the first publish.
func (kafkaMQ *KafkaMQClient) Connect(_ context.Context, _ string, args map[string]any) error {
	address, channel, err := connectArgs("kafkaMQ", args)
	if err != nil {
		return err
	}

	kafkaMQ.channel = channel

	balancerName, _ := getString(args, "Balancer")

	kafkaMQ.KafkaClient = &kafka.Writer{
		Addr:     kafka.TCP(address),
		Topic:    channel,
		Balancer: parseKafkaBalancer(balancerName),
		Async:    getBool(args, "Async"),
	}

	return nil
}

// Publish writes to the channel topic keyed by subject, so events of one type share a partition.
func (kafkaMQ *KafkaMQClient) Publish(ctx context.Context, subject string, data []byte) error {
	if kafkaMQ.KafkaClient == nil {
		return ErrNotConnected
	}

	return kafkaMQ.KafkaClient.WriteMessages(
		ctx,
		kafka.Message{
			Key:   []byte(subject),
			Value: data,
		},
	)
}

func (kafkaMQ *KafkaMQClient) Close() error {
	if kafkaMQ.KafkaClient == nil {
		return nil
	}

	err := kafkaMQ.KafkaClient.Close()
	kafkaMQ.KafkaClient = nil

	return err
}
