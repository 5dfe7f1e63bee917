package sandwich

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGatewayURL     = "wss://gateway.discord.gg"
	DefaultQueueHighWater = 10000
)

// Configuration represents the configuration file.
type Configuration struct {
	Logging  LoggingConfiguration  `json:"logging" yaml:"logging"`
	Gateway  GatewayConfiguration  `json:"gateway" yaml:"gateway"`
	Timing   TimingConfiguration   `json:"timing" yaml:"timing"`
	Identify IdentifyConfiguration `json:"identify" yaml:"identify"`
	Producer ProducerConfiguration `json:"producer" yaml:"producer"`
	HTTP     HTTPConfiguration     `json:"http" yaml:"http"`

	intents  discord.Intents
	shardIDs []int32
}

type LoggingConfiguration struct {
	Level string `json:"level" yaml:"level"`

	ConsoleLoggingEnabled bool `json:"console_logging" yaml:"console_logging"`
	FileLoggingEnabled    bool `json:"file_logging" yaml:"file_logging"`

	EncodeAsJSON bool `json:"encode_as_json" yaml:"encode_as_json"`

	Directory  string `json:"directory" yaml:"directory"`
	Filename   string `json:"filename" yaml:"filename"`
	MaxSize    int    `json:"max_size" yaml:"max_size"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAge     int    `json:"max_age" yaml:"max_age"`
	Compress   bool   `json:"compress" yaml:"compress"`
}

type GatewayConfiguration struct {
	// ApplicationIdentifier is included in metrics and produced metadata.
	ApplicationIdentifier string `json:"application_identifier" yaml:"application_identifier"`
	// ProducerIdentifier is a reusable identifier consumers can use for routing.
	ProducerIdentifier string `json:"producer_identifier" yaml:"producer_identifier"`

	URL   string `json:"url" yaml:"url"`
	Token string `json:"token" yaml:"token"`

	Intents []string `json:"intents" yaml:"intents"`

	ShardCount int32 `json:"shard_count" yaml:"shard_count"`
	// ShardIDs is a range such as 0-4,6. All shards are used when empty.
	ShardIDs string `json:"shard_ids" yaml:"shard_ids"`

	// This is used to segment shards between multiple processes.
	NodeCount int32 `json:"node_count" yaml:"node_count"`
	NodeID    int32 `json:"node_id" yaml:"node_id"`

	MaxConcurrency int32 `json:"max_concurrency" yaml:"max_concurrency"`

	Compress       bool  `json:"compress" yaml:"compress"`
	LargeThreshold int32 `json:"large_threshold" yaml:"large_threshold"`

	Presence PresenceConfiguration `json:"presence" yaml:"presence"`
}

type PresenceConfiguration struct {
	Status     string                  `json:"status" yaml:"status"`
	AFK        bool                    `json:"afk" yaml:"afk"`
	Activities []ActivityConfiguration `json:"activities" yaml:"activities"`
}

// ActivityConfiguration allows {{shard_id}} and {{shard_count}} in Name and State.
type ActivityConfiguration struct {
	Name  string               `json:"name" yaml:"name"`
	Type  discord.ActivityType `json:"type" yaml:"type"`
	State string               `json:"state" yaml:"state"`
	URL   string               `json:"url" yaml:"url"`
}

type TimingConfiguration struct {
	// Wait before redialing after a failed dial, doubled on each failure.
	ReconnectBackoff     time.Duration `json:"reconnect_backoff" yaml:"reconnect_backoff"`
	MaxReconnectBackoff  time.Duration `json:"max_reconnect_backoff" yaml:"max_reconnect_backoff"`
	MaxReconnectAttempts int32         `json:"max_reconnect_attempts" yaml:"max_reconnect_attempts"`

	HelloTimeout time.Duration `json:"hello_timeout" yaml:"hello_timeout"`

	// A disconnected session older than this is identified again instead of resumed.
	ResumeWindow      time.Duration `json:"resume_window" yaml:"resume_window"`
	MaxResumeAttempts int32         `json:"max_resume_attempts" yaml:"max_resume_attempts"`

	MaxIdentifyAttempts int32 `json:"max_identify_attempts" yaml:"max_identify_attempts"`

	InvalidSessionDelayMin time.Duration `json:"invalid_session_delay_min" yaml:"invalid_session_delay_min"`
	InvalidSessionDelayMax time.Duration `json:"invalid_session_delay_max" yaml:"invalid_session_delay_max"`

	RateLimitBackoff time.Duration `json:"rate_limit_backoff" yaml:"rate_limit_backoff"`
}

type IdentifyConfiguration struct {
	// URL allows for variables:
	// {shard_id}, {shard_count}, {token} {token_hash}, {max_concurrency}
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
}

type ProducerConfiguration struct {
	Type          string         `json:"type" yaml:"type"`
	Channel       string         `json:"channel" yaml:"channel"`
	ClientName    string         `json:"client_name" yaml:"client_name"`
	Configuration map[string]any `json:"configuration" yaml:"configuration"`

	// Events that the shard should not handle.
	EventBlacklist []string `json:"event_blacklist" yaml:"event_blacklist"`
	// Events that the shard should handle, but will not be produced.
	ProduceBlacklist []string `json:"produce_blacklist" yaml:"produce_blacklist"`

	// Backlog of undelivered events per shard at which a warning is logged.
	// A negative value disables the warning.
	QueueHighWater int `json:"queue_high_water" yaml:"queue_high_water"`
}

type HTTPConfiguration struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Host    string `json:"host" yaml:"host"`
}

// LoadConfiguration reads a yaml configuration file. Environment variables in
// the form ${NAME} are expanded before parsing.
func LoadConfiguration(path string) (*Configuration, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfigurationFailure, err)
	}

	return ParseConfiguration(file)
}

// ParseConfiguration parses, defaults and validates a yaml configuration.
func ParseConfiguration(data []byte) (*Configuration, error) {
	configuration := &Configuration{}

	err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), configuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfigurationFailure, err)
	}

	configuration.ApplyDefaults()

	err = configuration.Validate()
	if err != nil {
		return nil, err
	}

	return configuration, nil
}

// ApplyDefaults fills in every unset value.
func (c *Configuration) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = zerolog.InfoLevel.String()
	}

	if !c.Logging.ConsoleLoggingEnabled && !c.Logging.FileLoggingEnabled {
		c.Logging.ConsoleLoggingEnabled = true
	}

	if c.Logging.Filename == "" {
		c.Logging.Filename = "sandwich.log"
	}

	gateway := &c.Gateway

	if gateway.ApplicationIdentifier == "" {
		gateway.ApplicationIdentifier = "sandwich"
	}

	if gateway.ProducerIdentifier == "" {
		gateway.ProducerIdentifier = gateway.ApplicationIdentifier
	}

	if gateway.URL == "" {
		gateway.URL = DefaultGatewayURL
	}

	if gateway.ShardCount <= 0 {
		gateway.ShardCount = 1
	}

	if gateway.MaxConcurrency <= 0 {
		gateway.MaxConcurrency = 1
	}

	if gateway.LargeThreshold <= 0 {
		gateway.LargeThreshold = GatewayLargeThreshold
	}

	if gateway.Presence.Status == "" {
		gateway.Presence.Status = string(discord.PresenceStatusOnline)
	}

	timing := &c.Timing

	setDefaultDuration(&timing.ReconnectBackoff, time.Second)
	setDefaultDuration(&timing.MaxReconnectBackoff, MaxReconnectWait)
	setDefaultDuration(&timing.HelloTimeout, 20*time.Second)
	setDefaultDuration(&timing.ResumeWindow, 2*time.Minute)
	setDefaultDuration(&timing.InvalidSessionDelayMin, time.Second)
	setDefaultDuration(&timing.InvalidSessionDelayMax, 5*time.Second)
	setDefaultDuration(&timing.RateLimitBackoff, 60*time.Second)

	if timing.MaxReconnectAttempts <= 0 {
		timing.MaxReconnectAttempts = 5
	}

	if timing.MaxResumeAttempts <= 0 {
		timing.MaxResumeAttempts = 3
	}

	if timing.MaxIdentifyAttempts <= 0 {
		timing.MaxIdentifyAttempts = 3
	}

	if c.Producer.ClientName == "" {
		c.Producer.ClientName = gateway.ApplicationIdentifier
	}

	if c.Producer.Channel == "" {
		c.Producer.Channel = "sandwich"
	}

	if c.Producer.QueueHighWater == 0 {
		c.Producer.QueueHighWater = DefaultQueueHighWater
	}

	if c.HTTP.Host == "" {
		c.HTTP.Host = "127.0.0.1:15000"
	}
}

func setDefaultDuration(value *time.Duration, fallback time.Duration) {
	if *value <= 0 {
		*value = fallback
	}
}

// Validate checks the configuration and resolves intents and shard ids.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.Gateway.Token) == "" {
		return fmt.Errorf("%w: %w", ErrLoadConfigurationFailure, ErrConfigurationMissingToken)
	}

	intents, err := discord.ParseIntents(c.Gateway.Intents...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadConfigurationFailure, err)
	}

	if c.Timing.InvalidSessionDelayMin > c.Timing.InvalidSessionDelayMax {
		return fmt.Errorf("%w: invalid_session_delay_min is above invalid_session_delay_max", ErrLoadConfigurationFailure)
	}

	if c.Gateway.NodeCount > 1 && (c.Gateway.NodeID < 0 || c.Gateway.NodeID >= c.Gateway.NodeCount) {
		return fmt.Errorf("%w: node_id %d is outside of node_count %d", ErrLoadConfigurationFailure, c.Gateway.NodeID, c.Gateway.NodeCount)
	}

	shardIDs := c.Gateway.ShardIDs
	if shardIDs == "" {
		shardIDs = fmt.Sprintf("0-%d", c.Gateway.ShardCount-1)
	}

	ids := returnRangeInt32(c.Gateway.NodeCount, c.Gateway.NodeID, shardIDs, c.Gateway.ShardCount)
	if len(ids) == 0 {
		return fmt.Errorf("%w: %w %q", ErrLoadConfigurationFailure, ErrConfigurationShardIDs, c.Gateway.ShardIDs)
	}

	if !knownProducerType(c.Producer.Type) {
		return fmt.Errorf("%w: %w %q", ErrLoadConfigurationFailure, ErrUnknownProducer, c.Producer.Type)
	}

	c.intents = intents
	c.shardIDs = ids

	return nil
}

// GatewayIntents returns the intents resolved by Validate.
func (c *Configuration) GatewayIntents() discord.Intents {
	return c.intents
}

// ShardIDs returns the shards this process runs, resolved by Validate.
func (c *Configuration) ShardIDs() []int32 {
	return c.shardIDs
}

// UpdateStatus converts the configured presence for a shard, filling in
// {{shard_id}} and {{shard_count}}.
func (p PresenceConfiguration) UpdateStatus(shardID, shardCount int32) discord.UpdateStatus {
	replacer := strings.NewReplacer(
		"{{shard_id}}", fmt.Sprint(shardID),
		"{{shard_count}}", fmt.Sprint(shardCount),
	)

	activities := make(discord.List[discord.Activity], 0, len(p.Activities))

	for _, activity := range p.Activities {
		converted := discord.Activity{
			Name: replacer.Replace(activity.Name),
			Type: activity.Type,
		}

		if activity.State != "" {
			converted.State = discord.Some(replacer.Replace(activity.State))
		}

		if activity.URL != "" {
			converted.URL = discord.Some(activity.URL)
		}

		activities = append(activities, converted)
	}

	return discord.UpdateStatus{
		Activities: activities,
		Status:     discord.PresenceStatus(p.Status),
		AFK:        p.AFK,
	}
}

// NewLogger creates the root logger writing to the console, a rotated file, or both.
func NewLogger(configuration LoggingConfiguration, console io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(configuration.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", configuration.Level, err)
	}

	var writers []io.Writer

	if configuration.ConsoleLoggingEnabled {
		if configuration.EncodeAsJSON {
			writers = append(writers, console)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        console,
				TimeFormat: time.Stamp,
			})
		}
	}

	if configuration.FileLoggingEnabled {
		directory := configuration.Directory
		if directory == "" {
			directory = "."
		}

		if err := os.MkdirAll(directory, 0o744); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   directory + string(os.PathSeparator) + configuration.Filename,
			MaxBackups: configuration.MaxBackups,
			MaxSize:    configuration.MaxSize,
			MaxAge:     configuration.MaxAge,
			Compress:   configuration.Compress,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger(), nil
}
