package sandwich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/discord"
	"github.com/WelcomerTeam/Sandwich-Gateway/pkg/syncmap"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

const VERSION = "1.0.0"

// Manager runs the shards of a single bot token.
type Manager struct {
	Logger zerolog.Logger

	Configuration *Configuration

	// HeartbeatJitter chooses the delay before a connection's first heartbeat.
	// It defaults to a random duration in [0, interval).
	HeartbeatJitter func(interval time.Duration) time.Duration

	dialer           Dialer
	identifyProvider IdentifyProvider
	eventProvider    EventProvider

	status        atomic.Int32
	startedAt     atomic.Time
	applicationID atomic.Uint64

	shards *syncmap.Map[int32, *Shard]

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a manager. The configuration must have been validated.
func NewManager(logger zerolog.Logger, configuration *Configuration, dialer Dialer,
	identifyProvider IdentifyProvider, eventProvider EventProvider,
) *Manager {
	if identifyProvider == nil {
		identifyProvider = NewIdentifyViaBuckets()
	}

	if eventProvider == nil {
		eventProvider = LoggingEventProvider{}
	}

	manager := &Manager{
		Logger: logger.With().Str("application", configuration.Gateway.ApplicationIdentifier).Logger(),

		Configuration: configuration,

		HeartbeatJitter: heartbeatJitter,

		dialer:           dialer,
		identifyProvider: identifyProvider,
		eventProvider:    eventProvider,

		shards: &syncmap.Map[int32, *Shard]{},
	}

	manager.ctx, manager.cancel = context.WithCancel(context.Background())

	return manager
}

func (m *Manager) identifier() string {
	return m.Configuration.Gateway.ApplicationIdentifier
}

func (m *Manager) Status() ManagerStatus {
	return ManagerStatus(m.status.Load())
}

func (m *Manager) setStatus(status ManagerStatus) {
	m.status.Store(int32(status))
	UpdateManagerStatus(m.identifier(), status)
}

// Start opens a shard for every configured shard id.
func (m *Manager) Start() error {
	if !m.status.CompareAndSwap(int32(ManagerStatusIdle), int32(ManagerStatusStarting)) {
		return fmt.Errorf("manager is %s", m.Status())
	}

	UpdateManagerStatus(m.identifier(), ManagerStatusStarting)

	m.startedAt.Store(time.Now())

	shardIDs := m.Configuration.ShardIDs()

	m.Logger.Info().
		Ints32("shard_ids", shardIDs).
		Int32("shard_count", m.Configuration.Gateway.ShardCount).
		Msg("Starting shards")

	for _, shardID := range shardIDs {
		shard := m.NewShard(shardID)
		m.shards.Store(shardID, shard)

		if err := shard.Open(); err != nil {
			return fmt.Errorf("failed to open shard %d: %w", shardID, err)
		}
	}

	m.setStatus(ManagerStatusReady)

	return nil
}

// Shard returns a running shard by id.
func (m *Manager) Shard(shardID int32) (*Shard, bool) {
	return m.shards.Load(shardID)
}

// Shards returns every shard ordered by id.
func (m *Manager) Shards() []*Shard {
	return m.shards.Sorted(func(a, b int32) bool {
		return a < b
	})
}

// ApplicationID is the application the token belongs to, learned from the first ready.
func (m *Manager) ApplicationID() discord.ApplicationID {
	return discord.ApplicationID(m.applicationID.Load())
}

func (m *Manager) StartedAt() time.Time {
	return m.startedAt.Load()
}

// Close closes every shard and waits for them to finish delivering events.
func (m *Manager) Close(ctx context.Context) error {
	m.setStatus(ManagerStatusStopping)

	m.cancel()

	var errs []error

	for _, shard := range m.Shards() {
		if err := shard.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close shard %d: %w", shard.ShardID, err))
		}

		m.shards.Delete(shard.ShardID)
	}

	m.setStatus(ManagerStatusStopped)

	return errors.Join(errs...)
}
