package sandwich

type ManagerStatus int32

const (
	ManagerStatusIdle ManagerStatus = iota
	ManagerStatusStarting
	ManagerStatusReady
	ManagerStatusStopping
	ManagerStatusStopped
)

func (status ManagerStatus) String() string {
	return []string{
		"Idle",
		"Starting",
		"Ready",
		"Stopping",
		"Stopped",
	}[status]
}

// ShardStatus is the state of a shard's session.
type ShardStatus int32

const (
	// ShardStatusIdle is a shard that has not been opened.
	ShardStatusIdle ShardStatus = iota
	// ShardStatusAwaitingHello is connected and waiting for the gateway's hello.
	ShardStatusAwaitingHello
	ShardStatusIdentifying
	ShardStatusResuming
	ShardStatusConnected
	// ShardStatusDisconnected is between connections, waiting to reconnect.
	ShardStatusDisconnected
	ShardStatusClosed
)

func (status ShardStatus) String() string {
	return []string{
		"Idle",
		"AwaitingHello",
		"Identifying",
		"Resuming",
		"Connected",
		"Disconnected",
		"Closed",
	}[status]
}
