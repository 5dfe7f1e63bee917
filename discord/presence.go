package discord

// PresenceStatus is the online status of a user.
type PresenceStatus string

const (
	PresenceStatusOnline    PresenceStatus = "online"
	PresenceStatusIdle      PresenceStatus = "idle"
	PresenceStatusDND       PresenceStatus = "dnd"
	PresenceStatusInvisible PresenceStatus = "invisible"
	PresenceStatusOffline   PresenceStatus = "offline"
)

// ActivityType is the kind of activity shown on a presence.
type ActivityType uint8

const (
	ActivityTypeGame ActivityType = iota
	ActivityTypeStreaming
	ActivityTypeListening
	ActivityTypeWatching
	ActivityTypeCustom
	ActivityTypeCompeting
)

// Activity is a single entry of a user's rich presence.
type Activity struct {
	Name  string           `json:"name"`
	Type  ActivityType     `json:"type"`
	URL   Optional[string] `json:"url,omitempty"`
	State Optional[string] `json:"state,omitempty"`
}
