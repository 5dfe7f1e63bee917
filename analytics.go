package sandwich

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EventMetrics tracks event-related metrics
var EventMetrics = struct {
	FramesTotal    *prometheus.CounterVec
	EventsTotal    *prometheus.CounterVec
	DecodeErrors   *prometheus.CounterVec
	GatewayLatency *prometheus.GaugeVec
}{
	FramesTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandwich_gateway_frames_total",
			Help: "Total number of frames received from the gateway",
		},
		[]string{"application_identifier", "op"},
	),
	EventsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandwich_events_total",
			Help: "Total number of dispatch events processed, split by identifier and event type",
		},
		[]string{"application_identifier", "event_type"},
	),
	DecodeErrors: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandwich_decode_errors_total",
			Help: "Total number of payloads that failed to decode, split by kind",
		},
		[]string{"application_identifier", "kind"},
	),
	GatewayLatency: promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sandwich_gateway_latency_seconds",
			Help: "Gateway latency in seconds, measured by heartbeat",
		},
		[]string{"application_identifier", "shard_id"},
	),
}

func RecordFrame(identifier string, op string) {
	EventMetrics.FramesTotal.WithLabelValues(identifier, op).Inc()
}

func RecordEvent(identifier, eventType string) {
	EventMetrics.EventsTotal.WithLabelValues(identifier, eventType).Inc()
}

func RecordDecodeError(identifier, kind string) {
	EventMetrics.DecodeErrors.WithLabelValues(identifier, kind).Inc()
}

func UpdateGatewayLatency(identifier string, shardID int32, latency float64) {
	EventMetrics.GatewayLatency.WithLabelValues(identifier, strconv.Itoa(int(shardID))).Set(latency)
}

// ShardMetrics tracks shard-related metrics
var ShardMetrics = struct {
	ManagerStatus  *prometheus.GaugeVec
	ShardStatus    *prometheus.GaugeVec
	Reconnects     *prometheus.CounterVec
	HeartbeatsSent *prometheus.CounterVec
}{
	ManagerStatus: promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sandwich_manager_status",
			Help: "Status of the shard manager",
		},
		[]string{"application_identifier"},
	),
	ShardStatus: promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sandwich_shard_status",
			Help: "Status of the shard",
		},
		[]string{"application_identifier", "shard_id"},
	),
	Reconnects: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandwich_shard_reconnects_total",
			Help: "Total number of times a shard reconnected, split by whether it resumed",
		},
		[]string{"application_identifier", "shard_id", "resume"},
	),
	HeartbeatsSent: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandwich_shard_heartbeats_total",
			Help: "Total number of heartbeats sent",
		},
		[]string{"application_identifier", "shard_id"},
	),
}

func UpdateManagerStatus(identifier string, status ManagerStatus) {
	ShardMetrics.ManagerStatus.WithLabelValues(identifier).Set(float64(status))
}

func UpdateShardStatus(identifier string, shardID int32, status ShardStatus) {
	ShardMetrics.ShardStatus.WithLabelValues(identifier, strconv.Itoa(int(shardID))).Set(float64(status))
}

func RecordReconnect(identifier string, shardID int32, resume bool) {
	ShardMetrics.Reconnects.WithLabelValues(identifier, strconv.Itoa(int(shardID)), strconv.FormatBool(resume)).Inc()
}

func RecordHeartbeat(identifier string, shardID int32) {
	ShardMetrics.HeartbeatsSent.WithLabelValues(identifier, strconv.Itoa(int(shardID))).Inc()
}
