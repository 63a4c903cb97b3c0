package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WSConnections tracks currently open realtime sessions.
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "threads_ws_connections",
		Help: "Number of open realtime sessions.",
	})

	// EventsPushed counts realtime events handed to a session send queue.
	EventsPushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threads_realtime_events_pushed_total",
		Help: "Realtime events pushed to connected sessions.",
	}, []string{"event"})

	// EventsDropped counts events dropped because the recipient was offline
	// or its send queue was full. Delivery is at-most-once; drops are normal.
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threads_realtime_events_dropped_total",
		Help: "Realtime events dropped instead of delivered.",
	}, []string{"event"})

	// NotificationsCreated counts stored notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threads_notifications_created_total",
		Help: "Notifications persisted, by type.",
	}, []string{"type"})
)
