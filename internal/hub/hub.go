package hub

import (
	"encoding/json"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/creamcroissant/podwatch/internal/activity"
)

// frame is the wire envelope pushed to websocket subscribers.
type frame struct {
	Event string         `json:"event"`
	Data  activity.Event `json:"data"`
}

const eventName = "activity"

// Hub fans activity events out to all connected clients. Delivery is
// fire-and-forget: no acknowledgment, no replay, no history for late joiners.
// A client whose send buffer is full at publish time is dropped rather than
// allowed to block the others.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
	count      chan chan int
	logger     *slog.Logger
}

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "podwatch",
		Subsystem: "hub",
		Name:      "connected_clients",
		Help:      "Current number of websocket subscribers.",
	})
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "podwatch",
		Subsystem: "hub",
		Name:      "events_published_total",
		Help:      "Activity events published, by type.",
	}, []string{"type"})
	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "podwatch",
		Subsystem: "hub",
		Name:      "events_dropped_total",
		Help:      "Events dropped because a subscriber's buffer was full.",
	})
)

// New builds a hub. Run must be started before Publish is called.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*Client]struct{}),
		count:      make(chan chan int),
		logger:     logger,
	}
}

// Run owns the client set. All registration, removal and fan-out happens on
// this single goroutine, so no locking is needed anywhere in the hub.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			connectedClients.Set(float64(len(h.clients)))
			h.logger.Info("client connected", "client", client.id, "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				connectedClients.Set(float64(len(h.clients)))
				h.logger.Info("client disconnected", "client", client.id, "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: cut it loose instead of stalling the fan-out.
					delete(h.clients, client)
					close(client.send)
					eventsDropped.Inc()
					connectedClients.Set(float64(len(h.clients)))
					h.logger.Warn("client dropped, send buffer full", "client", client.id)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Publish fans one event out to every connected client.
func (h *Hub) Publish(event activity.Event) {
	payload, err := json.Marshal(frame{Event: eventName, Data: event})
	if err != nil {
		h.logger.Error("event marshal failed", "error", err)
		return
	}
	eventsPublished.WithLabelValues(string(event.Type)).Inc()
	h.broadcast <- payload
}

// ClientCount reports how many subscribers are currently connected.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	h.count <- reply
	return <-reply
}
