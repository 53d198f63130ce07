package stream

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "event:"
	channelSuffix  = ":visits"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Hub fans visit updates out to the officials watching an event. With a
// redis client, updates published by other instances are relayed too.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	cancel  context.CancelFunc
	ready   chan struct{}

	subscribed atomic.Bool
}

type Client struct {
	EventID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
		ready:   make(chan struct{}),
	}

	if redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel
		go h.subscribeRedis(ctx)
	} else {
		close(h.ready)
	}
	return h
}

// Ready is closed once the redis subscription is active.
func (h *Hub) Ready() <-chan struct{} { return h.ready }

func (h *Hub) Register(eventID string) *Client {
	client := &Client{
		EventID: eventID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[eventID] == nil {
		h.clients[eventID] = map[*Client]struct{}{}
	}
	h.clients[eventID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if eventClients, ok := h.clients[client.EventID]; ok {
		if _, registered := eventClients[client]; !registered {
			return
		}
		delete(eventClients, client)
		if len(eventClients) == 0 {
			delete(h.clients, client.EventID)
		}
		close(client.Send)
	}
}

// Broadcast delivers payload to every client watching eventID. With redis
// the message goes through the channel so all instances see it once. Slow
// clients drop messages.
func (h *Hub) Broadcast(eventID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(eventID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		} else if h.subscribed.Load() {
			return
		}
	}
	h.deliver(eventID, payload)
}

func (h *Hub) deliver(eventID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[eventID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Close stops the redis subscription and closes every client's Send, which
// ends their websocket streams.
func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for eventID, eventClients := range h.clients {
		for client := range eventClients {
			close(client.Send)
		}
		delete(h.clients, eventID)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, eventClients := range h.clients {
		n += len(eventClients)
	}
	return n
}

func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.redis.PSubscribe(ctx, channelPattern)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("redis subscribe error: %v", err)
		close(h.ready)
		return
	}
	h.subscribed.Store(true)
	close(h.ready)
	defer h.subscribed.Store(false)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			eventID := eventIDFromChannel(msg.Channel)
			if eventID == "" {
				continue
			}
			h.deliver(eventID, []byte(msg.Payload))
		}
	}
}

func redisChannel(eventID string) string {
	return channelPrefix + eventID + channelSuffix
}

func eventIDFromChannel(ch string) string {
	// event:{id}:visits
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
