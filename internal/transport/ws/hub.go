package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/inkverse/clubchat/internal/presence"
	"github.com/inkverse/clubchat/internal/service"
)

// Hub manages all active WebSocket clients and routes events. Its single
// event loop is the channel broadcast sequencer: events enqueued for a
// channel fan out in enqueue order.
type Hub struct {
	channels *service.ChannelService
	messages *service.MessageService
	presence *presence.Tracker

	// clients is keyed by connection; a user with several open tabs holds
	// several entries.
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
}

type broadcastMsg struct {
	channelID uuid.UUID
	data      []byte
}

func NewHub(channels *service.ChannelService, messages *service.MessageService, tracker *presence.Tracker) *Hub {
	return &Hub{
		channels:   channels,
		messages:   messages,
		presence:   tracker,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine; it
// returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			log.Printf("ws hub: user %s connected (%d conns)", client.userID, len(h.clients))

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.broadcast:
			h.fanout(msg)
		}
	}
}

// drop removes a client and releases its presence entries. Runs on the hub
// goroutine only.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	// Only done is closed. send stays open so a reply racing the drop can
	// never panic on a closed channel; the pumps exit via done.
	close(client.done)
	log.Printf("ws hub: user %s disconnected (%d conns)", client.userID, len(h.clients))

	for _, channelID := range client.Channels() {
		_, snapshot := h.presence.Leave(channelID, client.userID)
		h.fanoutRoster(channelID, snapshot)
	}
}

func (h *Hub) fanout(msg *broadcastMsg) {
	for client := range h.clients {
		if !client.IsJoined(msg.channelID) {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			// Client buffer full - disconnect; its failure must not delay
			// delivery to others.
			h.drop(client)
		}
	}
}

func (h *Hub) fanoutRoster(channelID uuid.UUID, userIDs []uuid.UUID) {
	evt, err := NewEvent(EventTypeRosterChanged, &channelID, RosterPayload{
		ChannelID: channelID,
		UserIDs:   userIDs,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.fanout(&broadcastMsg{channelID: channelID, data: data})
}

// BroadcastToChannel sends an event to all sessions joined to a channel.
func (h *Hub) BroadcastToChannel(channelID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{channelID: channelID, data: data}
}

// BroadcastRoster pushes the full roster snapshot to a channel.
func (h *Hub) BroadcastRoster(channelID uuid.UUID, userIDs []uuid.UUID) {
	evt, err := NewEvent(EventTypeRosterChanged, &channelID, RosterPayload{
		ChannelID: channelID,
		UserIDs:   userIDs,
	})
	if err != nil {
		return
	}
	h.BroadcastToChannel(channelID, evt)
}
