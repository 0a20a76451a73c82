package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SSEServer manages Server-Sent Events connections
type SSEServer struct {
	clients    map[string]*SSEClient
	register   chan *SSEClient
	unregister chan string
	broadcast  chan *Event
	quit       chan struct{}
	mu         sync.RWMutex
	running    bool
	seq        uint64
}

// SSEClient represents a connected client
type SSEClient struct {
	ID       string
	Events   chan *Event
	Filters  []EventType // 빈 값이면 전체
	TenantID string      // 빈 값이면 전체 테넌트
	done     chan struct{}
}

// NewSSEServer creates a new SSE server
func NewSSEServer() *SSEServer {
	return &SSEServer{
		clients:    make(map[string]*SSEClient),
		register:   make(chan *SSEClient),
		unregister: make(chan string),
		broadcast:  make(chan *Event, 100),
		quit:       make(chan struct{}),
	}
}

// Start starts the SSE server event loop
func (s *SSEServer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.run()
}

// Stop stops the SSE server and closes every client stream
func (s *SSEServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.quit)
	for id, client := range s.clients {
		close(client.done)
		delete(s.clients, id)
	}
}

// Running reports whether the event loop is active
func (s *SSEServer) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *SSEServer) run() {
	for {
		select {
		case <-s.quit:
			return

		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()

		case clientID := <-s.unregister:
			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()

		case event := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				if shouldSend(client, event) {
					select {
					case client.Events <- event:
					default:
						// 클라이언트 버퍼가 가득 참
					}
				}
			}
			s.mu.RUnlock()
		}
	}
}

// shouldSend checks if client should receive this event
func shouldSend(client *SSEClient, event *Event) bool {
	if client.TenantID != "" && event.TenantID != "" && client.TenantID != event.TenantID {
		return false
	}

	if len(client.Filters) == 0 {
		return true
	}
	for _, f := range client.Filters {
		if f == event.Type {
			return true
		}
	}
	return false
}

// Broadcast sends an event to all connected clients
func (s *SSEServer) Broadcast(event *Event) {
	if !s.Running() {
		return
	}
	select {
	case s.broadcast <- event:
	default:
		// 버퍼가 가득 차면 버림
	}
}

// ClientCount returns the number of connected clients
func (s *SSEServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ServeHTTP handles SSE connections.
// Query: filter=lnb:changed,tenant:changed  tenant=<id>
func (s *SSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	if !s.Running() {
		http.Error(w, "event stream stopped", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var filters []EventType
	if filterParam := r.URL.Query().Get("filter"); filterParam != "" {
		for _, f := range strings.Split(filterParam, ",") {
			if f = strings.TrimSpace(f); f != "" {
				filters = append(filters, EventType(f))
			}
		}
	}

	s.mu.Lock()
	s.seq++
	clientID := fmt.Sprintf("client-%d-%d", time.Now().UnixNano(), s.seq)
	s.mu.Unlock()

	client := &SSEClient{
		ID:       clientID,
		Events:   make(chan *Event, 50),
		Filters:  filters,
		TenantID: r.URL.Query().Get("tenant"),
		done:     make(chan struct{}),
	}

	select {
	case s.register <- client:
	case <-s.quit:
		return
	}
	defer func() {
		select {
		case s.unregister <- clientID:
		case <-s.quit:
		}
	}()

	s.sendEvent(w, flusher, NewEvent(EventConnected, map[string]interface{}{
		"client_id": clientID,
		"filters":   filters,
		"tenant":    client.TenantID,
	}))

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-client.done:
			return

		case event := <-client.Events:
			s.sendEvent(w, flusher, event)

		case <-ticker.C:
			fmt.Fprintf(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func (s *SSEServer) sendEvent(w http.ResponseWriter, flusher http.Flusher, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\n", event.Type)
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
