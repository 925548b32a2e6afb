package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

const logBufferSize = 100

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The app serves localhost and LAN browsers; origin checks stay open.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LogServer serves /ws and broadcasts assistant activity to every
// connected UI. New clients receive the recent buffer on connect so the
// activity panel is never empty.
type LogServer struct {
	hub    *Hub
	port   int
	server *http.Server
	log    *logger.Logger

	bufferMu sync.RWMutex
	buffer   []types.AssistantLog
}

// NewLogServer builds a LogServer listening on port.
func NewLogServer(port int) *LogServer {
	return &LogServer{
		hub:  NewHub(),
		port: port,
		log:  logger.GetLogger().WithComponent("ws"),
	}
}

// Start runs the hub and the HTTP listener in the background.
func (s *LogServer) Start() error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		s.log.Infof("activity stream listening on :%d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("activity stream server failed", err)
		}
	}()
	return nil
}

// Stop closes the listener and disconnects every client.
func (s *LogServer) Stop() error {
	s.hub.Close()
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// BroadcastLog buffers the entry and fans it out to every client.
func (s *LogServer) BroadcastLog(entry types.AssistantLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.bufferMu.Lock()
	s.buffer = append(s.buffer, entry)
	if len(s.buffer) > logBufferSize {
		s.buffer = s.buffer[len(s.buffer)-logBufferSize:]
	}
	s.bufferMu.Unlock()

	if data, err := json.Marshal(entry); err == nil {
		s.hub.Broadcast(data)
	}
}

func (s *LogServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", err)
		return
	}
	client := NewClient(s.hub, conn)
	s.hub.register <- client

	s.replayBuffer(client)
	go client.writePump()
	go client.readPump()
}

// replayBuffer queues the recent history for a newly connected client.
func (s *LogServer) replayBuffer(client *Client) {
	s.bufferMu.RLock()
	defer s.bufferMu.RUnlock()
	for _, entry := range s.buffer {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		select {
		case client.send <- data:
		default:
			return
		}
	}
}

func (s *LogServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}
