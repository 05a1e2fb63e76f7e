package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// A client that cannot take a packet within this time is dropped.
const wsWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// apiServer keeps the latest decoded packet and the websocket clients it is
// broadcast to.
type apiServer struct {
	decoder *dsmr.Decoder
	log     logrus.FieldLogger

	latestPacket      *dsmr.ParsedPacket
	latestPacketMutex sync.RWMutex

	wsClients      map[*websocket.Conn]bool
	wsClientsMutex sync.RWMutex
	// a websocket.Conn supports one concurrent writer
	wsWriteMutex sync.Mutex
}

func newAPIServer(decoder *dsmr.Decoder, log logrus.FieldLogger) *apiServer {
	return &apiServer{
		decoder:   decoder,
		log:       log,
		wsClients: make(map[*websocket.Conn]bool),
	}
}

func (s *apiServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/latest", s.handleLatest)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *apiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "P1 Decoder API",
		"status":  "running",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *apiServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	packet := s.GetLatestPacket()
	w.Header().Set("Content-Type", "application/json")
	if packet == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "No packets available yet",
		})
		return
	}

	w.Write(packet.ToJsonBytes())
}

func (s *apiServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("WebSocket upgrade error")
		return
	}

	s.AddWebSocketClient(conn)

	// Send current packet immediately if available
	if packet := s.GetLatestPacket(); packet != nil {
		s.wsWriteMutex.Lock()
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		conn.WriteMessage(websocket.TextMessage, packet.ToJsonBytes())
		s.wsWriteMutex.Unlock()
	}

	// Keep connection alive
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.RemoveWebSocketClient(conn)
			return
		}
	}
}

// handleTelegram decodes a raw telegram, stores it as the latest packet and
// broadcasts it.
func (s *apiServer) handleTelegram(telegram string) {
	packet := s.decoder.Decode(telegram)

	s.latestPacketMutex.Lock()
	s.latestPacket = packet
	s.latestPacketMutex.Unlock()

	s.BroadcastToWebSockets(packet)
}

func (s *apiServer) GetLatestPacket() *dsmr.ParsedPacket {
	s.latestPacketMutex.RLock()
	defer s.latestPacketMutex.RUnlock()
	return s.latestPacket
}

func (s *apiServer) BroadcastToWebSockets(packet *dsmr.ParsedPacket) {
	s.wsClientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(s.wsClients))
	for client := range s.wsClients {
		clients = append(clients, client)
	}
	s.wsClientsMutex.RUnlock()

	data := packet.ToJsonBytes()
	s.wsWriteMutex.Lock()
	defer s.wsWriteMutex.Unlock()
	for _, client := range clients {
		client.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.RemoveWebSocketClient(client)
		}
	}
}

func (s *apiServer) AddWebSocketClient(conn *websocket.Conn) {
	s.wsClientsMutex.Lock()
	s.wsClients[conn] = true
	s.wsClientsMutex.Unlock()
}

func (s *apiServer) RemoveWebSocketClient(conn *websocket.Conn) {
	s.wsClientsMutex.Lock()
	delete(s.wsClients, conn)
	s.wsClientsMutex.Unlock()
	conn.Close()
}

func (s *apiServer) clientCount() int {
	s.wsClientsMutex.RLock()
	defer s.wsClientsMutex.RUnlock()
	return len(s.wsClients)
}
