package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"streamarchive/pkg/config"
	"streamarchive/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan WSMessage
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WS upgrade error", "err", err)
		return
	}

	client := &Client{conn: conn, send: make(chan WSMessage, 256)}
	s.AddClient(client)

	defer func() {
		s.RemoveClient(client)
		conn.Close()
	}()

	logger.Debug("WS Client connected", "remote", r.RemoteAddr)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	// Initial snapshot: stats, config, then the buffered log history
	go func() {
		s.sendStats(client)
		s.sendConfig(client)
		s.sendLogHistory(client)
	}()

	// Read loop (Client -> Server)
	go func() {
		for {
			var msg WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Debug("WS read error", "err", err)
				}
				conn.Close()
				return
			}

			switch msg.Type {
			case "get_config":
				s.sendConfig(client)
			case "save_config":
				s.handleSaveConfigWS(client, msg.Payload)
			}
		}
	}()

	// Write loop (Server -> Client)
	for {
		select {
		case <-ticker.C:
			s.sendStats(client)
		case msg, ok := <-client.send:
			if !ok {
				// Channel closed by RemoveClient
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func (s *Server) sendStats(client *Client) {
	payload, _ := json.Marshal(s.collectStats())
	select {
	case client.send <- WSMessage{Type: "stats", Payload: payload}:
	default:
	}
}

func (s *Server) sendConfig(client *Client) {
	s.mu.RLock()
	payload, _ := json.Marshal(s.config)
	s.mu.RUnlock()
	select {
	case client.send <- WSMessage{Type: "config", Payload: payload}:
	default:
	}
}

func (s *Server) sendLogHistory(client *Client) {
	payload, _ := json.Marshal(logger.GetHistory())
	select {
	case client.send <- WSMessage{Type: "log_history", Payload: payload}:
	default:
	}
}

func (s *Server) handleSaveConfigWS(client *Client, payload json.RawMessage) {
	var newCfg config.Config
	if err := json.Unmarshal(payload, &newCfg); err != nil {
		client.send <- WSMessage{Type: "save_status", Payload: json.RawMessage(`{"status":"error","message":"Invalid config data"}`)}
		return
	}

	s.mu.Lock()
	loadedPath := s.config.LoadedPath
	tmdbKey := s.config.TMDBAPIKey

	*s.config = newCfg
	s.config.LoadedPath = loadedPath
	s.config.TMDBAPIKey = tmdbKey

	err := error(nil)
	if loadedPath != "" {
		err = s.config.Save(loadedPath)
	}
	s.mu.Unlock()

	if err != nil {
		client.send <- WSMessage{Type: "save_status", Payload: json.RawMessage(fmt.Sprintf(`{"status":"error","message":%q}`, err.Error()))}
		return
	}

	// push updated config back to client so UI is in sync
	s.sendConfig(client)

	client.send <- WSMessage{Type: "save_status", Payload: json.RawMessage(`{"status":"success","message":"Configuration saved."}`)}
}
