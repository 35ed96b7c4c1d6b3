package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roadassist/internal/shared/jwt"
	"roadassist/internal/shared/util"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	authTimeout  = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type wsResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// client serializes all writes to one websocket connection. The gorilla
// package allows at most one concurrent writer, and Send, the auth replies
// and the keepalive ticker all run on different goroutines.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, []byte{})
}

func (c *client) close() {
	_ = c.conn.Close()
}

// Hub tracks one live websocket connection per user. A second connection for
// the same user replaces the first.
type Hub struct {
	conns  map[string]*client
	mu     sync.RWMutex
	secret []byte
	logger *util.Logger
}

func NewHub(secret []byte, logger *util.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]*client),
		secret: secret,
		logger: logger,
	}
}

// Send pushes a message to the user's connection if one is open. A dead
// connection is dropped from the hub. Safe for any number of concurrent
// callers.
func (h *Hub) Send(userID string, message interface{}) error {
	h.mu.RLock()
	cl, ok := h.conns[userID]
	h.mu.RUnlock()

	if !ok {
		return nil
	}

	if err := cl.writeJSON(message); err != nil {
		h.unregister(userID, cl)
		return err
	}
	return nil
}

func (h *Hub) register(userID string, cl *client) {
	h.mu.Lock()
	if old, ok := h.conns[userID]; ok && old != cl {
		old.close()
	}
	h.conns[userID] = cl
	h.mu.Unlock()
}

func (h *Hub) unregister(userID string, cl *client) {
	h.mu.Lock()
	if h.conns[userID] == cl {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and waits for an auth message carrying a
// Bearer token before registering the connection. The route is mounted
// outside the HTTP auth middleware because browsers cannot set headers on
// websocket dials.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	instance := "Hub.ServeWS"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(instance, "upgrade failed: "+err.Error())
		return
	}
	cl := &client{conn: conn}
	defer cl.close()

	userID, ok := h.awaitAuth(cl)
	if !ok {
		return
	}

	h.register(userID, cl)
	defer h.unregister(userID, cl)
	_ = cl.writeJSON(wsResponse{Type: "auth_success", Message: "authenticated"})

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		}
	}
}

func (h *Hub) awaitAuth(cl *client) (string, bool) {
	authCh := make(chan string, 1)

	go func() {
		for {
			_, msg, err := cl.conn.ReadMessage()
			if err != nil {
				return
			}
			var auth authMessage
			if err := json.Unmarshal(msg, &auth); err != nil {
				continue
			}
			if auth.Type == "auth" {
				authCh <- auth.Token
				return
			}
		}
	}()

	select {
	case token := <-authCh:
		userID, err := h.validateToken(token)
		if err != nil {
			_ = cl.writeJSON(wsResponse{Type: "error", Message: "invalid token"})
			return "", false
		}
		return userID, true
	case <-time.After(authTimeout):
		_ = cl.writeJSON(wsResponse{Type: "error", Message: "auth timeout"})
		return "", false
	}
}

func (h *Hub) validateToken(header string) (string, error) {
	token := header
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		token = parts[1]
	}

	claims, err := jwt.Parse(h.secret, token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
