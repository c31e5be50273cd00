package hub

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 3 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = 20 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 25 * time.Second

	// websocket max message size to read. Clients send no operations over
	// the socket (inbound operations are plain HTTP calls), only pongs.
	readLimit = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the CORS layer
	},
}

// wsFrame is the websocket wire shape for one event.
type wsFrame struct {
	Event domain.EventType `json:"event"`
	Data  any              `json:"data"`
}

// ServeWS streams the user's events over a websocket connection. The read
// pump exists only to detect disconnects and answer pings; all inbound
// operations go through the regular HTTP API.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userId domain.UserId) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		logger.Log.Warn("websocket upgrade failed", "component", "hub", "user_id", userId, "error", err)
		return
	}

	sub := h.Subscribe(userId)

	logger.Log.Info("websocket opened", "component", "hub", "user_id", userId)

	done := make(chan struct{})
	go readLoop(conn, done)

	writeLoop(conn, sub, done, r)

	h.Unsubscribe(sub)
	conn.Close()
	logger.Log.Info("websocket closed", "component", "hub", "user_id", userId)
}

func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeLoop(conn *websocket.Conn, sub *Connection, done <-chan struct{}, r *http.Request) {
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok { // hub shut down
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsFrame{Event: event.Type, Data: event.Payload}); err != nil {
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done: // read pump saw a disconnect
			return
		case <-r.Context().Done():
			return
		}
	}
}
