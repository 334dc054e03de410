// Package mirror shares the current page read-only with viewers on the local
// network. Frames are PNG images pushed over websockets; the service is
// advertised over mDNS.
package mirror

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"LocalFlipbook/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	queueDepth = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	// Viewers open the share link from any host on the LAN.
	CheckOrigin: func(*http.Request) bool { return true },
}

// viewer is one connected websocket. send is drained by writeLoop.
type viewer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected viewer.
type Hub struct {
	mu      sync.Mutex
	viewers map[*viewer]struct{}
	latest  []byte
	closed  bool
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{viewers: make(map[*viewer]struct{})}
}

// ServeHTTP upgrades the request and registers the connection as a viewer.
// The viewer immediately receives the latest frame, if any.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	v := &viewer{conn: conn, send: make(chan []byte, queueDepth)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.viewers[v] = struct{}{}
	if h.latest != nil {
		v.send <- h.latest
	}
	n := len(h.viewers)
	h.mu.Unlock()

	logging.Logger().Info("viewer connected", "remote", r.RemoteAddr, "viewers", n)
	go h.writeLoop(v)
	go h.readLoop(v)
}

// Publish queues frame for every viewer. Viewers whose queue is full skip
// the frame.
func (h *Hub) Publish(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = frame
	for v := range h.viewers {
		select {
		case v.send <- frame:
		default:
			logging.Logger().Debug("viewer lagging, frame dropped", "remote", v.conn.RemoteAddr().String())
		}
	}
}

// Latest returns the most recently published frame, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for v := range h.viewers {
		close(v.send)
		delete(h.viewers, v)
	}
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
		logging.Logger().Info("viewer disconnected", "remote", v.conn.RemoteAddr().String(), "viewers", len(h.viewers))
	}
}

func (h *Hub) writeLoop(v *viewer) {
	defer v.conn.Close()
	for frame := range v.send {
		v.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := v.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			logging.Logger().Debug("viewer write failed", "remote", v.conn.RemoteAddr().String(), "error", err)
			h.remove(v)
			// Drain so remove's close ends the loop.
			for range v.send {
			}
			return
		}
	}
	v.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readLoop discards anything viewers send; the mirror is read-only. It
// detects disconnects.
func (h *Hub) readLoop(v *viewer) {
	for {
		if _, _, err := v.conn.NextReader(); err != nil {
			h.remove(v)
			return
		}
	}
}
