package concert

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	clientBuffer   = 16
	maxClientFrame = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans lifecycle events out to every connected websocket client. Slow
// clients whose buffer is full are disconnected.
type Hub struct {
	clients map[int64]*client
	nextID  int64
	mutex   sync.RWMutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients: make(map[int64]*client),
		log:     log,
	}
}

func (h *Hub) register(conn *websocket.Conn) (int64, *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.nextID++
	c := &client{conn: conn, send: make(chan Event, clientBuffer)}
	h.clients[h.nextID] = c
	return h.nextID, c
}

func (h *Hub) unregister(id int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, ok := h.clients[id]; ok {
		close(c.send)
		delete(h.clients, id)
	}
}

// Publish never blocks.
func (h *Hub) Publish(e Event) {
	var slow []int64

	h.mutex.RLock()
	for id, c := range h.clients {
		select {
		case c.send <- e:
		default:
			slow = append(slow, id)
		}
	}
	h.mutex.RUnlock()

	for _, id := range slow {
		h.log.WithField("client_id", id).Warn("dropping slow websocket client")
		h.unregister(id)
	}
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}

// ServeWS upgrades the request and streams events until the client goes away.
//
// Endpoint: GET /concerts/ws
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id, cl := h.register(conn)
	h.log.WithField("client_id", id).Debug("websocket client connected")

	go h.writeLoop(cl)
	h.readLoop(id, conn)

	h.unregister(id)
	h.log.WithField("client_id", id).Debug("websocket client disconnected")
}

// readLoop discards client frames and keeps the read deadline fresh via pongs.
func (h *Hub) readLoop(id int64, conn *websocket.Conn) {
	conn.SetReadLimit(maxClientFrame)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).WithField("client_id", id).Debug("websocket read error")
			}
			return
		}
	}
}

// writeLoop is the only writer on conn; it owns closing it.
func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case e, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
