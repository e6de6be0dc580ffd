package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/unpossible/internal/core/observability/log"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func newClient(conn *websocket.Conn, buffer int) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// writePump owns all writes to the connection.
func (c *client) writePump(timeout time.Duration, logger log.Log) {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("write failed", log.String("remote", c.conn.RemoteAddr().String()), log.Err(err))
				c.stop()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

// readPump drains client messages so control frames are processed. Clients
// only listen; anything they send is ignored.
func (c *client) readPump() {
	defer c.stop()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// room fans frames out to the clients watching one world. The room keyed by
// the empty name receives every world.
type room struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
}

func newRoom() *room {
	return &room{clients: make(map[*client]struct{})}
}

func (r *room) join(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
	if r.latest != nil {
		c.send <- r.latest
	}
}

func (r *room) leave(c *client) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
}

// broadcast queues msg for every client without blocking. A client whose
// buffer is full is disconnected.
func (r *room) broadcast(msg []byte) (dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = msg
	for c := range r.clients {
		select {
		case c.send <- msg:
		default:
			delete(r.clients, c)
			c.stop()
			dropped++
		}
	}
	return dropped
}

func (r *room) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *room) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.stop()
		delete(r.clients, c)
	}
}
