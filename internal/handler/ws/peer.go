package ws

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 32
	writeTimeout = 10 * time.Second
)

var errPeerClosed = errors.New("peer closed")

// peer is the transport handle handed to the relay engine. Outbound frames
// go through a buffered channel so the engine's event loop never blocks on
// a slow client; the write pump serializes frame writes with keepalive
// pings on a single goroutine, as the websocket connection requires.
type peer struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func newPeer(conn *websocket.Conn) *peer {
	return &peer{
		conn: conn,
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send enqueues an outbound frame. Frames to a peer whose buffer is full
// are dropped; the client can always recover state with get_messages.
func (p *peer) Send(v any) error {
	select {
	case <-p.done:
		return errPeerClosed
	default:
	}

	select {
	case p.send <- v:
		return nil
	default:
		log.Printf("[ws] send buffer full, dropping frame")
		return nil
	}
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

// writePump drains the send queue and emits the liveness probe every ping
// interval. It never closes the connection on a missed pong; the read
// deadline enforces liveness. Exits when the peer is closed or a write
// fails.
func (p *peer) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case v := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteJSON(v); err != nil {
				log.Printf("[ws] write failed: %v", err)
				p.close()
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.close()
				return
			}
		}
	}
}
