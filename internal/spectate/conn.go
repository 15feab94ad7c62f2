package spectate

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Conn is one spectator's websocket.
type Conn struct {
	ws     *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	finish chan struct{}
	once   sync.Once
	fonce  sync.Once
	ID     string
	logger *log.Logger
}

func newConn(ws *websocket.Conn, id string, logger *log.Logger) *Conn {
	return &Conn{
		ws:     ws,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		finish: make(chan struct{}),
		ID:     id,
		logger: logger,
	}
}

// Send queues data. A full buffer drops the frame; the next snapshot
// carries the whole state anyway.
func (c *Conn) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendCh <- data:
		return true
	default:
		c.logger.Debug("send buffer full, dropping frame", "conn", c.ID)
		return false
	}
}

// WriteLoop writes queued frames until the connection closes.
func (c *Conn) WriteLoop(ctx context.Context) {
	for {
		select {
		case data := <-c.sendCh:
			if !c.write(ctx, data) {
				return
			}
		case <-c.finish:
			c.flush(ctx)
			c.Close()
			return
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Conn) write(ctx context.Context, data []byte) bool {
	ctx2, cancel := context.WithTimeout(ctx, writeTimeout)
	err := c.ws.Write(ctx2, websocket.MessageText, data)
	cancel()
	if err != nil {
		c.logger.Debug("write error", "conn", c.ID, "err", err)
		c.Close()
		return false
	}
	return true
}

func (c *Conn) flush(ctx context.Context) {
	for {
		select {
		case data := <-c.sendCh:
			if !c.write(ctx, data) {
				return
			}
		default:
			return
		}
	}
}

// Finish closes the connection once queued frames are written.
func (c *Conn) Finish() {
	c.fonce.Do(func() {
		close(c.finish)
	})
}

// Close closes the connection immediately.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close(websocket.StatusNormalClosure, "")
	})
}

// Done is closed when the connection is gone.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}
