package progress

import (
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// Handler is called for every event received from a hub.
type Handler func(ev Event)

// Client follows the progress stream of a running ingest.
type Client struct {
	conn     *websocket.Conn
	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// Dial connects to a hub at url (ws://host:port/path) and delivers events to handler
// until the stream closes.
func Dial(url string, handler Handler) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to progress stream: %w", err)
	}

	c := &Client{
		conn:     conn,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.listen(handler)
	return c, nil
}

// listen reads messages from the WebSocket
func (c *Client) listen(handler Handler) {
	defer close(c.done)
	defer c.conn.Close()

	for {
		select {
		case <-c.stopChan:
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				return
			}

			var ev Event
			if err := sonic.Unmarshal(message, &ev); err != nil {
				continue
			}
			handler(ev)
		}
	}
}

// Done is closed when the stream ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close stops listening and closes the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.stopChan:
		return
	default:
	}
	close(c.stopChan)
	c.conn.Close()
	<-c.done
}
