package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

// Client is a player's connection to one duel session.
type Client interface {
	// Send delivers a message to the session. Messages arrive in the order
	// Send was called, and Send does not wait on the network.
	Send(msg multiplayer.Inbound) error

	// States delivers every snapshot the server sends.
	// It is closed when the connection ends.
	States() <-chan drop.SessionView

	// Close ends the connection. Safe to call multiple times.
	Close() error
}

// stateBuffer is how many snapshots a client queues before the UI reads them.
const stateBuffer = 16

// sendQueue is how many outbound messages a remote client buffers.
const sendQueue = 32

// ErrClientClosed is returned by Send after Close.
var ErrClientClosed = errors.New("connection closed")

// RemoteClient talks to a dropduel server over a websocket. Messages are
// written by a single goroutine in the order Send was called.
type RemoteClient struct {
	conn     *websocket.Conn
	states   chan drop.SessionView
	outbound chan []byte
	done     chan struct{}

	closeOnce sync.Once
}

// WebsocketURL builds the gateway URL for a session and player.
// http and https server addresses are mapped to ws and wss.
func WebsocketURL(server, sessionID, playerID string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server address %q: %w", server, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server address %q: scheme must be ws, wss, http or https", server)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server address %q: missing host", server)
	}
	base := strings.TrimSuffix(u.EscapedPath(), "/")
	u.RawPath = base + "/ws/" + url.PathEscape(sessionID) + "/" + url.PathEscape(playerID)
	u.Path, err = url.PathUnescape(u.RawPath)
	if err != nil {
		return "", fmt.Errorf("invalid server address %q: %w", server, err)
	}
	return u.String(), nil
}

// DialRemote connects to the server's websocket gateway.
func DialRemote(ctx context.Context, server, sessionID, playerID string) (*RemoteClient, error) {
	wsURL, err := WebsocketURL(server, sessionID, playerID)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", wsURL, err)
	}

	c := &RemoteClient{
		conn:     conn,
		states:   make(chan drop.SessionView, stateBuffer),
		outbound: make(chan []byte, sendQueue),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

// writeLoop is the only writer of data frames. A failed write closes the
// connection, which ends readLoop and the state channel.
func (c *RemoteClient) writeLoop() {
	for {
		select {
		case data := <-c.outbound:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *RemoteClient) readLoop() {
	defer close(c.states)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		out, err := multiplayer.DecodeOutbound(data)
		if err != nil {
			continue
		}
		select {
		case c.states <- out.Data:
		case <-c.done:
			return
		}
	}
}

// Send encodes msg and queues it for writing. It does not block on the
// network, so it is safe to call from a Bubble Tea Update.
func (c *RemoteClient) Send(msg multiplayer.Inbound) error {
	data, err := multiplayer.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.outbound <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return errors.New("send queue full")
	}
}

// States returns the snapshot channel.
func (c *RemoteClient) States() <-chan drop.SessionView {
	return c.states
}

// Close closes the websocket.
func (c *RemoteClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		// WriteControl may run concurrently with writeLoop.
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}

// LocalClient plays through an in-process coordinator. SSH sessions use it.
type LocalClient struct {
	conn   *multiplayer.Conn
	sink   *multiplayer.ChannelSink
	states chan drop.SessionView

	closeOnce sync.Once
}

// NewLocalClient connects playerID to a session on coord.
func NewLocalClient(coord *multiplayer.Coordinator, sessionID multiplayer.SessionID, playerID multiplayer.PlayerID) *LocalClient {
	sink := multiplayer.NewChannelSink(stateBuffer)
	c := &LocalClient{
		sink:   sink,
		states: make(chan drop.SessionView, stateBuffer),
	}
	go c.forward()
	c.conn = coord.Connect(sessionID, playerID, sink)
	return c
}

func (c *LocalClient) forward() {
	defer close(c.states)
	for {
		select {
		case msg := <-c.sink.Events():
			select {
			case c.states <- msg.Data:
			case <-c.sink.Done():
				return
			}
		case <-c.sink.Done():
			return
		}
	}
}

// Send applies msg to the session.
func (c *LocalClient) Send(msg multiplayer.Inbound) error {
	select {
	case <-c.sink.Done():
		return ErrClientClosed
	default:
	}
	c.conn.Handle(msg)
	return nil
}

// States returns the snapshot channel.
func (c *LocalClient) States() <-chan drop.SessionView {
	return c.states
}

// Close leaves the session.
func (c *LocalClient) Close() error {
	c.closeOnce.Do(func() {
		c.conn.Close()
		c.sink.Close()
	})
	return nil
}
