package multiplayer

import "sync"

// Sink is the transport-neutral outbound side of one connection.
// It lets the hub and coordinator publish snapshots without depending on
// websockets or Bubble Tea.
type Sink interface {
	// Send queues a message for the connection.
	// Must be non-blocking; implementations should use buffered channels.
	Send(msg Outbound)

	// Done returns a channel that closes when the connection ends.
	Done() <-chan struct{}
}

// ChannelSink is a Sink backed by a buffered Go channel.
// Transports drain Events() and write each message to their connection.
type ChannelSink struct {
	events   chan Outbound
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSink creates a channel-backed sink.
// bufferSize controls how many messages can queue before the oldest is dropped.
func NewChannelSink(bufferSize int) *ChannelSink {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelSink{
		events: make(chan Outbound, bufferSize),
		done:   make(chan struct{}),
	}
}

// Send queues msg. Every message is a full snapshot, so when the buffer is
// full the oldest queued snapshot is discarded in favour of the new one.
func (s *ChannelSink) Send(msg Outbound) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- msg:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- msg:
		default:
		}
	}
}

// Events returns the channel the transport reads from.
func (s *ChannelSink) Events() <-chan Outbound {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSink) Done() <-chan struct{} {
	return s.done
}

// Close marks the sink as finished. Safe to call multiple times.
func (s *ChannelSink) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
