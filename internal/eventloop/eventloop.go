// Package eventloop implements the program's single-threaded event loop
// (component L, collaborator-facing skeleton only): a buffered channel
// fed by two producer goroutines (terminal input, SIGWINCH resize
// notifications), drained in FIFO order, rendering at most once per
// drain so a batch of pasted input coalesces into a single redraw.
//
// The fan-out mechanism — Bus — is adapted unchanged in shape from the
// teacher's internal/bus/bus.go: Message replaces types.Message and
// MessageKind replaces types.MessageType as the subscription key. This
// Message type is defined at the UI boundary only; core components (the
// task database, tag catalog, views, undo log, search cursor) expose
// plain methods and never see one.
//
// Grounded on _examples/haricheung-agentic-shell/internal/bus/bus.go
// (pub/sub shape), .../cmd/agsh/main.go (goroutine-per-producer wiring,
// context.WithCancel, signal.Notify) and original_source/src/event.rs,
// src/resize.rs (FIFO input channel, drain-until-empty-then-render-once
// discipline). resize.rs bounces SIGWINCH off a self-pipe to stay
// async-signal-safe before waking a normal thread; Go's signal.Notify
// already delivers on an ordinary goroutine; no self-pipe is needed here.
package eventloop

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// MessageKind tags the kind of event a Message carries.
type MessageKind int

const (
	// KeyInput carries a single decoded key press.
	KeyInput MessageKind = iota
	// Resize signals that the terminal size changed; the renderer queries
	// the new size itself rather than carrying it on the message.
	Resize
	// Render requests a redraw. Never produced by a reader goroutine —
	// only synthesized by Loop itself once per drained batch.
	Render
)

func (k MessageKind) String() string {
	switch k {
	case KeyInput:
		return "key"
	case Resize:
		return "resize"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Message is the tagged-union event type used at the UI boundary.
type Message struct {
	Kind MessageKind
	// Key is the decoded key press; valid when Kind == KeyInput.
	Key rune
}

const (
	subscriberBufSize = 64
	tapBufSize        = 256
)

// Bus fans out published messages to per-kind subscribers and to taps
// that receive everything, exactly like the teacher's internal/bus.Bus.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[MessageKind][]chan Message
	taps        []chan Message
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[MessageKind][]chan Message)}
}

// Publish fans out msg to all subscribers of msg.Kind and to all taps.
// Non-blocking: a full channel drops the message with a logged warning
// rather than stalling the publisher.
func (b *Bus) Publish(msg Message) {
	b.mu.RLock()
	subs := b.subscribers[msg.Kind]
	taps := b.taps
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
			log.Printf("[EVENTLOOP] subscriber channel full for kind=%s — message dropped", msg.Kind)
		}
	}
	for _, tap := range taps {
		select {
		case tap <- msg:
		default:
			log.Printf("[EVENTLOOP] tap channel full — message dropped kind=%s", msg.Kind)
		}
	}
}

// Subscribe returns a receive-only channel delivering messages of kind k.
// Each call creates a new independent subscriber channel.
func (b *Bus) Subscribe(k MessageKind) <-chan Message {
	ch := make(chan Message, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[k] = append(b.subscribers[k], ch)
	b.mu.Unlock()
	return ch
}

// Tap returns a read-only channel that receives every published message
// regardless of kind, for a status or debug view running alongside the
// primary UI.
func (b *Bus) Tap() <-chan Message {
	ch := make(chan Message, tapBufSize)
	b.mu.Lock()
	b.taps = append(b.taps, ch)
	b.mu.Unlock()
	return ch
}

// KeyReader decodes terminal input into individual key presses. cmd/notnow
// satisfies it with a wrapper that reads whole lines through
// github.com/chzyer/readline and yields them rune by rune; kept as an
// interface so Loop.Run can be driven by a test double.
type KeyReader interface {
	ReadKey() (rune, error)
}

// Loop drains a single buffered channel fed by a KeyReader goroutine and
// a SIGWINCH-watching goroutine, publishing each event to a Bus in FIFO
// order and following every drained batch with exactly one Render.
type Loop struct {
	bus    *Bus
	events chan Message
}

// NewLoop creates a Loop publishing to bus, buffering up to bufSize
// pending events before a producer blocks.
func NewLoop(bus *Bus, bufSize int) *Loop {
	return &Loop{bus: bus, events: make(chan Message, bufSize)}
}

// Run starts the input-reader and resize-watcher producer goroutines and
// drains events until ctx is canceled.
func (l *Loop) Run(ctx context.Context, reader KeyReader) {
	go l.readKeys(ctx, reader)
	go l.watchResize(ctx)
	l.drain(ctx)
}

// drain is the loop itself: block for the first event of a batch, then
// greedily publish whatever else is already queued without blocking, then
// publish a single Render — so a terminal paste or a burst of resize
// signals produces one redraw, not one per event.
func (l *Loop) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-l.events:
			l.bus.Publish(msg)
			l.drainPending()
			l.bus.Publish(Message{Kind: Render})
		}
	}
}

func (l *Loop) drainPending() {
	for {
		select {
		case msg := <-l.events:
			l.bus.Publish(msg)
		default:
			return
		}
	}
}

func (l *Loop) readKeys(ctx context.Context, reader KeyReader) {
	for {
		key, err := reader.ReadKey()
		if err != nil {
			return
		}
		select {
		case l.events <- Message{Kind: KeyInput, Key: key}:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) watchResize(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			select {
			case l.events <- Message{Kind: Resize}:
			case <-ctx.Done():
				return
			}
		}
	}
}
