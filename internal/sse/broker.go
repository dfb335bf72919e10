// Package sse implements a Server-Sent Events broker that tells open
// dashboards when the dataset was reloaded.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// EventDatasetReloaded is sent after the dataset was swapped.
const EventDatasetReloaded = "dataset.reloaded"

const (
	clientBuffer     = 16
	defaultThrottle  = 2 * time.Second
	defaultKeepAlive = 25 * time.Second
)

// Event is a named SSE message. Data is JSON-encoded.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ReloadInfo describes a swapped dataset.
type ReloadInfo struct {
	Records  int    `json:"records"`
	Checksum string `json:"checksum"`
}

type subscription struct {
	ch chan []byte
	// lastID is the Last-Event-ID the client reconnected with, or 0.
	lastID uint64
}

// Broker fans reload notifications out to connected dashboards.
//
// A single loop goroutine owns the client set, the event sequence and the
// throttle state; public methods talk to it over channels. Reloads closer
// together than the throttle are coalesced and the latest is delivered when
// the window closes. A client that reconnects with a Last-Event-ID older
// than the latest reload is sent that reload immediately.
type Broker struct {
	throttle  time.Duration
	keepAlive time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	reloadCh      chan ReloadInfo
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker. A non-positive throttle uses the default.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = defaultThrottle
	}

	b := &Broker{
		throttle:      throttle,
		keepAlive:     defaultKeepAlive,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 64),
		reloadCh:      make(chan ReloadInfo, 16),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

// encode renders one SSE frame.
func encode(id uint64, ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %d\nevent: %s\ndata: %s\n\n", id, ev.Type, payload), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		seq        uint64
		lastReload time.Time
		latest     []byte
		latestID   uint64
		pending    *ReloadInfo
		flushTimer *time.Timer
		flushCh    <-chan time.Time
	)

	send := func(ch chan []byte, frame []byte) {
		select {
		case ch <- frame:
		default:
			// Slow client; it will catch up on the next reload.
		}
	}

	broadcast := func(ev Event) []byte {
		seq++
		frame, err := encode(seq, ev)
		if err != nil {
			return nil
		}
		for ch := range clients {
			send(ch, frame)
		}
		return frame
	}

	announce := func(info ReloadInfo) {
		lastReload = time.Now()
		if frame := broadcast(Event{Type: EventDatasetReloaded, Data: info}); frame != nil {
			latest, latestID = frame, seq
		}
	}

	for {
		select {
		case <-b.stopCh:
			if flushTimer != nil {
				flushTimer.Stop()
			}
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			clients[sub.ch] = struct{}{}
			if sub.lastID > 0 && sub.lastID < latestID {
				send(sub.ch, latest)
			}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			broadcast(ev)

		case info := <-b.reloadCh:
			if wait := b.throttle - time.Since(lastReload); wait > 0 {
				pending = &info
				if flushTimer == nil {
					flushTimer = time.NewTimer(wait)
					flushCh = flushTimer.C
				}
				continue
			}
			announce(info)

		case <-flushCh:
			flushTimer, flushCh = nil, nil
			if pending != nil {
				announce(*pending)
				pending = nil
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client. lastID is the id of the last event the
// client saw, or 0 for a fresh connection.
func (b *Broker) Subscribe(lastID uint64) chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- subscription{ch: ch, lastID: lastID}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to every client without throttling.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// PublishReload announces a dataset swap, subject to the throttle.
func (b *Broker) PublishReload(info ReloadInfo) {
	if b.closed.Load() {
		return
	}
	select {
	case b.reloadCh <- info:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to one dashboard (GET /api/events). A comment
// line is written periodically so idle proxies keep the stream open.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	lastID, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", b.throttle.Milliseconds())
	flusher.Flush()

	ch := b.Subscribe(lastID)
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(b.keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": keep-alive\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
