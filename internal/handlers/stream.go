package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Broadcaster fans a payload-free wake-up out to every connected sync
// client. Channels are buffered one deep so a slow reader collapses a
// burst of notifications into a single pending wake-up instead of
// blocking the mutation path.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[chan struct{}]struct{})}
}

// Notify wakes every subscriber. It never blocks.
func (broadcaster *Broadcaster) Notify() {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	for subscriber := range broadcaster.subscribers {
		select {
		case subscriber <- struct{}{}:
		default:
		}
	}
}

func (broadcaster *Broadcaster) subscribe() (chan struct{}, func()) {
	subscriber := make(chan struct{}, 1)
	broadcaster.mu.Lock()
	broadcaster.subscribers[subscriber] = struct{}{}
	broadcaster.mu.Unlock()

	return subscriber, func() {
		broadcaster.mu.Lock()
		delete(broadcaster.subscribers, subscriber)
		broadcaster.mu.Unlock()
	}
}

type StreamHandler struct {
	broadcaster *Broadcaster
}

func NewStreamHandler(broadcaster *Broadcaster) *StreamHandler {
	return &StreamHandler{broadcaster: broadcaster}
}

// Events serves the server-sent events stream. Each mutation produces an
// "event: sync" line; clients react by polling the delta endpoint rather
// than reading any payload from the stream itself.
func (handler *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	subscriber, unsubscribe := handler.broadcaster.subscribe()
	defer unsubscribe()

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-subscriber:
			fmt.Fprint(w, "event: sync\ndata: {}\n\n")
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
