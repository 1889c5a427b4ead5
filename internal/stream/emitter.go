// Package stream serializes run progress as newline-delimited JSON events.
// Events are ordered, writes are serialized, and every stream ends with
// exactly one terminal event.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/biocracy/urbanous/internal/domain"
)

// Emitter writes tagged events to a long-lived client connection.
// Safe for concurrent use; events from concurrent outlets interleave
// whole-line, never mid-record.
type Emitter struct {
	mu       sync.Mutex
	w        io.Writer
	flusher  http.Flusher
	lastSent time.Time
	closed   bool

	pingEvery time.Duration
	stopPing  chan struct{}
	pingOnce  sync.Once
	termOnce  sync.Once
}

// NewEmitter wraps w. If w implements http.Flusher each event is flushed
// immediately so the client sees progress in real time.
func NewEmitter(w io.Writer, pingEvery time.Duration) *Emitter {
	e := &Emitter{
		w:         w,
		pingEvery: pingEvery,
		lastSent:  time.Now(),
		stopPing:  make(chan struct{}),
	}
	if f, ok := w.(http.Flusher); ok {
		e.flusher = f
	}
	return e
}

// StartPings begins the keep-alive loop: whenever no event has been written
// for the configured idle interval, a ping is inserted. Stops on Finish.
func (e *Emitter) StartPings() {
	if e.pingEvery <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(e.pingEvery / 2)
		defer ticker.Stop()
		for {
			select {
			case <-e.stopPing:
				return
			case <-ticker.C:
				e.pingIfIdle()
			}
		}
	}()
}

func (e *Emitter) pingIfIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || time.Since(e.lastSent) < e.pingEvery {
		return
	}
	e.write(domain.StreamEvent{Type: domain.EventPing})
}

// Log emits a human-readable progress line.
func (e *Emitter) Log(format string, args ...any) {
	e.emit(domain.StreamEvent{Type: domain.EventLog, Message: fmt.Sprintf(format, args...)})
}

// Partial emits an incremental batch of articles for one outlet.
func (e *Emitter) Partial(articles []domain.ArticleRecord) {
	e.emit(domain.StreamEvent{Type: domain.EventPartial, Articles: articles})
}

// Data emits a final consolidated batch of articles.
func (e *Emitter) Data(articles []domain.ArticleRecord) {
	e.emit(domain.StreamEvent{Type: domain.EventData, Articles: articles})
}

// Timeline emits the per-outlet timing breakdown.
func (e *Emitter) Timeline(source string, events []domain.TimelineEvent) {
	e.emit(domain.StreamEvent{Type: domain.EventTimeline, Source: source, Events: events})
}

// Error emits a non-fatal error; the stream continues.
func (e *Emitter) Error(format string, args ...any) {
	e.emit(domain.StreamEvent{Type: domain.EventError, Message: fmt.Sprintf(format, args...)})
}

// Finish terminates the stream: done on nil, a terminal error otherwise.
// Only the first call emits; the stream accepts nothing afterwards.
func (e *Emitter) Finish(err error) {
	e.termOnce.Do(func() {
		e.mu.Lock()
		if err != nil {
			e.write(domain.StreamEvent{Type: domain.EventError, Message: err.Error()})
		} else {
			e.write(domain.StreamEvent{Type: domain.EventDone})
		}
		e.closed = true
		e.mu.Unlock()
		e.pingOnce.Do(func() { close(e.stopPing) })
	})
}

func (e *Emitter) emit(ev domain.StreamEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.write(ev)
}

// write assumes e.mu is held.
func (e *Emitter) write(ev domain.StreamEvent) {
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if _, err := e.w.Write(append(line, '\n')); err != nil {
		return
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	e.lastSent = time.Now()
}
