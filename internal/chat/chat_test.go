package chat

import (
	"io"
	"log/slog"
	"sync"
)

// stubSink records everything the coordinator sends to a connection.
type stubSink struct {
	mu     sync.Mutex
	events []recordedEvent
	full   bool // simulate a saturated send buffer
}

type recordedEvent struct {
	Name string
	Data any
}

func (s *stubSink) Send(event string, data any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return false
	}
	s.events = append(s.events, recordedEvent{Name: event, Data: data})
	return true
}

func (s *stubSink) named(event string) []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedEvent
	for _, e := range s.events {
		if e.Name == event {
			out = append(out, e)
		}
	}
	return out
}

func (s *stubSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

func newTestCoordinator(opts Options) *Coordinator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCoordinator(logger, DefaultCatalog(), opts)
}
