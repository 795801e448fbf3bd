package eventstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/revlog/internal/events"
)

// ErrWrongVersion is returned when a caller's expected stream version does
// not match the stream's current version. It signals a lost-update race:
// the caller must reload current state and retry the command, or treat the
// mismatch as a genuine conflict.
var ErrWrongVersion = errors.New("wrong event version")

// Listener receives events from the store, both during catch-up replay and
// live delivery. A listener error propagates back to the writer; the store
// does not isolate listener failures.
type Listener interface {
	HandleEvent(streamID uuid.UUID, event events.Event) error
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(streamID uuid.UUID, event events.Event) error

// HandleEvent implements Listener.
func (f ListenerFunc) HandleEvent(streamID uuid.UUID, event events.Event) error {
	return f(streamID, event)
}

// Commit is the unit stored in the log: an event bound to the stream (card
// or model aggregate) it belongs to.
type Commit struct {
	StreamID uuid.UUID
	Data     events.Event
}

// Store is the append-only event log.
//
// Versions are per-stream monotonic counters: a stream's version equals
// the number of commits recorded for that stream, and a never-written
// stream is at version zero.
type Store struct {
	logger *slog.Logger

	mu          sync.Mutex
	commits     []Commit
	versions    map[uuid.UUID]int
	subscribers []Listener
}

// New creates an empty event store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:   logger.With(slog.String("component", "eventstore")),
		versions: map[uuid.UUID]int{},
	}
}

// Record appends an event to the given stream without an optimistic
// concurrency check. Skipping the check is permitted but disables the
// lost-update guarantee for this call, so the store flags it.
func (s *Store) Record(streamID uuid.UUID, event events.Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Warn("recording without expected version; optimistic concurrency check skipped",
		slog.String("stream_id", streamID.String()),
		slog.String("event", event.Kind()))

	return s.append(streamID, event)
}

// RecordWithVersion appends an event to the given stream if and only if
// the stream is currently at expectedVersion. On a mismatch it returns
// ErrWrongVersion and appends nothing.
func (s *Store) RecordWithVersion(
	streamID uuid.UUID,
	event events.Event,
	expectedVersion int,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current := s.versions[streamID]; current != expectedVersion {
		return 0, fmt.Errorf("%w: stream %s is at version %d, expected %d",
			ErrWrongVersion, streamID, current, expectedVersion)
	}

	return s.append(streamID, event)
}

// append applies a commit and fans it out. Callers must hold s.mu.
func (s *Store) append(streamID uuid.UUID, event events.Event) (int, error) {
	s.commits = append(s.commits, Commit{StreamID: streamID, Data: event})

	version := s.versions[streamID] + 1
	s.versions[streamID] = version

	// Synchronous fan-out, in subscription order. The commit is already
	// applied at this point; a listener error surfaces to the writer but
	// does not unwind the append.
	for _, listener := range s.subscribers {
		if err := listener.HandleEvent(streamID, event); err != nil {
			return 0, fmt.Errorf("deliver %s to subscriber: %w", event.Kind(), err)
		}
	}

	return version, nil
}

// Subscribe replays every commit recorded so far into the listener, in
// original order, then adds it to the live subscriber set. The replay and
// the transition to live delivery happen under the store's lock, so no
// commit is ever delivered twice or skipped even when appends race with
// the subscription.
func (s *Store) Subscribe(listener Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, commit := range s.commits {
		if err := listener.HandleEvent(commit.StreamID, commit.Data); err != nil {
			return fmt.Errorf("replay %s to subscriber: %w", commit.Data.Kind(), err)
		}
	}

	s.subscribers = append(s.subscribers, listener)
	return nil
}

// Count returns the total number of commits recorded so far.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commits)
}

// Version returns the given stream's current version: the number of
// commits recorded for it. A stream with no commits is at version zero.
func (s *Store) Version(streamID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[streamID]
}
