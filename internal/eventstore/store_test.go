package eventstore_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/revlog/internal/domain"
	"github.com/phrazzld/revlog/internal/events"
	"github.com/phrazzld/revlog/internal/eventstore"
)

func newTestStore() *eventstore.Store {
	return eventstore.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// delivery captures a single event handed to a recording listener.
type delivery struct {
	streamID uuid.UUID
	event    events.Event
}

// recorder collects every delivery it receives.
type recorder struct {
	deliveries []delivery
}

func (r *recorder) HandleEvent(streamID uuid.UUID, event events.Event) error {
	r.deliveries = append(r.deliveries, delivery{streamID: streamID, event: event})
	return nil
}

func TestRecordAssignsPerStreamVersions(t *testing.T) {
	t.Parallel()
	store := newTestStore()
	streamA := uuid.New()
	streamB := uuid.New()

	v, err := store.Record(streamA, events.CardEdited{CardFields: map[string]string{"question": "q"}})
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = store.Record(streamB, events.CardEdited{CardFields: map[string]string{"question": "q2"}})
	require.NoError(t, err)
	assert.Equal(t, 1, v, "a new stream starts its own version counter")

	v, err = store.Record(streamA, events.CardReviewed{Score: domain.ScoreGood, NextDueDate: 1, Interval: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	assert.Equal(t, 3, store.Count())
	assert.Equal(t, 2, store.Version(streamA))
	assert.Equal(t, 1, store.Version(streamB))
	assert.Equal(t, 0, store.Version(uuid.New()), "an unwritten stream is at version zero")
}

func TestRecordWithVersionRejectsStaleVersion(t *testing.T) {
	t.Parallel()
	store := newTestStore()
	stream := uuid.New()

	_, err := store.RecordWithVersion(stream, events.CardEdited{CardFields: map[string]string{"question": "q"}}, 0)
	require.NoError(t, err)

	// Stale expected version: the stream moved on to version 1.
	_, err = store.RecordWithVersion(stream, events.CardReviewed{Score: domain.ScoreGood}, 0)
	require.ErrorIs(t, err, eventstore.ErrWrongVersion)

	assert.Equal(t, 1, store.Count(), "a rejected record must append nothing")
	assert.Equal(t, 1, store.Version(stream))

	// The correct expected version succeeds.
	_, err = store.RecordWithVersion(stream, events.CardReviewed{Score: domain.ScoreGood}, 1)
	require.NoError(t, err)
}

func TestSubscribeCatchUpIsCompleteAndExactlyOnce(t *testing.T) {
	t.Parallel()
	store := newTestStore()
	stream := uuid.New()

	edits := []events.Event{
		events.CardEdited{CardFields: map[string]string{"question": "one"}},
		events.CardEdited{CardFields: map[string]string{"question": "two"}},
		events.CardEdited{CardFields: map[string]string{"question": "three"}},
	}
	for _, e := range edits {
		_, err := store.Record(stream, e)
		require.NoError(t, err)
	}

	rec := &recorder{}
	require.NoError(t, store.Subscribe(rec))

	require.Len(t, rec.deliveries, 3, "catch-up must deliver every prior commit exactly once")
	for i, d := range rec.deliveries {
		assert.Equal(t, stream, d.streamID)
		assert.Equal(t, edits[i], d.event, "commit order must be preserved")
	}

	// Live delivery after catch-up.
	live := events.CardReviewed{Score: domain.ScoreGood, NextDueDate: 1, Interval: 1}
	_, err := store.Record(stream, live)
	require.NoError(t, err)

	require.Len(t, rec.deliveries, 4)
	assert.Equal(t, live, rec.deliveries[3].event)
}

func TestSubscriberNotifiedInSubscriptionOrder(t *testing.T) {
	t.Parallel()
	store := newTestStore()

	var order []string
	first := eventstore.ListenerFunc(func(uuid.UUID, events.Event) error {
		order = append(order, "first")
		return nil
	})
	second := eventstore.ListenerFunc(func(uuid.UUID, events.Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, store.Subscribe(first))
	require.NoError(t, store.Subscribe(second))

	_, err := store.Record(uuid.New(), events.ModelNamed{Name: "basic"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestListenerErrorPropagatesToWriter(t *testing.T) {
	t.Parallel()
	store := newTestStore()
	boom := errors.New("listener exploded")

	require.NoError(t, store.Subscribe(eventstore.ListenerFunc(func(uuid.UUID, events.Event) error {
		return boom
	})))

	stream := uuid.New()
	_, err := store.Record(stream, events.ModelNamed{Name: "basic"})
	require.ErrorIs(t, err, boom)

	// The commit itself is already applied when fan-out fails.
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, 1, store.Version(stream))
}

func TestConcurrentAppendsToDistinctStreams(t *testing.T) {
	t.Parallel()
	store := newTestStore()

	const perStream = 50
	streams := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	for _, stream := range streams {
		wg.Add(1)
		go func(stream uuid.UUID) {
			defer wg.Done()
			for i := 0; i < perStream; i++ {
				_, err := store.RecordWithVersion(stream, events.CardEdited{
					CardFields: map[string]string{"question": fmt.Sprintf("q%d", i)},
				}, i)
				assert.NoError(t, err)
			}
		}(stream)
	}
	wg.Wait()

	assert.Equal(t, len(streams)*perStream, store.Count())
	for _, stream := range streams {
		assert.Equal(t, perStream, store.Version(stream))
	}
}
