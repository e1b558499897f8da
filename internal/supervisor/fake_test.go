package supervisor

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/transport"
)

// memoryLog is an in-memory stream log with numeric entry ids.
type memoryLog struct {
	mu        sync.Mutex
	streams   map[string][]transport.Entry
	dials     int
	failDials int
	readErr   error
}

func newMemoryLog() *memoryLog {
	return &memoryLog{streams: map[string][]transport.Entry{}}
}

func (l *memoryLog) add(stream string, id int, values ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := transport.Entry{ID: strconv.Itoa(id)}
	for i, v := range values {
		entry.Fields = append(entry.Fields, transport.Field{Name: strconv.Itoa(i), Value: v})
	}
	l.streams[stream] = append(l.streams[stream], entry)
}

func (l *memoryLog) Dial(ctx context.Context) (transport.Transport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dials++
	if l.failDials > 0 {
		l.failDials--
		return nil, &transport.Error{Op: "dial", Cause: errors.New("connection refused")}
	}
	return &memoryTransport{log: l}, nil
}

func (l *memoryLog) dialCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dials
}

type memoryTransport struct {
	log *memoryLog
}

func (t *memoryTransport) Read(ctx context.Context, cursors []transport.Cursor, block time.Duration) ([]transport.Stream, error) {
	deadline := time.Now().Add(block)
	for {
		streams, err := t.read(cursors)
		if err != nil || len(streams) > 0 {
			return streams, err
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (t *memoryTransport) read(cursors []transport.Cursor) ([]transport.Stream, error) {
	t.log.mu.Lock()
	defer t.log.mu.Unlock()
	if t.log.readErr != nil {
		err := t.log.readErr
		t.log.readErr = nil
		return nil, &transport.Error{Op: "read", Cause: err}
	}
	var res []transport.Stream
	for _, c := range cursors {
		after, _ := strconv.Atoi(c.ID)
		var entries []transport.Entry
		for _, e := range t.log.streams[c.Stream] {
			if id, _ := strconv.Atoi(e.ID); id > after {
				entries = append(entries, e)
			}
		}
		if len(entries) > 0 {
			res = append(res, transport.Stream{Name: c.Stream, Entries: entries})
		}
	}
	return res, nil
}

func (t *memoryTransport) Close() error {
	return nil
}

type routed struct {
	category string
	key      event.Key
}

// recordingRouter fails the first failures deliveries of the keys in failOn.
type recordingRouter struct {
	mu     sync.Mutex
	routed []routed
	failOn map[event.Key]int
}

func (r *recordingRouter) Route(_ context.Context, category string, rec event.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routed = append(r.routed, routed{category: category, key: rec.Key})
	if r.failOn[rec.Key] > 0 {
		r.failOn[rec.Key]--
		return errors.New("foreign key constraint failed")
	}
	return nil
}

func (r *recordingRouter) keys() []event.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]event.Key, 0, len(r.routed))
	for _, x := range r.routed {
		res = append(res, x.key)
	}
	return res
}

func eventJSON(key int) string {
	return `{"key":` + strconv.Itoa(key) + `,"intent":"CREATED","timestamp":1000,"recordType":"EVENT","value":{}}`
}

func commandJSON(key int) string {
	return `{"key":` + strconv.Itoa(key) + `,"intent":"CREATE","timestamp":1000,"recordType":"COMMAND","value":{}}`
}
