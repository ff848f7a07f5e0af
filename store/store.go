// Package store provides persisted, observable value cells. Each Slot is a
// typed value keyed into a durable Medium: it initializes from the medium
// or a default, writes through on every change, and notifies subscribers
// synchronously. Persistence failures never escape a Slot; they are logged
// and the in-memory value stays authoritative for the session.
package store

import (
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Store binds a Medium and a logger. Slots are created from it with
// Initialize.
type Store struct {
	medium Medium
	logger *log.Logger
}

// New creates a store over medium. A nil logger discards output.
func New(medium Medium, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{medium: medium, logger: logger}
}

// Validator inspects raw stored bytes before they are decoded. A non-nil
// return rejects the stored value and the slot falls back to its default.
type Validator func(data []byte) error

// Slot is a typed value cell mirrored to the store's medium under a fixed
// key. Mutate it only through Set.
type Slot[T any] struct {
	store *Store
	key   string

	mu      sync.Mutex
	value   T
	subs    map[int]func(T)
	order   []int
	nextSub int
}

// Initialize creates the slot for key. If the medium holds an entry for
// key that passes the validators and decodes into T, that entry becomes
// the current value; otherwise the slot starts at initial. Unreadable,
// rejected, or undecodable entries are logged and degrade to initial; this
// never fails.
func Initialize[T any](s *Store, key string, initial T, validators ...Validator) *Slot[T] {
	slot := &Slot[T]{
		store: s,
		key:   key,
		value: initial,
		subs:  make(map[int]func(T)),
	}

	data, err := s.medium.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("stored value unreadable, using default", "key", key, "err", err)
		}
		return slot
	}
	for _, validate := range validators {
		if err := validate(data); err != nil {
			s.logger.Warn("stored value rejected, using default", "key", key, "err", err)
			return slot
		}
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("stored value undecodable, using default", "key", key, "err", err)
		return slot
	}
	slot.value = v
	return slot
}

// Key returns the slot's medium key.
func (sl *Slot[T]) Key() string {
	return sl.key
}

// Get returns the current value.
func (sl *Slot[T]) Get() T {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.value
}

// Set replaces the current value, writes it through to the medium, and
// then notifies subscribers in registration order. Serialization and write
// failures are logged and swallowed: the in-memory value updates and
// subscribers are notified regardless, since it remains authoritative for
// the session. Callbacks run synchronously on the caller's goroutine.
func (sl *Slot[T]) Set(v T) {
	sl.mu.Lock()
	sl.value = v
	subs := make([]func(T), 0, len(sl.order))
	for _, id := range sl.order {
		subs = append(subs, sl.subs[id])
	}
	sl.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		sl.store.logger.Error("serialize failed, keeping in-memory value", "key", sl.key, "err", err)
	} else {
		data = append(data, '\n')
		if err := sl.store.medium.Write(sl.key, data); err != nil {
			sl.store.logger.Error("write failed, keeping in-memory value", "key", sl.key, "err", err)
		}
	}

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn to run synchronously after every Set. The
// returned function cancels the subscription.
func (sl *Slot[T]) Subscribe(fn func(T)) func() {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	id := sl.nextSub
	sl.nextSub++
	sl.subs[id] = fn
	sl.order = append(sl.order, id)

	return func() {
		sl.mu.Lock()
		defer sl.mu.Unlock()
		if _, ok := sl.subs[id]; !ok {
			return
		}
		delete(sl.subs, id)
		for i, sid := range sl.order {
			if sid == id {
				sl.order = append(sl.order[:i], sl.order[i+1:]...)
				break
			}
		}
	}
}
