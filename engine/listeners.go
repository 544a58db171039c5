// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription identifies a registered listener.
type Subscription struct {
	ID     uuid.UUID
	cancel func()
}

// Cancel unregisters the listener. It is safe to call more than once.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type registry[T any] struct {
	mtx sync.RWMutex
	fns map[uuid.UUID]func(T)
}

func (r *registry[T]) add(fn func(T)) Subscription {
	id := uuid.New()

	r.mtx.Lock()
	if r.fns == nil {
		r.fns = make(map[uuid.UUID]func(T))
	}
	r.fns[id] = fn
	r.mtx.Unlock()

	return Subscription{ID: id, cancel: func() { r.remove(id) }}
}

func (r *registry[T]) remove(id uuid.UUID) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	delete(r.fns, id)
}

func (r *registry[T]) clear() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.fns = nil
}

func (r *registry[T]) len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return len(r.fns)
}

// emit calls every listener outside the lock, so listeners may register,
// cancel or query the engine.
func (r *registry[T]) emit(v T) {
	r.mtx.RLock()
	fns := make([]func(T), 0, len(r.fns))
	for _, fn := range r.fns {
		fns = append(fns, fn)
	}
	r.mtx.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// OnStateChange registers fn to receive a snapshot after every state change.
func (e *Engine) OnStateChange(fn func(Snapshot)) Subscription {
	return e.stateListeners.add(fn)
}

// OnSongEnded registers fn to be called once each time playback reaches
// the end of the song. It receives the session id.
func (e *Engine) OnSongEnded(fn func(sessionID string)) Subscription {
	return e.endListeners.add(fn)
}
