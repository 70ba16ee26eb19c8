// SPDX-License-Identifier: MPL-2.0

// Package hook provides named extension points that independent
// components can subscribe callables to. Subscribers carry a signed
// weight; lower weights run earlier, ties keep registration order.
//
// A Registry is an explicit value owned by the application entry point.
// There is no package-level ambient registry.
package hook

import (
	"iter"
	"sort"
	"sync"

	"girder-cli/pkg/errs"
)

// Func is a hook subscriber. It receives the arguments passed to Run
// and returns one result. An error stops the remaining subscribers.
type Func func(args ...any) (any, error)

type subscriber struct {
	fn     Func
	weight int
	// name identifies the hook this entry belongs to; kept for
	// troubleshooting output only.
	name string
}

// Registry stores named hook definitions and their weighted subscriber
// lists. The zero value is not usable; create one with NewRegistry.
//
// Registration and execution may interleave across goroutines, so the
// internal maps are guarded by a RWMutex and Run iterates over a
// snapshot of the subscriber list taken at call time.
type Registry struct {
	mu          sync.RWMutex
	defined     map[string]bool
	subscribers map[string][]subscriber
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		defined:     make(map[string]bool),
		subscribers: make(map[string][]subscriber),
	}
}

// Define registers a new named hook with an empty subscriber list.
// Defining the same name twice is a hard configuration error, not an
// idempotent no-op.
func (r *Registry) Define(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.defined[name] {
		return errs.Configurationf("hook name %q already defined", name)
	}
	r.defined[name] = true
	if _, ok := r.subscribers[name]; !ok {
		r.subscribers[name] = nil
	}
	return nil
}

// Defined reports whether the named hook has been defined.
func (r *Registry) Defined(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defined[name]
}

// Register appends fn to the subscriber list of the named hook.
// Registering before the hook is defined is legal; the list is created
// on demand. The weight controls execution order in Run (lower runs
// earlier).
func (r *Registry) Register(name string, weight int, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[name] = append(r.subscribers[name], subscriber{fn: fn, weight: weight, name: name})
}

// Count returns the number of subscribers registered for the named hook.
func (r *Registry) Count(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers[name])
}

// Run produces the subscribers' results for the named hook as a
// one-shot lazy sequence: each element invokes one subscriber at the
// point it is consumed, so a caller may stop early without invoking
// the remaining subscribers. Results arrive in ascending-weight order;
// equal weights keep registration order.
//
// Run fails with a LookupError when the name was never defined and
// never had a subscriber registered. A defined hook with zero
// subscribers yields an empty sequence.
//
// A subscriber error is yielded as the second element of the pair and
// ends the sequence; the framework does not catch it.
func (r *Registry) Run(name string, args ...any) (iter.Seq2[any, error], error) {
	r.mu.RLock()
	subs, registered := r.subscribers[name]
	defined := r.defined[name]
	// Snapshot so a concurrent Register cannot grow the list mid-iteration.
	snapshot := make([]subscriber, len(subs))
	copy(snapshot, subs)
	r.mu.RUnlock()

	if !defined && !registered {
		return nil, errs.NewLookupError("hook", name)
	}

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].weight < snapshot[j].weight
	})

	seq := func(yield func(any, error) bool) {
		for _, sub := range snapshot {
			res, err := sub.fn(args...)
			if !yield(res, err) || err != nil {
				return
			}
		}
	}
	return seq, nil
}

// RunAll drains Run eagerly and collects every result. It stops at the
// first subscriber error and returns the results produced so far along
// with that error.
func (r *Registry) RunAll(name string, args ...any) ([]any, error) {
	seq, err := r.Run(name, args...)
	if err != nil {
		return nil, err
	}

	var results []any
	for res, err := range seq {
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
