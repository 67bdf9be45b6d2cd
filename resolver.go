package typewire

import (
	"fmt"
	"sync"
)

// Resolver lets tree construction terminate for self-referential record
// types. Construction calls Begin before descending into a type's fields and
// Finish once the concrete node exists; any holder handed out in between
// dereferences through the registry afterwards.
//
// Completed trees are cached, so the registry doubles as the dedup point for
// (type identity, configuration) pairs. Begin/Finish/Lookup are safe for
// concurrent first-use construction; traversal takes the mutex only when it
// crosses a holder boundary.
type Resolver struct {
	mu   sync.Mutex
	done map[string]Node
	open map[string]*Recursion
}

func NewResolver() *Resolver {
	return &Resolver{
		done: map[string]Node{},
		open: map[string]*Recursion{},
	}
}

// Begin marks key as under construction and returns its placeholder. Calling
// Begin again with the same key returns the same placeholder, which is what
// terminates a recursive construction.
func (r *Resolver) Begin(key string) *Recursion {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.open[key]; ok {
		return h
	}
	h := &Recursion{Key: key, resolver: r}
	r.open[key] = h
	return h
}

// Finish binds key's placeholder to the concrete node. Finishing an already
// finished key is a no-op (idempotent).
func (r *Resolver) Finish(key string, n Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.done[key]; ok {
		return
	}
	r.done[key] = n
}

// Lookup returns the completed node for key, if construction finished.
func (r *Resolver) Lookup(key string) (Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.done[key]
	return n, ok
}

// Recursion is a placeholder node bound to its concrete target once tree
// construction completes. Traversals never special-case recursion: by the
// time they run, every holder resolves.
type Recursion struct {
	Base
	Key      string
	resolver *Resolver
}

// Resolve dereferences through the registry. Calling it before Finish is a
// programming error: traversal must only start on a complete tree.
func (h *Recursion) Resolve() Node {
	n, ok := h.tryResolve()
	if !ok {
		panic(fmt.Sprintf("typewire: recursive type %q not resolved", h.Key))
	}
	return n
}

func (h *Recursion) tryResolve() (Node, bool) {
	if h.resolver == nil {
		return nil, false
	}
	return h.resolver.Lookup(h.Key)
}
