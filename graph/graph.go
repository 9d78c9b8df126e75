/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package graph

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/utils/version"
)

var (
	// ErrVersionOutOfRange is returned when an edge endpoint is outside [1, 99].
	ErrVersionOutOfRange = version.ErrOutOfRange
	// ErrSameVersion is returned when an edge maps a version onto itself.
	ErrSameVersion = version.ErrSameVersion
	// ErrDuplicateEdge indicates that the (from, to) pair is already taken.
	// The first registration wins.
	ErrDuplicateEdge = errors.New("verbridge(graph): duplicate edge")
	// ErrSealed is returned by Put once the graph is frozen.
	ErrSealed = errors.New("verbridge(graph): graph is sealed")
)

// New constructs an empty Graph for the given entity name.
func New(entity string) apis.Graph {
	return &graph{entity: entity}
}

// edge is the sparse table key.
type edge struct {
	from, to int
}

// graph is a sparse version table backed by sync.Map.
// Reads never lock; writes serialize on mu.
type graph struct {
	// entity is the name of the entity this graph belongs to.
	entity string
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// m maps edge to apis.Transformer.
	m sync.Map
	// count tracks the number of edges.
	count int
	// sealed is set once by Seal.
	sealed atomic.Bool
}

// Entity returns the entity name the graph belongs to.
func (g *graph) Entity() string {
	return g.entity
}

// Put inserts the edge (from, to). Rejections leave the table untouched.
func (g *graph) Put(from, to int, t apis.Transformer) error {
	if err := version.ValidatePair(from, to); err != nil {
		return err
	}
	if g.sealed.Load() {
		return ErrSealed
	}

	k := edge{from: from, to: to}

	// Fast read path: duplicate check without locking.
	if _, ok := g.m.Load(k); ok {
		return fmt.Errorf("%w: %s v%d->v%d", ErrDuplicateEdge, g.entity, from, to)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Re-check under lock in case another goroutine stored or sealed meanwhile.
	if g.sealed.Load() {
		return ErrSealed
	}
	if _, ok := g.m.Load(k); ok {
		return fmt.Errorf("%w: %s v%d->v%d", ErrDuplicateEdge, g.entity, from, to)
	}

	g.m.Store(k, t)
	g.count++
	return nil
}

// Get returns the transformer registered for exactly (from, to).
func (g *graph) Get(from, to int) (apis.Transformer, bool) {
	v, ok := g.m.Load(edge{from: from, to: to})
	if !ok {
		return apis.Transformer{}, false
	}
	return v.(apis.Transformer), true
}

// Count returns the number of edges.
func (g *graph) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Seal freezes the graph.
func (g *graph) Seal() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sealed.Store(true)
}

// Sealed reports whether the graph is frozen.
func (g *graph) Sealed() bool {
	return g.sealed.Load()
}
