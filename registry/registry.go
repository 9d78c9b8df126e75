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

package registry

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/graph"
	"dirpx.dev/verbridge/telemetry"
	"dirpx.dev/verbridge/utils/version"
)

var (
	// ErrEmptyEntity is returned when a transformer has no entity name.
	ErrEmptyEntity = errors.New("verbridge(registry): empty entity name")
	// ErrNilTransform is returned when a transformer has no transform func.
	ErrNilTransform = errors.New("verbridge(registry): nil transform func")
	// ErrSealed is returned for registrations after Seal.
	ErrSealed = errors.New("verbridge(registry): registry is sealed")
)

// Option configures a registry at construction.
type Option func(*registry)

// WithMeterProvider records rejection metrics on mp instead of the global
// provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *registry) {
		r.mp = mp
	}
}

// Adopt carries the graphs and sealed state of prev into the new registry.
// Graph instances are shared, not copied.
func Adopt(prev apis.Registry) Option {
	return func(r *registry) {
		r.prev = prev
	}
}

// New constructs a Registry that logs to log. A nil log discards output.
func New(log *zap.Logger, opts ...Option) apis.Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &registry{log: log}
	for _, opt := range opts {
		opt(r)
	}
	r.rejected = telemetry.Counter(
		telemetry.Meter(r.mp),
		telemetry.MetricRegistrationRejected,
		"Transformers skipped at registration.",
	)
	if r.prev != nil {
		for _, name := range r.prev.Entities() {
			if g, ok := r.prev.Graph(name); ok {
				r.m.Store(name, g)
				r.count++
			}
		}
		r.sealed.Store(r.prev.Sealed())
		r.prev = nil
	}
	return r
}

// registry maps entity names to graphs. Lookups go through sync.Map and
// never lock; graph creation and sealing serialize on mu.
type registry struct {
	// log receives registration progress and warnings.
	log *zap.Logger
	// mp is the optional meter provider.
	mp metric.MeterProvider
	// prev is only set during construction.
	prev apis.Registry
	// rejected counts rejected registrations by reason.
	rejected metric.Int64Counter
	// mu guards graph creation, sealing and count.
	mu sync.Mutex
	// m maps entity name to apis.Graph.
	m sync.Map
	// count tracks the number of graphs.
	count int
	// sealed is set once by Seal.
	sealed atomic.Bool
}

// Register inserts transformers one by one. A rejected entry is logged,
// counted and reported; it never aborts the batch.
func (r *registry) Register(ts ...apis.Transformer) apis.Report {
	var rep apis.Report
	r.log.Info("registering entity transformers", zap.Int("count", len(ts)))

	for _, t := range ts {
		if err := r.register(t); err != nil {
			rep.Rejected = append(rep.Rejected, apis.Rejection{Transformer: t, Err: err})
			r.reject(t, err)
			continue
		}
		rep.Accepted++
		r.log.Debug("registered entity transformer",
			zap.String("entity", t.Entity),
			zap.Int("from_version", t.From),
			zap.Int("to_version", t.To),
		)
	}

	r.log.Info("registration done",
		zap.Int("accepted", rep.Accepted),
		zap.Int("rejected", len(rep.Rejected)),
	)
	return rep
}

// register validates t at the boundary so that an invalid transformer never
// reaches, or creates, a graph.
func (r *registry) register(t apis.Transformer) error {
	if r.sealed.Load() {
		return ErrSealed
	}
	if t.Entity == "" {
		return ErrEmptyEntity
	}
	if t.Transform == nil {
		return ErrNilTransform
	}
	if err := version.ValidatePair(t.From, t.To); err != nil {
		return err
	}

	// Fast path: the graph exists and guards its own writes.
	if g, ok := r.m.Load(t.Entity); ok {
		return put(g.(apis.Graph), t)
	}
	return r.create(t)
}

// create builds the graph for t.Entity with t as its first edge. The graph
// is published only after the edge is in, and under mu so that Seal cannot
// run in between.
func (r *registry) create(t apis.Transformer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine created or sealed meanwhile.
	if r.sealed.Load() {
		return ErrSealed
	}
	if g, ok := r.m.Load(t.Entity); ok {
		return put(g.(apis.Graph), t)
	}
	g := graph.New(t.Entity)
	if err := put(g, t); err != nil {
		return err
	}
	r.m.Store(t.Entity, g)
	r.count++
	return nil
}

func put(g apis.Graph, t apis.Transformer) error {
	if err := g.Put(t.From, t.To, t); err != nil {
		if errors.Is(err, graph.ErrSealed) {
			return ErrSealed
		}
		return err
	}
	return nil
}

// reject logs and counts a skipped registration.
func (r *registry) reject(t apis.Transformer, err error) {
	reason := reasonOf(err)
	r.log.Warn("entity transformer registration ignored",
		zap.String("entity", t.Entity),
		zap.Int("from_version", t.From),
		zap.Int("to_version", t.To),
		zap.String("reason", reason),
		zap.Error(err),
	)
	r.rejected.Add(context.Background(), 1, metric.WithAttributes(
		telemetry.KeyEntity.String(t.Entity),
		telemetry.KeyReason.String(reason),
	))
}

// reasonOf maps a rejection to a low-cardinality metric label.
func reasonOf(err error) string {
	switch {
	case errors.Is(err, version.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, version.ErrSameVersion):
		return "same_version"
	case errors.Is(err, graph.ErrDuplicateEdge):
		return "duplicate"
	case errors.Is(err, ErrSealed):
		return "sealed"
	case errors.Is(err, ErrEmptyEntity), errors.Is(err, ErrNilTransform):
		return "invalid_metadata"
	default:
		return "unknown"
	}
}

// Graph returns the graph for entity if present.
func (r *registry) Graph(entity string) (apis.Graph, bool) {
	if g, ok := r.m.Load(entity); ok {
		return g.(apis.Graph), true
	}
	return nil, false
}

// Entities returns the registered entity names in sorted order.
func (r *registry) Entities() []string {
	names := make([]string, 0, r.Count())
	r.m.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Count returns the number of registered entities.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Seal ends the registration phase and freezes every graph.
func (r *registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Swap(true) {
		return
	}
	r.m.Range(func(_, value any) bool {
		value.(apis.Graph).Seal()
		return true
	})
	r.log.Info("entity registry sealed", zap.Int("entities", r.count))
}

// Sealed reports whether the registry is frozen.
func (r *registry) Sealed() bool {
	return r.sealed.Load()
}
