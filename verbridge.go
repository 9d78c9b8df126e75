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

package verbridge

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/binding"
	"dirpx.dev/verbridge/builder"
	"dirpx.dev/verbridge/config"
)

// init initializes the global state with the default config and builder.
func init() {
	st.Store(fresh(config.DefaultConfig(), zap.NewNop(), builder.New()))
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("verbridge: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("verbridge: builder returned nil resolver")
	// ErrNilBridge is returned when a builder returns a nil bridge.
	ErrNilBridge = errors.New("verbridge: builder returned nil bridge")
)

// Register adds transformers to the global registry. Rejected entries are
// reported, logged and skipped; the rest of the batch is still registered.
func Register(ts ...apis.Transformer) apis.Report {
	return st.Load().reg.Register(ts...)
}

// Seal ends the registration phase of the global registry.
func Seal() {
	st.Load().reg.Seal()
}

// Sealed reports whether the global registry is sealed.
func Sealed() bool {
	return st.Load().reg.Sealed()
}

// Graph returns the version graph of entity from the global registry.
func Graph(entity string) (apis.Graph, bool) {
	return st.Load().reg.Graph(entity)
}

// Bind associates the type of v with tag in the global binding table.
func Bind(v any, tag apis.Tag) error {
	if v == nil {
		return binding.ErrNilValue
	}
	return st.Load().bnd.Bind(reflect.TypeOf(v), tag)
}

// BindType associates t with tag in the global binding table.
func BindType(t reflect.Type, tag apis.Tag) error {
	return st.Load().bnd.Bind(t, tag)
}

// TagOf returns the tag of v as seen by the global bridge.
func TagOf(v any) (apis.Tag, error) {
	return st.Load().bnd.TagOf(v)
}

// BridgeRequest upgrades v to required using the global bridge.
func BridgeRequest(ctx context.Context, v any, required apis.Tag) (any, error) {
	return st.Load().brg.BridgeRequest(ctx, v, required)
}

// BridgeResponse downgrades v to expected using the global bridge.
func BridgeResponse(ctx context.Context, v any, expected apis.Tag) (any, error) {
	return st.Load().brg.BridgeResponse(ctx, v, expected)
}

// Execute runs op for a caller speaking v and expecting expected back,
// using the global bridge.
func Execute(ctx context.Context, op apis.Operation, v any, expected apis.Tag) (any, error) {
	return st.Load().brg.Execute(ctx, op, v, expected)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the
// non-pinned layers. Registered graphs and bindings are kept.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(rebuild(old, cfg, old.log, old.bld))
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return st.Load().log
}

// SetLogger replaces the global logger. A nil log discards output.
func SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(rebuild(old, old.cfg, log, old.bld))
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the non-pinned layers.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(rebuild(old, old.cfg, old.log, b))
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry. The bridge is rebuilt
// over it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.reg = reg
	next.preg = true
	next.brg = buildBridge(&next)
	st.Store(&next)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver. The bridge is rebuilt
// over it.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.res = res
	next.pres = true
	next.brg = buildBridge(&next)
	st.Store(&next)
}

// Bridge returns the global bridge.
func Bridge() apis.Bridge {
	return st.Load().brg
}

// Binder returns the global binding table.
func Binder() apis.Binder {
	return st.Load().bnd
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// UnpinRegistry lets later rebuilds replace the global registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.preg = false
	st.Store(&next)
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// UnpinResolver lets later rebuilds replace the global resolver again.
func UnpinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	next.pres = false
	st.Store(&next)
}

// Reset discards every registration and binding and restores the default
// configuration and builder. The logger is kept. Intended for tests.
func Reset() {
	buildMu.Lock()
	defer buildMu.Unlock()

	st.Store(fresh(config.DefaultConfig(), st.Load().log, builder.New()))
}

// fresh builds a state with an empty registry and binding table.
func fresh(cfg apis.Config, log *zap.Logger, bld apis.Builder) *state {
	s := &state{cfg: cfg, log: log, bld: bld, bnd: binding.New()}
	s.reg = bld.BuildRegistry(cfg, nil, log)
	s.res = bld.BuildResolver(cfg, nil)
	s.brg = buildBridge(s)
	s.check()
	return s
}

// rebuild derives a new state from old. Pinned layers are reused as is;
// the rest are rebuilt by bld, carrying old's graphs forward.
func rebuild(old *state, cfg apis.Config, log *zap.Logger, bld apis.Builder) *state {
	s := &state{
		cfg:  cfg,
		log:  log,
		bld:  bld,
		bnd:  old.bnd,
		reg:  old.reg,
		res:  old.res,
		preg: old.preg,
		pres: old.pres,
	}
	if !s.preg {
		s.reg = bld.BuildRegistry(cfg, old.reg, log)
	}
	if !s.pres {
		s.res = bld.BuildResolver(cfg, old.res)
	}
	s.brg = buildBridge(s)
	s.check()
	return s
}

func buildBridge(s *state) apis.Bridge {
	return s.bld.BuildBridge(s.cfg, s.reg, s.res, s.bnd, s.log)
}

// check panics when the builder produced an unusable layer.
func (s *state) check() {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	if s.brg == nil {
		panic(ErrNilBridge)
	}
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global verbridge state.
var st atomic.Pointer[state]

// state is the global verbridge state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// log is the logger handed to every built layer.
	log *zap.Logger
	// bnd is the global binding table. It survives every rebuild but Reset.
	bnd apis.Binder
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// brg is the bridge over reg, res and bnd.
	brg apis.Bridge
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}
