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
	"reflect"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/builder"
	"dirpx.dev/verbridge/config"
	"dirpx.dev/verbridge/registry"
	"dirpx.dev/verbridge/resolver"
)

// Local test types.
type orderV1 struct{ ID int }
type orderV2 struct{ ID string }
type legacyOrder struct{ Ref string }

func (orderV1) EntityTag() apis.Tag { return apis.Tag{Entity: "Order", Version: 1} }
func (orderV2) EntityTag() apis.Tag { return apis.Tag{Entity: "Order", Version: 2} }

var order2 = apis.Tag{Entity: "Order", Version: 2}

func upgradeOrder() apis.Transformer {
	return apis.Transformer{Entity: "Order", From: 1, To: 2, Transform: func(v any) (any, error) {
		return orderV2{ID: "o-" + string(rune('0'+v.(orderV1).ID))}, nil
	}}
}

// reset restores a clean global state for the test and after it.
func reset(tb testing.TB) {
	tb.Helper()
	Reset()
	SetLogger(nil)
	tb.Cleanup(func() {
		Reset()
		SetLogger(nil)
	})
}

// ---------------------- Test doubles ----------------------

// pinnedResolver gives the default resolver a pointer identity.
type pinnedResolver struct{ apis.Resolver }

// countingBuilder delegates to the default builder and records calls.
type countingBuilder struct {
	mu        sync.Mutex
	inner     apis.Builder
	lastCfg   apis.Config
	regBuilds int
	resBuilds int
	brgBuilds int
	nilReg    bool
}

func newCountingBuilder() *countingBuilder {
	return &countingBuilder{inner: builder.New()}
}

func (b *countingBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, log *zap.Logger) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg = cfg
	b.regBuilds++
	if b.nilReg {
		return nil
	}
	return b.inner.BuildRegistry(cfg, prev, log)
}

func (b *countingBuilder) BuildResolver(cfg apis.Config, prev apis.Resolver) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resBuilds++
	return b.inner.BuildResolver(cfg, prev)
}

func (b *countingBuilder) BuildBridge(cfg apis.Config, reg apis.Registry, res apis.Resolver, bnd apis.Binder, log *zap.Logger) apis.Bridge {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.brgBuilds++
	return b.inner.BuildBridge(cfg, reg, res, bnd, log)
}

// ---------------------- Tests ----------------------

func TestGlobal_RegisterAndBridge(t *testing.T) {
	reset(t)

	rep := Register(upgradeOrder())
	require.True(t, rep.OK())

	out, err := BridgeRequest(context.Background(), orderV1{ID: 5}, order2)
	require.NoError(t, err)
	assert.Equal(t, orderV2{ID: "o-5"}, out)

	out, err = BridgeResponse(context.Background(), out, order2)
	require.NoError(t, err)
	assert.Equal(t, orderV2{ID: "o-5"}, out)

	_, ok := Graph("Order")
	assert.True(t, ok)
}

func TestGlobal_BindAndTagOf(t *testing.T) {
	reset(t)

	tag := apis.Tag{Entity: "Order", Version: 1}
	require.NoError(t, Bind(legacyOrder{}, tag))
	require.NoError(t, Bind(&legacyOrder{}, tag))
	assert.Error(t, Bind(nil, tag))

	got, err := TagOf(legacyOrder{Ref: "x"})
	require.NoError(t, err)
	assert.Equal(t, tag, got)
	assert.Equal(t, 1, Binder().Count())
}

func TestSetConfig_KeepsRegistrationsAndBindings(t *testing.T) {
	reset(t)

	require.True(t, Register(upgradeOrder()).OK())
	require.NoError(t, Bind(legacyOrder{}, apis.Tag{Entity: "Legacy", Version: 1}))
	regBefore := Registry()
	brgBefore := Bridge()

	SetConfig(config.NewConfig(config.WithAutoSeal(true)))

	assert.NotSame(t, regBefore, Registry(), "unpinned registry is rebuilt")
	assert.NotSame(t, brgBefore, Bridge())
	assert.True(t, Config().AutoSeal)

	_, ok := Graph("Order")
	assert.True(t, ok, "graphs are carried forward")
	_, err := TagOf(legacyOrder{})
	assert.NoError(t, err, "bindings are carried forward")

	// AutoSeal is now active on the rebuilt bridge.
	_, err = BridgeRequest(context.Background(), orderV1{ID: 1}, order2)
	require.NoError(t, err)
	assert.True(t, Sealed())
}

func TestSetConfig_KeepsSealedState(t *testing.T) {
	reset(t)

	Register(upgradeOrder())
	Seal()
	SetConfig(config.NewConfig(config.WithVerifyTags(false)))

	assert.True(t, Sealed())
	rep := Register(apis.Transformer{Entity: "Order", From: 2, To: 1, Transform: func(v any) (any, error) { return v, nil }})
	require.Len(t, rep.Rejected, 1)
	assert.ErrorIs(t, rep.Rejected[0].Err, registry.ErrSealed)
}

func TestSetRegistry_Pins(t *testing.T) {
	reset(t)

	custom := registry.New(nil)
	SetRegistry(custom)
	assert.True(t, IsRegistryPinned())

	resBefore := Resolver()
	SetConfig(config.DefaultConfig())

	assert.Same(t, custom, Registry(), "pinned registry must not be rebuilt")
	assert.NotSame(t, resBefore, Resolver(), "unpinned resolver is rebuilt")

	// The bridge runs over the pinned registry.
	require.True(t, custom.Register(upgradeOrder()).OK())
	_, err := BridgeRequest(context.Background(), orderV1{ID: 2}, order2)
	assert.NoError(t, err)

	UnpinRegistry()
	assert.False(t, IsRegistryPinned())
	SetConfig(config.DefaultConfig())
	assert.NotSame(t, custom, Registry())
	_, ok := Graph("Order")
	assert.True(t, ok, "unpinning still carries graphs forward")
}

func TestSetResolver_Pins(t *testing.T) {
	reset(t)

	custom := &pinnedResolver{Resolver: resolver.Default()}
	SetResolver(custom)
	assert.True(t, IsResolverPinned())

	SetConfig(config.DefaultConfig())
	assert.Same(t, custom, Resolver())

	UnpinResolver()
	assert.False(t, IsResolverPinned())
	SetConfig(config.DefaultConfig())
	_, still := Resolver().(*pinnedResolver)
	assert.False(t, still, "unpinned resolver is rebuilt")
}

func TestSetBuilder_Rebuilds(t *testing.T) {
	reset(t)

	b := newCountingBuilder()
	SetBuilder(b)
	assert.Same(t, b, Builder())

	SetConfig(config.NewConfig(config.WithLogLevel("debug")))

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, 2, b.regBuilds)
	assert.Equal(t, 2, b.resBuilds)
	assert.Equal(t, 2, b.brgBuilds)
	assert.Equal(t, "debug", b.lastCfg.LogLevel)

	SetBuilder(nil) // ignored
}

func TestSetBuilder_NilRegistryPanics(t *testing.T) {
	reset(t)

	b := newCountingBuilder()
	b.nilReg = true
	assert.PanicsWithValue(t, ErrNilRegistry, func() { SetBuilder(b) })
	assert.NotSame(t, b, Builder(), "failed rebuild publishes nothing")
}

func TestSetLogger(t *testing.T) {
	reset(t)

	core, recorded := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	SetLogger(log)
	assert.Same(t, log, Logger())

	Register(upgradeOrder(), upgradeOrder())

	warns := recorded.FilterMessage("entity transformer registration ignored").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "duplicate", warns[0].ContextMap()["reason"])
}

func TestReset(t *testing.T) {
	reset(t)

	Register(upgradeOrder())
	require.NoError(t, Bind(legacyOrder{}, apis.Tag{Entity: "Legacy", Version: 1}))
	Seal()
	SetConfig(config.NewConfig(config.WithAutoSeal(true)))

	Reset()

	assert.False(t, Sealed())
	assert.Equal(t, 0, Registry().Count())
	assert.Equal(t, 0, Binder().Count())
	assert.Equal(t, config.DefaultConfig(), Config())
}

func TestBridge_Concurrent_With_SetConfig(t *testing.T) {
	reset(t)
	require.True(t, Register(upgradeOrder()).OK())

	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if _, err := BridgeRequest(context.Background(), orderV1{ID: j % 10}, order2); err != nil {
					t.Errorf("BridgeRequest: %v", err)
					return
				}
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(config.WithVerifyTags(i%2 == 0)))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

func TestGlobal_BindType(t *testing.T) {
	reset(t)

	tag := apis.Tag{Entity: "Legacy", Version: 3}
	require.NoError(t, BindType(reflect.TypeOf(&legacyOrder{}), tag))

	got, err := TagOf(legacyOrder{Ref: "r"})
	require.NoError(t, err)
	assert.Equal(t, tag, got)

	assert.Error(t, BindType(reflect.TypeOf(legacyOrder{}), apis.Tag{Entity: "Legacy", Version: 4}))
	assert.Error(t, BindType(nil, tag))
}
