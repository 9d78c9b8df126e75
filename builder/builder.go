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

package builder

import (
	"go.uber.org/zap"

	"dirpx.dev/verbridge/apis"
	"dirpx.dev/verbridge/bridge"
	"dirpx.dev/verbridge/registry"
	"dirpx.dev/verbridge/resolver"
	"dirpx.dev/verbridge/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry logging to log. If a
// pre-existing registry is provided, its graphs and sealed state are adopted.
func (b *builder) BuildRegistry(_ apis.Config, prev apis.Registry, log *zap.Logger) apis.Registry {
	if prev == nil {
		return registry.New(log)
	}
	return registry.New(log, registry.Adopt(prev))
}

// BuildResolver returns the identity -> direct -> farthest-first resolver.
// Resolvers are stateless, so prev is never reused.
func (b *builder) BuildResolver(_ apis.Config, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewIdentity(),
		strategy.NewDirect(),
		strategy.NewFarthestFirst(),
	)
}

// BuildBridge builds a bridge over reg and res that reads entity tags
// through bnd.
func (b *builder) BuildBridge(cfg apis.Config, reg apis.Registry, res apis.Resolver, bnd apis.Binder, log *zap.Logger) apis.Bridge {
	return bridge.New(cfg, reg, res, bnd, log)
}
