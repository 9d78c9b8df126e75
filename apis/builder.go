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

package apis

import "go.uber.org/zap"

// Builder composes Registry, Resolver and Bridge from a Config.
// Implementations may migrate state from previous instances (prev*), or ignore them.
type Builder interface {
	// BuildRegistry constructs a Registry for Config. Graphs of prev, when
	// given, are carried over together with its sealed state.
	BuildRegistry(cfg Config, prev Registry, log *zap.Logger) Registry
	// BuildResolver constructs a Resolver for Config. May reuse prev.
	BuildResolver(cfg Config, prev Resolver) Resolver
	// BuildBridge constructs a Bridge over the given registry, resolver
	// and binder.
	BuildBridge(cfg Config, reg Registry, res Resolver, bnd Binder, log *zap.Logger) Bridge
}
