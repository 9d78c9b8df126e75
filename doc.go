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

// Package verbridge lets one business operation serve callers that speak
// older or newer shapes of the same entities.
//
// An operation is written once, against one input shape and one output
// shape. Every time an entity evolves, the owner registers a small
// transformer between two adjacent versions. verbridge chains those
// transformers so that a caller speaking any registered version can reach
// the operation, and the operation's answer can reach the caller.
//
// # Concepts
//
//   - Tag: {Entity, Version}. Versions are integers in [1, 99].
//
//   - Transformer: converts a value of one Tag into the next (upgrade) or
//     previous (downgrade) version of the same entity.
//
//   - Graph: per entity, the sparse table of registered transformers keyed
//     by (from, to). At most one transformer per pair; the first wins.
//
//   - Registry: entity name to Graph. Graphs are created on the first
//     successful registration. Nothing is ever removed.
//
//   - Resolver: finds the transformer chain between two versions of one
//     Graph. Identity, then a direct edge, then a farthest-first depth
//     search. The search scans candidates from the target back toward the
//     source and takes the first chain that completes, so the chain chosen
//     for a given Graph is deterministic. It is not a shortest path.
//
//   - Bridge: reads the Tag of a value, checks entity names and direction,
//     resolves the chain and applies it in order.
//
// # Lifecycle
//
// Registration is the build phase and normally happens at startup:
//
//	rep := verbridge.Register(
//	    apis.Transformer{Entity: "Order", From: 1, To: 2, Transform: orderV1toV2},
//	    apis.Transformer{Entity: "Order", From: 2, To: 1, Transform: orderV2toV1},
//	)
//	if !rep.OK() {
//	    log.Warn("some transformers were skipped", zap.Error(rep.Err()))
//	}
//	verbridge.Seal()
//
// A rejected transformer (version out of range, same from and to, a
// duplicate pair, registration after Seal) is reported, logged and counted,
// and the rest of the batch is still registered.
//
// Seal ends the build phase. Afterwards every graph is immutable and all
// lookups are lock-free. Config.AutoSeal seals on the first bridge call
// that needs a transformation.
//
// # Bridging
//
//	v2, err := verbridge.BridgeRequest(ctx, orderV1, apis.Tag{Entity: "Order", Version: 2})
//	v1, err := verbridge.BridgeResponse(ctx, orderV2, apis.Tag{Entity: "Order", Version: 1})
//	out, err := verbridge.Execute(ctx, op, in, expected)
//
// Requests only move up and responses only move down: the bridge never
// feeds an operation an older shape than the caller sent, and never invents
// a newer shape than the operation produced. Equal versions pass through
// untouched. Every failure is an *apis.ConfigurationError with a Code.
//
// A value's Tag comes from its EntityTag method (apis.Entity) or, for
// types that cannot carry one, from Bind:
//
//	verbridge.Bind(pb.OrderV1{}, apis.Tag{Entity: "Order", Version: 1})
//
// # Global state
//
// The package holds one immutable snapshot (config, logger, binding table,
// registry, resolver, bridge, builder) behind an atomic pointer. Reads load
// the pointer and never lock. SetConfig, SetLogger and SetBuilder rebuild
// the snapshot under a mutex and carry registered graphs, bindings and the
// sealed state forward. SetRegistry and SetResolver pin a layer so that
// rebuilds reuse it until UnpinRegistry or UnpinResolver. Reset starts over
// with empty tables and is meant for tests.
//
// # Observability
//
// Logging uses zap (SetLogger; config.NewLogger builds one from Config).
// Spans and counters use the global OpenTelemetry providers and are no-ops
// until the embedding binary installs real ones.
package verbridge
