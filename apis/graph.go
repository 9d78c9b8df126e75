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

// Graph is the per-entity table of registered transformers, keyed by
// (from, to) version pairs. It deliberately offers no edge enumeration:
// path discovery goes through Get.
type Graph interface {
	// Entity returns the entity name the graph belongs to.
	Entity() string
	// Put inserts the edge (from, to). It returns a non-nil error when the
	// edge is rejected; a rejected Put never alters existing edges.
	Put(from, to int, t Transformer) error
	// Get returns the transformer registered for exactly (from, to).
	Get(from, to int) (Transformer, bool)
	// Count returns the number of edges.
	Count() int
	// Seal freezes the graph. Subsequent Put calls are rejected.
	Seal()
	// Sealed reports whether the graph is frozen.
	Sealed() bool
}
