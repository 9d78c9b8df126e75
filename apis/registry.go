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

// Registry maps entity names to their version graphs.
// Keep it minimal so implementations can serve lookups without locking.
type Registry interface {
	// Register inserts transformers one by one. Each entry is processed
	// independently: a rejected entry is reported and skipped.
	Register(ts ...Transformer) Report
	// Graph returns the graph for entity, if any transformer was accepted
	// for it.
	Graph(entity string) (Graph, bool)
	// Entities returns the registered entity names in sorted order.
	Entities() []string
	// Count returns the number of registered entities.
	Count() int
	// Seal ends the registration phase. All later registrations are
	// rejected and every graph is frozen.
	Seal()
	// Sealed reports whether the registry is frozen.
	Sealed() bool
}
