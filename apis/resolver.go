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

// Resolver produces the ordered transformer chain that moves an entity of
// one graph from version from to version to.
// Typical chain: Identity -> Direct -> FarthestFirst.
type Resolver interface {
	// Resolve returns the chain, or (nil, false) when no path exists.
	// An empty chain with true means no transformation is needed.
	Resolve(g Graph, from, to int) ([]Transformer, bool)
}
