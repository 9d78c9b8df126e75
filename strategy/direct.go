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

package strategy

import (
	"dirpx.dev/verbridge/apis"
)

// NewDirect creates an apis.Strategy that answers with a registered
// (from, to) edge, if any.
func NewDirect() apis.Strategy {
	return &directStrategy{}
}

// directStrategy consults the graph table for the exact pair.
type directStrategy struct{}

// Ensure directStrategy implements apis.Strategy.
var _ apis.Strategy = (*directStrategy)(nil)

// TryResolve looks up the (from, to) edge in g.
func (*directStrategy) TryResolve(g apis.Graph, from, to int) ([]apis.Transformer, bool) {
	if g == nil {
		return nil, false
	}
	t, ok := g.Get(from, to)
	if !ok {
		return nil, false
	}
	return []apis.Transformer{t}, true
}
