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
	"dirpx.dev/verbridge/utils/version"
)

// NewFarthestFirst creates an apis.Strategy that searches the graph depth
// first, trying the longest first hop before shorter ones.
func NewFarthestFirst() apis.Strategy {
	return farthestFirst{}
}

// farthestFirst is the universal fallback. From version from it tries the
// hop that lands closest to to first, then recurses on the remainder.
//
// Candidates are confined to the open interval between from and to, so the
// recursion depth is bounded by the interval size and the search terminates
// without cycle detection. The first chain found wins; it is not necessarily
// the one with the fewest hops.
type farthestFirst struct{}

// Ensure farthestFirst implements apis.Strategy.
var _ apis.Strategy = (*farthestFirst)(nil)

// TryResolve returns the first chain found by the far-to-near scan.
func (farthestFirst) TryResolve(g apis.Graph, from, to int) ([]apis.Transformer, bool) {
	if g == nil || !version.InRange(from) || !version.InRange(to) {
		return nil, false
	}
	if from == to {
		return []apis.Transformer{}, true
	}
	s := search{g: g, to: to}
	if !s.find(from) {
		return nil, false
	}
	return s.chain, true
}

// search holds the state of one TryResolve call.
type search struct {
	g     apis.Graph
	to    int
	chain []apis.Transformer
	// dead marks versions already known to have no path to s.to.
	// Skipping them does not change which chain is found.
	dead [version.Max + 1]bool
}

// find appends the path from -> s.to to s.chain and reports success. On
// failure s.chain is left as it was.
func (s *search) find(from int) bool {
	if s.dead[from] {
		return false
	}
	if t, ok := s.g.Get(from, s.to); ok {
		s.chain = append(s.chain, t)
		return true
	}

	// Walk from to back toward from: upgrades scan downward, downgrades upward.
	step := -version.Direction(from, s.to)
	for tv := s.to + step; tv != from; tv += step {
		hop, ok := s.g.Get(from, tv)
		if !ok {
			continue
		}
		mark := len(s.chain)
		s.chain = append(s.chain, hop)
		if s.find(tv) {
			return true
		}
		s.chain = s.chain[:mark]
	}
	s.dead[from] = true
	return false
}
