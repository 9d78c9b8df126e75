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

// NewIdentity creates an apis.Strategy that handles from == to with an
// empty chain.
func NewIdentity() apis.Strategy {
	return &identityStrategy{}
}

// identityStrategy is a zero-cost fast path: equal versions need no
// transformation and stop the chain.
type identityStrategy struct{}

// Ensure identityStrategy implements apis.Strategy.
var _ apis.Strategy = (*identityStrategy)(nil)

// TryResolve returns an empty, non-nil chain when from == to.
func (*identityStrategy) TryResolve(_ apis.Graph, from, to int) ([]apis.Transformer, bool) {
	if from != to {
		return nil, false
	}
	return []apis.Transformer{}, true
}
