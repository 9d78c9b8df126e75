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

import "strconv"

// TransformFunc converts one entity value into the adjacent shape.
// It must not mutate its input.
type TransformFunc func(v any) (any, error)

// Transformer binds a TransformFunc to the entity and version pair it
// bridges. It is plain data: the metadata is declared where the transformer
// is constructed instead of being discovered at runtime.
type Transformer struct {
	// Entity is the logical entity name the transformer applies to.
	Entity string
	// From is the version of the input shape.
	From int
	// To is the version of the output shape.
	To int
	// Transform performs the conversion.
	Transform TransformFunc
}

// Source returns the tag of the input shape.
func (t Transformer) Source() Tag {
	return Tag{Entity: t.Entity, Version: t.From}
}

// Target returns the tag of the output shape.
func (t Transformer) Target() Tag {
	return Tag{Entity: t.Entity, Version: t.To}
}

// IsUpgrade reports whether the transformer moves to a newer version.
func (t Transformer) IsUpgrade() bool {
	return t.To > t.From
}

// String renders the transformer as "Entity v1->v2".
func (t Transformer) String() string {
	return t.Entity + " v" + strconv.Itoa(t.From) + "->v" + strconv.Itoa(t.To)
}
