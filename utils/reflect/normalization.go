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

package reflect

import (
	"errors"
	"reflect"
)

// MaxUnwrap bounds pointer unwrapping. Eight levels of indirection is more
// than any entity value carries in practice.
const MaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, map, slice).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not a named entity type")
)

// Normalize unwraps pointers and returns the nearest named type, so that T,
// *T and **T share one binding. Containers are not unwrapped: a []T is not
// an entity of shape T.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; t.Kind() == reflect.Ptr && i < MaxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Kind() == reflect.Ptr || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}
