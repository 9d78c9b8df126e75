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

import (
	"reflect"
	"strconv"
)

// Tag identifies one shape of a logical entity.
//
// Entity is the name of the schema family (for example "Order") and Version
// is the schema revision, starting at 1 and increasing monotonically as the
// shape evolves. Two values with equal Tags are expected to have identical
// Go representations.
type Tag struct {
	// Entity is the logical entity name.
	Entity string `yaml:"entity"`
	// Version is the schema version of the entity.
	Version int `yaml:"version"`
}

// String renders the tag as "Entity@vN".
func (t Tag) String() string {
	return t.Entity + "@v" + strconv.Itoa(t.Version)
}

// Entity is implemented by values that carry their own Tag.
//
// # Overview
//
// Entity is the zero-reflection fast path used by a Binder to learn which
// shape a value has. When a value implements Entity, resolution MUST use
// EntityTag and MUST NOT consult the binding table.
//
// # Contract
//
//   - EntityTag MUST be deterministic for a given concrete type.
//   - EntityTag MUST NOT depend on mutable instance state.
//   - EntityTag MUST NOT block, perform I/O or have side effects.
//   - EntityTag MUST be safe for concurrent calls.
//
// # Usage
//
//	type OrderV2 struct {
//	    ID    string
//	    Total int64
//	}
//
//	func (OrderV2) EntityTag() apis.Tag {
//	    return apis.Tag{Entity: "Order", Version: 2}
//	}
type Entity interface {
	// EntityTag returns the tag of the entity shape.
	EntityTag() Tag
}

// Binder resolves the Tag of arbitrary values. Types that cannot implement
// Entity (generated code, third-party structs) are bound explicitly.
type Binder interface {
	// Bind associates the nearest named type of t with tag.
	// Re-binding the same (type, tag) pair is a no-op; a different tag fails.
	Bind(t reflect.Type, tag Tag) error
	// Lookup returns the tag bound to t, if any.
	Lookup(t reflect.Type) (Tag, bool)
	// TagOf returns the tag of v, preferring Entity over the binding table.
	TagOf(v any) (Tag, error)
	// Entries returns a snapshot of all bindings (order is unspecified).
	Entries() []Binding
	// Count returns the number of bindings.
	Count() int
}

// Binding is a single (type, tag) association in a Binder snapshot.
type Binding struct {
	// Type is the bound reflect.Type.
	Type reflect.Type
	// Tag is the associated tag.
	Tag Tag
}

// Identifier is implemented by entities that can name the instance they
// hold. The bridge adds EntityID to its log fields; it never affects
// resolution.
type Identifier interface {
	// EntityID returns an instance identifier, for example an order number.
	EntityID() string
}
