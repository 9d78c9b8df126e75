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

package binding

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/verbridge/apis"
	uref "dirpx.dev/verbridge/utils/reflect"
	"dirpx.dev/verbridge/utils/version"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("verbridge(binding): nil reflect.Type provided")
	// ErrNilValue is returned when TagOf is called with nil.
	ErrNilValue = errors.New("verbridge(binding): nil value")
	// ErrInvalidTag is returned for tags with no entity or a version out of range.
	ErrInvalidTag = errors.New("verbridge(binding): invalid tag")
	// ErrConflictingBinding indicates an attempt to re-bind a type to a
	// different tag.
	ErrConflictingBinding = errors.New("verbridge(binding): conflicting type binding")
	// ErrUnboundType is returned when a value neither implements apis.Entity
	// nor has a bound type.
	ErrUnboundType = errors.New("verbridge(binding): type has no entity tag")
)

// New constructs an empty Binder.
func New() apis.Binder {
	return &binder{}
}

// binder is a Binder backed by sync.Map.
type binder struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to apis.Tag.
	m sync.Map
	// count tracks the number of bindings.
	count int
}

// Bind associates the nearest named type of t with tag.
// It is idempotent for the same (type, tag) pair.
func (b *binder) Bind(t reflect.Type, tag apis.Tag) error {
	if t == nil {
		return ErrNilType
	}
	if err := validTag(tag); err != nil {
		return err
	}

	nt, err := uref.Normalize(t)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := b.m.Load(nt); ok {
		return sameTag(nt, old.(apis.Tag), tag)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := b.m.Load(nt); ok {
		return sameTag(nt, old.(apis.Tag), tag)
	}

	b.m.Store(nt, tag)
	b.count++
	return nil
}

func sameTag(t reflect.Type, old, tag apis.Tag) error {
	if old == tag {
		return nil
	}
	return fmt.Errorf("%w: %s bound to %s, not %s", ErrConflictingBinding, t, old, tag)
}

func validTag(tag apis.Tag) error {
	if tag.Entity == "" {
		return fmt.Errorf("%w: empty entity name", ErrInvalidTag)
	}
	if !version.InRange(tag.Version) {
		return fmt.Errorf("%w: %w", ErrInvalidTag, version.ErrOutOfRange)
	}
	return nil
}

// Lookup returns the tag bound to t if present.
func (b *binder) Lookup(t reflect.Type) (apis.Tag, bool) {
	if t == nil {
		return apis.Tag{}, false
	}
	nt, err := uref.Normalize(t)
	if err != nil {
		return apis.Tag{}, false
	}
	if v, ok := b.m.Load(nt); ok {
		return v.(apis.Tag), true
	}
	return apis.Tag{}, false
}

// TagOf returns the tag of v. Values implementing apis.Entity answer for
// themselves; everything else goes through the binding table.
func (b *binder) TagOf(v any) (apis.Tag, error) {
	if v == nil {
		return apis.Tag{}, ErrNilValue
	}
	// A nil pointer would panic in a value-receiver EntityTag.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return apis.Tag{}, fmt.Errorf("%w: %T", ErrNilValue, v)
	}
	if e, ok := v.(apis.Entity); ok {
		return e.EntityTag(), nil
	}
	t := reflect.TypeOf(v)
	if tag, ok := b.Lookup(t); ok {
		return tag, nil
	}
	return apis.Tag{}, fmt.Errorf("%w: %s", ErrUnboundType, t)
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (b *binder) Entries() []apis.Binding {
	entries := make([]apis.Binding, 0, b.Count())
	b.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Binding{
			Type: key.(reflect.Type),
			Tag:  value.(apis.Tag),
		})
		return true
	})
	return entries
}

// Count returns the number of bindings.
func (b *binder) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
