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

package version

import (
	"errors"
	"fmt"
)

const (
	// Min is the lowest valid entity version.
	Min = 1
	// Max is the highest valid entity version.
	Max = 99
)

var (
	// ErrOutOfRange is returned when a version falls outside [Min, Max].
	ErrOutOfRange = errors.New("verbridge(version): version out of range [1, 99]")
	// ErrSameVersion is returned when a pair maps a version onto itself.
	ErrSameVersion = errors.New("verbridge(version): from and to versions are equal")
)

// InRange reports whether v lies within [Min, Max].
func InRange(v int) bool {
	return v >= Min && v <= Max
}

// ValidatePair checks that from and to are both in range and distinct.
func ValidatePair(from, to int) error {
	if !InRange(from) || !InRange(to) {
		return fmt.Errorf("%w: %d -> %d", ErrOutOfRange, from, to)
	}
	if from == to {
		return fmt.Errorf("%w: %d -> %d", ErrSameVersion, from, to)
	}
	return nil
}

// Direction returns +1 for an upgrade (to > from), -1 for a downgrade and 0
// when the versions are equal.
func Direction(from, to int) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}
