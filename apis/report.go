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
	"errors"
	"fmt"
)

// Report summarizes a batch registration.
type Report struct {
	// Accepted is the number of transformers that were inserted.
	Accepted int
	// Rejected lists the transformers that were skipped and why.
	Rejected []Rejection
}

// Rejection is a single skipped registration.
type Rejection struct {
	// Transformer is the rejected transformer.
	Transformer Transformer
	// Err is the reason for the rejection.
	Err error
}

// OK reports whether every transformer in the batch was accepted.
func (r Report) OK() bool {
	return len(r.Rejected) == 0
}

// Err joins all rejections into a single error, or returns nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Rejected))
	for _, rj := range r.Rejected {
		errs = append(errs, fmt.Errorf("%s: %w", rj.Transformer, rj.Err))
	}
	return errors.Join(errs...)
}
