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

package bridge

import (
	"context"

	"dirpx.dev/verbridge/apis"
)

// OperationFunc is the body of an operation written against one fixed
// input and output shape.
type OperationFunc func(ctx context.Context, in any) (any, error)

// Operation adapts fn and its descriptor to apis.Operation. Executing an
// operation built with a nil fn fails with apis.CodeInvalidMetadata.
func Operation(d apis.OperationDescriptor, fn OperationFunc) apis.Operation {
	return funcOperation{d: d, fn: fn}
}

type funcOperation struct {
	d  apis.OperationDescriptor
	fn OperationFunc
}

func (o funcOperation) Descriptor() apis.OperationDescriptor {
	return o.d
}

func (o funcOperation) Execute(ctx context.Context, in any) (any, error) {
	if o.fn == nil {
		return nil, errNilFunc(o.d)
	}
	return o.fn(ctx, in)
}

func errNilFunc(d apis.OperationDescriptor) error {
	return apis.NewConfigurationError(apis.CodeInvalidMetadata, apis.TagMetadata(d.Input, d.Output),
		"operation %s -> %s has no function", d.Input, d.Output)
}
