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

import "context"

// OperationDescriptor declares the exact entity shapes an operation consumes
// and produces.
type OperationDescriptor struct {
	// Input is the tag the operation requires as input.
	Input Tag
	// Output is the tag the operation produces.
	Output Tag
}

// Operation is a business operation implemented against one fixed pair of
// entity shapes.
type Operation interface {
	// Descriptor returns the operation's input and output tags.
	Descriptor() OperationDescriptor
	// Execute runs the operation on an input of Descriptor().Input shape.
	Execute(ctx context.Context, in any) (any, error)
}

// Bridge moves entities between the shape a caller speaks and the shape an
// operation was written against. Failures are *ConfigurationError values.
type Bridge interface {
	// BridgeRequest upgrades v to required. The version of v must not be
	// newer than required.Version.
	BridgeRequest(ctx context.Context, v any, required Tag) (any, error)
	// BridgeResponse downgrades v to expected. The version of v must not be
	// older than expected.Version.
	BridgeResponse(ctx context.Context, v any, expected Tag) (any, error)
	// Execute bridges v to the operation's input, runs the operation and
	// bridges its output to expected.
	Execute(ctx context.Context, op Operation, v any, expected Tag) (any, error)
}
