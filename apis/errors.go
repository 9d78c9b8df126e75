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
	"fmt"
	"strconv"
)

// Code is a machine-readable configuration error code.
type Code string

const (
	// CodeUnknownEntity: no transformer was ever registered for the entity.
	CodeUnknownEntity Code = "UNKNOWN_ENTITY"
	// CodeNoPath: the entity's graph has no chain between the versions.
	CodeNoPath Code = "NO_PATH"
	// CodeEntityMismatch: the supplied entity is not the expected one.
	CodeEntityMismatch Code = "ENTITY_MISMATCH"
	// CodeDirection: a request asked for a downgrade or a response for an upgrade.
	CodeDirection Code = "DIRECTION"
	// CodeInvalidMetadata: a tag or descriptor is missing or malformed.
	CodeInvalidMetadata Code = "INVALID_METADATA"
	// CodeTransformFailed: a transformer returned an error or a wrong shape.
	CodeTransformFailed Code = "TRANSFORM_FAILED"
	// CodeOperationFailed: the wrapped operation returned an error.
	CodeOperationFailed Code = "OPERATION_FAILED"
)

// ConfigurationError is returned by bridge calls. It is fatal to the call
// that produced it, never to the process.
type ConfigurationError struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable description
	Metadata map[string]string // Entity names and versions involved
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return "verbridge: " + e.Message + ": " + e.Cause.Error()
	}
	return "verbridge: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *ConfigurationError) Is(target error) bool {
	if t, ok := target.(*ConfigurationError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewConfigurationError creates a configuration error with a formatted message.
func NewConfigurationError(code Code, metadata map[string]string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Metadata: metadata,
	}
}

// WrapConfigurationError creates a configuration error that wraps cause.
func WrapConfigurationError(code Code, cause error, metadata map[string]string, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Metadata: metadata,
		Cause:    cause,
	}
}

// ErrCode returns a bare ConfigurationError usable as an errors.Is target.
func ErrCode(code Code) *ConfigurationError {
	return &ConfigurationError{Code: code}
}

// TagMetadata renders a pair of tags into error metadata.
func TagMetadata(from, to Tag) map[string]string {
	return map[string]string{
		"from_entity":  from.Entity,
		"from_version": strconv.Itoa(from.Version),
		"to_entity":    to.Entity,
		"to_version":   strconv.Itoa(to.Version),
	}
}
