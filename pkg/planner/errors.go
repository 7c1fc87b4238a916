/*
Copyright 2025 Lumina Contributors.

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

package planner

import (
	"errors"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidationError reports malformed or out-of-range caller input. It is the
// only error kind returned by an Allocator and is always returned before any
// state is mutated.
//
// Each entry in Errs carries a kind (Required, Invalid, NotFound, Duplicate) and
// the path of the offending field, e.g. "hours" or "catalog[us-east][large]".
type ValidationError struct {
	Errs field.ErrorList
}

// Error joins the individual field errors with "; ".
func (e *ValidationError) Error() string {
	if len(e.Errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		messages = append(messages, err.Error())
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// IsValidationError reports whether err (or anything it wraps) is a
// ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// FieldErrors returns the field errors carried by err, or nil when err is not
// a ValidationError.
func FieldErrors(err error) field.ErrorList {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Errs
	}
	return nil
}

// asError converts a non-empty error list into a ValidationError. An empty list
// yields a nil error so that callers can return the result directly.
func asError(errs field.ErrorList) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: errs}
}
