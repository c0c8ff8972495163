/*
 * Copyright 2026 kestreldb.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import "errors"

// ErrInvalidPage rejects page numbers or page sizes below 1.
var ErrInvalidPage = errors.New("page number and page size must be positive")

// Messages customizes the client-facing text for the named failure cases.
// Zero-valued fields keep the defaults.
type Messages struct {
	NotAvailable  string
	AlreadyExists string
	ForeignKey    string
}

func defaultMessages() Messages {
	return Messages{
		NotAvailable:  "record not available",
		AlreadyExists: "record already exists",
		ForeignKey:    "operation violates a foreign key constraint",
	}
}

func (m Messages) merge(over Messages) Messages {
	if over.NotAvailable != "" {
		m.NotAvailable = over.NotAvailable
	}
	if over.AlreadyExists != "" {
		m.AlreadyExists = over.AlreadyExists
	}
	if over.ForeignKey != "" {
		m.ForeignKey = over.ForeignKey
	}
	return m
}

// NotFoundError reports that the target of an identity-scoped write is
// absent. Reads never raise it; they report absence as a nil record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConstraintError reports a store-level uniqueness or foreign key rejection.
// It wraps the original store error for logging.
type ConstraintError struct {
	Message string
	Err     error
}

func (e *ConstraintError) Error() string { return e.Message }

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConstraint reports whether err is a ConstraintError.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}
