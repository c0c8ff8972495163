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

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagesMerge(t *testing.T) {
	merged := defaultMessages().merge(Messages{AlreadyExists: "duplicate user"})
	assert.Equal(t, "duplicate user", merged.AlreadyExists)
	assert.Equal(t, defaultMessages().NotAvailable, merged.NotAvailable)
	assert.Equal(t, defaultMessages().ForeignKey, merged.ForeignKey)
}

func TestErrorPredicates(t *testing.T) {
	nf := &NotFoundError{Message: "gone"}
	assert.True(t, IsNotFound(nf))
	assert.True(t, IsNotFound(fmt.Errorf("update: %w", nf)))
	assert.False(t, IsNotFound(errors.New("gone")))

	ce := &ConstraintError{Message: "dup", Err: errors.New("driver detail")}
	assert.True(t, IsConstraint(ce))
	assert.False(t, IsConstraint(nf))
	assert.EqualError(t, ce, "dup")
	assert.EqualError(t, errors.Unwrap(ce), "driver detail")
}
