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

package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsSQLErrorMySQL(t *testing.T) {
	cases := []struct {
		number uint16
		kind   SQLError
	}{
		{1062, DuplicateKeyErr},
		{1048, NotNullViolationErr},
		{1216, ForeignKeyViolationErr},
		{1452, ForeignKeyViolationErr},
		{3819, CheckConstraintViolationErr},
		{1265, DataTruncatedErr},
		{1045, UnknownErr},
	}
	for _, c := range cases {
		err := &mysql.MySQLError{Number: c.number, Message: "test"}
		is, kind := IsSQLError(err)
		assert.True(t, is, "errno %d", c.number)
		assert.Equal(t, c.kind, kind, "errno %d", c.number)
	}
}

func TestIsSQLErrorWrapped(t *testing.T) {
	err := fmt.Errorf("insert users: %w", &mysql.MySQLError{Number: 1062})
	is, kind := IsSQLError(err)
	assert.True(t, is)
	assert.Equal(t, DuplicateKeyErr, kind)
}

func TestIsSQLErrorByMessage(t *testing.T) {
	cases := []struct {
		msg  string
		kind SQLError
	}{
		{`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`, DuplicateKeyErr},
		{"constraint failed: UNIQUE constraint failed: users.email", DuplicateKeyErr},
		{`ERROR: null value in column "name" violates not-null constraint (SQLSTATE 23502)`, NotNullViolationErr},
		{"constraint failed: NOT NULL constraint failed: users.name", NotNullViolationErr},
		{`ERROR: insert or update on table "orders" violates foreign key constraint (SQLSTATE 23503)`, ForeignKeyViolationErr},
		{"constraint failed: FOREIGN KEY constraint failed", ForeignKeyViolationErr},
		{`ERROR: new row violates check constraint "age_positive" (SQLSTATE 23514)`, CheckConstraintViolationErr},
		{`ERROR: value too long (SQLSTATE 22001)`, DataTruncatedErr},
	}
	for _, c := range cases {
		is, kind := IsSQLError(errors.New(c.msg))
		assert.True(t, is, c.msg)
		assert.Equal(t, c.kind, kind, c.msg)
	}
}

func TestIsSQLErrorUnrecognized(t *testing.T) {
	is, kind := IsSQLError(errors.New("connection refused"))
	assert.False(t, is)
	assert.Equal(t, UnknownErr, kind)
}
