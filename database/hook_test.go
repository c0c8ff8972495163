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
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) SetLevel(level LogLevel)                 {}
func (l *recordingLogger) Debug(msg string, fields ...interface{}) {}
func (l *recordingLogger) Info(msg string, fields ...interface{})  {}
func (l *recordingLogger) Error(msg string, fields ...interface{}) {}
func (l *recordingLogger) Warn(msg string, fields ...interface{}) {
	l.warnings = append(l.warnings, msg)
}

func TestQueryHookDisabledByDefault(t *testing.T) {
	var buf bytes.Buffer
	h := NewQueryHook("KESTREL_TEST_QUERY_LOG_UNSET")
	h.writer = &buf

	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, buf.String())
}

func TestQueryHookVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := NewQueryHook("KESTREL_TEST_QUERY_LOG_UNSET")
	h.writer = &buf
	h.enabled = true
	h.verbose = true

	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	out := buf.String()
	assert.Contains(t, out, "[SQL]")
	assert.Contains(t, out, "SELECT 1")
}

func TestQueryHookErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	h := NewQueryHook("KESTREL_TEST_QUERY_LOG_UNSET")
	h.writer = &buf
	h.enabled = true

	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, buf.String())

	h.AfterQuery(context.Background(), &bun.QueryEvent{
		Query:     "INSERT INTO users",
		StartTime: time.Now(),
		Err:       errors.New("boom"),
	})
	assert.Contains(t, buf.String(), "boom")
}

func TestQueryHookEnvOverride(t *testing.T) {
	var buf bytes.Buffer
	h := NewQueryHook("KESTREL_TEST_QUERY_LOG")
	h.writer = &buf

	t.Setenv("KESTREL_TEST_QUERY_LOG", "2")
	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "DELETE FROM users", StartTime: time.Now()})
	assert.Contains(t, buf.String(), "DELETE FROM users")

	buf.Reset()
	t.Setenv("KESTREL_TEST_QUERY_LOG", "0")
	h.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, buf.String())
}

func TestSlowQueryHook(t *testing.T) {
	logger := &recordingLogger{}
	h := NewSlowQueryHook(50*time.Millisecond, logger)
	ctx := context.Background()

	h.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, logger.warnings)

	h.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT pg_sleep(1)", StartTime: time.Now().Add(-time.Second)})
	assert.Len(t, logger.warnings, 1)

	// Failed statements are reported through error handling, not as slow.
	h.AfterQuery(ctx, &bun.QueryEvent{
		Query:     "SELECT broken",
		StartTime: time.Now().Add(-time.Second),
		Err:       errors.New("syntax error"),
	})
	assert.Len(t, logger.warnings, 1)
}
