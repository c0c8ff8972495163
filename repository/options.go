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

import "github.com/uptrace/bun"

// SortDirection is an ORDER BY direction.
type SortDirection string

const (
	Asc  SortDirection = "ASC"
	Desc SortDirection = "DESC"
)

// IsValid reports whether the direction is one of the two known values.
func (d SortDirection) IsValid() bool { return d == Asc || d == Desc }

// config holds per-repository settings fixed at construction.
type config struct {
	tombstoneField   string
	tombstoneLive    any
	tombstoneDeleted any
	filterByDefault  bool
	messages         Messages
}

func defaultConfig() config {
	return config{
		tombstoneLive:    0,
		tombstoneDeleted: 1,
		messages:         defaultMessages(),
	}
}

// Option configures a repository at construction time.
type Option func(*config)

// WithTombstone enables soft deletes on the named column and turns on
// tombstone filtering by default. The column defaults to 0 = live,
// 1 = deleted; override the pair with WithTombstoneValues.
func WithTombstone(field string) Option {
	return func(c *config) {
		c.tombstoneField = field
		c.filterByDefault = true
	}
}

// WithTombstoneValues overrides the live and deleted marker values, e.g.
// false/true for a boolean column.
func WithTombstoneValues(live, deleted any) Option {
	return func(c *config) {
		c.tombstoneLive = live
		c.tombstoneDeleted = deleted
	}
}

// FilterDeletedByDefault sets the default tombstone-filtering policy. Each
// call may still override it with IncludeDeleted or LiveOnly.
func FilterDeletedByDefault(on bool) Option {
	return func(c *config) { c.filterByDefault = on }
}

// WithMessages overrides the failure message catalog. Empty fields keep
// their defaults.
func WithMessages(m Messages) Option {
	return func(c *config) { c.messages = c.messages.merge(m) }
}

// callSettings collects per-call options. The zero value means: repository
// connection, all columns, primary key descending, configured tombstone
// policy.
type callSettings struct {
	idb        bun.IDB
	columns    []string
	orderField string
	orderDir   SortDirection
	tombstone  *bool
}

// CallOption adjusts a single repository call.
type CallOption func(*callSettings)

// WithTx runs the call inside the given transactional context. The handle is
// forwarded verbatim to every store call the operation makes, so a
// read-then-write pair observes the same isolation scope. The repository
// never commits or rolls back.
func WithTx(idb bun.IDB) CallOption {
	return func(s *callSettings) { s.idb = idb }
}

// WithColumns restricts the call to the given column projection.
func WithColumns(columns ...string) CallOption {
	return func(s *callSettings) { s.columns = columns }
}

// OrderBy overrides the default ordering (primary key, descending). An
// unknown direction falls back to descending.
func OrderBy(field string, dir SortDirection) CallOption {
	return func(s *callSettings) {
		s.orderField = field
		if dir.IsValid() {
			s.orderDir = dir
		}
	}
}

// IncludeDeleted disables tombstone filtering for this call, exposing
// logically deleted records and making deletes physical.
func IncludeDeleted() CallOption {
	return func(s *callSettings) {
		off := false
		s.tombstone = &off
	}
}

// LiveOnly forces tombstone filtering on for this call, regardless of the
// repository default.
func LiveOnly() CallOption {
	return func(s *callSettings) {
		on := true
		s.tombstone = &on
	}
}
