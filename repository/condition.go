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
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

// OrKey is the reserved condition key whose value is a []Cond combined with
// logical OR. Every other key names a column.
const OrKey = "$or"

// Cond is a declarative filter: column name -> value. A plain value compares
// with equality, nil renders IS NULL, a slice renders IN, and the value built
// by Like renders a pattern match. An empty Cond matches every row.
type Cond map[string]any

// Clone returns a shallow copy. Operations that augment a caller's condition
// (tombstone scoping, search folding) work on a clone, so a caller may reuse
// one Cond across calls without it being mutated underneath.
func (c Cond) Clone() Cond {
	out := make(Cond, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

type likePattern string

// Like builds a pattern-match operator value, e.g. Cond{"name": Like("%jo%")}.
func Like(pattern string) any { return likePattern(pattern) }

// Or builds a condition matching rows that satisfy any of the sub-conditions.
func Or(conds ...Cond) Cond { return Cond{OrKey: conds} }

type clause struct {
	expr string
	args []any
}

// clauses compiles the condition into WHERE fragments in sorted key order,
// so the generated SQL is deterministic.
func (c Cond) clauses() ([]clause, error) {
	if len(c) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]clause, 0, len(keys))
	for _, k := range keys {
		var (
			cl  clause
			err error
		)
		if k == OrKey {
			subs, ok := c[k].([]Cond)
			if !ok {
				return nil, fmt.Errorf("condition key %q expects []Cond, got %T", OrKey, c[k])
			}
			cl, err = orClause(subs)
		} else {
			cl, err = columnClause(k, c[k])
		}
		if err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, nil
}

func columnClause(column string, value any) (clause, error) {
	switch v := value.(type) {
	case nil:
		return clause{"? IS NULL", []any{bun.Ident(column)}}, nil
	case likePattern:
		return clause{"? LIKE ?", []any{bun.Ident(column), string(v)}}, nil
	case Cond, []Cond:
		return clause{}, fmt.Errorf("nested condition under column %q, use %q", column, OrKey)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		return clause{"? IN (?)", []any{bun.Ident(column), bun.In(value)}}, nil
	}
	return clause{"? = ?", []any{bun.Ident(column), value}}, nil
}

// orClause renders each sub-condition as an AND group and joins the groups
// with OR. An empty group list matches nothing.
func orClause(subs []Cond) (clause, error) {
	parts := make([]string, 0, len(subs))
	var args []any
	for _, sub := range subs {
		cls, err := sub.clauses()
		if err != nil {
			return clause{}, err
		}
		if len(cls) == 0 {
			continue
		}
		exprs := make([]string, len(cls))
		for i, cl := range cls {
			exprs[i] = cl.expr
			args = append(args, cl.args...)
		}
		parts = append(parts, "("+strings.Join(exprs, " AND ")+")")
	}
	if len(parts) == 0 {
		return clause{"1 = 0", nil}, nil
	}
	return clause{"(" + strings.Join(parts, " OR ") + ")", args}, nil
}
