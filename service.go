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

package kestrel

import (
	"context"
	"sync"

	"github.com/kestreldb/kestrel/database"
	"github.com/kestreldb/kestrel/repository"
	"github.com/kestreldb/kestrel/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Service composes cross-cutting query behavior over a generic repository:
// multi-column pattern search folded into a condition, plus the full
// repository operation set.
type Service[T any] interface {
	repository.Repository[T]

	// SearchAndPaginate folds a per-column LIKE %term% search over
	// searchColumns into cond and returns the requested page. With an empty
	// searchColumns every schema field is searched; unknown column names are
	// silently dropped. An empty term leaves cond untouched. The search is
	// installed under the condition's OrKey, so an OR group already present
	// in cond is replaced by the search group.
	SearchAndPaginate(ctx context.Context, cond repository.Cond, page, pageSize int,
		term string, searchColumns []string, opts ...repository.CallOption) (*types.Pagination[T], error)
}

type baseServiceImpl[T any] struct {
	repository.Repository[T]
}

// NewService wraps an existing repository.
func NewService[T any](repo repository.Repository[T]) Service[T] {
	return &baseServiceImpl[T]{Repository: repo}
}

// NewDefaultService returns a Service backed by the global database
// connection, constructing its repository lazily on first use so the service
// may be declared before database.InitDB runs.
func NewDefaultService[T any](opts ...repository.Option) Service[T] {
	return &lazyServiceImpl[T]{opts: opts}
}

func (s *baseServiceImpl[T]) SearchAndPaginate(ctx context.Context, cond repository.Cond, page, pageSize int,
	term string, searchColumns []string, opts ...repository.CallOption) (*types.Pagination[T], error) {
	return s.GetPage(ctx, s.searchCondition(cond, term, searchColumns), page, pageSize, opts...)
}

// searchCondition resolves the target column set and merges an OR-group of
// per-column pattern matches into a clone of cond. The caller's condition is
// left untouched.
func (s *baseServiceImpl[T]) searchCondition(cond repository.Cond, term string, searchColumns []string) repository.Cond {
	if cond == nil {
		cond = repository.Cond{}
	}
	if term == "" {
		return cond
	}
	fields := s.SchemaFields()
	target := fields
	if len(searchColumns) > 0 {
		known := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			known[f] = struct{}{}
		}
		target = make([]string, 0, len(searchColumns))
		for _, c := range searchColumns {
			if _, ok := known[c]; ok {
				target = append(target, c)
			}
		}
	}
	if len(target) == 0 {
		return cond
	}
	subs := make([]repository.Cond, len(target))
	for i, column := range target {
		subs[i] = repository.Cond{column: repository.Like("%" + term + "%")}
	}
	out := cond.Clone()
	out[repository.OrKey] = subs
	return out
}

// lazyServiceImpl defers repository construction until the first call, then
// behaves exactly like the wrapped service.
type lazyServiceImpl[T any] struct {
	opts []repository.Option
	once sync.Once
	svc  Service[T]
}

func (l *lazyServiceImpl[T]) base() Service[T] {
	l.once.Do(func() {
		repo := repository.NewRepository[T](database.GetDB(), l.opts...)
		l.svc = NewService[T](repo)
	})
	return l.svc
}

func (l *lazyServiceImpl[T]) SearchAndPaginate(ctx context.Context, cond repository.Cond, page, pageSize int,
	term string, searchColumns []string, opts ...repository.CallOption) (*types.Pagination[T], error) {
	return l.base().SearchAndPaginate(ctx, cond, page, pageSize, term, searchColumns, opts...)
}

func (l *lazyServiceImpl[T]) Create(ctx context.Context, entity *T, opts ...repository.CallOption) (*T, error) {
	return l.base().Create(ctx, entity, opts...)
}

func (l *lazyServiceImpl[T]) CreateMany(ctx context.Context, entities []*T, opts ...repository.CallOption) ([]*T, error) {
	return l.base().CreateMany(ctx, entities, opts...)
}

func (l *lazyServiceImpl[T]) UpdateByID(ctx context.Context, id any, patch map[string]any, opts ...repository.CallOption) (*T, error) {
	return l.base().UpdateByID(ctx, id, patch, opts...)
}

func (l *lazyServiceImpl[T]) UpdateByCondition(ctx context.Context, cond repository.Cond, patch map[string]any, opts ...repository.CallOption) (int64, error) {
	return l.base().UpdateByCondition(ctx, cond, patch, opts...)
}

func (l *lazyServiceImpl[T]) DeleteByID(ctx context.Context, id any, opts ...repository.CallOption) error {
	return l.base().DeleteByID(ctx, id, opts...)
}

func (l *lazyServiceImpl[T]) DeleteByCondition(ctx context.Context, cond repository.Cond, opts ...repository.CallOption) (int64, error) {
	return l.base().DeleteByCondition(ctx, cond, opts...)
}

func (l *lazyServiceImpl[T]) GetByID(ctx context.Context, id any, opts ...repository.CallOption) (*T, error) {
	return l.base().GetByID(ctx, id, opts...)
}

func (l *lazyServiceImpl[T]) GetAll(ctx context.Context, cond repository.Cond, opts ...repository.CallOption) ([]*T, error) {
	return l.base().GetAll(ctx, cond, opts...)
}

func (l *lazyServiceImpl[T]) GetOne(ctx context.Context, cond repository.Cond, opts ...repository.CallOption) (*T, error) {
	return l.base().GetOne(ctx, cond, opts...)
}

func (l *lazyServiceImpl[T]) GetPage(ctx context.Context, cond repository.Cond, page, pageSize int, opts ...repository.CallOption) (*types.Pagination[T], error) {
	return l.base().GetPage(ctx, cond, page, pageSize, opts...)
}

func (l *lazyServiceImpl[T]) Exists(ctx context.Context, cond repository.Cond, opts ...repository.CallOption) (bool, error) {
	return l.base().Exists(ctx, cond, opts...)
}

func (l *lazyServiceImpl[T]) Count(ctx context.Context, cond repository.Cond, opts ...repository.CallOption) (int, error) {
	return l.base().Count(ctx, cond, opts...)
}

func (l *lazyServiceImpl[T]) MaxOf(ctx context.Context, field string, cond repository.Cond, opts ...repository.CallOption) (any, error) {
	return l.base().MaxOf(ctx, field, cond, opts...)
}

func (l *lazyServiceImpl[T]) SchemaFields() []string { return l.base().SchemaFields() }

func (l *lazyServiceImpl[T]) PrimaryKeyField() string { return l.base().PrimaryKeyField() }

func (l *lazyServiceImpl[T]) DefaultTombstonePolicy() bool { return l.base().DefaultTombstonePolicy() }

func (l *lazyServiceImpl[T]) Dialect() schema.Dialect { return l.base().Dialect() }

func (l *lazyServiceImpl[T]) NewSelect() *bun.SelectQuery { return l.base().NewSelect() }

func (l *lazyServiceImpl[T]) NewInsert() *bun.InsertQuery { return l.base().NewInsert() }

func (l *lazyServiceImpl[T]) NewUpdate() *bun.UpdateQuery { return l.base().NewUpdate() }

func (l *lazyServiceImpl[T]) NewDelete() *bun.DeleteQuery { return l.base().NewDelete() }
