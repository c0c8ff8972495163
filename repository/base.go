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
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sort"

	"github.com/kestreldb/kestrel/database"
	"github.com/kestreldb/kestrel/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db  *bun.DB
	cfg config
	pk  string
}

// NewRepository returns a generic repository backed by the provided Bun DB.
// Entity-specific behavior is supplied through options at construction, not
// through subtyping; the configuration is immutable afterwards.
func NewRepository[T any](db *bun.DB, opts ...Option) Repository[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &baseRepositoryImpl[T]{db: db, cfg: cfg}
	r.pk = r.primaryKey()
	return r
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) table() *schema.Table {
	return r.db.Table(reflect.TypeOf((*T)(nil)).Elem())
}

func (r *baseRepositoryImpl[T]) primaryKey() string {
	if pks := r.table().PKs; len(pks) > 0 {
		return pks[0].Name
	}
	return "id"
}

// SchemaFields returns the column names of the backing entity schema.
func (r *baseRepositoryImpl[T]) SchemaFields() []string {
	t := r.table()
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = f.Name
	}
	return fields
}

func (r *baseRepositoryImpl[T]) PrimaryKeyField() string { return r.pk }

func (r *baseRepositoryImpl[T]) DefaultTombstonePolicy() bool {
	return r.cfg.tombstoneField != "" && r.cfg.filterByDefault
}

func (r *baseRepositoryImpl[T]) settings(opts []CallOption) callSettings {
	s := callSettings{orderDir: Desc}
	for _, opt := range opts {
		opt(&s)
	}
	if s.orderField == "" {
		s.orderField = r.pk
	}
	return s
}

func (r *baseRepositoryImpl[T]) idb(s callSettings) bun.IDB {
	if s.idb != nil {
		return s.idb
	}
	return r.db
}

// tombstoneActive reports whether this call is scoped to live records.
func (r *baseRepositoryImpl[T]) tombstoneActive(s callSettings) bool {
	if r.cfg.tombstoneField == "" {
		return false
	}
	if s.tombstone != nil {
		return *s.tombstone
	}
	return r.cfg.filterByDefault
}

// scoped injects the live-record constraint into a clone of cond. The
// caller's condition is never mutated, and a tombstone constraint the caller
// set explicitly wins over injection.
func (r *baseRepositoryImpl[T]) scoped(cond Cond, s callSettings) Cond {
	if !r.tombstoneActive(s) {
		return cond
	}
	if _, ok := cond[r.cfg.tombstoneField]; ok {
		return cond
	}
	out := cond.Clone()
	out[r.cfg.tombstoneField] = r.cfg.tombstoneLive
	return out
}

func (r *baseRepositoryImpl[T]) selectQuery(s callSettings, cond Cond, model any) (*bun.SelectQuery, error) {
	q := r.idb(s).NewSelect().Model(model)
	if len(s.columns) > 0 {
		q = q.Column(s.columns...)
	}
	cls, err := r.scoped(cond, s).clauses()
	if err != nil {
		return nil, err
	}
	for _, cl := range cls {
		q = q.Where(cl.expr, cl.args...)
	}
	return q, nil
}

func ordered(q *bun.SelectQuery, s callSettings) *bun.SelectQuery {
	return q.OrderExpr("? ?", bun.Ident(s.orderField), bun.Safe(s.orderDir))
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity *T, opts ...CallOption) (*T, error) {
	s := r.settings(opts)
	if _, err := r.idb(s).NewInsert().Model(entity).Exec(ctx); err != nil {
		return nil, r.writeErr(err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) CreateMany(ctx context.Context, entities []*T, opts ...CallOption) ([]*T, error) {
	if len(entities) == 0 {
		return entities, nil
	}
	s := r.settings(opts)
	if _, err := r.idb(s).NewInsert().Model(&entities).Exec(ctx); err != nil {
		return nil, r.writeErr(err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) UpdateByID(ctx context.Context, id any, patch map[string]any, opts ...CallOption) (*T, error) {
	s := r.settings(opts)
	current, err := r.fetchOne(ctx, s, Cond{r.pk: id})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{Message: r.cfg.messages.NotAvailable}
	}
	if len(patch) == 0 {
		return current, nil
	}
	if _, err := r.updateSet(ctx, s, Cond{r.pk: id}, patch); err != nil {
		return nil, err
	}
	// Re-read by primary key only: the target was just validated, and the
	// patch itself may have flipped the tombstone field.
	unscoped := s
	off := false
	unscoped.tombstone = &off
	return r.fetchOne(ctx, unscoped, Cond{r.pk: id})
}

func (r *baseRepositoryImpl[T]) UpdateByCondition(ctx context.Context, cond Cond, patch map[string]any, opts ...CallOption) (int64, error) {
	if len(patch) == 0 {
		return 0, nil
	}
	return r.updateSet(ctx, r.settings(opts), cond, patch)
}

func (r *baseRepositoryImpl[T]) DeleteByID(ctx context.Context, id any, opts ...CallOption) error {
	s := r.settings(opts)
	current, err := r.fetchOne(ctx, s, Cond{r.pk: id})
	if err != nil {
		return err
	}
	if current == nil {
		return &NotFoundError{Message: r.cfg.messages.NotAvailable}
	}
	if r.tombstoneActive(s) {
		_, err = r.updateSet(ctx, s, Cond{r.pk: id}, map[string]any{r.cfg.tombstoneField: r.cfg.tombstoneDeleted})
		return err
	}
	_, err = r.deleteWhere(ctx, s, Cond{r.pk: id})
	return err
}

func (r *baseRepositoryImpl[T]) DeleteByCondition(ctx context.Context, cond Cond, opts ...CallOption) (int64, error) {
	s := r.settings(opts)
	if r.tombstoneActive(s) {
		return r.updateSet(ctx, s, cond, map[string]any{r.cfg.tombstoneField: r.cfg.tombstoneDeleted})
	}
	return r.deleteWhere(ctx, s, cond)
}

func (r *baseRepositoryImpl[T]) GetByID(ctx context.Context, id any, opts ...CallOption) (*T, error) {
	return r.fetchOne(ctx, r.settings(opts), Cond{r.pk: id})
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, cond Cond, opts ...CallOption) (*T, error) {
	return r.fetchOne(ctx, r.settings(opts), cond)
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context, cond Cond, opts ...CallOption) ([]*T, error) {
	s := r.settings(opts)
	var entities []*T
	q, err := r.selectQuery(s, cond, &entities)
	if err != nil {
		return nil, err
	}
	if err := ordered(q, s).Scan(ctx); err != nil {
		return nil, err
	}
	if entities == nil {
		entities = make([]*T, 0)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) GetPage(ctx context.Context, cond Cond, page, pageSize int, opts ...CallOption) (*types.Pagination[T], error) {
	if page < 1 || pageSize < 1 {
		return nil, ErrInvalidPage
	}
	s := r.settings(opts)
	var entities []*T
	q, err := r.selectQuery(s, cond, &entities)
	if err != nil {
		return nil, err
	}
	pagination := types.NewPagination[T](page, pageSize)
	total, err := q.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	err = ordered(q, s).
		Offset(types.Offset(page, pageSize)).
		Limit(pageSize).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.TotalPages = types.TotalPages(total, pageSize)
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, cond Cond, opts ...CallOption) (bool, error) {
	s := r.settings(opts)
	q, err := r.selectQuery(s, cond, (*T)(nil))
	if err != nil {
		return false, err
	}
	return q.Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, cond Cond, opts ...CallOption) (int, error) {
	s := r.settings(opts)
	q, err := r.selectQuery(s, cond, (*T)(nil))
	if err != nil {
		return 0, err
	}
	return q.Count(ctx)
}

// MaxOf returns the maximum value of field over the matching rows, or nil
// when no row matches.
func (r *baseRepositoryImpl[T]) MaxOf(ctx context.Context, field string, cond Cond, opts ...CallOption) (any, error) {
	s := r.settings(opts)
	q := r.idb(s).NewSelect().Model((*T)(nil)).ColumnExpr("MAX(?)", bun.Ident(field))
	cls, err := r.scoped(cond, s).clauses()
	if err != nil {
		return nil, err
	}
	for _, cl := range cls {
		q = q.Where(cl.expr, cl.args...)
	}
	var max any
	if err := q.Scan(ctx, &max); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return max, nil
}

func (r *baseRepositoryImpl[T]) fetchOne(ctx context.Context, s callSettings, cond Cond) (*T, error) {
	var entity T
	q, err := r.selectQuery(s, cond, &entity)
	if err != nil {
		return nil, err
	}
	if err := ordered(q, s).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// updateSet persists patch onto every row matched by the tombstone-scoped
// condition, one SET per patch key. Keys absent from patch are untouched; a
// key explicitly present with a nil value writes NULL.
func (r *baseRepositoryImpl[T]) updateSet(ctx context.Context, s callSettings, cond Cond, patch map[string]any) (int64, error) {
	q := r.idb(s).NewUpdate().Model((*T)(nil))
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q = q.Set("? = ?", bun.Ident(k), patch[k])
	}
	cls, err := r.scoped(cond, s).clauses()
	if err != nil {
		return 0, err
	}
	// Bun rejects WHERE-less writes; an empty condition is a deliberate
	// match-all, so give it an always-true clause.
	if len(cls) == 0 {
		q = q.Where("1 = 1")
	}
	for _, cl := range cls {
		q = q.Where(cl.expr, cl.args...)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, r.writeErr(err)
	}
	return res.RowsAffected()
}

func (r *baseRepositoryImpl[T]) deleteWhere(ctx context.Context, s callSettings, cond Cond) (int64, error) {
	q := r.idb(s).NewDelete().Model((*T)(nil))
	cls, err := r.scoped(cond, s).clauses()
	if err != nil {
		return 0, err
	}
	if len(cls) == 0 {
		q = q.Where("1 = 1")
	}
	for _, cl := range cls {
		q = q.Where(cl.expr, cl.args...)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, r.writeErr(err)
	}
	return res.RowsAffected()
}

// writeErr classifies store-level write rejections. Uniqueness and foreign
// key violations become ConstraintError carrying the configured message;
// every other store failure propagates unchanged.
func (r *baseRepositoryImpl[T]) writeErr(err error) error {
	if err == nil {
		return nil
	}
	if ok, kind := database.IsSQLError(err); ok {
		switch kind {
		case database.DuplicateKeyErr:
			return &ConstraintError{Message: r.cfg.messages.AlreadyExists, Err: err}
		case database.ForeignKeyViolationErr:
			return &ConstraintError{Message: r.cfg.messages.ForeignKey, Err: err}
		}
	}
	return err
}
