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

	"github.com/kestreldb/kestrel/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines condition-based writes for a generic entity type.
//
// Identity-scoped writes (UpdateByID, DeleteByID) report an absent target as
// NotFoundError; bulk writes report an affected count instead. An empty Cond
// matches every record, so callers of UpdateByCondition/DeleteByCondition
// must pass Cond{} deliberately.
type CrudRepository[T any] interface {
	Create(ctx context.Context, entity *T, opts ...CallOption) (*T, error)

	CreateMany(ctx context.Context, entities []*T, opts ...CallOption) ([]*T, error)

	UpdateByID(ctx context.Context, id any, patch map[string]any, opts ...CallOption) (*T, error)

	UpdateByCondition(ctx context.Context, cond Cond, patch map[string]any, opts ...CallOption) (int64, error)

	DeleteByID(ctx context.Context, id any, opts ...CallOption) error

	DeleteByCondition(ctx context.Context, cond Cond, opts ...CallOption) (int64, error)
}

// QueryRepository defines condition-based reads and aggregates. Reads report
// absence as a nil record, never as an error.
type QueryRepository[T any] interface {
	GetByID(ctx context.Context, id any, opts ...CallOption) (*T, error)

	GetAll(ctx context.Context, cond Cond, opts ...CallOption) ([]*T, error)

	GetOne(ctx context.Context, cond Cond, opts ...CallOption) (*T, error)

	GetPage(ctx context.Context, cond Cond, page, pageSize int, opts ...CallOption) (*types.Pagination[T], error)

	Exists(ctx context.Context, cond Cond, opts ...CallOption) (bool, error)

	Count(ctx context.Context, cond Cond, opts ...CallOption) (int, error)

	MaxOf(ctx context.Context, field string, cond Cond, opts ...CallOption) (any, error)
}

// SchemaInfo exposes entity schema configuration for upstream layers that
// must default an identity field or a tombstone policy without duplicating
// repository configuration.
type SchemaInfo interface {
	SchemaFields() []string
	PrimaryKeyField() string
	DefaultTombstonePolicy() bool
}

// Repository combines CRUD, queries, and schema introspection, and exposes
// Bun query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
	SchemaInfo
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
