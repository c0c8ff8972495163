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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithColumnsProjection(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 1)

	got, err := repo.GetOne(ctx, Cond{}, WithColumns("id", "name"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "user-01", got.Name)
	assert.Empty(t, got.Email, "unselected columns stay at their zero value")
}

func TestWithTombstoneValues(t *testing.T) {
	repo := newUserRepo(t, WithTombstone("deleted"), WithTombstoneValues(0, 9))
	ctx := context.Background()
	seedUsers(t, repo, 1)

	got, err := repo.GetOne(ctx, Cond{})
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, repo.DeleteByID(ctx, got.ID))

	got, err = repo.GetByID(ctx, got.ID, IncludeDeleted())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(9), got.Deleted)
}

func TestFilterDeletedByDefaultOff(t *testing.T) {
	repo := newUserRepo(t, WithTombstone("deleted"), FilterDeletedByDefault(false))
	ctx := context.Background()
	seedUsers(t, repo, 2)

	got, err := repo.GetOne(ctx, Cond{"name": "user-01"})
	require.NoError(t, err)
	require.NotNil(t, got)

	// Filtering is off by default, so the delete is physical.
	require.NoError(t, repo.DeleteByID(ctx, got.ID))
	all, err := repo.Count(ctx, Cond{})
	require.NoError(t, err)
	assert.Equal(t, 1, all)

	// LiveOnly turns filtering, and therefore tombstoning, back on per call.
	got, err = repo.GetOne(ctx, Cond{"name": "user-02"})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NoError(t, repo.DeleteByID(ctx, got.ID, LiveOnly()))

	n, err := repo.Count(ctx, Cond{}, LiveOnly())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.Count(ctx, Cond{})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "tombstoned row is still visible when filtering is off")
}

func TestOrderByInvalidDirectionFallsBack(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 3)

	got, err := repo.GetAll(ctx, Cond{}, OrderBy("age", SortDirection("sideways")))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(22), got[0].Age, "unknown direction must fall back to descending")
}
