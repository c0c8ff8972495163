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

func TestCondEquality(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 3)

	n, err := repo.Count(ctx, Cond{"name": "user-02"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.Count(ctx, Cond{"name": "user-02", "age": 21})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Keys combine with AND.
	n, err = repo.Count(ctx, Cond{"name": "user-02", "age": 99})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCondIn(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 5)

	n, err := repo.Count(ctx, Cond{"name": []string{"user-01", "user-04"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Count(ctx, Cond{"age": []int64{20, 21, 77}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCondLike(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 12)

	n, err := repo.Count(ctx, Cond{"name": Like("user-1%")})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Count(ctx, Cond{"email": Like("%@example.com")})
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestCondNullMatching(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 3)

	n, err := repo.Count(ctx, Cond{"age": nil})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// A nil patch value writes NULL, it does not skip the column.
	affected, err := repo.UpdateByCondition(ctx, Cond{"name": "user-02"}, map[string]any{"age": nil})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	n, err = repo.Count(ctx, Cond{"age": nil})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCondOr(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 5)

	n, err := repo.Count(ctx, Or(Cond{"name": "user-01"}, Cond{"age": 23}))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Each sub-condition is an AND group.
	n, err = repo.Count(ctx, Or(
		Cond{"name": "user-01", "age": 20},
		Cond{"name": "user-02", "age": 99},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The OR branch combines with the other keys by AND.
	n, err = repo.Count(ctx, Cond{
		"age": []int64{20, 21},
		OrKey: []Cond{
			{"name": "user-01"},
			{"name": "user-05"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCondOrEmptyMatchesNothing(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 3)

	n, err := repo.Count(ctx, Or())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCondEmptyMatchesEverything(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()
	seedUsers(t, repo, 3)

	n, err := repo.Count(ctx, Cond{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCondMalformed(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	_, err := repo.GetAll(ctx, Cond{"name": Cond{"x": 1}})
	assert.Error(t, err)

	_, err = repo.Count(ctx, Cond{OrKey: "not a slice"})
	assert.Error(t, err)
}

func TestCondExplicitTombstoneKeyWins(t *testing.T) {
	repo := newUserRepo(t, WithTombstone("deleted"))
	ctx := context.Background()
	seedUsers(t, repo, 3)

	_, err := repo.DeleteByCondition(ctx, Cond{"name": "user-03"})
	require.NoError(t, err)

	// An explicit tombstone constraint suppresses the injected one.
	n, err := repo.Count(ctx, Cond{"deleted": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCondClone(t *testing.T) {
	orig := Cond{"a": 1, "b": nil}
	cloned := orig.Clone()
	cloned["c"] = 3
	delete(cloned, "a")

	assert.Equal(t, Cond{"a": 1, "b": nil}, orig)
	assert.Equal(t, Cond{"b": nil, "c": 3}, cloned)
}
