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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONObjectRoundTrip(t *testing.T) {
	obj := JSONObject{"name": "alice", "tags": []any{"a", "b"}}

	v, err := obj.Value()
	require.NoError(t, err)
	raw, ok := v.([]byte)
	require.True(t, ok)

	var got JSONObject
	require.NoError(t, got.Scan(raw))
	assert.Equal(t, "alice", got["name"])
	assert.Len(t, got["tags"], 2)
}

func TestJSONObjectNil(t *testing.T) {
	var obj JSONObject
	v, err := obj.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var got JSONObject
	require.NoError(t, got.Scan(nil))
	assert.Empty(t, got)
}

func TestJSONArrayScanRejectsNonBytes(t *testing.T) {
	var arr JSONArray
	assert.Error(t, arr.Scan(42))
}
