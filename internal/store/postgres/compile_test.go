// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/openlms/internal/isolation"
)

func TestCompile_FindMany(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity:  "courses",
		Verb:    isolation.VerbFindMany,
		Columns: []string{"id", "title"},
		Filter: isolation.And(
			isolation.Eq("tenant_id", "t-1"),
			isolation.Eq("is_deleted", false),
		),
		OrderBy: []isolation.Order{{Field: "created_at", Desc: true}},
		Limit:   20,
		Offset:  40,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, title FROM courses WHERE tenant_id = $1 AND is_deleted = $2 ORDER BY created_at DESC LIMIT 20 OFFSET 40",
		sql)
	assert.Equal(t, []any{"t-1", false}, args)
}

func TestCompile_FindOne_AlwaysLimitsToOneRow(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbFindOne,
		Filter: isolation.Eq("id", "s-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM students WHERE id = $1 LIMIT 1", sql)
	assert.Equal(t, []any{"s-1"}, args)
}

func TestCompile_NestedPredicate_Parenthesized(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbFindMany,
		Filter: isolation.And(
			isolation.Eq("tenant_id", "t-1"),
			isolation.Or(isolation.Eq("status", "draft"), isolation.Eq("status", "published")),
		),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM courses WHERE tenant_id = $1 AND (status = $2 OR status = $3)",
		sql)
	assert.Equal(t, []any{"t-1", "draft", "published"}, args)
}

func TestCompile_InOperator(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbFindMany,
		Filter: isolation.In("id", "a", "b", "c"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM students WHERE id IN ($1, $2, $3)", sql)
	assert.Equal(t, []any{"a", "b", "c"}, args)

	// Empty membership set matches nothing rather than exploding.
	sql, args, err = Compile(isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbFindMany,
		Filter: isolation.In("id"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM students WHERE FALSE", sql)
	assert.Empty(t, args)
}

func TestCompile_Count(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity: "notifications",
		Verb:   isolation.VerbCount,
		Filter: isolation.Eq("read", false),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM notifications WHERE read = $1", sql)
	assert.Equal(t, []any{false}, args)
}

func TestCompile_Group(t *testing.T) {
	sql, _, err := Compile(isolation.Command{
		Entity:     "courses",
		Verb:       isolation.VerbGroup,
		GroupBy:    []string{"status"},
		Aggregates: []isolation.Aggregate{{Func: "count", Field: "*"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT status, count(*) FROM courses GROUP BY status", sql)
}

func TestCompile_Insert_DeterministicColumnOrder(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity: "students",
		Verb:   isolation.VerbCreate,
		Data: map[string]any{
			"id":        "s-1",
			"full_name": "Ada",
			"email":     "ada@example.com",
		},
		Returning: []string{"created_at"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO students (email, full_name, id) VALUES ($1, $2, $3) RETURNING created_at",
		sql)
	assert.Equal(t, []any{"ada@example.com", "Ada", "s-1"}, args)
}

func TestCompile_Update(t *testing.T) {
	sql, args, err := Compile(isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbUpdate,
		Filter: isolation.Eq("id", "c-1"),
		Data:   map[string]any{"title": "New", "status": "published"},
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE courses SET status = $1, title = $2 WHERE id = $3", sql)
	assert.Equal(t, []any{"published", "New", "c-1"}, args)
}

func TestCompile_UpdateWithoutFilter_Rejected(t *testing.T) {
	_, _, err := Compile(isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbUpdate,
		Data:   map[string]any{"title": "x"},
	})
	assert.ErrorIs(t, err, ErrUnsafeCommand)
}

// Physical deletes never compile: the soft-delete rewrite is the only path.
func TestCompile_Delete_Refused(t *testing.T) {
	for _, verb := range []isolation.Verb{isolation.VerbDelete, isolation.VerbDeleteMany} {
		_, _, err := Compile(isolation.Command{Entity: "courses", Verb: verb})
		assert.ErrorIs(t, err, ErrPhysicalDelete)
	}
}

func TestCompile_RejectsUnsafeIdentifiers(t *testing.T) {
	_, _, err := Compile(isolation.Command{Entity: "courses; DROP TABLE courses", Verb: isolation.VerbFindMany})
	assert.ErrorIs(t, err, ErrUnsafeCommand)

	_, _, err = Compile(isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbFindMany,
		Filter: isolation.Eq("title = '' OR 1=1 --", "x"),
	})
	assert.ErrorIs(t, err, ErrUnsafeCommand)

	_, _, err = Compile(isolation.Command{
		Entity: "courses",
		Verb:   isolation.VerbCreate,
		Data:   map[string]any{"bad column": 1},
	})
	assert.ErrorIs(t, err, ErrUnsafeCommand)
}
