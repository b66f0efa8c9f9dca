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

package isolation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newFixedSoftDelete() *SoftDelete {
	s := NewSoftDelete(DefaultSoftDeletePolicy())
	s.now = func() time.Time { return fixedNow }
	return s
}

// TestPurpose: Validates that every read verb on a non-excluded entity gains
// an is_deleted = false filter when the caller did not reference the flag.
// Expected: Rewritten filter includes the live-rows condition.
func TestSoftDelete_ReadVerbs_FilterDeletedRows(t *testing.T) {
	s := newFixedSoftDelete()
	ctx := context.Background()

	readVerbs := []Verb{VerbFindOne, VerbFindMany, VerbCount, VerbAggregate, VerbGroup}
	for _, verb := range readVerbs {
		t.Run(verb.String(), func(t *testing.T) {
			out, err := s.Intercept(ctx, Command{Entity: "courses", Verb: verb})
			require.NoError(t, err)
			assert.Equal(t, Cond{Field: "is_deleted", Op: OpEq, Value: false}, out.Filter)
		})
	}
}

func TestSoftDelete_ReadWithExistingFilter_AppendsCondition(t *testing.T) {
	s := newFixedSoftDelete()

	in := Command{Entity: "courses", Verb: VerbFindMany, Filter: Eq("title", "Algebra")}
	out, err := s.Intercept(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, And(Eq("title", "Algebra"), Eq("is_deleted", false)), out.Filter)
	// Input command untouched.
	assert.Equal(t, Eq("title", "Algebra"), in.Filter)
}

// TestPurpose: Validates the explicit-override rule: a caller that already
// references the deletion flag keeps its own predicate unchanged.
// Expected: No additional condition is injected, even for a nested reference.
func TestSoftDelete_ExplicitFlagReference_Preserved(t *testing.T) {
	s := newFixedSoftDelete()
	ctx := context.Background()

	in := Command{Entity: "courses", Verb: VerbFindMany, Filter: Eq("is_deleted", true)}
	out, err := s.Intercept(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	nested := Command{
		Entity: "courses",
		Verb:   VerbFindMany,
		Filter: Or(Eq("is_deleted", true), Eq("title", "Archived")),
	}
	out, err = s.Intercept(ctx, nested)
	require.NoError(t, err)
	assert.Equal(t, nested, out)
}

// TestPurpose: Validates the delete-to-update rewrite: the verb changes and
// the payload stamps the deletion marker fields.
// Expected: Verb update, is_deleted = true, deleted_at = now.
func TestSoftDelete_Delete_BecomesTimestampedUpdate(t *testing.T) {
	s := newFixedSoftDelete()

	out, err := s.Intercept(context.Background(), Command{
		Entity: "students",
		Verb:   VerbDelete,
		Filter: Eq("id", "s-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, VerbUpdate, out.Verb)
	assert.Equal(t, Eq("id", "s-1"), out.Filter)
	assert.Equal(t, true, out.Data["is_deleted"])
	assert.Equal(t, fixedNow, out.Data["deleted_at"])
}

func TestSoftDelete_DeleteMany_BecomesUpdateMany(t *testing.T) {
	s := newFixedSoftDelete()

	out, err := s.Intercept(context.Background(), Command{
		Entity: "students",
		Verb:   VerbDeleteMany,
		Filter: Eq("course_id", "c-9"),
	})
	require.NoError(t, err)

	assert.Equal(t, VerbUpdateMany, out.Verb)
	assert.Equal(t, true, out.Data["is_deleted"])
	assert.Equal(t, fixedNow, out.Data["deleted_at"])
}

func TestSoftDelete_Delete_OverridesCallerMarkerFields(t *testing.T) {
	s := newFixedSoftDelete()

	out, err := s.Intercept(context.Background(), Command{
		Entity: "students",
		Verb:   VerbDelete,
		Data:   map[string]any{"is_deleted": false, "deleted_at": nil, "note": "kept"},
	})
	require.NoError(t, err)

	assert.Equal(t, true, out.Data["is_deleted"])
	assert.Equal(t, fixedNow, out.Data["deleted_at"])
	assert.Equal(t, "kept", out.Data["note"])
}

// TestPurpose: Validates the exclusion set bypass: excluded entities are
// returned identical to the input for every verb, delete included.
// Expected: Command passes through byte-for-byte.
func TestSoftDelete_ExcludedEntities_PassThroughAllVerbs(t *testing.T) {
	s := newFixedSoftDelete()
	ctx := context.Background()

	for _, entity := range []string{"system_logs", "audit_logs", "schema_migrations"} {
		for verb := VerbFindOne; verb <= VerbDeleteMany; verb++ {
			in := Command{Entity: entity, Verb: verb, Filter: Eq("id", 1)}
			out, err := s.Intercept(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, in, out, "%s %s must pass through", entity, verb)
		}
	}
}

func TestSoftDelete_CreateAndUpdate_PassThrough(t *testing.T) {
	s := newFixedSoftDelete()
	ctx := context.Background()

	for _, verb := range []Verb{VerbCreate, VerbUpdate, VerbUpdateMany} {
		in := Command{Entity: "courses", Verb: verb, Data: map[string]any{"title": "x"}}
		out, err := s.Intercept(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestSoftDelete_InvalidCommand_Rejected(t *testing.T) {
	s := newFixedSoftDelete()
	ctx := context.Background()

	_, err := s.Intercept(ctx, Command{Verb: VerbFindMany})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = s.Intercept(ctx, Command{Entity: "courses", Verb: Verb(99)})
	assert.ErrorIs(t, err, ErrInvalidCommand)
}
