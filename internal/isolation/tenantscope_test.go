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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates tenant filter injection for reads and mutations on
// tenant-scoped entities while a tenant scope is active.
// Security: Multi-tenant boundary enforcement.
// Expected: The rewritten filter carries tenant_id = <active tenant>.
func TestTenantScope_FilterInjection_AllScopedVerbs(t *testing.T) {
	ts := NewTenantScope(DefaultTenantPolicy())
	ctx := WithTenant(context.Background(), "t-7")

	verbs := []Verb{
		VerbFindOne, VerbFindMany, VerbCount, VerbAggregate,
		VerbUpdate, VerbUpdateMany, VerbDelete, VerbDeleteMany,
	}
	for _, verb := range verbs {
		t.Run(verb.String(), func(t *testing.T) {
			out, err := ts.Intercept(ctx, Command{Entity: "students", Verb: verb, Filter: Eq("id", 42)})
			require.NoError(t, err)
			assert.Equal(t, And(Eq("id", 42), Eq("tenant_id", "t-7")), out.Filter)
		})
	}
}

// TestPurpose: Validates tenant stamping on create payloads.
// Expected: tenant_id is added to the data payload when absent and preserved
// when the caller set it explicitly (system-initiated cross-tenant create).
func TestTenantScope_Create_StampsPayload(t *testing.T) {
	ts := NewTenantScope(DefaultTenantPolicy())
	ctx := WithTenant(context.Background(), "t-7")

	out, err := ts.Intercept(ctx, Command{
		Entity: "students",
		Verb:   VerbCreate,
		Data:   map[string]any{"full_name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t-7", out.Data["tenant_id"])
	assert.Equal(t, "Ada", out.Data["full_name"])

	explicit, err := ts.Intercept(ctx, Command{
		Entity: "students",
		Verb:   VerbCreate,
		Data:   map[string]any{"tenant_id": "t-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t-9", explicit.Data["tenant_id"])
}

func TestTenantScope_ExistingTenantPredicate_Preserved(t *testing.T) {
	ts := NewTenantScope(DefaultTenantPolicy())
	ctx := WithTenant(context.Background(), "t-7")

	in := Command{
		Entity: "students",
		Verb:   VerbFindMany,
		Filter: Or(Eq("tenant_id", "t-1"), Eq("tenant_id", "t-2")),
	}
	out, err := ts.Intercept(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// TestPurpose: Validates the exemption bypass: exempt entities and disabled
// scopes never receive a tenant predicate regardless of active tenant.
// Expected: Commands pass through unchanged.
func TestTenantScope_ExemptOrUnscoped_PassThrough(t *testing.T) {
	ts := NewTenantScope(DefaultTenantPolicy())

	exemptCtx := WithTenant(context.Background(), "t-7")
	for _, entity := range []string{"tenants", "clients", "users", "system_logs", "countries"} {
		in := Command{Entity: entity, Verb: VerbFindMany}
		out, err := ts.Intercept(exemptCtx, in)
		require.NoError(t, err)
		assert.Equal(t, in, out, "exempt entity %s must pass through", entity)
	}

	in := Command{Entity: "students", Verb: VerbFindMany}

	// No scope at all.
	out, err := ts.Intercept(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// Explicitly disabled scope.
	out, err = ts.Intercept(WithoutIsolation(context.Background()), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestScope_ContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := ScopeFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, TenantID(ctx))

	scoped := WithTenant(ctx, "t-1")
	s, ok := ScopeFromContext(scoped)
	require.True(t, ok)
	assert.True(t, s.Enabled)
	assert.Equal(t, "t-1", s.TenantID)
	assert.Equal(t, "t-1", TenantID(scoped))

	cleared := WithoutIsolation(scoped)
	s, ok = ScopeFromContext(cleared)
	require.True(t, ok)
	assert.False(t, s.Enabled)
	assert.Empty(t, TenantID(cleared))

	// The parent scope is untouched by the derived context.
	assert.Equal(t, "t-1", TenantID(scoped))
}
