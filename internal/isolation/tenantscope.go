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
)

// TenantScope confines every operation on a tenant-scoped entity to the
// tenant carried by the context scope. It must run after SoftDelete: by then
// a delete has become an update and the tenant predicate lands on the WHERE
// side, not the data side.
type TenantScope struct {
	policy TenantPolicy
}

// NewTenantScope creates the tenant scoping interceptor.
func NewTenantScope(policy TenantPolicy) *TenantScope {
	return &TenantScope{policy: policy}
}

func (t *TenantScope) Intercept(ctx context.Context, cmd Command) (Command, error) {
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}

	scope, ok := ScopeFromContext(ctx)
	if !ok || !scope.Enabled || scope.TenantID == "" || t.policy.IsExempt(cmd.Entity) {
		return cmd, nil
	}

	if cmd.Verb == VerbCreate {
		// Stamp the payload unless the caller set a tenant explicitly
		// (system-initiated cross-tenant creates keep their own value).
		if _, exists := cmd.Data[t.policy.Field]; exists {
			return cmd, nil
		}
		return cmd.WithData(map[string]any{t.policy.Field: scope.TenantID}), nil
	}

	// Reads and mutations alike are filtered. Same override rule as the
	// soft-delete interceptor: an existing reference anywhere in the tree
	// means the caller chose its own tenant predicate.
	if cmd.Filter != nil && cmd.Filter.References(t.policy.Field) {
		return cmd, nil
	}
	return cmd.WithFilter(And(cmd.Filter, Eq(t.policy.Field, scope.TenantID))), nil
}
