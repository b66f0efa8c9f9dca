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

// SoftDeletePolicy names the deletion-marker fields and the entities that
// keep physical delete semantics (system/audit logs, migration bookkeeping).
type SoftDeletePolicy struct {
	FlagField      string
	TimestampField string
	Excluded       map[string]struct{}
}

// DefaultSoftDeletePolicy returns the policy used across the application.
func DefaultSoftDeletePolicy() SoftDeletePolicy {
	return SoftDeletePolicy{
		FlagField:      "is_deleted",
		TimestampField: "deleted_at",
		Excluded: map[string]struct{}{
			"system_logs":       {},
			"audit_logs":        {},
			"schema_migrations": {},
		},
	}
}

// IsExcluded reports whether the entity bypasses soft-delete handling.
func (p SoftDeletePolicy) IsExcluded(entity string) bool {
	_, ok := p.Excluded[entity]
	return ok
}

// TenantPolicy names the tenant identifier field and the global/system
// entities exempt from tenant scoping: tenants themselves, clients, system
// users, logs, migration bookkeeping, and geographic reference tables.
type TenantPolicy struct {
	Field  string
	Exempt map[string]struct{}
}

// DefaultTenantPolicy returns the policy used across the application.
func DefaultTenantPolicy() TenantPolicy {
	return TenantPolicy{
		Field: "tenant_id",
		Exempt: map[string]struct{}{
			"tenants":           {},
			"clients":           {},
			"users":             {},
			"system_logs":       {},
			"audit_logs":        {},
			"schema_migrations": {},
			"countries":         {},
			"provinces":         {},
		},
	}
}

// IsExempt reports whether the entity bypasses tenant scoping.
func (p TenantPolicy) IsExempt(entity string) bool {
	_, ok := p.Exempt[entity]
	return ok
}
