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
	"log/slog"
)

// Scope is the tenant scope of one unit of work. It travels inside the
// request's context.Context, never in package-level state: two requests for
// different tenants interleaving on the same process each see their own
// scope. A scope with a tenant id is always enabled.
type Scope struct {
	Enabled  bool
	TenantID string
}

// scopeKey is a private type to prevent collisions with other context keys.
type scopeKey struct{}

// WithTenant returns a context whose database operations are scoped to the
// given tenant. The caller is responsible for supplying a real tenant id.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, scopeKey{}, Scope{Enabled: true, TenantID: tenantID})
}

// WithoutIsolation returns a context whose database operations run unscoped.
// Used for platform-level cross-tenant work (platform admin queries,
// bootstrap, maintenance jobs).
func WithoutIsolation(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, Scope{})
}

// ScopeFromContext retrieves the scope from the context.
// Returns a zero scope and false if none was set.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok
}

// TenantID returns the active tenant id, or "" when isolation is off.
func TenantID(ctx context.Context) string {
	s, ok := ScopeFromContext(ctx)
	if !ok || !s.Enabled {
		return ""
	}
	return s.TenantID
}

// LoggerAttr returns a slog attribute for the active tenant, if any.
func LoggerAttr(ctx context.Context) (slog.Attr, bool) {
	if id := TenantID(ctx); id != "" {
		return slog.String("tenant_id", id), true
	}
	return slog.Attr{}, false
}
