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
	"errors"
	"fmt"
	"log/slog"
)

// ErrRewriteFailed reports a rewrite failure under the fail-closed policy.
var ErrRewriteFailed = errors.New("isolation: command rewrite failed")

// Chain applies interceptors in a fixed order: soft delete first, tenant
// scoping second. The ordering is load-bearing for delete verbs and must
// not change.
//
// Error policy is an explicit choice. Fail-closed (default) rejects the
// operation when a rewrite fails: for a multi-tenant boundary, refusing the
// call is safer than silently running it unscoped. Fail-open logs the
// failure and forwards the interceptor's input unmodified, trading the
// isolation guarantee for availability.
type Chain struct {
	interceptors []Interceptor
	failOpen     bool
}

// NewChain builds a chain over the given interceptors.
func NewChain(failOpen bool, interceptors ...Interceptor) *Chain {
	return &Chain{interceptors: interceptors, failOpen: failOpen}
}

// NewDefaultChain builds the standard soft-delete + tenant-scoping chain
// with the default policies.
func NewDefaultChain(failOpen bool) *Chain {
	return NewChain(failOpen,
		NewSoftDelete(DefaultSoftDeletePolicy()),
		NewTenantScope(DefaultTenantPolicy()),
	)
}

// Apply runs the command through every interceptor and returns the rewritten
// command.
func (c *Chain) Apply(ctx context.Context, cmd Command) (Command, error) {
	out := cmd
	for _, ic := range c.interceptors {
		next, err := ic.Intercept(ctx, out)
		if err != nil {
			if !c.failOpen {
				return Command{}, fmt.Errorf("%w: %s %s: %v", ErrRewriteFailed, out.Verb, out.Entity, err)
			}
			slog.ErrorContext(ctx, "isolation rewrite failed, forwarding command unmodified",
				slog.String("entity", out.Entity),
				slog.String("verb", out.Verb.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = next
	}
	return out, nil
}
