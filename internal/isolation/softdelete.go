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
	"time"
)

// Interceptor rewrites a command before it reaches the dispatcher.
// Implementations must treat the input as immutable and return a new value.
type Interceptor interface {
	Intercept(ctx context.Context, cmd Command) (Command, error)
}

// SoftDelete makes every non-excluded entity behave as if deleted rows do
// not exist: reads are filtered to live rows unless the caller explicitly
// references the deletion flag, and delete verbs become timestamped updates.
type SoftDelete struct {
	policy SoftDeletePolicy
	now    func() time.Time
}

// NewSoftDelete creates the soft-delete interceptor.
func NewSoftDelete(policy SoftDeletePolicy) *SoftDelete {
	return &SoftDelete{policy: policy, now: time.Now}
}

func (s *SoftDelete) Intercept(ctx context.Context, cmd Command) (Command, error) {
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}

	// Exclusion wins before verb inspection: excluded entities are never
	// subject to verb rewriting either.
	if s.policy.IsExcluded(cmd.Entity) {
		return cmd, nil
	}

	switch {
	case cmd.Verb.IsRead():
		// Explicit override permitted: a caller that already references the
		// flag (at any depth of the tree) intends to see deleted rows.
		if cmd.Filter != nil && cmd.Filter.References(s.policy.FlagField) {
			return cmd, nil
		}
		return cmd.WithFilter(And(cmd.Filter, Eq(s.policy.FlagField, false))), nil

	case cmd.Verb == VerbDelete:
		return s.rewriteDelete(cmd, VerbUpdate), nil

	case cmd.Verb == VerbDeleteMany:
		return s.rewriteDelete(cmd, VerbUpdateMany), nil
	}

	return cmd, nil
}

// rewriteDelete turns a delete into an update that stamps the deletion
// marker fields, overriding any caller-supplied values for them. The filter
// is left to the caller: deleting an already-deleted row is a no-op update.
func (s *SoftDelete) rewriteDelete(cmd Command, verb Verb) Command {
	return cmd.WithVerb(verb).WithData(map[string]any{
		s.policy.FlagField:      true,
		s.policy.TimestampField: s.now().UTC(),
	})
}
