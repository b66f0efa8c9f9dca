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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicate_References_WalksNestedCombinators(t *testing.T) {
	// The field must be detected even when buried under OR/AND, which the
	// top-level-key check of the original design could not do.
	p := And(
		Eq("course_id", 3),
		Or(
			Eq("is_deleted", true),
			And(Eq("title", "x"), Ne("is_deleted", false)),
		),
	)

	assert.True(t, p.References("is_deleted"))
	assert.True(t, p.References("course_id"))
	assert.False(t, p.References("tenant_id"))
}

func TestPredicate_And_DropsNilsAndFlattens(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, And(nil, nil))

	// A single surviving child is returned as-is, not wrapped.
	single := And(nil, Eq("id", 1))
	assert.Equal(t, Cond{Field: "id", Op: OpEq, Value: 1}, single)

	// Nested ANDs flatten into one conjunction.
	nested := And(And(Eq("a", 1), Eq("b", 2)), Eq("c", 3))
	conj, ok := nested.(Conj)
	assert.True(t, ok)
	assert.True(t, conj.And)
	assert.Len(t, conj.Preds, 3)
}

func TestPredicate_Or_KeepsDisjunctionShape(t *testing.T) {
	p := Or(Eq("a", 1), Eq("b", 2))
	conj, ok := p.(Conj)
	assert.True(t, ok)
	assert.False(t, conj.And)
	assert.Len(t, conj.Preds, 2)
}
