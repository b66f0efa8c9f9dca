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

// Op is a comparison operator in a filter predicate.
type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "<>"
	OpLt      Op = "<"
	OpLte     Op = "<="
	OpGt      Op = ">"
	OpGte     Op = ">="
	OpIn      Op = "IN"
	OpLike    Op = "LIKE"
	OpIsNull  Op = "IS NULL"
	OpNotNull Op = "IS NOT NULL"
)

// Predicate is a filter expression tree. The closed node set (field
// comparison, AND, OR) keeps presence checks exhaustive: References walks
// the whole tree, so a field nested under combinators is still detected.
type Predicate interface {
	// References reports whether the predicate mentions the given field
	// anywhere in the tree.
	References(field string) bool
}

// Cond is a single field comparison.
type Cond struct {
	Field string
	Op    Op
	Value any
}

func (c Cond) References(field string) bool { return c.Field == field }

// Conj is an AND or OR over child predicates.
type Conj struct {
	And   bool
	Preds []Predicate
}

func (c Conj) References(field string) bool {
	for _, p := range c.Preds {
		if p != nil && p.References(field) {
			return true
		}
	}
	return false
}

// Eq builds an equality comparison.
func Eq(field string, value any) Predicate { return Cond{Field: field, Op: OpEq, Value: value} }

// Ne builds an inequality comparison.
func Ne(field string, value any) Predicate { return Cond{Field: field, Op: OpNe, Value: value} }

// Lt builds a less-than comparison.
func Lt(field string, value any) Predicate { return Cond{Field: field, Op: OpLt, Value: value} }

// Gte builds a greater-or-equal comparison.
func Gte(field string, value any) Predicate { return Cond{Field: field, Op: OpGte, Value: value} }

// In builds a set membership comparison. Values render as a positional list.
func In(field string, values ...any) Predicate {
	return Cond{Field: field, Op: OpIn, Value: values}
}

// Like builds a pattern comparison.
func Like(field, pattern string) Predicate {
	return Cond{Field: field, Op: OpLike, Value: pattern}
}

// IsNull builds a null check.
func IsNull(field string) Predicate { return Cond{Field: field, Op: OpIsNull} }

// And conjoins predicates, dropping nils and flattening nested ANDs.
// Returns nil when nothing remains, and the sole child when only one does.
func And(preds ...Predicate) Predicate { return conjoin(true, preds) }

// Or disjoins predicates with the same nil handling as And.
func Or(preds ...Predicate) Predicate { return conjoin(false, preds) }

func conjoin(and bool, preds []Predicate) Predicate {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		if c, ok := p.(Conj); ok && c.And == and {
			out = append(out, c.Preds...)
			continue
		}
		out = append(out, p)
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return Conj{And: and, Preds: out}
}
