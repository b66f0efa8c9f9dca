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
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/openlms/openlms/internal/isolation"
)

// ErrPhysicalDelete reports a delete verb reaching the compiler. Deletes
// must have been rewritten into updates by the isolation chain; refusing to
// compile them makes the soft-delete invariant structural. The cleanup job
// purges aged rows out of band with raw SQL.
var ErrPhysicalDelete = errors.New("postgres: physical delete is not supported, command must pass the isolation chain")

// ErrUnsafeCommand reports a command the compiler refuses to render.
var ErrUnsafeCommand = errors.New("postgres: unsafe command")

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var aggregateFuncs = map[string]struct{}{
	"count": {}, "sum": {}, "avg": {}, "min": {}, "max": {},
}

// Compile renders a post-interception command into SQL with positional
// arguments. Entity and field names come from repository code, never from
// request input; they are still validated against a strict identifier shape.
func Compile(cmd isolation.Command) (string, []any, error) {
	if err := cmd.Validate(); err != nil {
		return "", nil, err
	}
	if !identRe.MatchString(cmd.Entity) {
		return "", nil, fmt.Errorf("%w: entity %q", ErrUnsafeCommand, cmd.Entity)
	}

	switch cmd.Verb {
	case isolation.VerbFindOne, isolation.VerbFindMany:
		return compileSelect(cmd)
	case isolation.VerbCount:
		return compileCount(cmd)
	case isolation.VerbAggregate, isolation.VerbGroup:
		return compileAggregate(cmd)
	case isolation.VerbCreate:
		return compileInsert(cmd)
	case isolation.VerbUpdate, isolation.VerbUpdateMany:
		return compileUpdate(cmd)
	case isolation.VerbDelete, isolation.VerbDeleteMany:
		return "", nil, ErrPhysicalDelete
	}
	return "", nil, fmt.Errorf("%w: verb %s", ErrUnsafeCommand, cmd.Verb)
}

func compileSelect(cmd isolation.Command) (string, []any, error) {
	cols := "*"
	if len(cmd.Columns) > 0 {
		list, err := identList(cmd.Columns)
		if err != nil {
			return "", nil, err
		}
		cols = list
	}

	var b strings.Builder
	var args []any
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, cmd.Entity)
	if err := writeWhere(&b, &args, cmd.Filter); err != nil {
		return "", nil, err
	}
	if err := writeOrderBy(&b, cmd.OrderBy); err != nil {
		return "", nil, err
	}

	if cmd.Verb == isolation.VerbFindOne {
		b.WriteString(" LIMIT 1")
	} else {
		if cmd.Limit > 0 {
			fmt.Fprintf(&b, " LIMIT %d", cmd.Limit)
		}
		if cmd.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", cmd.Offset)
		}
	}
	return b.String(), args, nil
}

func compileCount(cmd isolation.Command) (string, []any, error) {
	var b strings.Builder
	var args []any
	fmt.Fprintf(&b, "SELECT count(*) FROM %s", cmd.Entity)
	if err := writeWhere(&b, &args, cmd.Filter); err != nil {
		return "", nil, err
	}
	return b.String(), args, nil
}

func compileAggregate(cmd isolation.Command) (string, []any, error) {
	if len(cmd.Aggregates) == 0 {
		return "", nil, fmt.Errorf("%w: aggregate without aggregate terms", ErrUnsafeCommand)
	}

	terms := make([]string, 0, len(cmd.GroupBy)+len(cmd.Aggregates))
	if cmd.Verb == isolation.VerbGroup {
		if len(cmd.GroupBy) == 0 {
			return "", nil, fmt.Errorf("%w: group without group-by fields", ErrUnsafeCommand)
		}
		for _, g := range cmd.GroupBy {
			if !identRe.MatchString(g) {
				return "", nil, fmt.Errorf("%w: group-by field %q", ErrUnsafeCommand, g)
			}
			terms = append(terms, g)
		}
	}
	for _, a := range cmd.Aggregates {
		fn := strings.ToLower(a.Func)
		if _, ok := aggregateFuncs[fn]; !ok {
			return "", nil, fmt.Errorf("%w: aggregate func %q", ErrUnsafeCommand, a.Func)
		}
		field := a.Field
		if field != "*" && !identRe.MatchString(field) {
			return "", nil, fmt.Errorf("%w: aggregate field %q", ErrUnsafeCommand, a.Field)
		}
		terms = append(terms, fmt.Sprintf("%s(%s)", fn, field))
	}

	var b strings.Builder
	var args []any
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(terms, ", "), cmd.Entity)
	if err := writeWhere(&b, &args, cmd.Filter); err != nil {
		return "", nil, err
	}
	if cmd.Verb == isolation.VerbGroup {
		fmt.Fprintf(&b, " GROUP BY %s", strings.Join(cmd.GroupBy, ", "))
	}
	return b.String(), args, nil
}

func compileInsert(cmd isolation.Command) (string, []any, error) {
	if len(cmd.Data) == 0 {
		return "", nil, fmt.Errorf("%w: create without data", ErrUnsafeCommand)
	}
	keys := sortedKeys(cmd.Data)
	cols, err := identList(keys)
	if err != nil {
		return "", nil, err
	}

	args := make([]any, 0, len(keys))
	ph := make([]string, 0, len(keys))
	for i, k := range keys {
		args = append(args, cmd.Data[k])
		ph = append(ph, fmt.Sprintf("$%d", i+1))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)", cmd.Entity, cols, strings.Join(ph, ", "))
	if len(cmd.Returning) > 0 {
		ret, err := identList(cmd.Returning)
		if err != nil {
			return "", nil, err
		}
		fmt.Fprintf(&b, " RETURNING %s", ret)
	}
	return b.String(), args, nil
}

func compileUpdate(cmd isolation.Command) (string, []any, error) {
	if len(cmd.Data) == 0 {
		return "", nil, fmt.Errorf("%w: update without data", ErrUnsafeCommand)
	}
	// A single-row update must be targeted; only the bulk verb may run
	// filterless (and then only after tenant scoping had its say).
	if cmd.Verb == isolation.VerbUpdate && cmd.Filter == nil {
		return "", nil, fmt.Errorf("%w: update without filter", ErrUnsafeCommand)
	}

	keys := sortedKeys(cmd.Data)
	var b strings.Builder
	var args []any
	fmt.Fprintf(&b, "UPDATE %s SET ", cmd.Entity)
	for i, k := range keys {
		if !identRe.MatchString(k) {
			return "", nil, fmt.Errorf("%w: column %q", ErrUnsafeCommand, k)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		args = append(args, cmd.Data[k])
		fmt.Fprintf(&b, "%s = $%d", k, len(args))
	}
	if err := writeWhere(&b, &args, cmd.Filter); err != nil {
		return "", nil, err
	}
	if len(cmd.Returning) > 0 {
		ret, err := identList(cmd.Returning)
		if err != nil {
			return "", nil, err
		}
		fmt.Fprintf(&b, " RETURNING %s", ret)
	}
	return b.String(), args, nil
}

func writeOrderBy(b *strings.Builder, orders []isolation.Order) error {
	if len(orders) == 0 {
		return nil
	}
	terms := make([]string, 0, len(orders))
	for _, o := range orders {
		if !identRe.MatchString(o.Field) {
			return fmt.Errorf("%w: order-by field %q", ErrUnsafeCommand, o.Field)
		}
		term := o.Field
		if o.Desc {
			term += " DESC"
		}
		terms = append(terms, term)
	}
	fmt.Fprintf(b, " ORDER BY %s", strings.Join(terms, ", "))
	return nil
}

func writeWhere(b *strings.Builder, args *[]any, p isolation.Predicate) error {
	if p == nil {
		return nil
	}
	clause, err := compilePredicate(p, args)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, " WHERE %s", clause)
	return nil
}

func compilePredicate(p isolation.Predicate, args *[]any) (string, error) {
	switch node := p.(type) {
	case isolation.Cond:
		return compileCond(node, args)
	case isolation.Conj:
		op := " AND "
		if !node.And {
			op = " OR "
		}
		parts := make([]string, 0, len(node.Preds))
		for _, child := range node.Preds {
			if child == nil {
				continue
			}
			part, err := compilePredicate(child, args)
			if err != nil {
				return "", err
			}
			if _, nested := child.(isolation.Conj); nested {
				part = "(" + part + ")"
			}
			parts = append(parts, part)
		}
		if len(parts) == 0 {
			return "", fmt.Errorf("%w: empty conjunction", ErrUnsafeCommand)
		}
		return strings.Join(parts, op), nil
	}
	return "", fmt.Errorf("%w: unknown predicate node %T", ErrUnsafeCommand, p)
}

func compileCond(c isolation.Cond, args *[]any) (string, error) {
	if !identRe.MatchString(c.Field) {
		return "", fmt.Errorf("%w: field %q", ErrUnsafeCommand, c.Field)
	}

	switch c.Op {
	case isolation.OpIsNull:
		return c.Field + " IS NULL", nil
	case isolation.OpNotNull:
		return c.Field + " IS NOT NULL", nil
	case isolation.OpIn:
		values, ok := c.Value.([]any)
		if !ok {
			return "", fmt.Errorf("%w: IN on %s requires a value list", ErrUnsafeCommand, c.Field)
		}
		if len(values) == 0 {
			// Empty set matches nothing.
			return "FALSE", nil
		}
		ph := make([]string, 0, len(values))
		for _, v := range values {
			*args = append(*args, v)
			ph = append(ph, fmt.Sprintf("$%d", len(*args)))
		}
		return fmt.Sprintf("%s IN (%s)", c.Field, strings.Join(ph, ", ")), nil
	case isolation.OpEq, isolation.OpNe, isolation.OpLt, isolation.OpLte, isolation.OpGt, isolation.OpGte, isolation.OpLike:
		*args = append(*args, c.Value)
		return fmt.Sprintf("%s %s $%d", c.Field, c.Op, len(*args)), nil
	}
	return "", fmt.Errorf("%w: operator %q", ErrUnsafeCommand, c.Op)
}

func identList(names []string) (string, error) {
	for _, n := range names {
		if !identRe.MatchString(n) {
			return "", fmt.Errorf("%w: identifier %q", ErrUnsafeCommand, n)
		}
	}
	return strings.Join(names, ", "), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
