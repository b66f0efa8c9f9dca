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
	"errors"
	"fmt"
)

// Verb identifies the kind of database operation a command describes.
// The set is closed; interceptors switch over it exhaustively.
type Verb int

const (
	VerbFindOne Verb = iota
	VerbFindMany
	VerbCount
	VerbAggregate
	VerbGroup
	VerbCreate
	VerbUpdate
	VerbUpdateMany
	VerbDelete
	VerbDeleteMany
)

var verbNames = [...]string{
	"find_one", "find_many", "count", "aggregate", "group",
	"create", "update", "update_many", "delete", "delete_many",
}

func (v Verb) String() string {
	if v < 0 || int(v) >= len(verbNames) {
		return fmt.Sprintf("verb(%d)", int(v))
	}
	return verbNames[v]
}

// IsRead reports whether the verb only observes rows.
func (v Verb) IsRead() bool {
	switch v {
	case VerbFindOne, VerbFindMany, VerbCount, VerbAggregate, VerbGroup:
		return true
	}
	return false
}

// Order is one ORDER BY term.
type Order struct {
	Field string
	Desc  bool
}

// Aggregate is one aggregate term for Aggregate and Group commands.
type Aggregate struct {
	Func  string // count, sum, avg, min, max
	Field string // "*" allowed for count
}

// Command describes one pending database call: the entity it targets, the
// verb, the filter predicate and data payload, plus read shaping. Commands
// are values; interceptors never mutate their input, they return a rewritten
// copy. A command is created by a repository, passed through the interceptor
// chain, compiled to SQL by the dispatcher and then discarded.
type Command struct {
	Entity     string
	Verb       Verb
	Filter     Predicate
	Data       map[string]any
	Columns    []string
	Returning  []string
	OrderBy    []Order
	GroupBy    []string
	Aggregates []Aggregate
	Limit      int
	Offset     int
}

// ErrInvalidCommand reports a malformed command reaching the interceptors.
var ErrInvalidCommand = errors.New("isolation: invalid command")

// Validate checks the structural invariants the interceptors rely on.
func (c Command) Validate() error {
	if c.Entity == "" {
		return fmt.Errorf("%w: empty entity", ErrInvalidCommand)
	}
	if c.Verb < VerbFindOne || c.Verb > VerbDeleteMany {
		return fmt.Errorf("%w: unknown verb %d", ErrInvalidCommand, int(c.Verb))
	}
	return nil
}

// WithFilter returns a copy of the command with the given filter.
func (c Command) WithFilter(p Predicate) Command {
	c.Filter = p
	return c
}

// WithVerb returns a copy of the command with the given verb.
func (c Command) WithVerb(v Verb) Command {
	c.Verb = v
	return c
}

// WithData returns a copy of the command whose data payload is the input
// payload merged with the given overrides. The original map is not touched.
func (c Command) WithData(overrides map[string]any) Command {
	data := make(map[string]any, len(c.Data)+len(overrides))
	for k, v := range c.Data {
		data[k] = v
	}
	for k, v := range overrides {
		data[k] = v
	}
	c.Data = data
	return c
}
