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
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlms/openlms/internal/isolation"
	"github.com/openlms/openlms/internal/observability/metrics"
)

// Dispatcher executes commands against the pool. Every command passes the
// isolation chain before compilation; repositories never reach the pool
// directly for entities participating in soft delete or tenant isolation.
type Dispatcher struct {
	db    *DB
	chain *isolation.Chain
	meter *metrics.Meter
}

// NewDispatcher creates a dispatcher over the given pool and chain.
func NewDispatcher(db *DB, chain *isolation.Chain, meter *metrics.Meter) *Dispatcher {
	return &Dispatcher{db: db, chain: chain, meter: meter}
}

// Query runs a read command and returns the row set.
func (d *Dispatcher) Query(ctx context.Context, cmd isolation.Command) (pgx.Rows, error) {
	sql, args, err := d.prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return d.db.pool.Query(ctx, sql, args...)
}

// QueryRow runs a command expected to yield a single row: find-one, count,
// aggregate, or a create/update with a RETURNING clause.
func (d *Dispatcher) QueryRow(ctx context.Context, cmd isolation.Command) (pgx.Row, error) {
	sql, args, err := d.prepare(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return d.db.pool.QueryRow(ctx, sql, args...), nil
}

// Exec runs a mutation command and returns the number of rows affected.
func (d *Dispatcher) Exec(ctx context.Context, cmd isolation.Command) (int64, error) {
	sql, args, err := d.prepare(ctx, cmd)
	if err != nil {
		return 0, err
	}
	tag, err := d.db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s on %s: %w", cmd.Verb, cmd.Entity, err)
	}
	return tag.RowsAffected(), nil
}

func (d *Dispatcher) prepare(ctx context.Context, cmd isolation.Command) (string, []any, error) {
	rewritten, err := d.chain.Apply(ctx, cmd)
	if err != nil {
		if d.meter != nil {
			d.meter.RecordRewriteFailure(ctx, cmd.Entity)
		}
		return "", nil, err
	}
	sql, args, err := Compile(rewritten)
	if err != nil {
		return "", nil, err
	}
	if d.meter != nil {
		d.meter.RecordCommand(ctx, rewritten.Entity, rewritten.Verb.String())
	}
	return sql, args, nil
}
