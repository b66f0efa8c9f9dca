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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps OpenTelemetry meter with the counters the isolation layer and
// transport report into.
type Meter struct {
	meter            metric.Meter
	rewriteFailures  metric.Int64Counter
	commandsExecuted metric.Int64Counter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	name := serviceName
	if !cfg.Enabled {
		name = "noop"
	}
	meter := otel.Meter(name)

	rewriteFailures, err := meter.Int64Counter("isolation_rewrite_failures_total",
		metric.WithDescription("Commands whose isolation rewrite failed"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	commandsExecuted, err := meter.Int64Counter("db_commands_total",
		metric.WithDescription("Database commands executed, by entity and verb"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	return &Meter{
		meter:            meter,
		rewriteFailures:  rewriteFailures,
		commandsExecuted: commandsExecuted,
	}, nil
}

// RecordRewriteFailure counts one failed isolation rewrite.
func (m *Meter) RecordRewriteFailure(ctx context.Context, entity string) {
	m.rewriteFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
}

// RecordCommand counts one executed database command.
func (m *Meter) RecordCommand(ctx context.Context, entity, verb string) {
	m.commandsExecuted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("verb", verb),
	))
}
